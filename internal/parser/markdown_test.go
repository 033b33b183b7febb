package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_NumbersHeadings(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	parsed, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", parsed.Title)
	}
	if len(parsed.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(parsed.Pages))
	}

	lines := strings.Split(parsed.Pages[0].Text, "\n\n")
	want := []string{
		"1. Title",
		"Intro text.",
		"1.1 Section A",
		"Section A content.",
		"1.1.1 Subsection A1",
		"Subsection A1 content.",
		"1.2 Section B",
		"Section B content.",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d blocks, got %d: %q", len(want), len(lines), lines)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("block %d: expected %q, got %q", i, w, lines[i])
		}
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	p := &MarkdownParser{}
	parsed, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := parsed.Pages[0].Text
	if !strings.Contains(text, "Just some plain text.") || !strings.Contains(text, "Another paragraph here.") {
		t.Errorf("expected both paragraphs, got %q", text)
	}
}

func TestMarkdownParser_CodeBlocks(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n## Endpoints\n\nList of endpoints:\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	parsed, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := parsed.Pages[0].Text
	for _, want := range []string{"1. API Reference", "1.1 Endpoints", "GET /api/users", "More text after code."} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %q", want, text)
		}
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	parsed, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed.Pages) != 0 {
		t.Errorf("expected 0 pages for empty input, got %d", len(parsed.Pages))
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		parsed, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if parsed.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, parsed.Title)
		}
	}
}

func TestMarkdownParser_InlineAndListText(t *testing.T) {
	input := "Intro with **bold** and `code` words.\n\n- first item\n- second item\n"

	p := &MarkdownParser{}
	parsed, err := p.Parse(strings.NewReader(input), "inline.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blocks := strings.Split(parsed.Pages[0].Text, "\n\n")
	want := []string{
		"Intro with bold and code words.",
		"first item\nsecond item",
	}
	if len(blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d: %q", len(want), len(blocks), blocks)
	}
	for i, w := range want {
		if blocks[i] != w {
			t.Errorf("block %d: expected %q, got %q", i, w, blocks[i])
		}
	}
}
