package parser

import (
	"strings"
	"testing"
)

func TestTextParser_CollapsesBlankLines(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\n\n\nSecond paragraph.\n   \nThird paragraph."
	p := &TextParser{}
	parsed, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", parsed.Title)
	}
	if len(parsed.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(parsed.Pages))
	}
	want := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	if parsed.Pages[0].Text != want {
		t.Errorf("page text:\n got %q\nwant %q", parsed.Pages[0].Text, want)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	parsed, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", parsed.Title)
	}
	if len(parsed.Pages) != 0 {
		t.Errorf("expected 0 pages for empty input, got %d", len(parsed.Pages))
	}
}

func TestTextParser_FormFeedPages(t *testing.T) {
	p := &TextParser{}
	parsed, err := p.Parse(strings.NewReader("Page one text\n\fPage two text\n\f"), "layout.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(parsed.Pages))
	}
	for i, pg := range parsed.Pages {
		if pg.Number != i+1 {
			t.Errorf("page %d numbered %d", i, pg.Number)
		}
	}
	if !strings.Contains(parsed.Pages[1].Text, "Page two text") {
		t.Errorf("second page = %q", parsed.Pages[1].Text)
	}
}

func TestSplitPages(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"single", 1},
		{"a\fb", 2},
		{"a\fb\f", 2},
		{"a\f\fc", 3},
	}
	for _, tt := range tests {
		if got := len(splitPages(tt.in)); got != tt.want {
			t.Errorf("splitPages(%q) = %d pages, want %d", tt.in, got, tt.want)
		}
	}
}
