package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/docintel/internal/doctree"
	"github.com/dgallion1/docintel/internal/outline"
)

func TestSegment_SectionAligned(t *testing.T) {
	body := strings.Repeat("Travel budgets vary widely by season and region. ", 3)
	raw := "1. Introduction\n" + body + "\n1.1 Overview\nShort.\n2. Results\n" + body
	sections := outline.PatternStrategy{}.Extract(outline.Source{Text: raw}).Sections

	segs := Segment(raw, sections, DefaultConfig())

	// "1.1 Overview\nShort." is too short to keep.
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].Title != "1. Introduction" || segs[1].Title != "2. Results" {
		t.Errorf("unexpected titles %q, %q", segs[0].Title, segs[1].Title)
	}
	if !strings.HasPrefix(segs[0].Content, "1. Introduction") {
		t.Errorf("section content should start at the heading, got %q", segs[0].Content)
	}
	if strings.Contains(segs[0].Content, "Overview") {
		t.Errorf("section content should stop at the next heading, got %q", segs[0].Content)
	}
	if segs[0].SectionID != "section_0" || segs[1].SectionID != "section_2" {
		t.Errorf("unexpected section ids %q, %q", segs[0].SectionID, segs[1].SectionID)
	}
	for _, s := range segs {
		if s.Page != 1 {
			t.Errorf("expected page 1, got %d", s.Page)
		}
	}
}

func TestSegment_TruncatesContent(t *testing.T) {
	raw := "OVERVIEW\n" + strings.Repeat("x", 3000)
	sections := []doctree.Section{{Text: "OVERVIEW", Level: 1, Page: 2, Start: 0, End: 8}}

	segs := Segment(raw, sections, DefaultConfig())
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if n := len([]rune(segs[0].Content)); n != 1000 {
		t.Errorf("expected content truncated to 1000 chars, got %d", n)
	}
	if segs[0].Page != 2 {
		t.Errorf("expected inherited page 2, got %d", segs[0].Page)
	}
}

func TestSegment_OutOfRangeOffsetsAreClamped(t *testing.T) {
	raw := strings.Repeat("word ", 40)
	sections := []doctree.Section{
		{Text: "A", Start: -5},
		{Text: "B", Start: 10_000},
	}
	segs := Segment(raw, sections, DefaultConfig())
	if len(segs) != 1 || segs[0].Title != "A" {
		t.Fatalf("expected only the first section to survive, got %+v", segs)
	}
}

func TestWindows_FourChunksFor2500Chars(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := Windows(text, 1000, 800)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	wantLens := []int{1000, 1000, 900, 100}
	for i, c := range chunks {
		if len(c) != wantLens[i] {
			t.Errorf("chunk %d: expected length %d, got %d", i, wantLens[i], len(c))
		}
	}
}

func TestSegment_ChunkFallback(t *testing.T) {
	text := strings.Repeat("abcdefghij", 250) + strings.Repeat(" ", 30)
	segs := Segment(text, nil, DefaultConfig())

	// Windows at 0, 800, 1600 and 2400; the last holds 100 letters + spaces.
	if len(segs) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(segs))
	}
	for i, s := range segs {
		if s.Page != 1 {
			t.Errorf("segment %d: expected page 1, got %d", i, s.Page)
		}
	}
	if segs[0].Title != "Chunk 1" || segs[3].Title != "Chunk 4" {
		t.Errorf("unexpected chunk titles %q, %q", segs[0].Title, segs[3].Title)
	}
	if segs[2].SectionID != "chunk_2" {
		t.Errorf("unexpected synthetic section id %q", segs[2].SectionID)
	}
	// Overlap: chunk 2 starts 800 characters into the text.
	if segs[1].Content[:200] != segs[0].Content[800:] {
		t.Error("expected 200 characters of overlap between consecutive chunks")
	}
}

func TestSegment_DropsShortContent(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n  ",
		"tiny",
		strings.Repeat(" ", 900) + "short tail",
	}
	for _, in := range inputs {
		for _, s := range Segment(in, nil, DefaultConfig()) {
			if len(strings.TrimSpace(s.Content)) <= 50 {
				t.Errorf("input %q produced short segment %q", in, s.Content)
			}
		}
	}
	if segs := Segment("", nil, DefaultConfig()); len(segs) != 0 {
		t.Errorf("expected no segments for empty text, got %d", len(segs))
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.ChunkSize != 1000 || cfg.Stride != 800 || cfg.MaxContent != 1000 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	cfg = Config{ChunkSize: 100, Stride: 500}.withDefaults()
	if cfg.Stride != 100 {
		t.Errorf("stride larger than chunk size should be capped, got %d", cfg.Stride)
	}
}
