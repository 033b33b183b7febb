// Package chunker turns a document's raw text and outline into retrievable
// segments.
package chunker

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docintel/internal/doctree"
	"github.com/dgallion1/docintel/internal/nlp"
)

// Config controls segmentation.
type Config struct {
	ChunkSize  int // Fixed chunk length in characters when there is no outline.
	Stride     int // Distance between chunk starts; ChunkSize-Stride chars overlap.
	MinContent int // Segments whose trimmed content is not longer than this are dropped.
	MaxContent int // Stored content is truncated to this many characters.
}

// DefaultConfig returns the standard segmentation settings.
func DefaultConfig() Config {
	return Config{
		ChunkSize:  1000,
		Stride:     800,
		MinContent: 50,
		MaxContent: 1000,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.Stride <= 0 || c.Stride > c.ChunkSize {
		c.Stride = min(d.Stride, c.ChunkSize)
	}
	if c.MinContent <= 0 {
		c.MinContent = d.MinContent
	}
	if c.MaxContent <= 0 {
		c.MaxContent = d.MaxContent
	}
	return c
}

// Segment splits raw into segments. With a non-empty outline each section
// yields the text up to the next section's start; without one the text is cut
// into overlapping fixed-size chunks. Embeddings are left empty for the
// caller to fill.
func Segment(raw string, sections []doctree.Section, cfg Config) []doctree.Segment {
	cfg = cfg.withDefaults()
	if len(sections) > 0 {
		return sectionSegments(raw, sections, cfg)
	}
	return chunkSegments(raw, cfg)
}

func sectionSegments(raw string, sections []doctree.Section, cfg Config) []doctree.Segment {
	var segs []doctree.Segment
	for i, sec := range sections {
		start := clamp(sec.Start, 0, len(raw))
		end := len(raw)
		if i+1 < len(sections) {
			end = clamp(sections[i+1].Start, start, len(raw))
		}
		content := strings.TrimSpace(raw[start:end])
		if len([]rune(content)) <= cfg.MinContent {
			continue
		}
		sectionID := sec.ID
		if sectionID == "" {
			sectionID = fmt.Sprintf("section_%d", i)
		}
		segs = append(segs, doctree.Segment{
			SectionID: sectionID,
			Title:     sec.Text,
			Content:   nlp.Truncate(content, cfg.MaxContent),
			Page:      max(sec.Page, 1),
		})
	}
	return segs
}

func chunkSegments(raw string, cfg Config) []doctree.Segment {
	var segs []doctree.Segment
	for i, chunk := range Windows(raw, cfg.ChunkSize, cfg.Stride) {
		if len([]rune(strings.TrimSpace(chunk))) <= cfg.MinContent {
			continue
		}
		segs = append(segs, doctree.Segment{
			SectionID: fmt.Sprintf("chunk_%d", i),
			Title:     fmt.Sprintf("Chunk %d", i+1),
			Content:   chunk,
			Page:      1,
		})
	}
	return segs
}

// Windows returns the substrings of text of up to size characters starting
// every stride characters.
func Windows(text string, size, stride int) []string {
	if size <= 0 || stride <= 0 {
		return nil
	}
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); i += stride {
		out = append(out, string(runes[i:min(i+size, len(runes))]))
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
