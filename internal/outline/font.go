package outline

import (
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docintel/internal/doctree"
)

// Size ratios against the body font size.
const (
	titleRatio = 1.8
	h1Ratio    = 1.4
	h2Ratio    = 1.2
	h3Ratio    = 1.05
)

// FontStrategy classifies merged lines by font size relative to the body
// text size.
type FontStrategy struct{}

func (FontStrategy) Name() string { return "font" }

// Extract merges src.Spans into lines and classifies each one. The first
// title-sized line becomes the outline title; later ones are demoted to H1.
func (FontStrategy) Extract(src Source) doctree.Outline {
	out := doctree.Outline{Title: doctree.UntitledDocument}

	lines := MergeLines(src.Spans)
	body := BodySize(lines)
	if body <= 0 {
		return out
	}

	titled := false
	for _, ln := range lines {
		level := 0
		switch ratio := ln.Size / body; {
		case ratio >= titleRatio:
			if !titled {
				out.Title = ln.Text
				titled = true
				continue
			}
			level = 1
		case ratio >= h1Ratio:
			level = 1
		case ratio >= h2Ratio:
			level = 2
		case ratio >= h3Ratio || ln.Bold:
			level = 3
		default:
			continue
		}
		out.Sections = append(out.Sections, doctree.Section{
			Text:  ln.Text,
			Level: level,
			Page:  ln.Page + 1,
		})
	}
	return out
}

// MergeLines groups spans by page and line key, orders each group by x and
// joins the texts with a space. The line size is the largest span size and
// the line is bold if any span is. Spans of one character or less are noise
// and are skipped.
func MergeLines(spans []doctree.Span) []doctree.Line {
	kept := make([]doctree.Span, 0, len(spans))
	for _, s := range spans {
		s.Text = strings.TrimSpace(s.Text)
		if len([]rune(s.Text)) <= 1 {
			continue
		}
		s.Size = math.Round(s.Size*10) / 10
		kept = append(kept, s)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.X < b.X
	})

	var lines []doctree.Line
	for i := 0; i < len(kept); {
		j := i
		var texts []string
		ln := doctree.Line{Page: kept[i].Page, Line: kept[i].Line}
		for ; j < len(kept) && kept[j].Page == ln.Page && kept[j].Line == ln.Line; j++ {
			texts = append(texts, kept[j].Text)
			ln.Size = math.Max(ln.Size, kept[j].Size)
			ln.Bold = ln.Bold || kept[j].Bold
		}
		ln.Text = strings.Join(texts, " ")
		lines = append(lines, ln)
		i = j
	}
	return lines
}

// BodySize returns the most common line size, or the median when no single
// size is most common. It returns 0 for no lines.
func BodySize(lines []doctree.Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	counts := make(map[float64]int)
	sizes := make([]float64, 0, len(lines))
	for _, ln := range lines {
		counts[ln.Size]++
		sizes = append(sizes, ln.Size)
	}

	best, bestCount, tied := 0.0, 0, false
	for size, c := range counts {
		switch {
		case c > bestCount:
			best, bestCount, tied = size, c, false
		case c == bestCount:
			tied = true
		}
	}
	if !tied {
		return best
	}

	sort.Float64s(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 1 {
		return sizes[mid]
	}
	return (sizes[mid-1] + sizes[mid]) / 2
}
