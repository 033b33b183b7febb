package parser

import (
	"strconv"
	"strings"
)

// headingNumbers produces outline numbers for structured formats. Levels
// deeper than three share the level-three counter.
type headingNumbers struct {
	counts [3]int
	depth  int
}

// next returns the number for a heading at level (1-based), e.g. "2." for a
// second top-level heading and "2.1" for its first child.
func (h *headingNumbers) next(level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(h.counts) {
		level = len(h.counts)
	}
	// A child without a parent is promoted to the next available depth.
	if level > h.depth+1 {
		level = h.depth + 1
	}
	h.counts[level-1]++
	for i := level; i < len(h.counts); i++ {
		h.counts[i] = 0
	}
	h.depth = level

	if level == 1 {
		return strconv.Itoa(h.counts[0]) + "."
	}
	parts := make([]string, level)
	for i := 0; i < level; i++ {
		parts[i] = strconv.Itoa(h.counts[i])
	}
	return strings.Join(parts, ".")
}
