package outline

import (
	"strings"

	"github.com/dgallion1/docintel/internal/doctree"
)

// Anchor assigns raw-text offsets to sections that carry none, such as those
// produced by FontStrategy. Each heading is searched for after the end of the
// previous match, so repeated heading texts land on successive occurrences.
// A heading that cannot be found keeps the previous start with an empty range
// so offsets stay non-decreasing.
func Anchor(raw string, sections []doctree.Section) []doctree.Section {
	out := make([]doctree.Section, len(sections))
	cursor, last := 0, 0
	for i, s := range sections {
		if idx := strings.Index(raw[cursor:], s.Text); s.Text != "" && idx >= 0 {
			s.Start = cursor + idx
			s.End = s.Start + len(s.Text)
			cursor, last = s.End, s.Start
		} else {
			s.Start = last
			s.End = last
		}
		out[i] = s
	}
	return out
}
