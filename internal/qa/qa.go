// Package qa answers questions by keyword overlap against candidate segments.
package qa

import (
	"sort"
	"strings"

	"github.com/dgallion1/docintel/internal/doctree"
	"github.com/dgallion1/docintel/internal/nlp"
)

// Fixed replies when no answer can be extracted.
const (
	NotUnderstood = "I couldn't understand the question. Please try rephrasing it."
	NoInformation = "I couldn't find relevant information to answer your question."
)

const (
	maxAnswerSentences = 3
	fallbackChars      = 500
)

// Result is an answer plus the segment it was drawn from. Segment is nil when
// Answer is one of the fixed replies.
type Result struct {
	Answer  string
	Segment *doctree.Segment
	Overlap float64
}

// Keywords returns the distinct lower-case alphabetic question words that are
// not stop words.
func Keywords(question string) map[string]bool {
	kw := make(map[string]bool)
	for _, w := range nlp.Words(question) {
		if !nlp.IsStopWord(w) {
			kw[w] = true
		}
	}
	return kw
}

// Answer returns the answer text for question over segments.
func Answer(question string, segments []doctree.Segment) string {
	return Retrieve(question, segments).Answer
}

// Retrieve picks the segment with the highest keyword overlap ratio and
// extracts up to three sentences from it that mention a question keyword.
// Ties go to the earlier segment.
func Retrieve(question string, segments []doctree.Segment) Result {
	kw := Keywords(question)
	if len(kw) == 0 {
		return Result{Answer: NotUnderstood}
	}

	type match struct {
		idx     int
		overlap float64
	}
	var matches []match
	for i, seg := range segments {
		n := 0
		for w := range wordSet(seg.Content) {
			if kw[w] {
				n++
			}
		}
		if n > 0 {
			matches = append(matches, match{idx: i, overlap: float64(n) / float64(len(kw))})
		}
	}
	if len(matches) == 0 {
		return Result{Answer: NoInformation}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].overlap > matches[j].overlap })

	best := &segments[matches[0].idx]
	var picked []string
	for _, s := range nlp.Sentences(best.Content) {
		if mentions(s, kw) {
			picked = append(picked, s)
			if len(picked) == maxAnswerSentences {
				break
			}
		}
	}

	answer := strings.Join(picked, " ")
	if len(picked) == 0 {
		answer = nlp.Truncate(best.Content, fallbackChars) + "..."
	}
	return Result{Answer: answer, Segment: best, Overlap: matches[0].overlap}
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range nlp.Words(text) {
		set[w] = true
	}
	return set
}

func mentions(sentence string, kw map[string]bool) bool {
	for _, w := range nlp.Words(sentence) {
		if kw[w] {
			return true
		}
	}
	return false
}
