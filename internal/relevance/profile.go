package relevance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/docintel/internal/nlp"
)

// Field names read from persona and job descriptions.
var (
	PersonaFields = []string{"description", "background", "goals", "pain_points", "interests", "role", "title"}
	JobFields     = []string{"description", "requirements", "responsibilities", "objectives", "deliverables", "title", "goals"}
)

const minKeywordLen = 3

// Profile is an immutable keyword set derived from a persona or job
// description. The zero value is an empty profile.
type Profile struct {
	Label    string
	keywords map[string]bool
}

// NewProfile extracts keywords from texts: lower-case alphabetic words of at
// least three letters that are neither stop words nor ultra-common words.
func NewProfile(label string, texts ...string) Profile {
	kw := make(map[string]bool)
	for _, t := range texts {
		for _, w := range nlp.WordsMin(t, minKeywordLen) {
			if !nlp.IsCommonWord(w) {
				kw[w] = true
			}
		}
	}
	return Profile{Label: label, keywords: kw}
}

// PersonaProfile builds a profile from a decoded persona document. The label
// is the persona title.
func PersonaProfile(fields map[string]any) Profile {
	return NewProfile(labelOr(fields, "title", "Unknown"), fieldTexts(fields, PersonaFields)...)
}

// JobProfile builds a profile from a decoded job-to-be-done document. The
// label is the job description.
func JobProfile(fields map[string]any) Profile {
	return NewProfile(labelOr(fields, "description", "General analysis"), fieldTexts(fields, JobFields)...)
}

// Has reports whether w is one of the profile's keywords.
func (p Profile) Has(w string) bool { return p.keywords[w] }

// Len returns the number of keywords.
func (p Profile) Len() int { return len(p.keywords) }

// Keywords returns the keywords sorted alphabetically.
func (p Profile) Keywords() []string {
	out := make([]string, 0, len(p.keywords))
	for k := range p.keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (p Profile) matches(words []string) int {
	n := 0
	for _, w := range words {
		if p.keywords[w] {
			n++
		}
	}
	return n
}

// fieldTexts collects the named fields, flattening lists of values.
func fieldTexts(fields map[string]any, names []string) []string {
	var out []string
	for _, name := range names {
		out = append(out, flatten(fields[name])...)
	}
	return out
}

func flatten(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return []string{x}
	case []string:
		return x
	case []any:
		var out []string
		for _, e := range x {
			out = append(out, flatten(e)...)
		}
		return out
	case map[string]any:
		var out []string
		for _, e := range x {
			out = append(out, flatten(e)...)
		}
		return out
	default:
		return []string{fmt.Sprint(x)}
	}
}

func labelOr(fields map[string]any, key, fallback string) string {
	if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
