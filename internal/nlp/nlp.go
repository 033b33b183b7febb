// Package nlp holds the word and sentence tokenizers and the stop-word tables
// shared by the summarizer, the relevance scorer and the QA retriever.
package nlp

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	letterRun   = regexp.MustCompile(`\p{L}+`)
	termPattern = regexp.MustCompile(`\b\w\w+\b`)
	spaceRun    = regexp.MustCompile(`\s+`)
	pageMarker  = regexp.MustCompile(`--- Page \d+ ---`)
)

// Words returns the lower-cased alphabetic tokens of text.
func Words(text string) []string {
	return letterRun.FindAllString(strings.ToLower(text), -1)
}

// WordsMin returns the lower-cased alphabetic tokens of at least n letters.
func WordsMin(text string, n int) []string {
	all := Words(text)
	out := all[:0]
	for _, w := range all {
		if len([]rune(w)) >= n {
			out = append(out, w)
		}
	}
	return out
}

// Terms returns lower-cased word-character tokens of two or more characters,
// the vocabulary unit of the TF-IDF weighting.
func Terms(text string) []string {
	return termPattern.FindAllString(strings.ToLower(text), -1)
}

// Keywords returns the distinct alphabetic tokens of text that are not stop
// words, in first-seen order.
func Keywords(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range Words(text) {
		if IsStopWord(w) || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// CollapseSpace replaces every whitespace run with a single space and trims.
func CollapseSpace(text string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}

// StripPageMarkers removes inline "--- Page N ---" markers.
func StripPageMarkers(text string) string {
	return pageMarker.ReplaceAllString(text, "")
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// abbreviations never end a sentence.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true,
	"jr": true, "st": true, "vs": true, "etc": true, "e.g": true, "i.e": true,
	"fig": true, "no": true, "vol": true, "approx": true, "inc": true, "ltd": true,
	"co": true, "corp": true, "dept": true, "est": true, "jan": true, "feb": true,
	"mar": true, "apr": true, "jun": true, "jul": true, "aug": true, "sep": true,
	"sept": true, "oct": true, "nov": true, "dec": true,
}

// Sentences splits text into trimmed sentences. A sentence ends at '.', '!' or
// '?' (plus any closing quotes or brackets) followed by whitespace or the end
// of the text, unless the terminator closes a known abbreviation or a single
// initial.
func Sentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	emit := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			out = append(out, s)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?') {
			j++
		}
		for j < len(runes) && strings.ContainsRune(`"')]”’`, runes[j]) {
			j++
		}
		if j < len(runes) && !unicode.IsSpace(runes[j]) {
			i = j - 1
			continue
		}
		if r == '.' && endsWithAbbreviation(runes[start:i]) {
			i = j - 1
			continue
		}
		emit(j)
		i = j - 1
	}
	emit(len(runes))
	return out
}

func endsWithAbbreviation(prefix []rune) bool {
	k := len(prefix)
	for k > 0 && !unicode.IsSpace(prefix[k-1]) {
		k--
	}
	orig := strings.Trim(string(prefix[k:]), `"'([`)
	if orig == "" {
		return false
	}
	if abbreviations[strings.ToLower(orig)] {
		return true
	}
	r := []rune(orig)
	return len(r) == 1 && unicode.IsUpper(r[0])
}
