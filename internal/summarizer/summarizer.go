// Package summarizer builds extractive summaries: verbatim sentences chosen
// by TF-IDF weight and returned in document order.
package summarizer

import (
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docintel/internal/nlp"
)

const (
	// DefaultMaxSentences is used when the caller passes a non-positive limit.
	DefaultMaxSentences = 5
	// MaxFeatures bounds the TF-IDF vocabulary to the most frequent terms.
	MaxFeatures = 100
	// minSentenceWords: sentences with this many words or fewer are dropped.
	minSentenceWords = 5
	// minVocabulary is the smallest vocabulary TF-IDF scoring accepts;
	// below it sentences are scored by word count.
	minVocabulary = 2
)

// Clean removes page markers and collapses whitespace.
func Clean(text string) string {
	return nlp.CollapseSpace(nlp.StripPageMarkers(text))
}

// Sentences normalizes text and returns the sentences long enough to be
// summary candidates.
func Sentences(text string) []string {
	var out []string
	for _, s := range nlp.Sentences(Clean(text)) {
		if nlp.WordCount(s) > minSentenceWords {
			out = append(out, s)
		}
	}
	return out
}

// Summarize returns up to maxSentences sentences of text joined by single
// spaces. When there are no more candidates than maxSentences every candidate
// is returned unscored.
func Summarize(text, title string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	sentences := Sentences(text)
	if len(sentences) <= maxSentences {
		return strings.Join(sentences, " ")
	}

	scores := Scores(sentences, title)
	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	picked := order[:maxSentences]
	sort.Ints(picked)

	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = sentences[idx]
	}
	return strings.Join(out, " ")
}

// Scores returns one importance score per sentence: the mean TF-IDF weight of
// the sentence's row over the corpus {title, sentences}. A degenerate
// vocabulary falls back to word counts.
func Scores(sentences []string, title string) []float64 {
	corpus := make([][]string, 0, len(sentences)+1)
	offset := 0
	if strings.TrimSpace(title) != "" {
		corpus = append(corpus, terms(title))
		offset = 1
	}
	for _, s := range sentences {
		corpus = append(corpus, terms(s))
	}

	vocab := vocabulary(corpus, MaxFeatures)
	if len(vocab) < minVocabulary {
		return lengthScores(sentences)
	}

	idf := inverseDocFreq(corpus, vocab)
	scores := make([]float64, len(sentences))
	for i := range sentences {
		scores[i] = rowMean(corpus[i+offset], vocab, idf)
	}
	return scores
}

func terms(text string) []string {
	all := nlp.Terms(text)
	out := all[:0]
	for _, t := range all {
		if !nlp.IsStopWord(t) {
			out = append(out, t)
		}
	}
	return out
}

// vocabulary keeps the limit most frequent terms across the corpus, breaking
// frequency ties alphabetically, and maps each to its column.
func vocabulary(corpus [][]string, limit int) map[string]int {
	freq := make(map[string]int)
	for _, doc := range corpus {
		for _, t := range doc {
			freq[t]++
		}
	}
	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}
	return vocab
}

// inverseDocFreq uses the smoothed form ln((1+n)/(1+df)) + 1.
func inverseDocFreq(corpus [][]string, vocab map[string]int) []float64 {
	df := make([]int, len(vocab))
	for _, doc := range corpus {
		seen := make(map[int]bool)
		for _, t := range doc {
			if col, ok := vocab[t]; ok && !seen[col] {
				seen[col] = true
				df[col]++
			}
		}
	}
	n := float64(len(corpus))
	idf := make([]float64, len(vocab))
	for col, d := range df {
		idf[col] = math.Log((1+n)/(1+float64(d))) + 1
	}
	return idf
}

// rowMean builds the L2-normalized TF-IDF row for doc and averages it over
// every vocabulary column.
func rowMean(doc []string, vocab map[string]int, idf []float64) float64 {
	row := make([]float64, len(vocab))
	for _, t := range doc {
		if col, ok := vocab[t]; ok {
			row[col]++
		}
	}
	var norm float64
	for col := range row {
		row[col] *= idf[col]
		norm += row[col] * row[col]
	}
	if norm == 0 {
		return 0
	}
	norm = math.Sqrt(norm)
	var sum float64
	for _, v := range row {
		sum += v / norm
	}
	return sum / float64(len(vocab))
}

func lengthScores(sentences []string) []float64 {
	out := make([]float64, len(sentences))
	for i, s := range sentences {
		out[i] = float64(nlp.WordCount(s))
	}
	return out
}
