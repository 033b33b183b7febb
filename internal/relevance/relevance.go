// Package relevance scores document sections against a persona and the job
// that persona needs done.
package relevance

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/docintel/internal/nlp"
)

// MaxScore caps every relevance score.
const MaxScore = 10.0

// Score weights.
const (
	personaWeight = 20.0
	jobWeight     = 30.0
	domainWeight  = 10.0
	maxLength     = 5.0
	maxSentence   = 3.0
	bulletBonus   = 2.0
	figureBonus   = 1.0
	numericBonus  = 1.0
)

// domainVocabularies are fixed keyword lists per subject area.
var domainVocabularies = map[string][]string{
	"travel":     {"destination", "hotel", "restaurant", "attraction", "transport", "booking", "itinerary", "sightseeing"},
	"research":   {"methodology", "analysis", "data", "study", "findings", "experiment", "survey", "results"},
	"business":   {"strategy", "market", "revenue", "customer", "product", "sales", "profit", "roi"},
	"education":  {"learning", "student", "course", "curriculum", "degree", "academic", "university", "college"},
	"healthcare": {"patient", "treatment", "medical", "diagnosis", "therapy", "health", "clinical", "medicine"},
	"technology": {"software", "development", "programming", "system", "application", "digital", "tech", "it"},
}

var domainSets = func() map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(domainVocabularies))
	for name, words := range domainVocabularies {
		set := make(map[string]bool, len(words))
		for _, w := range words {
			set[w] = true
		}
		out[name] = set
	}
	return out
}()

var (
	figureWords    = []string{"table", "figure", "chart", "graph"}
	numericPattern = regexp.MustCompile(`\d+%|\$\d+|\d+\.\d+`)
	sentenceBreak  = regexp.MustCompile(`[.!?]+`)
)

// Section is the unit being ranked.
type Section struct {
	Document string
	Title    string
	Content  string
	Page     int
}

// ScoreSection rates s for the persona and job in [0, 10], rounded to one
// decimal. Text without any word of three or more letters scores 0.
func ScoreSection(s Section, persona, job Profile) float64 {
	text := strings.ToLower(s.Title + " " + s.Content)
	words := nlp.WordsMin(text, minKeywordLen)
	if len(words) == 0 {
		return 0
	}
	n := float64(len(words))

	score := float64(persona.matches(words))/n*personaWeight +
		float64(job.matches(words))/n*jobWeight

	for _, set := range domainSets {
		hits := 0
		for _, w := range words {
			if set[w] {
				hits++
			}
		}
		if hits > 0 {
			score += float64(hits) / n * domainWeight
		}
	}

	score += math.Min(float64(len([]rune(text)))/100, maxLength)
	terminals := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	score += math.Min(float64(terminals)/3, maxSentence)
	score += structureBonus(text)

	score = math.Max(0, math.Min(score, MaxScore))
	return math.Round(score*10) / 10
}

func structureBonus(text string) float64 {
	var b float64
	if strings.Contains(text, "•") || strings.Contains(text, "\n-") {
		b += bulletBonus
	}
	for _, w := range figureWords {
		if strings.Contains(text, w) {
			b += figureBonus
			break
		}
	}
	if numericPattern.MatchString(text) {
		b += numericBonus
	}
	return b
}

// DefaultRefineChars is the default budget for RefineSection.
const DefaultRefineChars = 500

const (
	minRefineSentence = 10
	refineSentences   = 3
)

// RefineSection condenses a long section to its three most relevant
// sentences, joined with ". " and cut with an ellipsis when still over
// maxChars. Content within budget is returned unchanged.
func RefineSection(s Section, persona, job Profile, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultRefineChars
	}
	if len([]rune(s.Content)) <= maxChars {
		return s.Content
	}

	type scored struct {
		score int
		text  string
	}
	var candidates []scored
	for _, part := range sentenceBreak.Split(s.Content, -1) {
		part = strings.TrimSpace(part)
		if len([]rune(part)) < minRefineSentence {
			continue
		}
		words := nlp.WordsMin(part, minKeywordLen)
		candidates = append(candidates, scored{
			score: persona.matches(words)*2 + job.matches(words)*3,
			text:  part,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	picked := make([]string, 0, refineSentences)
	for i := 0; i < len(candidates) && i < refineSentences; i++ {
		picked = append(picked, candidates[i].text)
	}
	out := strings.Join(picked, ". ")
	if len([]rune(out)) > maxChars {
		out = nlp.Truncate(out, maxChars-3) + "..."
	}
	return out
}
