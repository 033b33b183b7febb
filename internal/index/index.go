// Package index ranks a document's segments by embedding similarity.
package index

import (
	"math"
	"sort"

	"github.com/dgallion1/docintel/internal/doctree"
)

const (
	// DefaultRelatedLimit is used when related segments are attached to
	// search results or computed at ingest.
	DefaultRelatedLimit = 3
	// LookupRelatedLimit is used by the explicit related-sections lookup.
	LookupRelatedLimit = 5
)

// Match is a segment with its similarity to a query.
type Match struct {
	Segment doctree.Segment
	Score   float64
}

// Cosine returns the cosine similarity of a and b. Vectors of different
// length, empty vectors and zero vectors all score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / math.Sqrt(na*nb)
	return math.Max(-1, math.Min(1, s))
}

// Search scores every segment against query and returns the best limit
// matches, highest first. Ties keep segment order. A non-positive limit
// returns every match.
func Search(query []float32, segments []doctree.Segment, limit int) []Match {
	return rank(query, segments, limit, "")
}

// Related ranks every other segment against target.
func Related(target doctree.Segment, segments []doctree.Segment, limit int) []Match {
	return rank(target.Embedding, segments, limit, target.ID)
}

// RelatedIDs computes the related-segment ids for every segment.
func RelatedIDs(segments []doctree.Segment, limit int) map[string][]string {
	out := make(map[string][]string, len(segments))
	for _, s := range segments {
		matches := Related(s, segments, limit)
		ids := make([]string, 0, len(matches))
		for _, m := range matches {
			ids = append(ids, m.Segment.ID)
		}
		out[s.ID] = ids
	}
	return out
}

func rank(query []float32, segments []doctree.Segment, limit int, exclude string) []Match {
	matches := make([]Match, 0, len(segments))
	for _, s := range segments {
		if exclude != "" && s.ID == exclude {
			continue
		}
		matches = append(matches, Match{Segment: s, Score: Cosine(query, s.Embedding)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
