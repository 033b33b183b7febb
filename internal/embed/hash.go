package embed

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/dgallion1/docintel/internal/nlp"
)

// DefaultHashDimensions is used when a non-positive dimension is requested.
const DefaultHashDimensions = 384

// HashEmbedder is an offline embedder using signed feature hashing over
// content words and adjacent word pairs. Vectors are L2-normalised; text
// without content words maps to the zero vector.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a hash embedder producing dims-length vectors.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return &HashEmbedder{dims: dims}
}

func (e *HashEmbedder) Name() string    { return "hash" }
func (e *HashEmbedder) Dimensions() int { return e.dims }

func (e *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.vector(t)
	}
	return out, nil
}

func (e *HashEmbedder) vector(text string) []float32 {
	acc := make([]float64, e.dims)
	var prev string
	for _, w := range nlp.Words(text) {
		if nlp.IsStopWord(w) {
			continue
		}
		e.add(acc, w, 1)
		if prev != "" {
			e.add(acc, prev+" "+w, 0.5)
		}
		prev = w
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	vec := make([]float32, e.dims)
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec
}

func (e *HashEmbedder) add(acc []float64, feature string, weight float64) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[idx] += weight
}
