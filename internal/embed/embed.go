// Package embed turns text into fixed-dimension vectors.
package embed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Embedder generates text embeddings.
type Embedder interface {
	// Embed returns one vector per text, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector length.
	Dimensions() int

	// Name identifies the backend and model.
	Name() string
}

// Error reports a failed embedding call for the text at Index.
type Error struct {
	Index int
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("embed text %d: %v", e.Index, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusError is a non-200 response from an embedding backend.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("embedding backend status %d: %s", e.StatusCode, body)
}

// Retryable reports whether the call may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// One embeds a single text.
func One(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, &Error{Index: 0, Err: fmt.Errorf("backend returned %d vectors, expected 1", len(vecs))}
	}
	return vecs[0], nil
}

// Config selects and configures a backend.
type Config struct {
	Provider   string // hash, openai, ollama
	Model      string
	Dimensions int
	OllamaURL  string
	OpenAIKey  string
	OpenAIURL  string // optional API base, e.g. for proxies
}

// New builds the configured embedder.
func New(cfg Config) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "hash":
		return NewHashEmbedder(cfg.Dimensions), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai embedder requires OPENAI_API_KEY")
		}
		return NewOpenAIEmbedder(cfg.OpenAIKey, OpenAIModel(cfg.Model), cfg.OpenAIURL), nil
	case "ollama":
		model := cfg.Model
		if model == "" {
			model = "nomic-embed-text"
		}
		return NewOllamaEmbedder(model, cfg.Dimensions, cfg.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q", cfg.Provider)
	}
}
