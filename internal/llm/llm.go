// Package llm wraps hosted completion APIs used by the AI-assisted summary
// and answer paths. Nothing in the offline paths depends on it.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Completer produces a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	Model() string
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Retryable always reports true.
func (e *RetryableError) Retryable() bool { return true }

// Config selects and configures a provider.
type Config struct {
	Provider       string // none, anthropic, openai
	AnthropicKey   string
	AnthropicModel string
	AnthropicURL   string
	OpenAIKey      string
	OpenAIModel    string
	OpenAIURL      string
}

// New builds the configured completer. Provider "none" (or empty) returns a
// nil Completer and no error.
func New(cfg Config, stats *LLMStats) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return nil, nil
	case "anthropic", "claude":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("anthropic provider requires ANTHROPIC_API_KEY")
		}
		c := NewClaudeClient(cfg.AnthropicKey, cfg.AnthropicModel, stats)
		if cfg.AnthropicURL != "" {
			c.baseURL = cfg.AnthropicURL
		}
		return c, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
		return NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIURL, stats), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// timed records the duration and outcome of one call.
func timed(stats *LLMStats, start time.Time, err error) {
	if stats == nil {
		return
	}
	stats.Record(time.Since(start).Milliseconds(), err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
