package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/docintel/internal/chunker"
	"github.com/dgallion1/docintel/internal/embed"
	"github.com/dgallion1/docintel/internal/llm"
	"github.com/dgallion1/docintel/internal/outline"
	"github.com/dgallion1/docintel/internal/parser"
	"github.com/dgallion1/docintel/internal/store"
)

type Config struct {
	Port string

	// Storage
	StoreBackend    string
	DBPath          string
	PathstoreURL    string
	PathstoreAPIKey string

	// Embeddings
	Embedder       string
	EmbeddingModel string
	EmbeddingDim   int
	OllamaURL      string
	OpenAIAPIKey   string

	// Completions
	LLMProvider     string
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIModel     string

	OutlineStrategy string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentEmbed int

	// Upload limits
	MaxUploadBytes int64

	// Segmentation
	ChunkSize       int
	ChunkStride     int
	SegmentMaxChars int
	SegmentMinChars int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	CORSOrigins []string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		StoreBackend:    strings.ToLower(envOr("STORE_BACKEND", "sqlite")),
		DBPath:          envOr("DB_PATH", "data/docintel.db"),
		PathstoreURL:    envOr("PATHSTORE_URL", "http://localhost:8080"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		Embedder:       strings.ToLower(envOr("EMBEDDER", "hash")),
		EmbeddingModel: os.Getenv("EMBEDDING_MODEL"),
		EmbeddingDim:   envInt("EMBEDDING_DIM", embed.DefaultHashDimensions),
		OllamaURL:      envOr("OLLAMA_URL", "http://localhost:11434"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),

		LLMProvider:     strings.ToLower(envOr("LLM_PROVIDER", "none")),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		OpenAIModel:     envOr("OPENAI_MODEL", "gpt-4o-mini"),

		OutlineStrategy: strings.ToLower(envOr("OUTLINE_STRATEGY", "pattern")),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentEmbed: envInt("MAX_CONCURRENT_EMBED", 5),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		ChunkSize:       envInt("CHUNK_SIZE", 1000),
		ChunkStride:     envInt("CHUNK_STRIDE", 800),
		SegmentMaxChars: envInt("SEGMENT_MAX_CHARS", 1000),
		SegmentMinChars: envInt("SEGMENT_MIN_CHARS", 50),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
	}

	if cfg.EmbeddingDim <= 0 {
		cfg.EmbeddingDim = embed.DefaultHashDimensions
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentEmbed <= 0 {
		cfg.MaxConcurrentEmbed = 5
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkStride <= 0 {
		cfg.ChunkStride = 800
	}
	if cfg.SegmentMaxChars <= 0 {
		cfg.SegmentMaxChars = 1000
	}
	if cfg.SegmentMinChars <= 0 {
		cfg.SegmentMinChars = 50
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.StoreBackend {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite backend")
		}
	case "pathstore":
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore backend")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be sqlite or pathstore, got %q", c.StoreBackend)
	}

	switch c.Embedder {
	case "hash", "ollama":
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai embedder")
		}
	default:
		return fmt.Errorf("EMBEDDER must be hash, openai or ollama, got %q", c.Embedder)
	}

	switch c.LLMProvider {
	case "none":
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be none, anthropic or openai, got %q", c.LLMProvider)
	}

	if _, err := outline.ForName(c.OutlineStrategy); err != nil {
		return fmt.Errorf("OUTLINE_STRATEGY: %w", err)
	}
	if c.ChunkStride > c.ChunkSize {
		return fmt.Errorf("CHUNK_STRIDE (%d) must not exceed CHUNK_SIZE (%d)", c.ChunkStride, c.ChunkSize)
	}
	if c.SegmentMinChars >= c.SegmentMaxChars {
		return fmt.Errorf("SEGMENT_MIN_CHARS (%d) must be below SEGMENT_MAX_CHARS (%d)", c.SegmentMinChars, c.SegmentMaxChars)
	}
	return nil
}

// StoreConfig returns the storage backend settings.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Backend:      c.StoreBackend,
		DBPath:       c.DBPath,
		PathstoreURL: c.PathstoreURL,
		PathstoreKey: c.PathstoreAPIKey,
	}
}

// EmbedConfig returns the embedding backend settings.
func (c Config) EmbedConfig() embed.Config {
	return embed.Config{
		Provider:   c.Embedder,
		Model:      c.EmbeddingModel,
		Dimensions: c.EmbeddingDim,
		OllamaURL:  c.OllamaURL,
		OpenAIKey:  c.OpenAIAPIKey,
	}
}

// LLMConfig returns the completion provider settings.
func (c Config) LLMConfig() llm.Config {
	return llm.Config{
		Provider:       c.LLMProvider,
		AnthropicKey:   c.AnthropicAPIKey,
		AnthropicModel: c.AnthropicModel,
		OpenAIKey:      c.OpenAIAPIKey,
		OpenAIModel:    c.OpenAIModel,
	}
}

// SegmentConfig returns the segmenter settings.
func (c Config) SegmentConfig() chunker.Config {
	return chunker.Config{
		ChunkSize:  c.ChunkSize,
		Stride:     c.ChunkStride,
		MinContent: c.SegmentMinChars,
		MaxContent: c.SegmentMaxChars,
	}
}

// ParserOptions returns the decoder settings.
func (c Config) ParserOptions() parser.Options {
	return parser.Options{FallbackPdftotext: c.PDFFallbackPdftotext}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
