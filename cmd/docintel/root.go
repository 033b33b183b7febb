package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dgallion1/docintel/internal/config"
	"github.com/dgallion1/docintel/internal/embed"
	"github.com/dgallion1/docintel/internal/outline"
	"github.com/dgallion1/docintel/internal/pipeline"
)

var (
	verbose  bool
	workers  int
	strategy string
)

var rootCmd = &cobra.Command{
	Use:   "docintel",
	Short: "Outline, rank and summarize documents offline",
	Long: `docintel extracts heading outlines from PDFs and other documents, ranks
their sections for a persona and the job that persona needs done, and writes
extractive summaries. Everything runs locally; no network access is needed
with the default hash embedder.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 4, "documents processed in parallel")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "outline strategy: pattern or font (default from OUTLINE_STRATEGY)")

	rootCmd.AddCommand(outlineCmd, personaCmd, summarizeCmd)
}

func logger() *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newWorker builds a storeless worker from the environment configuration and
// the command-line overrides.
func newWorker() (*pipeline.Worker, error) {
	cfg := config.Load()
	strat, err := newStrategy(cfg)
	if err != nil {
		return nil, err
	}
	embedder, err := embed.New(cfg.EmbedConfig())
	if err != nil {
		return nil, err
	}
	return pipeline.NewWorker(nil, embedder, logger(), pipeline.WorkerOptions{
		Strategy:           strat,
		Segments:           cfg.SegmentConfig(),
		Parse:              cfg.ParserOptions(),
		MaxConcurrentEmbed: cfg.MaxConcurrentEmbed,
	}), nil
}

// newStrategy picks the outline strategy, --strategy first.
func newStrategy(cfg config.Config) (outline.Strategy, error) {
	name := cfg.OutlineStrategy
	if strategy != "" {
		name = strategy
	}
	return outline.ForName(name)
}
