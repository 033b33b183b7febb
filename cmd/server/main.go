package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/docintel/internal/api"
	"github.com/dgallion1/docintel/internal/config"
	"github.com/dgallion1/docintel/internal/embed"
	"github.com/dgallion1/docintel/internal/llm"
	"github.com/dgallion1/docintel/internal/outline"
	"github.com/dgallion1/docintel/internal/pipeline"
	"github.com/dgallion1/docintel/internal/service"
	"github.com/dgallion1/docintel/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize backends.
	st, err := store.New(cfg.StoreConfig())
	if err != nil {
		log.Error("open store", "error", err)
		os.Exit(1)
	}
	embedder, err := embed.New(cfg.EmbedConfig())
	if err != nil {
		log.Error("create embedder", "error", err)
		os.Exit(1)
	}
	stats := llm.NewLLMStats(time.Hour)
	completer, err := llm.New(cfg.LLMConfig(), stats)
	if err != nil {
		log.Error("create completion client", "error", err)
		os.Exit(1)
	}
	strategy, err := outline.ForName(cfg.OutlineStrategy)
	if err != nil {
		log.Error("outline strategy", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	worker := pipeline.NewWorker(st, embedder, log, pipeline.WorkerOptions{
		Strategy:           strategy,
		Segments:           cfg.SegmentConfig(),
		Parse:              cfg.ParserOptions(),
		MaxConcurrentEmbed: cfg.MaxConcurrentEmbed,
	})
	orch := pipeline.NewOrchestrator(cfg, worker, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	svc := service.New(st, embedder, completer, log)
	srv := api.NewServer(orch, svc, completer, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if c, ok := completer.(interface{ Close() }); ok {
			c.Close()
		}
		st.Close()
	}()

	log.Info("starting docintel",
		"port", cfg.Port,
		"store", cfg.StoreBackend,
		"embedder", embedder.Name(),
		"llm", cfg.LLMProvider,
		"outline", strategy.Name(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
