package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docfold/docfold/internal/api"
	"github.com/docfold/docfold/internal/archive"
	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/pipeline"
	"github.com/docfold/docfold/internal/stats"
	"github.com/docfold/docfold/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var archiveClient *archive.Client
	if cfg.ArchiveURL != "" {
		archiveClient = archive.NewClient(cfg.ArchiveURL, cfg.ArchiveAPIKey)
	}

	st := store.New(cfg.CollectionTTL)
	phaseStats := stats.New(time.Hour)

	orch := pipeline.NewOrchestrator(cfg, st, archiveClient, phaseStats, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, phaseStats, log, cfg)

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

		if archiveClient != nil {
			archiveClient.Close()
		}
	}()

	log.Info("starting docfold", "port", cfg.Port, "archive_enabled", archiveClient != nil)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
