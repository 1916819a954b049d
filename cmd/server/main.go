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

	"github.com/dgallion1/plangest/internal/api"
	"github.com/dgallion1/plangest/internal/catalog"
	"github.com/dgallion1/plangest/internal/config"
	"github.com/dgallion1/plangest/internal/extract"
	"github.com/dgallion1/plangest/internal/parser"
	"github.com/dgallion1/plangest/internal/pipeline"
)

func main() {
	_ = godotenv.Load(".env")

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	opts, err := cfg.PlanOptions()
	if err != nil {
		log.Error("invalid extraction options", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := catalog.NewStore(cfg.OutputDir)
	if err != nil {
		log.Error("open plan store", "error", err)
		os.Exit(1)
	}
	source := &parser.PDFSource{
		FallbackPdftotext: cfg.PDFFallbackPdftotext,
		MaxPages:          cfg.PDFMaxPages,
		Logger:            log,
	}
	proc := pipeline.NewProcessor(source, store, extract.NewStats(time.Hour), log)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, proc, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg, opts)

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting plangest", "port", cfg.Port, "output_dir", cfg.OutputDir, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
