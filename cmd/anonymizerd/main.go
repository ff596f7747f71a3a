package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aequitas/anonymizer"
	"github.com/aequitas/anonymizer/dataset"
	"github.com/aequitas/anonymizer/internal/platform/config"
	"github.com/aequitas/anonymizer/internal/platform/httpserver"
	"github.com/aequitas/anonymizer/internal/platform/metrics"
	httptransport "github.com/aequitas/anonymizer/internal/transport/http"
)

// main wires dependencies and owns the server lifecycle. All privacy and
// pipeline logic lives in the library packages.
func main() {
	cfg := config.FromEnv()

	logHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
	log := slog.New(logHandler)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := dataset.SourceFromURL(ctx, cfg.DataURL)
	if err != nil {
		log.Error("invalid data source", "url", cfg.DataURL, "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	anon := anonymizer.New(src,
		anonymizer.WithKAnonymity(cfg.KAnonymity),
		anonymizer.WithMaxResults(cfg.MaxResults),
		anonymizer.WithSensitiveColumns(cfg.SensitiveColumns...),
		anonymizer.WithLogger(anonymizer.NewLogger(logHandler)),
		anonymizer.WithMetricsCollector(metrics.New(registry)),
	)

	if cfg.SkipAutofit {
		log.Info("autofit skipped; waiting for POST /fit")
	} else if _, err := anon.Fit(ctx, 0); err != nil {
		// The service still starts; queries return 503 until a fit succeeds.
		log.Warn("initial fit failed", "error", err)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Service:   anon,
		Logger:    log,
		Gatherer:  registry,
		RateLimit: cfg.RateLimit,
	})
	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("anonymizer listening", "addr", cfg.Addr, "k_anonymity", cfg.KAnonymity, "max_results", cfg.MaxResults)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("anonymizer stopped")
}
