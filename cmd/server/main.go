package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/laberr/internal/config"
	"github.com/JonMunkholm/laberr/internal/core"
	"github.com/JonMunkholm/laberr/internal/logging"
	"github.com/JonMunkholm/laberr/internal/metrics"
	"github.com/JonMunkholm/laberr/internal/proposal"
	"github.com/JonMunkholm/laberr/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_path", cfg.Data.Path,
		"proposals_enabled", cfg.Proposal.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	collector := metrics.NewCollector()

	// Load the catalog once. A failure is kept and shown by the UI;
	// the process still starts so the problem is visible to users.
	cache := core.NewCache(core.LoadOptions{Sheet: cfg.Data.Sheet})
	service := core.NewService(cache, cfg.Data.Path)

	status := service.Status()
	took, _ := cache.LoadDuration(cfg.Data.Path)
	collector.CatalogStatus(status.Loaded, status.Rows, took)
	if !status.Loaded {
		slog.Warn("catalog unavailable, serving diagnostic page", "path", status.Path)
	}

	fwdCfg := proposal.Config{}
	if cfg.Proposal.Enabled() {
		fwdCfg = proposal.Config{
			Endpoint:        cfg.Proposal.Endpoint,
			Subject:         cfg.Proposal.Subject,
			Timeout:         cfg.Proposal.Timeout,
			MaxConcurrent:   cfg.Proposal.MaxConcurrent,
			MaxWait:         cfg.Proposal.MaxWait,
			BreakerFailures: uint32(cfg.Proposal.BreakerFailures),
			BreakerCooldown: cfg.Proposal.BreakerCooldown,
		}
	}
	forwarder := proposal.NewForwarder(fwdCfg, &http.Client{Timeout: cfg.Proposal.Timeout}, collector)

	server := web.NewServer(service, forwarder, collector, cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Let proposals already accepted reach the endpoint
		if pending := forwarder.Pending(); pending > 0 {
			slog.Info("waiting for proposal forwards",
				"pending", pending,
				"oldest_ms", forwarder.OldestPending().Milliseconds(),
			)
			if err := forwarder.Wait(shutdownCtx); err != nil {
				slog.Warn("proposal forwards did not complete in time",
					"error", err,
					"submission_ids", forwarder.PendingIDs(),
				)
			}
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
