package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"standings-ticker/internal/cache"
	"standings-ticker/internal/config"
	"standings-ticker/internal/league"
	"standings-ticker/internal/logging"
	"standings-ticker/internal/metrics"
	"standings-ticker/internal/poller"
	"standings-ticker/internal/providers/espn"
	"standings-ticker/internal/render"
	"standings-ticker/internal/server"
	"standings-ticker/internal/standings"
	"standings-ticker/internal/store"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, metricsHandler, metricsStop, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	})
	if err != nil {
		logger.Error("telemetry setup failed, continuing without export", "error", err)
		recorder = metrics.NewRecorder()
	}

	ttls := cache.TTLPolicy{
		cache.NamespaceStandings:  cfg.Cache.StandingsTTL,
		cache.NamespaceTeamRecord: cfg.Cache.TeamRecordTTL,
	}
	var gateway cache.Gateway
	if cfg.Cache.Path != "" {
		sqliteStore, err := cache.NewSQLiteStore(cfg.Cache.Path, ttls)
		if err != nil {
			return fmt.Errorf("open cache database: %w", err)
		}
		defer sqliteStore.Close()
		gateway = sqliteStore
		logger.Info("using sqlite cache", "path", cfg.Cache.Path)
	} else {
		gateway = cache.NewMemoryStore(ttls)
		logger.Info("using in-memory cache")
	}

	registry, err := league.NewRegistry(cfg.LeagueOverrides())
	if err != nil {
		return fmt.Errorf("build league registry: %w", err)
	}

	client := espn.NewClient(espn.Config{
		SiteBaseURL: cfg.Upstream.SiteBaseURL,
		CoreBaseURL: cfg.Upstream.CoreBaseURL,
		Timeout:     cfg.Upstream.Timeout,
		Counter: func(kind string, count int) {
			recorder.RecordAPICall(kind, count)
		},
		Logger: logger,
	})

	service := standings.New(client, gateway, logger, recorder)
	sections := store.NewMemoryStore()

	leagues := registry.Enabled()
	plr := poller.New(service, leagues, sections, logger, recorder, cfg.Poller.Interval)

	logos := render.NewLogoCache(cfg.Display.AssetsDir, cfg.Display.Height, logger)
	renderer := render.New(render.Options{
		Height:         cfg.Display.Height,
		SectionSpacing: cfg.Display.SectionSpacing,
		ItemSpacing:    cfg.Display.ItemSpacing,
		Logos:          logos,
	})

	srv := server.New(cfg.Server.Port, sections, plr.Status, renderer, metricsHandler, logger)
	srv.Start(stop)
	plr.Start(ctx)

	logger.Info("standings ticker running",
		"leagues", len(leagues),
		"interval", cfg.Poller.Interval.String(),
	)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := plr.Stop(shutdownCtx); err != nil {
		logger.Error("poller shutdown failed", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
	if metricsStop != nil {
		if err := metricsStop(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}
	return nil
}
