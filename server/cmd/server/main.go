package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/obsidianstack/statcard/internal/options"
	"github.com/obsidianstack/statcard/server/internal/alerts"
	"github.com/obsidianstack/statcard/server/internal/api"
	"github.com/obsidianstack/statcard/server/internal/auth"
	"github.com/obsidianstack/statcard/server/internal/config"
	"github.com/obsidianstack/statcard/server/internal/metrics"
	"github.com/obsidianstack/statcard/server/internal/store"
	"github.com/obsidianstack/statcard/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./statcard.yaml when present)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "err", err)
	}

	slog.Info("statcard-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"panel_ttl", cfg.Server.Panels.TTL,
		"stream_interval", cfg.Server.Stream.Interval,
		"options_file", cfg.Server.OptionsFile,
		"alert_rules", len(cfg.Server.Alerts.Rules),
	)

	alertEngine, err := alerts.New(cfg.Server.Alerts)
	if err != nil {
		slog.Error("failed to load alert rules", "err", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Panel option defaults, hot-reloaded from the options file when set.
	var current atomic.Pointer[options.Options]
	defaults := options.Defaults()
	if path := cfg.Server.OptionsFile; path != "" {
		if defaults, err = options.Load(path); err != nil {
			slog.Error("failed to load options", "err", err)
			os.Exit(1)
		}
		current.Store(&defaults)
		go func() {
			err := options.Watch(ctx, path, func(o options.Options) { current.Store(&o) })
			if err != nil {
				slog.Error("options watcher stopped", "err", err)
			}
		}()
	} else {
		current.Store(&defaults)
	}

	st := store.New(cfg.Server.Panels.TTL)
	go st.Run(ctx)

	m := metrics.New()
	st.OnEvict(func(panelID string) {
		m.Forget(panelID)
		alertEngine.Forget(panelID)
	})

	hub := ws.New(st, cfg.Server.Stream.Interval)
	go hub.Run(ctx)

	apiHandler := api.New(st, m, alertEngine,
		func() options.Options { return *current.Load() },
		func(string) { hub.Notify() },
	)
	requireKey := auth.APIKey(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", requireKey(apiHandler))
	mux.Handle("/ws/stream", requireKey(hub))
	mux.Handle("/metrics", m.Handler())

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("statcard-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
