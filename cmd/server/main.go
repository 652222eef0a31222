package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pulseboard/pulseboard/internal/api"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/eventlog"
	"github.com/pulseboard/pulseboard/internal/notify"
	"github.com/pulseboard/pulseboard/internal/pipeline"
	"github.com/pulseboard/pulseboard/internal/upstream"
	"github.com/pulseboard/pulseboard/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	staticDir := flag.String("static-dir", "", "serve the dashboard static files from this directory (overrides config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("pulseboard starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"event_capacity", cfg.Server.EventCapacity,
		"broadcast_interval", cfg.Server.BroadcastInterval,
		"webhooks", len(cfg.Notify.Webhooks),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Shared in-memory state: the bounded event log and the single
	// pipeline record, constructed once and passed by handle.
	log := eventlog.New(cfg.Server.EventCapacity)
	tracker := pipeline.NewTracker()

	// Webhook notifier for error-typed events. Targets follow config reloads.
	notifier := notify.New(cfg.Notify)
	go func() {
		err := config.Watch(ctx, *configPath, func(next *config.Config) {
			notifier.SetTargets(next.Notify.Webhooks)
		})
		if err != nil {
			slog.Warn("config watch disabled", "err", err)
		}
	}()

	upstreams := api.Upstreams{
		Workflow: upstream.NewWorkflow(cfg.Upstreams.Workflow),
		TTS:      upstream.NewTTS(cfg.Upstreams.TTS),
		LLM:      upstream.NewLLM(cfg.Upstreams.LLM),
		Deploy:   upstream.NewDeploy(cfg.Upstreams.Deploy),
		Video:    upstream.NewVideo(cfg.Upstreams.Video),
	}

	// WebSocket hub — pushes the event tail and pipeline state to dashboards.
	hub := ws.New(log, tracker, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(log, tracker, upstreams, notifier, cfg.Upstreams.YouTube))
	httpMux.Handle("/ws/stream", hub)

	// Optional: serve the dashboard frontend from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	dir := cfg.Server.StaticDir
	if *staticDir != "" {
		dir = *staticDir
	}
	if dir != "" {
		httpMux.Handle("/", spaHandler(dir))
		slog.Info("serving dashboard static files", "dir", dir)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("pulseboard shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}

// spaHandler serves static files from dir and falls back to index.html for
// paths that don't resolve to a file, so client-side routes deep-link
// correctly. Lookups go through http.Dir, which confines them to dir.
func spaHandler(dir string) http.Handler {
	root := http.Dir(dir)
	fs := http.FileServer(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f, err := root.Open(r.URL.Path); err == nil {
			f.Close()
			fs.ServeHTTP(w, r)
			return
		}
		r.URL.Path = "/index.html"
		fs.ServeHTTP(w, r)
	})
}
