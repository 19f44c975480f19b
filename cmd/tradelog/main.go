package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"tradelog/internal/analysis"
	"tradelog/internal/config"
	"tradelog/internal/journal"
	"tradelog/internal/storage/fs"
	"tradelog/internal/web"
)

func main() {
	level := parseLogLevel(os.Getenv("TRADELOG_DEBUG_LEVEL"))
	pretty := strings.EqualFold(os.Getenv("TRADELOG_LOG_PRETTY"), "1") ||
		strings.EqualFold(os.Getenv("TRADELOG_LOG_PRETTY"), "true")
	var handler slog.Handler
	if pretty {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))

	cfg := config.Load()
	if cfg.DataPath == "" {
		slog.Error("TRADELOG_DATA_PATH is required")
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
		slog.Error("create data dir", "err", err)
		os.Exit(1)
	}
	if cfg.UploadsPath == "" {
		cfg.UploadsPath = filepath.Join(cfg.DataPath, "uploads")
	}

	store, err := journal.Open(filepath.Join(cfg.DataPath, "journal.sqlite"))
	if err != nil {
		slog.Error("open journal store", "err", err)
		os.Exit(1)
	}
	defer store.Close()
	if err := store.Init(context.Background()); err != nil {
		slog.Error("init journal schema", "err", err)
		os.Exit(1)
	}

	images, err := fs.NewStore(cfg.UploadsPath, cfg.UploadsURL)
	if err != nil {
		slog.Error("open image store", "err", err)
		os.Exit(1)
	}

	ai := analysis.NewClient(cfg.AIBaseURL, cfg.AIKey, cfg.AIModel, cfg.AITimeout)
	if !ai.Configured() {
		slog.Warn("TRADELOG_AI_KEY not set, analysis endpoints disabled")
	}

	srv := web.NewServer(cfg, store, images, ai)
	slog.Info("listening", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
		slog.Error("serve", "err", err)
		os.Exit(1)
	}
}

func parseLogLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
