package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/meltforce/rowplan/internal/config"
	"github.com/meltforce/rowplan/internal/llm"
	"github.com/meltforce/rowplan/internal/mcp"
	"github.com/meltforce/rowplan/internal/planner"
	"github.com/meltforce/rowplan/internal/server"
	"github.com/meltforce/rowplan/internal/storage"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (defaults and env only when empty)")
	migrateOnly := flag.Bool("migrate-only", false, "run storage migrations and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log)
	log.Info("rowplan starting", "version", Version)

	ctx := context.Background()

	// Generation log (optional)
	var genLog storage.Log
	if cfg.Storage.Driver != "" {
		genLog, err = storage.Open(ctx, cfg.Storage.Driver, cfg.StorageDSN())
		if err != nil {
			log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
			os.Exit(1)
		}
		defer genLog.Close()
		log.Info("migrations applied", "driver", cfg.Storage.Driver)
	}

	if *migrateOnly {
		if genLog == nil {
			log.Warn("migrate-only: no storage driver configured")
		}
		log.Info("migrate-only: exiting")
		return
	}

	// Model client
	llmCfg := llm.Config{
		Provider:    llm.Provider(cfg.LLM.Provider),
		Endpoint:    cfg.LLM.Endpoint,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		TimeoutMs:   cfg.LLM.TimeoutMs,
		Temperature: cfg.LLM.Temperature,
		LogCalls:    cfg.LLM.LogCalls,
	}.WithDefaults()

	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewSlogObserver(log)
	}
	client, err := llm.New(llmCfg, observer)
	if err != nil {
		log.Error("failed to create llm client", "error", err)
		os.Exit(1)
	}
	if llmCfg.Provider == llm.ProviderGemini && llmCfg.APIKey == "" {
		log.Warn("no API key configured; generation requests will fail", "provider", llmCfg.Provider)
	}
	log.Info("llm client ready", "provider", llmCfg.Provider, "model", llmCfg.Model)

	opts := planner.Options{
		Provider:         string(llmCfg.Provider),
		StrictValidation: cfg.Planner.Strict(),
	}
	if genLog != nil {
		opts.Recorder = storage.NewRecorder(genLog, log)
	}
	gateway := planner.NewGateway(client, opts, log)

	// Create server
	srv := server.New(gateway, string(llmCfg.Provider), log)
	if genLog != nil {
		srv.SetGenerationLog(genLog)
	}

	if cfg.MCP.Enabled {
		srv.MountMCP(mcp.NewHTTPHandler(mcp.New(gateway, Version, log)))
		log.Info("MCP endpoint enabled", "path", "/mcp")
	}

	// Frontend: static build in production, dev asset server otherwise
	if cfg.Server.Production {
		srv.SetFrontend(os.DirFS(cfg.Server.StaticDir))
		log.Info("serving static frontend", "dir", cfg.Server.StaticDir)
	} else {
		target, err := url.Parse(cfg.Server.DevAssetURL)
		if err != nil {
			log.Error("invalid dev asset url", "url", cfg.Server.DevAssetURL, "error", err)
			os.Exit(1)
		}
		srv.SetDevProxy(target)
		log.Info("proxying frontend to dev server", "url", target.String())
	}

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "production", cfg.Server.Production)
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

func newLogger(c config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
