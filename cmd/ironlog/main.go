package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/ironlog/internal/catalog"
	"github.com/claude/ironlog/internal/config"
	"github.com/claude/ironlog/internal/gateway"
	"github.com/claude/ironlog/internal/guidance"
	"github.com/claude/ironlog/internal/logging"
	ironmcp "github.com/claude/ironlog/internal/mcp"
	"github.com/claude/ironlog/internal/metrics"
	"github.com/claude/ironlog/internal/server"
	"github.com/claude/ironlog/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	seedPath := flag.String("seed", "", "upsert the exercise catalog from this YAML file before serving")
	mcpStdio := flag.Bool("mcp-stdio", false, "serve MCP over stdio against a remote server instead of running the HTTP server")
	remoteURL := flag.String("remote", "", "IronLog server URL for -mcp-stdio")
	remoteKey := flag.String("api-key", "", "API key for -mcp-stdio guidance requests")
	userID := flag.String("user", "", "user ID for -mcp-stdio")
	flag.Parse()

	if *mcpStdio {
		if err := runStdio(*remoteURL, *remoteKey, *userID); err != nil {
			fmt.Fprintln(os.Stderr, "mcp stdio:", err)
			os.Exit(1)
		}
		return
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	log, logCloser := logging.Setup(logging.Params{Level: cfg.Log.Level, File: cfg.Log.File})
	defer logCloser.Close()
	log.Info("IronLog starting", "version", Version)

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	if *seedPath != "" {
		if err := seedCatalog(ctx, db, *seedPath, log); err != nil {
			log.Error("catalog seed failed", "path", *seedPath, "error", err)
			os.Exit(1)
		}
	}

	var gen guidance.Generator
	if cfg.AI.APIKey != "" {
		gen = guidance.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model)
		log.Info("AI guidance enabled", "model", cfg.AI.Model)
	} else {
		log.Warn("ai.api_key not set: exercise guidance disabled")
	}

	m := metrics.NewManager()
	srv := server.New(db, gen, m, cfg.Auth.APIKey, log)
	if cfg.MCP.Enabled {
		srv.MountMCP(ironmcp.New(db, gen, Version, log))
		log.Info("MCP endpoint mounted", "path", "/mcp")
	}

	// Start server — tsnet or plain HTTP
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
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

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

func seedCatalog(ctx context.Context, db *storage.DB, path string, log *slog.Logger) error {
	exercises, err := catalog.Load(path)
	if err != nil {
		return err
	}
	n, err := db.UpsertExercises(ctx, exercises)
	if err != nil {
		return err
	}
	log.Info("catalog seeded", "path", path, "exercises", n)
	return nil
}

// runStdio serves MCP on stdin/stdout with data read from a remote IronLog
// server. Logs go to stderr so they do not corrupt the protocol stream.
func runStdio(remoteURL, apiKey, userID string) error {
	if remoteURL == "" {
		return fmt.Errorf("-remote is required")
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	gw := gateway.NewClient(remoteURL, apiKey, log)
	s := ironmcp.New(ironmcp.NewHTTPClient(gw), gateway.NewGuidanceClient(gw), Version, log)

	log.Info("MCP stdio server starting", "remote", remoteURL, "user", userID)
	return mcpserver.ServeStdio(s, mcpserver.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return ironmcp.WithUserID(ctx, userID)
	}))
}
