package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/claude/ironlog/internal/console"
	"github.com/claude/ironlog/internal/gateway"
	"github.com/claude/ironlog/internal/logging"
	"github.com/claude/ironlog/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// run owns every resource the session opens, so deferred closes complete
// before main decides the exit code.
func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("ironlog-session", flag.ContinueOnError)
	serverURL := fs.String("server", "http://localhost:8080", "IronLog server URL")
	userID := fs.String("user", os.Getenv("IRONLOG_USER"), "user ID workouts are saved under")
	apiKey := fs.String("api-key", os.Getenv("IRONLOG_API_KEY"), "API key for saving and deleting workouts")
	stateDir := fs.String("state-dir", defaultStateDir(), "directory for local preferences")
	logFile := fs.String("log-file", "", "write logs to this file instead of discarding them")
	logLevel := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *userID == "" {
		return errors.New("-user or IRONLOG_USER is required")
	}

	log, closer := logging.SetupFile(logging.Params{Level: *logLevel, File: *logFile})
	defer closer.Close()

	prefs, err := session.OpenPreferences(*stateDir)
	if err != nil {
		return fmt.Errorf("opening preferences: %w", err)
	}
	defer prefs.Close()

	gw := gateway.NewClient(*serverURL, *apiKey, log)
	store := session.NewStore(prefs, log)
	watch := session.NewStopwatch(nil)
	saver := session.NewSaver(store, gw, watch, *userID, log)

	c := console.New(store, saver, gw, gateway.NewGuidanceClient(gw), watch, *userID, in, out, log)

	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ironlog")
	}
	return ".ironlog"
}
