package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Params controls where and how verbosely the process logs.
type Params struct {
	Level string
	// File, when set, receives a copy of every record with size-based rotation.
	File string
}

// Setup builds a text slog.Logger writing to stdout and, optionally, a
// rotated log file. The returned closer releases the file; it is a no-op
// when File is empty.
func Setup(params Params) (*slog.Logger, io.Closer) {
	return newLogger(os.Stdout, params)
}

// SetupFile is Setup for interactive programs that own stdout: records go only
// to the rotated File, or nowhere when File is empty.
func SetupFile(params Params) (*slog.Logger, io.Closer) {
	if params.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nopCloser{}
	}
	rotating := newRotating(params.File)
	handler := slog.NewTextHandler(rotating, &slog.HandlerOptions{Level: ParseLevel(params.Level)})
	return slog.New(handler), rotating
}

func newRotating(file string) *lumberjack.Logger {
	if !strings.HasSuffix(file, ".log") {
		file += ".log"
	}
	return &lumberjack.Logger{
		Filename:   file,
		MaxSize:    50, // megabytes
		MaxBackups: 10,
		Compress:   true,
	}
}

func newLogger(stdout io.Writer, params Params) (*slog.Logger, io.Closer) {
	out := stdout
	var closer io.Closer = nopCloser{}

	if params.File != "" {
		rotating := newRotating(params.File)
		out = io.MultiWriter(stdout, rotating)
		closer = rotating
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: ParseLevel(params.Level)})
	return slog.New(handler), closer
}

// ParseLevel maps a config level name to a slog level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
