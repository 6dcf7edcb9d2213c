// Package logger sets up the structured log written to the rotating log file
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ayoisaiah/dayplan/internal/osutil"
)

// Options configures the log file.
type Options struct {
	Path       string
	Level      string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// ParseLevel maps a config level name to a slog level. Unknown names map to
// info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New returns a JSON logger writing to w.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// Open returns a logger writing to a rotating file, and a function that
// closes the file.
func Open(opts Options) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), osutil.DirPermission); err != nil {
		return nil, nil, err
	}

	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
	}

	return New(w, opts.Level), w.Close, nil
}
