package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rpggio/recipe-activity/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New constructs a slog.Logger configured according to the provided settings.
// Output goes to out unless cfg.Path names a log file. The returned closer
// releases the file, if any.
func New(cfg config.LogConfig, out io.Writer) (*slog.Logger, io.Closer, error) {
	var closer io.Closer = nopCloser{}
	if cfg.Path != "" {
		fileWriter, err := NewFileWriter(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = fileWriter
		closer = fileWriter
	}

	handler, err := buildHandler(cfg, out)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}

	return slog.New(handler), closer, nil
}

func buildHandler(cfg config.LogConfig, out io.Writer) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	switch cfg.Format {
	case "json":
		return slog.NewJSONHandler(out, opts), nil
	case "text", "":
		return slog.NewTextHandler(out, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
