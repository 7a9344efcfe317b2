// Package log builds the diagnostic logger. Output goes to an append-only
// file so it never interferes with the terminal UIs.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Options configures New.
type Options struct {
	Enabled bool
	Level   string
	Path    string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger named "tufocus" and the file it writes to. When
// logging is disabled the logger discards everything and the closer is a
// no-op.
func New(opts Options) (hclog.Logger, io.Closer, error) {
	if !opts.Enabled {
		return hclog.NewNullLogger(), nopCloser{}, nil
	}
	level := hclog.LevelFromString(strings.TrimSpace(opts.Level))
	if level == hclog.NoLevel {
		return nil, nil, fmt.Errorf("unknown log level %q", opts.Level)
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "tufocus",
		Level:  level,
		Output: f,
	})
	return logger, f, nil
}
