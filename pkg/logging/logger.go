// Package logging builds the console logger shared by every component.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"

	"github.com/itohio/gotelem/pkg/config"
)

// New returns a logger writing to w. Text format uses a colourised tint
// handler, json the standard JSON handler.
func New(cfg *config.Config, w io.Writer, app string) *slog.Logger {
	level, err := cfg.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	if cfg.Log.Format == "json" {
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
		return slog.New(h).With(
			"app", app,
			"variant", cfg.Variant,
		)
	}

	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isTerminal(w),
	})
	return slog.New(h).With("app", app)
}

type fder interface {
	Fd() uintptr
}

// isTerminal reports whether w is backed by a file descriptor.
func isTerminal(w io.Writer) bool {
	_, ok := w.(fder)
	return ok
}
