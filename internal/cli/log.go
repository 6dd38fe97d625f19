// Package cli implements the magnetgrid command-line interface.
//
// The commands inspect, plan and compact layout files, replay scripted
// pointer sessions, drive an interactive terminal grid, serve the HTTP API
// and manage the layout store. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - show: Print a layout file or stored layout as a table and a grid
//   - plan: Preview where a field would land when dropped on a row
//   - compact: Normalize a layout (pull rows up, expand lone fields)
//   - validate: Report overlapping fields
//   - replay: Run a pointer script against the engine and save the result
//   - play: Edit a layout interactively in the terminal
//   - serve: Run the HTTP API
//   - store: Inspect and modify stored layouts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The level
// otherwise comes from the config file. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that writes to w
// at the given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logLevel resolves the configured level name. verbose always wins, and an
// unknown or empty name means info.
func logLevel(name string, verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// progress logs how long an operation took once it is done.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, plus any
// extra key/value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
