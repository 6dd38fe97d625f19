package grid

import (
	"io"

	"github.com/charmbracelet/log"
)

// Logger is the tracing sink of the engine packages.
// *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Debug(msg any, keyvals ...any)
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return log.New(io.Discard)
}
