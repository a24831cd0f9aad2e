// Package logging adapts github.com/charmbracelet/log into the
// workflow.Logger sink the engine writes to: a leveled, component-prefixed
// logger shared by the CLI, the MCP server and every step package.
package logging

import (
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger wraps a *charmlog.Logger, satisfying workflow.Logger without
// internal/workflow needing to import charmbracelet/log itself.
type Logger struct {
	inner *charmlog.Logger
}

// New builds a Logger writing to stderr with component as its prefix, so
// concurrent workflows (or a workflow alongside CLI chatter) stay visually
// separable in the same stream.
func New(component string) *Logger {
	l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		Prefix:          component,
		ReportTimestamp: true,
	})
	return &Logger{inner: l}
}

// WithLevel sets the minimum level that reaches the sink (debug, info,
// warn, error). Unrecognised values leave the current level untouched.
func (l *Logger) WithLevel(level string) *Logger {
	switch level {
	case "debug":
		l.inner.SetLevel(charmlog.DebugLevel)
	case "info":
		l.inner.SetLevel(charmlog.InfoLevel)
	case "warn", "warning":
		l.inner.SetLevel(charmlog.WarnLevel)
	case "error":
		l.inner.SetLevel(charmlog.ErrorLevel)
	}
	return l
}

func (l *Logger) Debug(msg any, keyvals ...any) { l.inner.Debug(msg, keyvals...) }
func (l *Logger) Info(msg any, keyvals ...any)  { l.inner.Info(msg, keyvals...) }
func (l *Logger) Warn(msg any, keyvals ...any)  { l.inner.Warn(msg, keyvals...) }
func (l *Logger) Error(msg any, keyvals ...any) { l.inner.Error(msg, keyvals...) }
