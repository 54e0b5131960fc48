// Package logger builds the structured logger shared by the CLI and the
// pipeline runner. It wraps charmbracelet/log with a text or JSON formatter.
package logger

import (
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Level names accepted by Config.Level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Config controls logger construction.
type Config struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string
	// JSON selects the JSON formatter instead of human-readable text.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
	// TimeFormat defaults to "15:04:05".
	TimeFormat string
}

// New returns a logger configured by cfg.
func New(cfg Config) *charmlog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	tf := cfg.TimeFormat
	if tf == "" {
		tf = "15:04:05"
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      tf,
		Level:           ParseLevel(cfg.Level),
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}
	return l
}

// Discard returns a logger that drops everything. Library code falls back to
// it when the caller passes a nil logger.
func Discard() *charmlog.Logger {
	return charmlog.NewWithOptions(io.Discard, charmlog.Options{Level: charmlog.FatalLevel})
}

// ParseLevel maps a level name to a charmbracelet level.
func ParseLevel(s string) charmlog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel, "warning":
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}
