package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is the component-scoped structured logger used across the application
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Format selects the log output encoding
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New builds a logger writing to stdout in the requested format
func New(level, format string) Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter builds a logger writing to w in the requested format
func NewWithWriter(w io.Writer, level, format string) Logger {
	if Format(strings.ToLower(format)) == FormatJSON {
		return NewZerolog(w, ParseLevel(level))
	}
	return NewZerolog(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}, ParseLevel(level))
}

// Nop returns a logger that discards everything
func Nop() Logger {
	return &ZerologAdapter{logger: zerolog.Nop()}
}
