// Package logger holds the process-wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	nop := zerolog.Nop()
	current.Store(&nop)
}

// ParseLevel maps a level name to a zerolog level. Unknown names select info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// Init configures the global logger.
// level: "debug", "info", "warn", "error" or "off"
// file: optional log file; console output always goes to stderr
func Init(level string, file string) error {
	return InitWriter(os.Stderr, level, file)
}

// InitWriter is Init with an explicit console writer
func InitWriter(console io.Writer, level string, file string) error {
	var output io.Writer = zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05"}

	if file != "" {
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		// the file gets JSON lines, the console stays human readable
		output = zerolog.MultiLevelWriter(output, f)
	}

	l := zerolog.New(output).Level(ParseLevel(level)).With().Timestamp().Logger()
	current.Store(&l)
	return nil
}

// Set replaces the global logger
func Set(l zerolog.Logger) {
	current.Store(&l)
}

// Get returns the global logger. It discards everything until Init is called.
func Get() *zerolog.Logger {
	return current.Load()
}
