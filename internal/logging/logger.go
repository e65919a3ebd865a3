// Package logging builds the charm logger themecheck writes through.
// It is configured from the environment:
//
//	THEMECHECK_LOG_LEVEL   debug, info, warn, error (default: info)
//	THEMECHECK_LOG_PREFIX  prefix for log lines (default: "themecheck")
//	THEMECHECK_LOG_TO_FILE "1" logs to a timestamped file instead of stderr
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Environment variables read by NewLogger.
const (
	EnvLevel  = "THEMECHECK_LOG_LEVEL"
	EnvPrefix = "THEMECHECK_LOG_PREFIX"
	EnvToFile = "THEMECHECK_LOG_TO_FILE"
)

// LoggerCloser wraps a logger and closes its output when it owns a file.
type LoggerCloser struct {
	*log.Logger
	closer io.Closer
}

// Close closes the underlying writer if it's closeable.
func (lc *LoggerCloser) Close() error {
	if lc.closer != nil {
		return lc.closer.Close()
	}
	return nil
}

// LevelFromEnv returns the level named by THEMECHECK_LOG_LEVEL, or info.
func LevelFromEnv() log.Level {
	lvl, err := log.ParseLevel(os.Getenv(EnvLevel))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// NewLoggerWithWriter creates a logger writing to w.
func NewLoggerWithWriter(w io.Writer) *LoggerCloser {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           LevelFromEnv(),
	})

	prefix := os.Getenv(EnvPrefix)
	if prefix == "" {
		prefix = "themecheck"
	}

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr && w != os.Stdout {
		closer = c
	}

	return &LoggerCloser{
		Logger: lg.WithPrefix(prefix),
		closer: closer,
	}
}

// NewLogger creates a logger configured from the environment.
func NewLogger() *LoggerCloser {
	output := io.Writer(os.Stderr)

	if os.Getenv(EnvToFile) == "1" {
		logFile := fmt.Sprintf("themecheck-%s-debug.log", time.Now().Format("20060102-150405"))
		// Falls back to stderr when the file cannot be created.
		if f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644); err == nil {
			output = f
		}
	}

	return NewLoggerWithWriter(output)
}

// IsDebug returns true if debug logging is enabled.
func IsDebug() bool {
	return LevelFromEnv() == log.DebugLevel
}
