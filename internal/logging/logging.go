// Package logging provides the process-wide diagnostic logger. Output
// goes to stderr so it never mixes with command output, and stays at
// warn level unless verbose mode is requested.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Level:           log.WarnLevel,
	Formatter:       log.TextFormatter,
	ReportTimestamp: false,
	Prefix:          "tick",
})

// SetVerbose lowers the level to debug so every request and mutation
// is traced.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
}

// SetOutput redirects log output, used by tests.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Debug logs a message at debug level with key/value fields.
func Debug(msg string, fields ...any) {
	logger.Debug(msg, fields...)
}

// Info logs a message at info level with key/value fields.
func Info(msg string, fields ...any) {
	logger.Info(msg, fields...)
}

// Warn logs a message at warn level with key/value fields.
func Warn(msg string, fields ...any) {
	logger.Warn(msg, fields...)
}

// Error logs a message at error level with key/value fields.
func Error(msg string, fields ...any) {
	logger.Error(msg, fields...)
}
