// Package output provides logging and terminal styling.
package output

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var logger atomic.Pointer[log.Logger]

func init() {
	logger.Store(log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "modmenu",
		ReportTimestamp: false,
		ReportCaller:    false,
	}))
}

// Logger returns the current logger.
func Logger() *log.Logger {
	return logger.Load()
}

// SetLogger replaces the logger used by every package. Safe to call while
// update checks are running.
func SetLogger(l *log.Logger) {
	logger.Store(l)
}

// SetupLogging configures the logger based on verbosity.
func SetupLogging(verbose bool) {
	SetupLoggingTo(os.Stderr, verbose)
}

// SetupLoggingTo is SetupLogging writing to w.
func SetupLoggingTo(w io.Writer, verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	SetLogger(log.NewWithOptions(w, log.Options{
		Prefix:          "modmenu",
		Level:           level,
		ReportTimestamp: verbose,
		ReportCaller:    verbose,
	}))
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...interface{}) {
	Logger().Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...interface{}) {
	Logger().Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...interface{}) {
	Logger().Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...interface{}) {
	Logger().Error(msg, keyvals...)
}
