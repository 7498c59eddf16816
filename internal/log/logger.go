// Package log holds the process-wide structured logger.
package log

import (
	"os"

	"go.uber.org/zap"
)

var logger = zap.NewNop()

func init() {
	Configure(os.Getenv("DEBUG") == "true")
}

// Configure replaces the global logger. Debug mode uses zap's development
// config; otherwise the production config logs at info level and above.
func Configure(debug bool) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return
	}
	logger = l
}

// SetLogger installs l as the global logger. Tests use it with zaptest or an
// observer core.
func SetLogger(l *zap.Logger) {
	logger = l
}

// L returns the global logger.
func L() *zap.Logger {
	return logger
}

// With returns the global logger annotated with fields.
func With(fields ...zap.Field) *zap.Logger {
	return logger.With(fields...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = logger.Sync()
}
