// Package debug provides leveled diagnostic logging on top of zerolog.
// Logging is off until Setup is called.
package debug

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

var logger = zerolog.Nop()

// Setup routes diagnostic logs to w at the given zerolog level name.
func Setup(w io.Writer, level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000", NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return nil
}

// Logger returns the configured logger.
func Logger() zerolog.Logger {
	return logger
}

// Logf writes a debug message if the debug level is enabled.
func Logf(format string, args ...any) {
	logger.Debug().Msgf(format, args...)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return logger.GetLevel() <= zerolog.DebugLevel
}
