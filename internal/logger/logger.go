package logger

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the root logger. Components derive their own loggers from it
// via With().Str("component", ...).
func New(level string, pretty bool) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(level))

	if pretty {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
