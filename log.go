package fingerprint

import (
	"io"
	"log/slog"
)

// LogLevel is shared by loggers from NewLogger, defaults to info
var LogLevel = new(slog.LevelVar)

func NewLogger(w io.Writer, json bool) *slog.Logger {
	if json {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     LogLevel,
		}))
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LogLevel,
	}))
}
