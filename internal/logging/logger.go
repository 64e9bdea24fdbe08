package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a JSON slog logger writing to stdout at the given level
// and returns its handler so callers can fan it out further.
func Setup(level slog.Level) slog.Handler {
	return SetupWriter(os.Stdout, level)
}

func SetupWriter(w io.Writer, level slog.Level) slog.Handler {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
	return handler
}
