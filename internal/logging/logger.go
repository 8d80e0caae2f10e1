package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger. Production gets JSON output for
// aggregation; everything else gets the human-readable text handler.
func Init(env string) {
	var handler slog.Handler
	if strings.EqualFold(env, "production") {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}
