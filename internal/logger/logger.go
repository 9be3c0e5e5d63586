package logger

import (
	"log/slog"
	"os"
	"strings"

	"realagent/internal/config"
)

// New builds the process logger: JSON in production, human-readable text
// otherwise. The returned logger is also installed as the slog default.
func New(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if strings.ToLower(cfg.AppEnv) == "production" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
