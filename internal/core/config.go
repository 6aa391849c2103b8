package core

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings.
type Config struct {
	Username string
	Avatar   string
	LogLevel slog.Level
}

// LoadConfig reads settings from the environment, loading a .env file from
// the working directory first when present.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Username: strings.TrimSpace(os.Getenv("WARDROOM_USER")),
		Avatar:   strings.TrimSpace(os.Getenv("WARDROOM_AVATAR")),
		LogLevel: slog.LevelWarn,
	}

	switch strings.ToLower(os.Getenv("WARDROOM_LOG")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "error":
		cfg.LogLevel = slog.LevelError
	}

	if cfg.Username == "" {
		cfg.Username = strings.TrimSpace(os.Getenv("USER"))
	}
	return cfg
}
