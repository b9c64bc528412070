package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the bot reads from the environment.
type Config struct {
	BotToken     string
	DatabasePath string
	// AdminChatID receives the startup notification. Zero disables it.
	AdminChatID int64
	Location    *time.Location
}

// Load reads a .env file if one exists, then the process environment.
// BOT_TOKEN is the only required variable.
func Load() (*Config, error) {
	// Missing .env is fine, real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:     os.Getenv("BOT_TOKEN"),
		DatabasePath: os.Getenv("DATABASE_PATH"),
		Location:     time.UTC,
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is missing from environment")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "./routine.db"
	}

	if raw := os.Getenv("ADMIN_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_ID %q: %w", raw, err)
		}
		cfg.AdminChatID = id
	}

	if name := os.Getenv("TZ_NAME"); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("invalid TZ_NAME %q: %w", name, err)
		}
		cfg.Location = loc
	}

	return cfg, nil
}
