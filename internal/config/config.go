package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends selectable through MEALWISE_STORE.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// LLM providers selectable through LLM_PROVIDER.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config holds the configuration for the application.
type Config struct {
	Store         string
	DatabasePath  string
	FileStorePath string
	RedisAddr     string
	LogLevel      string
	LogFormat     string
	Port          string

	LLMProvider  string
	GeminiAPIKey string
	GroqAPIKey   string

	GhostURL        string
	GhostContentKey string
	GhostAdminKey   string

	// Telegram Config
	TelegramBotToken     string
	TelegramWebhookURL   string
	TelegramAllowedUsers []int64
	AdminTelegramID      int64
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("MEALWISE_STORE", StoreSQLite)
	v.SetDefault("DATABASE_PATH", "data/mealwise.db")
	v.SetDefault("FILE_STORE_PATH", "data/kv")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LLM_PROVIDER", ProviderGroq)

	cfg := &Config{
		Store:           strings.ToLower(v.GetString("MEALWISE_STORE")),
		DatabasePath:    v.GetString("DATABASE_PATH"),
		FileStorePath:   v.GetString("FILE_STORE_PATH"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		Port:            v.GetString("PORT"),
		LLMProvider:     strings.ToLower(v.GetString("LLM_PROVIDER")),
		GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
		GroqAPIKey:      v.GetString("GROQ_API_KEY"),
		GhostURL:        v.GetString("GHOST_API_URL"),
		GhostContentKey: v.GetString("GHOST_CONTENT_API_KEY"),
		GhostAdminKey:   v.GetString("GHOST_ADMIN_API_KEY"),

		TelegramBotToken:   v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: v.GetString("TELEGRAM_WEBHOOK_URL"),
	}

	switch cfg.Store {
	case StoreSQLite, StoreFile, StoreMemory:
	case StoreRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unsupported MEALWISE_STORE %q", cfg.Store)
	}

	switch cfg.LLMProvider {
	case ProviderGroq, ProviderGemini:
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}

	users, err := parseIDs(v.GetString("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}
	cfg.TelegramAllowedUsers = users

	if admin := v.GetString("ADMIN_TELEGRAM_ID"); admin != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(admin), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
		cfg.AdminTelegramID = id
	}

	if cfg.GhostAdminKey == "" {
		// Fallback to content key if only one is provided
		cfg.GhostAdminKey = cfg.GhostContentKey
	}

	return cfg, nil
}

// RequireLLM checks the API key of the selected provider.
func (c *Config) RequireLLM() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	default:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	}
	return nil
}

// RequireGhost checks the settings needed to import from and publish to Ghost.
func (c *Config) RequireGhost() error {
	if c.GhostURL == "" {
		return fmt.Errorf("GHOST_API_URL environment variable not set")
	}
	if c.GhostContentKey == "" {
		return fmt.Errorf("GHOST_CONTENT_API_KEY environment variable not set")
	}
	return nil
}

// RequireTelegram checks the settings needed to run the bot.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	return nil
}

// IsUserAllowed reports whether a Telegram user may talk to the bot.
// Only listed users and the admin are admitted; an empty list admits nobody else.
func (c *Config) IsUserAllowed(userID int64) bool {
	for _, id := range c.TelegramAllowedUsers {
		if id == userID {
			return true
		}
	}
	return userID == c.AdminTelegramID && userID != 0
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
