package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"MEALWISE_STORE", "DATABASE_PATH", "FILE_STORE_PATH", "REDIS_ADDR", "LOG_LEVEL", "LOG_FORMAT", "PORT",
	"LLM_PROVIDER", "GEMINI_API_KEY", "GROQ_API_KEY",
	"GHOST_API_URL", "GHOST_CONTENT_API_KEY", "GHOST_ADMIN_API_KEY",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_WEBHOOK_URL", "TELEGRAM_ALLOWED_USER_IDS", "ADMIN_TELEGRAM_ID",
}

// clearEnv runs the test from an empty directory with every managed variable unset.
func clearEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range managedKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, StoreSQLite, cfg.Store)
		assert.Equal(t, "data/mealwise.db", cfg.DatabasePath)
		assert.Equal(t, "data/kv", cfg.FileStorePath)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "console", cfg.LogFormat)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, ProviderGroq, cfg.LLMProvider)
		assert.Empty(t, cfg.TelegramAllowedUsers)
		assert.False(t, cfg.IsUserAllowed(123456789), "no allow list admits nobody")
	})

	t.Run("Overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEALWISE_STORE", "FILE")
		t.Setenv("FILE_STORE_PATH", "/tmp/kv")
		t.Setenv("LLM_PROVIDER", "gemini")
		t.Setenv("GHOST_API_URL", "http://ghost.test")
		t.Setenv("GHOST_CONTENT_API_KEY", "ghost_key")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "1, 2,3")
		t.Setenv("ADMIN_TELEGRAM_ID", "99")

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, StoreFile, cfg.Store)
		assert.Equal(t, "/tmp/kv", cfg.FileStorePath)
		assert.Equal(t, ProviderGemini, cfg.LLMProvider)
		assert.Equal(t, "ghost_key", cfg.GhostAdminKey, "admin key falls back to content key")
		assert.Equal(t, []int64{1, 2, 3}, cfg.TelegramAllowedUsers)
		assert.Equal(t, int64(99), cfg.AdminTelegramID)
	})

	t.Run("DotEnvFile", func(t *testing.T) {
		clearEnv(t)
		require.NoError(t, os.WriteFile(".env", []byte("PORT=9090\nGROQ_API_KEY=from_file\n"), 0600))
		t.Cleanup(func() {
			os.Unsetenv("PORT")
			os.Unsetenv("GROQ_API_KEY")
		})

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "from_file", cfg.GroqAPIKey)
	})

	t.Run("RedisNeedsAddress", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEALWISE_STORE", "redis")

		_, err := NewFromEnv()
		require.Error(t, err)
		assert.Equal(t, "REDIS_ADDR environment variable not set", err.Error())
	})

	t.Run("UnknownStore", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MEALWISE_STORE", "mongo")
		_, err := NewFromEnv()
		assert.ErrorContains(t, err, "unsupported MEALWISE_STORE")
	})

	t.Run("UnknownProvider", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LLM_PROVIDER", "openai")
		_, err := NewFromEnv()
		assert.ErrorContains(t, err, "unsupported LLM_PROVIDER")
	})

	t.Run("BadUserIDs", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "1,abc")
		_, err := NewFromEnv()
		assert.ErrorContains(t, err, "invalid TELEGRAM_ALLOWED_USER_IDS")
	})
}

func TestRequire(t *testing.T) {
	t.Run("Ghost", func(t *testing.T) {
		cfg := &Config{}
		assert.EqualError(t, cfg.RequireGhost(), "GHOST_API_URL environment variable not set")
		cfg.GhostURL = "http://ghost.test"
		assert.EqualError(t, cfg.RequireGhost(), "GHOST_CONTENT_API_KEY environment variable not set")
		cfg.GhostContentKey = "k"
		assert.NoError(t, cfg.RequireGhost())
	})

	t.Run("Telegram", func(t *testing.T) {
		cfg := &Config{}
		assert.EqualError(t, cfg.RequireTelegram(), "TELEGRAM_BOT_TOKEN environment variable not set")
		cfg.TelegramBotToken = "token"
		assert.NoError(t, cfg.RequireTelegram())
	})

	t.Run("LLM", func(t *testing.T) {
		cfg := &Config{LLMProvider: ProviderGroq}
		assert.EqualError(t, cfg.RequireLLM(), "GROQ_API_KEY environment variable not set")
		cfg.LLMProvider = ProviderGemini
		assert.EqualError(t, cfg.RequireLLM(), "GEMINI_API_KEY environment variable not set")
		cfg.GeminiAPIKey = "k"
		assert.NoError(t, cfg.RequireLLM())
	})
}

func TestIsUserAllowed(t *testing.T) {
	unset := &Config{}
	assert.False(t, unset.IsUserAllowed(42))
	assert.False(t, unset.IsUserAllowed(0))

	adminOnly := &Config{AdminTelegramID: 7}
	assert.True(t, adminOnly.IsUserAllowed(7))
	assert.False(t, adminOnly.IsUserAllowed(42))

	restricted := &Config{TelegramAllowedUsers: []int64{1, 2}, AdminTelegramID: 7}
	assert.True(t, restricted.IsUserAllowed(2))
	assert.True(t, restricted.IsUserAllowed(7))
	assert.False(t, restricted.IsUserAllowed(3))
}
