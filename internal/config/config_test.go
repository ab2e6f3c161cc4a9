package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv はテスト中だけ環境変数を未設定にし、終了時に元の値へ戻します。
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		prev, had := os.LookupEnv(k)
		require.NoError(t, os.Unsetenv(k))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, prev)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFromEnv_Defaults(t *testing.T) {
	unsetEnv(t, "PORT", "JWT_EXPIRATION", "REFRESH_TOKEN_TTL", "MAX_SESSIONS", "TODO_CACHE_TTL",
		"LOG_LEVEL", "LOG_FORMAT", "GEMINI_API_KEY", "GOOGLE_GENAI_USE_VERTEXAI", "GEMINI_MODEL",
		"OPENAI_BASE_URL", "OPENAI_MODEL", "AI_RATE_LIMIT", "MCP_ADDR", "MCP_PATH")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultJWTExpiration, cfg.JWTExpiration)
	assert.Equal(t, DefaultRefreshTTL, cfg.RefreshTTL)
	assert.Equal(t, DefaultTodoCacheTTL, cfg.TodoCacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, DefaultGeminiModel, cfg.AI.GeminiModel)
	assert.Equal(t, DefaultOpenAIBaseURL, cfg.AI.OpenAIBaseURL)
	assert.Equal(t, DefaultAIRateLimit, cfg.AI.RateLimit)
	assert.False(t, cfg.AI.GeminiEnabled())
	assert.Equal(t, MCPConfig{Addr: DefaultMCPAddr, Path: DefaultMCPPath}, cfg.MCP)
}

func TestFromEnv_Values(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRATION", "45")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("MAX_SESSIONS", "3")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1/")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 45*time.Minute, cfg.JWTExpiration)
	assert.Equal(t, 48*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, 3, cfg.MaxSessions)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AI.OpenAIBaseURL)
	assert.True(t, cfg.AI.GeminiEnabled())
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "failure: bad duration", key: "TODO_CACHE_TTL", val: "soon"},
		{name: "failure: negative duration", key: "REFRESH_TOKEN_TTL", val: "-1h"},
		{name: "failure: bad integer", key: "AI_RATE_LIMIT", val: "many"},
		{name: "failure: bad boolean", key: "GOOGLE_GENAI_USE_VERTEXAI", val: "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestApplyFile(t *testing.T) {
	unsetEnv(t, "DB_DRIVER", "SQLITE_PATH", "RUN_MIGRATIONS", "AI_RATE_LIMIT")
	t.Setenv("PORT", "7000")

	path := writeFile(t, `
port = 8081
db_driver = "sqlite"
sqlite_path = "/tmp/todos.db"
run_migrations = true
ai_rate_limit = 10
`)
	require.NoError(t, ApplyFile(path))

	assert.Equal(t, "7000", os.Getenv("PORT"), "environment wins over file")
	assert.Equal(t, "sqlite", os.Getenv("DB_DRIVER"))
	assert.Equal(t, "/tmp/todos.db", os.Getenv("SQLITE_PATH"))
	assert.Equal(t, "true", os.Getenv("RUN_MIGRATIONS"))

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.AI.RateLimit)
}

func TestApplyFile_Errors(t *testing.T) {
	t.Run("failure: unknown key", func(t *testing.T) {
		path := writeFile(t, `colour = "blue"`)
		err := ApplyFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("failure: malformed file", func(t *testing.T) {
		path := writeFile(t, `port = `)
		assert.Error(t, ApplyFile(path))
	})

	t.Run("failure: missing file", func(t *testing.T) {
		err := ApplyFile(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()
	assert.Error(t, err)
}
