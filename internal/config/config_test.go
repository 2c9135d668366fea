package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_MODEL", "Model",
		"ARK_TEMPERATURE", "ARK_TOP_P", "ARK_MAX_TOKENS",
		"AI_CHAT_TEMPERATURE", "AI_TIMEOUT", "AI_EXTRACTION_ENABLED", "EXTRACTION_WINDOW",
		"SESSION_MAX", "SESSION_IDLE_TTL", "SESSION_SWEEP_INTERVAL",
		"NATS_URL", "NATS_TOKEN", "LOG_LEVEL", "LOG_DEVELOPMENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.AI.Enabled())
	assert.InDelta(t, 0.8, cfg.AI.ChatTemperature, 1e-6)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.True(t, cfg.AI.ExtractionEnabled)
	assert.Equal(t, 6, cfg.AI.ExtractionWindow)
	assert.Zero(t, cfg.Session.MaxSessions)
	assert.Zero(t, cfg.Session.IdleTTL)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.False(t, cfg.Events.Enabled())
	assert.Equal(t, zapcore.InfoLevel, cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("ARK_API_KEY", "key")
	t.Setenv("ARK_MODEL", "doubao")
	t.Setenv("AI_CHAT_TEMPERATURE", "0.5")
	t.Setenv("AI_TIMEOUT", "5")
	t.Setenv("EXTRACTION_WINDOW", "0")
	t.Setenv("SESSION_MAX", "100")
	t.Setenv("SESSION_IDLE_TTL", "2h")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.AI.Enabled())
	assert.InDelta(t, 0.5, cfg.AI.ChatTemperature, 1e-6)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 1, cfg.AI.ExtractionWindow)
	assert.Equal(t, 100, cfg.Session.MaxSessions)
	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	assert.True(t, cfg.Events.Enabled())
	assert.Equal(t, zapcore.DebugLevel, cfg.Log.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                  "80 80",
		"AI_TIMEOUT":            "soon",
		"AI_EXTRACTION_ENABLED": "maybe",
		"LOG_LEVEL":             "loud",
		"SESSION_MAX":           "many",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewChatModelRequiresCredentials(t *testing.T) {
	_, err := AIConfig{Model: "m"}.NewChatModel(t.Context())
	assert.Error(t, err)
}
