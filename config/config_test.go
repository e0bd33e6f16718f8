package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnenty/telers/config"
)

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("BOT_TOKEN", "42:ABC")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("POLLING_TIMEOUT", "15")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "42:ABC", cfg.BotToken)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, int64(15), cfg.PollingTimeout)
	assert.Equal(t, "https://api.telegram.org", cfg.APIURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_RequiresBotToken(t *testing.T) {
	// t.Setenv registers the restore; the variable must be absent, not empty.
	t.Setenv("BOT_TOKEN", "placeholder")
	require.NoError(t, os.Unsetenv("BOT_TOKEN"))

	_, err := config.Load()

	require.Error(t, err)
}
