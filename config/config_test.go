package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{
  "telegram_bot_token": "from-file",
  "db_address": "db:5432",
  "db_timeout": "15s",
  "notify_cron": "*/2 * * * *",
  "debug": true
}`), 0o600)
	require.NoError(t, err)
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("FOOTBALL_DATA_TOKEN", "feed")

	c, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", c.TelegramBotToken)
	assert.Equal(t, "feed", c.FootballDataToken)
	assert.Equal(t, "db:5432", c.DBAddress)
	assert.Equal(t, 15*time.Second, c.DBTimeout)
	assert.Equal(t, "*/2 * * * *", c.NotifyCron)
	assert.Equal(t, "0 6 * * *", c.SyncCron)
	assert.True(t, c.Debug)
	assert.NoError(t, c.ValidateServe())
}

func TestLoadWithoutFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.json"))

	require.NoError(t, err)
	assert.Equal(t, "https://api.football-data.org/v4", c.FootballDataBaseURL)
	assert.Equal(t, ":42069", c.HTTPAddress)
	assert.Equal(t, time.Minute, c.DBTimeout)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"debug": `), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.Error(t, Config{}.ValidateSync())
	assert.Error(t, Config{FootballDataToken: "feed"}.ValidateServe())
	assert.NoError(t, Config{FootballDataToken: "feed"}.ValidateSync())
}
