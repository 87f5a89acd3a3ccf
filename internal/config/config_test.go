package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnv sets every listed variable for the test; an empty value unsets it
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
		if v == "" {
			os.Unsetenv(k)
		}
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"BOT_TOKEN":           "",
		"BOT_PASSWORD":        "",
		"ADMIN_PASSWORD_HASH": "",
		"DB_PASSWORD":         "test_db_password",
		"DB_HOST":             "",
		"DB_PORT":             "",
		"DB_NAME":             "",
		"DB_USER":             "",
		"MIGRATIONS_PATH":     "",
		"LOCAL_STORE_PATH":    "",
		"WEB_ADDR":            "",
		"SESSION_SECRET":      "",
		"FEED_PAGE_SIZE":      "",
		"SESSION_IDLE_TTL":    "",
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	setEnv(t, baseEnv())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "wordfeed", cfg.Database.Name)
	assert.Equal(t, "wordfeed", cfg.Database.User)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, "data/local.db", cfg.LocalStorePath)
	assert.Equal(t, ":8080", cfg.Web.Addr)
	assert.Equal(t, 20, cfg.Feed.PageSize)
	assert.Equal(t, 2*time.Hour, cfg.Feed.SessionIdleTTL)
}

func TestLoad_Overrides(t *testing.T) {
	env := baseEnv()
	env["DB_HOST"] = "pg.internal"
	env["DB_PORT"] = "6432"
	env["DB_NAME"] = "vocab"
	env["DB_USER"] = "reader"
	env["FEED_PAGE_SIZE"] = "50"
	env["SESSION_IDLE_TTL"] = "45m"
	env["LOCAL_STORE_PATH"] = "/var/lib/wordfeed/local.db"
	setEnv(t, env)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Feed.PageSize)
	assert.Equal(t, 45*time.Minute, cfg.Feed.SessionIdleTTL)
	assert.Equal(t, "/var/lib/wordfeed/local.db", cfg.LocalStorePath)
	assert.Equal(t,
		"host=pg.internal port=6432 user=reader password=test_db_password dbname=vocab sslmode=disable",
		cfg.DSN(),
	)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		override map[string]string
		contains string
	}{
		{"missing db password", map[string]string{"DB_PASSWORD": ""}, "DB_PASSWORD"},
		{"bad page size", map[string]string{"FEED_PAGE_SIZE": "ten"}, "FEED_PAGE_SIZE"},
		{"zero page size", map[string]string{"FEED_PAGE_SIZE": "0"}, "FEED_PAGE_SIZE"},
		{"bad ttl", map[string]string{"SESSION_IDLE_TTL": "forever"}, "SESSION_IDLE_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			for k, v := range tt.override {
				env[k] = v
			}
			setEnv(t, env)

			cfg, err := Load()

			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadBot(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		setEnv(t, baseEnv())

		cfg, err := LoadBot()
		assert.Nil(t, cfg)
		assert.ErrorContains(t, err, "BOT_TOKEN")
	})

	t.Run("missing password", func(t *testing.T) {
		env := baseEnv()
		env["BOT_TOKEN"] = "test_token"
		setEnv(t, env)

		cfg, err := LoadBot()
		assert.Nil(t, cfg)
		assert.ErrorContains(t, err, "BOT_PASSWORD")
	})

	t.Run("complete", func(t *testing.T) {
		env := baseEnv()
		env["BOT_TOKEN"] = "test_token"
		env["BOT_PASSWORD"] = "test_password"
		setEnv(t, env)

		cfg, err := LoadBot()
		require.NoError(t, err)
		assert.Equal(t, "test_token", cfg.BotToken)
		assert.Equal(t, "test_password", cfg.BotPassword)
	})
}

func TestLoadWeb(t *testing.T) {
	env := baseEnv()
	env["SESSION_SECRET"] = "short"
	setEnv(t, env)

	_, err := LoadWeb()
	assert.ErrorContains(t, err, "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", strings.Repeat("k", 32))
	cfg, err := LoadWeb()
	require.NoError(t, err)
	assert.Len(t, cfg.Web.SessionSecret, 32)
}
