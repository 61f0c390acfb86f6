package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnyineza/RindwaApp-sub000/internal/types"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.SendTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.Retention)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, types.DefaultTimezone, cfg.DefaultTimezone)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.PushServerKey)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("RINDWA_HTTP_ADDR", ":9090")
	t.Setenv("RINDWA_WORKERS", "4")
	t.Setenv("RINDWA_SEND_TIMEOUT", "2s")
	t.Setenv("RINDWA_RATE_SMS", "1.5")
	t.Setenv("RINDWA_RETENTION", "48h")
	t.Setenv("RINDWA_REDIS_ADDR", "localhost:6379")
	t.Setenv("RINDWA_REDIS_DB", "2")
	t.Setenv("RINDWA_DEFAULT_TIMEZONE", "UTC")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 2*time.Second, cfg.SendTimeout)
	assert.Equal(t, 48*time.Hour, cfg.Retention)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "UTC", cfg.DefaultTimezone)
	assert.Equal(t, map[types.Channel]float64{
		types.ChannelPush:  0,
		types.ChannelEmail: 0,
		types.ChannelSMS:   1.5,
	}, cfg.Rates())
}

func TestFromEnv_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("RINDWA_WORKERS", "many")
	t.Setenv("RINDWA_SEND_TIMEOUT", "soon")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.SendTimeout)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero workers", "RINDWA_WORKERS", "0"},
		{"negative timeout", "RINDWA_SEND_TIMEOUT", "-1s"},
		{"negative rate", "RINDWA_RATE_PUSH", "-3"},
		{"unknown timezone", "RINDWA_DEFAULT_TIMEZONE", "Mars/Olympus_Mons"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RINDWA_EMAIL_FROM=ops@rindwa.rw\nRINDWA_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("RINDWA_LOG_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("RINDWA_EMAIL_FROM") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ops@rindwa.rw", cfg.EmailFrom)
	assert.Equal(t, "warn", cfg.LogLevel, "process environment wins over .env")
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}
