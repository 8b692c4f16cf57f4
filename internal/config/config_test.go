package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/iftar")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENCRYPTION_KEY", "BwcHBwcHBwcHBwcHBwcHBwcHBwcHBwcHBwcHBwcHBwc=")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)
	for _, k := range []string{"SERVER_ADDRESS", "MIGRATIONS_PATH", "TEMPLATES_DIR", "ANCHOR_FETCH_TIMEOUT", "ANCHOR_RETRY_BACKOFF", "SUHOOR_OFFSET_MINUTES", "TIMEZONE", "USE_SPACES", "ALADHAN_BASE_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "./migrations", cfg.MigrationsPath)
	assert.Equal(t, "./integrations/templates", cfg.TemplatesDir)
	assert.Equal(t, 5*time.Second, cfg.AnchorFetchTimeout)
	assert.Equal(t, time.Second, cfg.AnchorRetryBackoff)
	assert.Equal(t, 15, cfg.SuhoorOffsetMinutes)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, "https://api.aladhan.com/v1", cfg.AladhanBaseURL)
	assert.False(t, cfg.UseSpaces)
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ANCHOR_FETCH_TIMEOUT", "2s")
	t.Setenv("SUHOOR_OFFSET_MINUTES", "30")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.AnchorFetchTimeout)
	assert.Equal(t, 30, cfg.SuhoorOffsetMinutes)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestFromEnv_ZeroSuhoorOffsetIsKept(t *testing.T) {
	setRequired(t)
	t.Setenv("SUHOOR_OFFSET_MINUTES", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.SuhoorOffsetMinutes)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"DATABASE_URL", ""},
		{"JWT_SECRET", ""},
		{"ENCRYPTION_KEY", ""},
		{"ANCHOR_FETCH_TIMEOUT", "soon"},
		{"SUHOOR_OFFSET_MINUTES", "-5"},
		{"SUHOOR_OFFSET_MINUTES", "x"},
		{"TIMEZONE", "Mars/Olympus"},
		{"USE_SPACES", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setRequired(t)
			t.Setenv("SPACES_BUCKET", "")
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
