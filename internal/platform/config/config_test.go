package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "https://discord.com/api/v10", cfg.DiscordAPIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.DirectoryTimeout)
	assert.Equal(t, 8*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 5*time.Minute, cfg.DirectoryCacheTTL)
	assert.Empty(t, cfg.AdminIDs)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("GUARDPOST_ADDR", ":9999")
	t.Setenv("ADMIN_IDS", " 42, 1337 ,,99 ")
	t.Setenv("DIRECTORY_TIMEOUT", "2s")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, []string{"42", "1337", "99"}, cfg.AdminIDs)
	assert.Equal(t, 2*time.Second, cfg.DirectoryTimeout)
}

func TestValidateRejectsDevSigningKeyInProduction(t *testing.T) {
	t.Setenv("GUARDPOST_ENV", "production")

	cfg := FromEnv()
	assert.Error(t, cfg.Validate())

	t.Setenv("STATE_SIGNING_KEY", "a-real-key")
	cfg = FromEnv()
	assert.NoError(t, cfg.Validate())
}

func TestValidateAllowsDevSigningKeyInDevelopment(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, "development", cfg.Environment)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnvIgnoresBadDuration(t *testing.T) {
	t.Setenv("WEBHOOK_TIMEOUT", "soon")

	cfg := FromEnv()

	assert.Equal(t, 8*time.Second, cfg.WebhookTimeout)
}
