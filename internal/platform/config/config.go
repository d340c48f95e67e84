package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// devStateSigningKey keeps local development working without a .env file.
// Validate rejects it outside development.
const devStateSigningKey = "dev-secret-key-change-in-production"

// Config captures the full configuration surface of the service. Optional
// values left empty disable the dependent feature instead of failing startup.
type Config struct {
	Addr        string
	Environment string

	// Persistence. Empty DatabaseURL means reads return nothing and writes
	// are skipped.
	DatabaseURL string

	// Directory lookup cache. Empty RedisURL means lookups go direct.
	RedisURL string

	// Discord OAuth client used by the login surface.
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURI  string

	// Privileged credential for directory (user info) lookups.
	DirectoryBotToken string

	// Webhook notifications. Empty means notifications are skipped.
	WebhookURL string

	// Base URL of the external chat platform API. Overridable for tests.
	DiscordAPIBaseURL string

	// Key used to sign the OAuth state parameter.
	StateSigningKey string

	// Reviewer ids granted admin access. Empty means open access.
	AdminIDs []string

	DirectoryTimeout  time.Duration
	DirectoryCacheTTL time.Duration
	WebhookTimeout    time.Duration
	OAuthTimeout      time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("GUARDPOST_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	apiBase := os.Getenv("DISCORD_API_BASE_URL")
	if apiBase == "" {
		apiBase = "https://discord.com/api/v10"
	}

	signingKey := os.Getenv("STATE_SIGNING_KEY")
	if signingKey == "" {
		signingKey = devStateSigningKey
	}

	return Config{
		Addr:              addr,
		Environment:       envOr("GUARDPOST_ENV", "development"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		OAuthClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		OAuthRedirectURI:  os.Getenv("DISCORD_REDIRECT_URI"),
		DirectoryBotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		WebhookURL:        os.Getenv("DISCORD_WEBHOOK_URL"),
		DiscordAPIBaseURL: apiBase,
		StateSigningKey:   signingKey,
		AdminIDs:          splitList(os.Getenv("ADMIN_IDS")),
		DirectoryTimeout:  durationOr("DIRECTORY_TIMEOUT", 5*time.Second),
		DirectoryCacheTTL: durationOr("DIRECTORY_CACHE_TTL", 5*time.Minute),
		WebhookTimeout:    durationOr("WEBHOOK_TIMEOUT", 8*time.Second),
		OAuthTimeout:      durationOr("OAUTH_TIMEOUT", 10*time.Second),
	}
}

// Validate rejects configuration that must never reach production. The state
// signing key protects the OAuth login flow against CSRF, so the development
// default is only acceptable in development.
func (c Config) Validate() error {
	if c.Environment == "production" && c.StateSigningKey == devStateSigningKey {
		return fmt.Errorf("STATE_SIGNING_KEY must be set in production")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
