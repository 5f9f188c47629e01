package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures the runtime configuration for the todo web application.
// It is resolved once at startup and passed by value to every component
// that needs it; nothing reads the environment after Load returns.
type Config struct {
	AppPort  int
	LogLevel string

	// PublicURL is the externally visible base URL of this application,
	// used to build absolute OAuth callback URLs.
	PublicURL string

	// OAuth client registration with the identity provider.
	ClientID     string
	ClientSecret string

	// MetadataURL is the provider's OIDC discovery document. Endpoint
	// overrides below take precedence over discovered values when set.
	MetadataURL  string
	AuthorizeURL string
	TokenURL     string
	JWKSURL      string

	// AuthServerHost identifies redirects that target the identity
	// provider. Derived from AuthorizeURL when left empty.
	AuthServerHost string

	Scopes []string

	// APIBaseURL is the upstream todo REST API.
	APIBaseURL string

	// Session store (Valkey/Redis) connection URL and session lifetime.
	ValkeyURL  string
	SessionTTL time.Duration
}

// Load reads configuration from environment variables, applying sensible
// defaults for local development while allowing overrides through
// environment variables.
func Load() (Config, error) {
	cfg := Config{
		AppPort:        getInt("TODOWEB_PORT", 8080),
		LogLevel:       getString("TODOWEB_LOG_LEVEL", "info"),
		PublicURL:      getString("TODOWEB_PUBLIC_URL", "http://localhost:8080"),
		ClientID:       getString("TODOWEB_OAUTH_CLIENT_ID", "todo-webapp"),
		ClientSecret:   getString("TODOWEB_OAUTH_CLIENT_SECRET", ""),
		MetadataURL:    getString("TODOWEB_OAUTH_METADATA_URL", ""),
		AuthorizeURL:   getString("TODOWEB_OAUTH_AUTHORIZE_URL", ""),
		TokenURL:       getString("TODOWEB_OAUTH_TOKEN_URL", ""),
		JWKSURL:        getString("TODOWEB_OAUTH_JWKS_URL", ""),
		AuthServerHost: getString("TODOWEB_OAUTH_SERVER_HOST", ""),
		Scopes:         getList("TODOWEB_OAUTH_SCOPES", []string{"openid", "email", "profile"}),
		APIBaseURL:     getString("TODOWEB_API_BASE_URL", "http://localhost:9090"),
		ValkeyURL:      getString("TODOWEB_VALKEY_URL", "redis://localhost:6379/0"),
		SessionTTL:     getDuration("TODOWEB_SESSION_TTL", time.Hour),
	}

	if cfg.MetadataURL == "" && (cfg.AuthorizeURL == "" || cfg.TokenURL == "") {
		return Config{}, fmt.Errorf("either TODOWEB_OAUTH_METADATA_URL or both TODOWEB_OAUTH_AUTHORIZE_URL and TODOWEB_OAUTH_TOKEN_URL must be set")
	}

	if cfg.AuthServerHost == "" && cfg.AuthorizeURL != "" {
		u, err := url.Parse(cfg.AuthorizeURL)
		if err != nil {
			return Config{}, fmt.Errorf("parse authorize url: %w", err)
		}
		cfg.AuthServerHost = u.Host
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Fields(strings.ReplaceAll(value, ",", " "))
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
