package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Endpoints holds the provider endpoints the client needs. Values may come
// from static configuration or from the discovery document.
type Endpoints struct {
	Issuer       string `json:"issuer"`
	AuthorizeURL string `json:"authorization_endpoint"`
	TokenURL     string `json:"token_endpoint"`
	JWKSURL      string `json:"jwks_uri"`
}

// Discover fetches the provider's OIDC discovery document. It is called
// once at startup; transient provider hiccups are retried by the supplied
// client rather than failing the boot.
func Discover(ctx context.Context, client *http.Client, metadataURL string) (Endpoints, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL, nil)
	if err != nil {
		return Endpoints{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Endpoints{}, fmt.Errorf("fetch provider metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Endpoints{}, fmt.Errorf("provider metadata request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Endpoints{}, err
	}

	var eps Endpoints
	if err := json.Unmarshal(body, &eps); err != nil {
		return Endpoints{}, fmt.Errorf("parse provider metadata: %w", err)
	}
	if eps.AuthorizeURL == "" || eps.TokenURL == "" {
		return Endpoints{}, fmt.Errorf("provider metadata at %s is missing endpoints", metadataURL)
	}
	return eps, nil
}

// DiscoveryHTTPClient returns an http.Client with retry logic suitable for
// the one-time metadata fetch at startup. Retries happen only here; the
// per-request proxy path uses a plain client.
func DiscoveryHTTPClient(logger *slog.Logger) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = retryablehttp.LeveledLogger(leveledSlog{logger})
	client := rc.StandardClient()
	client.Timeout = 20 * time.Second
	return client
}

type leveledSlog struct {
	inner *slog.Logger
}

// intermediate failures are retried, so downgrade ERROR to WARN
func (l leveledSlog) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Info(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Debug(msg, keysAndValues...)
}
