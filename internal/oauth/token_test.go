package oauth

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestRefreshLive(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	var nilToken *Token
	assert.False(t, nilToken.RefreshLive(now))

	expired := &Token{RefreshExpiresAt: now.Unix()}
	assert.False(t, expired.RefreshLive(now), "expiry at the current instant is not live")

	live := &Token{RefreshExpiresAt: now.Add(time.Second).Unix()}
	assert.True(t, live.RefreshLive(now))
}

func TestUserinfoString(t *testing.T) {
	tok := &Token{Userinfo: map[string]any{"given_name": "Ada", "exp": float64(123)}}

	assert.Equal(t, "Ada", tok.UserinfoString("given_name"))
	assert.Empty(t, tok.UserinfoString("missing"))
	assert.Empty(t, tok.UserinfoString("exp"), "non-string claims read as empty")

	var nilToken *Token
	assert.Empty(t, nilToken.UserinfoString("given_name"))
}

func TestNewTokenDerivesRefreshExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	raw := (&oauth2.Token{
		AccessToken:  "at",
		TokenType:    "Bearer",
		RefreshToken: "rt",
		Expiry:       issuedAt.Add(5 * time.Minute),
	}).WithExtra(map[string]any{
		"refresh_expires_in": float64(1800),
		"id_token":           unsignedIDToken(t, map[string]any{"given_name": "Ada", "email": "ada@example.com"}),
	})

	tok := newToken(raw, issuedAt)

	require.NotNil(t, tok)
	assert.Equal(t, "at", tok.AccessToken)
	assert.Equal(t, int64(1800), tok.RefreshExpiresIn)
	assert.Equal(t, issuedAt.Unix()+1800, tok.RefreshExpiresAt)
	assert.Equal(t, "Ada", tok.UserinfoString("given_name"))
	assert.Equal(t, "ada@example.com", tok.UserinfoString("email"))
}

func TestNewTokenWithoutExtras(t *testing.T) {
	issuedAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	tok := newToken(&oauth2.Token{AccessToken: "at", RefreshToken: "rt"}, issuedAt)

	assert.Equal(t, int64(0), tok.RefreshExpiresIn)
	assert.Equal(t, issuedAt.Unix(), tok.RefreshExpiresAt, "a missing refresh_expires_in yields an immediately stale token")
	assert.Nil(t, tok.Userinfo)
}

// unsignedIDToken builds a JWT-shaped string carrying the given claims. The
// application never verifies ID token signatures, so an empty one suffices.
func unsignedIDToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header, err := json.Marshal(map[string]any{"alg": "none", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(header) + "." + base64.RawURLEncoding.EncodeToString(payload) + "."
}
