package oauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Token is the session-owned record of an issued token set. Timestamps are
// epoch seconds. RefreshExpiresAt is always derived as issuance time plus
// RefreshExpiresIn and is the sole liveness signal the auth guard inspects;
// access-token expiry is handled by the client's own refresh path.
type Token struct {
	AccessToken      string         `json:"access_token"`
	TokenType        string         `json:"token_type"`
	RefreshToken     string         `json:"refresh_token"`
	ExpiresAt        int64          `json:"expires_at,omitempty"`
	RefreshExpiresIn int64          `json:"refresh_expires_in,omitempty"`
	RefreshExpiresAt int64          `json:"refresh_expires_at,omitempty"`
	IDToken          string         `json:"id_token,omitempty"`
	Userinfo         map[string]any `json:"userinfo,omitempty"`
}

// RefreshLive reports whether the refresh token is still usable at the
// given instant. Second resolution, UTC.
func (t *Token) RefreshLive(now time.Time) bool {
	if t == nil {
		return false
	}
	return t.RefreshExpiresAt > now.UTC().Unix()
}

// UserinfoString returns a string claim from the stored identity claims,
// or the empty string when absent.
func (t *Token) UserinfoString(claim string) string {
	if t == nil || t.Userinfo == nil {
		return ""
	}
	if v, ok := t.Userinfo[claim].(string); ok {
		return v
	}
	return ""
}

// newToken converts an oauth2 token response into the session record,
// deriving RefreshExpiresAt from the issuance instant and lifting the
// provider's extra response fields (refresh_expires_in, id_token).
func newToken(tok *oauth2.Token, issuedAt time.Time) *Token {
	t := &Token{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		t.ExpiresAt = tok.Expiry.Unix()
	}
	t.RefreshExpiresIn = extraInt64(tok, "refresh_expires_in")
	t.RefreshExpiresAt = issuedAt.UTC().Unix() + t.RefreshExpiresIn
	if id, ok := tok.Extra("id_token").(string); ok && id != "" {
		t.IDToken = id
		t.Userinfo = identityClaims(id)
	}
	return t
}

// identityClaims extracts display claims from an ID token without signature
// verification. The token was just received over TLS from the provider's
// token endpoint; the claims are used for presentation only.
func identityClaims(idToken string) map[string]any {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil
	}
	return map[string]any(claims)
}

func extraInt64(tok *oauth2.Token, key string) int64 {
	switch v := tok.Extra(key).(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
