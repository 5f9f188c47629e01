// Package session provides the server-side session layer: an opaque id in a
// cookie, a mapping held in an external store with a rolling TTL, and
// request-context binding so downstream code can reach the current session
// without threading it through every call.
package session

import (
	"context"
	"errors"

	"github.com/microtodo/webapp/internal/oauth"
)

// CookieName carries the opaque session id.
const CookieName = "session"

var (
	// ErrNotFound indicates no stored session exists for the id.
	ErrNotFound = errors.New("session not found")
	// ErrNoSession indicates no session is bound to the request context.
	ErrNoSession = errors.New("no session bound to context")
)

// Data is the session mapping. The token is exclusively owned by the
// session; the OAuth client mutates it in place through the refresh path.
// RedirectURL transiently holds the path to resume after login. AuthState
// and PKCEVerifier survive the round trip through the identity provider.
type Data struct {
	Token        *oauth.Token `json:"token,omitempty"`
	RedirectURL  string       `json:"redirect_url,omitempty"`
	AuthState    string       `json:"auth_state,omitempty"`
	PKCEVerifier string       `json:"pkce_verifier,omitempty"`
}

// Empty reports whether there is anything worth persisting.
func (d *Data) Empty() bool {
	return d == nil || (d.Token == nil && d.RedirectURL == "" && d.AuthState == "" && d.PKCEVerifier == "")
}

// Store is the external key-value capability holding session data keyed by
// the opaque session id. Every Save resets the TTL, which the middleware
// exploits for rolling expiry.
type Store interface {
	Load(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, data *Data) error
	Clear(ctx context.Context, id string) error
}

// Session is the per-request handle bound to the request context.
type Session struct {
	ID   string
	Data *Data

	existed   bool
	destroyed bool
}

// Destroy marks the session so the middleware clears it from the store
// instead of saving it back.
func (s *Session) Destroy() {
	s.destroyed = true
}

type ctxKey struct{}

// WithSession binds the session to the context for the duration of request
// handling. The binding dies with the request context, so concurrent
// requests can never observe each other's session.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the session bound to the context, or nil.
func FromContext(ctx context.Context) *Session {
	if ctx == nil {
		return nil
	}
	if sess, ok := ctx.Value(ctxKey{}).(*Session); ok {
		return sess
	}
	return nil
}

// TokenStore adapts the context-bound session to the OAuth client's token
// persistence interface. Writes mutate the in-memory session; the
// middleware persists it when the request finishes.
type TokenStore struct{}

func (TokenStore) CurrentToken(ctx context.Context) (*oauth.Token, error) {
	sess := FromContext(ctx)
	if sess == nil {
		return nil, ErrNoSession
	}
	if sess.Data.Token == nil {
		return nil, oauth.ErrNoToken
	}
	return sess.Data.Token, nil
}

func (TokenStore) StoreToken(ctx context.Context, tok *oauth.Token) error {
	sess := FromContext(ctx)
	if sess == nil {
		return ErrNoSession
	}
	sess.Data.Token = tok
	return nil
}
