package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/microtodo/webapp/internal/logging"
)

// TokenStore gives the client access to the token owned by the session of
// the request currently being handled. Implementations read and write
// through the request context, because the refresh path does not receive
// the request explicitly.
type TokenStore interface {
	CurrentToken(ctx context.Context) (*Token, error)
	StoreToken(ctx context.Context, tok *Token) error
}

// Config fixes the client's registration and collaborators at process
// start; a Client is never reconfigured per call.
type Config struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	Endpoints    Endpoints
	APIBaseURL   string
	Tokens       TokenStore
	HTTPClient   *http.Client
}

// Client performs the authorization-code-with-PKCE flow against the
// identity provider and issues bearer-authenticated requests to the
// upstream API, refreshing the session token once on a 401.
type Client struct {
	clientID     string
	clientSecret string
	scopes       []string
	endpoints    Endpoints
	apiBase      string
	tokens       TokenStore
	http         *http.Client

	now func() time.Time
}

// New constructs the application's single OAuth client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scopes:       cfg.Scopes,
		endpoints:    cfg.Endpoints,
		apiBase:      strings.TrimSuffix(cfg.APIBaseURL, "/"),
		tokens:       cfg.Tokens,
		http:         httpClient,
		now:          time.Now,
	}
}

// AuthRequest carries everything needed to send the user to the provider
// and later validate the response: the authorization URL plus the state
// and PKCE verifier that must survive the round trip.
type AuthRequest struct {
	URL      string
	State    string
	Verifier string
}

// AuthorizationRequest builds the provider's authorization URL for the
// auth-code + PKCE (S256) flow.
func (c *Client) AuthorizationRequest(callbackURL string) (*AuthRequest, error) {
	state, err := GenerateState()
	if err != nil {
		return nil, err
	}
	verifier, challenge, err := GeneratePKCE()
	if err != nil {
		return nil, err
	}

	authURL := c.oconf(callbackURL).AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	return &AuthRequest{URL: authURL, State: state, Verifier: verifier}, nil
}

// Exchange swaps an authorization code for a token set. The returned token
// has RefreshExpiresAt derived from the issuance instant and identity
// claims extracted from the ID token.
func (c *Client) Exchange(ctx context.Context, code, verifier, callbackURL string) (*Token, error) {
	tok, err := c.oconf(callbackURL).Exchange(c.httpContext(ctx), code,
		oauth2.SetAuthURLParam("code_verifier", verifier),
	)
	if err != nil {
		return nil, &AuthError{Op: "exchange", Err: err}
	}
	return newToken(tok, c.now()), nil
}

// Refresh performs a refresh-token grant and merges the result with the
// current token: identity claims are preserved (the refresh response does
// not re-issue them) and RefreshExpiresAt is recomputed.
func (c *Client) Refresh(ctx context.Context, current *Token) (*Token, error) {
	src := c.oconf("").TokenSource(c.httpContext(ctx), &oauth2.Token{RefreshToken: current.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, &AuthError{Op: "refresh", Err: err}
	}

	fresh := newToken(tok, c.now())
	fresh.Userinfo = current.Userinfo
	if fresh.IDToken == "" {
		fresh.IDToken = current.IDToken
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = current.RefreshToken
	}
	return fresh, nil
}

// Do issues an authenticated request against the upstream API. On a 401 it
// refreshes the session token and retries exactly once; any other failure
// is returned to the caller as-is. The path may carry a query string.
func (c *Client) Do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	tok, err := c.tokens.CurrentToken(ctx)
	if err != nil {
		return nil, &AuthError{Op: "token", Err: err}
	}

	resp, err := c.send(ctx, method, path, payload, tok.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	resp.Body.Close()

	logging.FromContext(ctx).Debug("upstream rejected access token, refreshing", "method", method, "path", path)

	fresh, err := c.Refresh(ctx, tok)
	if err != nil {
		return nil, err
	}
	if err := c.tokens.StoreToken(ctx, fresh); err != nil {
		return nil, err
	}

	return c.send(ctx, method, path, payload, fresh.AccessToken)
}

func (c *Client) send(ctx context.Context, method, path string, payload any, accessToken string) (*http.Response, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

func (c *Client) oconf(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Scopes:       c.scopes,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.endpoints.AuthorizeURL,
			TokenURL: c.endpoints.TokenURL,
		},
	}
}

// httpContext routes oauth2's token-endpoint calls through our HTTP client.
func (c *Client) httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}
