package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/microtodo/webapp/internal/oauth"
	"github.com/microtodo/webapp/internal/session"
)

// fakeOAuth implements OAuthFlow with canned results.
type fakeOAuth struct {
	authRequest *oauth.AuthRequest
	token       *oauth.Token
	exchangeErr error

	exchangedCode     string
	exchangedVerifier string
}

func (f *fakeOAuth) AuthorizationRequest(string) (*oauth.AuthRequest, error) {
	return f.authRequest, nil
}

func (f *fakeOAuth) Exchange(_ context.Context, code, verifier, _ string) (*oauth.Token, error) {
	f.exchangedCode = code
	f.exchangedVerifier = verifier
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.token, nil
}

func authContext(t *testing.T, target string, sess *session.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if sess != nil {
		req = req.WithContext(session.WithSession(req.Context(), sess))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginRedirectsToProvider(t *testing.T) {
	flow := &fakeOAuth{authRequest: &oauth.AuthRequest{
		URL:      "https://idp.example.com/auth?state=s1",
		State:    "s1",
		Verifier: "v1",
	}}
	handler := AuthHandler{OAuth: flow, CallbackURL: "https://app.example.com" + CallbackPath}
	sess := &session.Session{ID: "sid", Data: &session.Data{}}
	c, rec := authContext(t, "/login", sess)

	if err := handler.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d", rec.Code)
	}
	if rec.Header().Get("Location") != "https://idp.example.com/auth?state=s1" {
		t.Fatalf("unexpected redirect %s", rec.Header().Get("Location"))
	}
	if sess.Data.AuthState != "s1" || sess.Data.PKCEVerifier != "v1" {
		t.Fatalf("expected state and verifier stored, got %+v", sess.Data)
	}
	if sess.Data.RedirectURL != "/" {
		t.Fatalf("explicit login resumes at the landing page, got %q", sess.Data.RedirectURL)
	}
}

func TestCallbackExchangesAndResumes(t *testing.T) {
	token := &oauth.Token{AccessToken: "at", RefreshToken: "rt", RefreshExpiresAt: 9999999999}
	flow := &fakeOAuth{token: token}
	handler := AuthHandler{OAuth: flow, CallbackURL: "https://app.example.com" + CallbackPath}
	sess := &session.Session{ID: "sid", Data: &session.Data{
		AuthState:    "s1",
		PKCEVerifier: "v1",
		RedirectURL:  "/dashboard?pageNumber=2",
	}}
	c, rec := authContext(t, CallbackPath+"?state=s1&code=authcode", sess)

	if err := handler.Callback(c); err != nil {
		t.Fatalf("callback: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d", rec.Code)
	}
	if rec.Header().Get("Location") != "/dashboard?pageNumber=2" {
		t.Fatalf("expected resume target, got %s", rec.Header().Get("Location"))
	}
	if flow.exchangedCode != "authcode" || flow.exchangedVerifier != "v1" {
		t.Fatalf("unexpected exchange inputs: %q %q", flow.exchangedCode, flow.exchangedVerifier)
	}
	if sess.Data.Token != token {
		t.Fatal("expected token stored in session")
	}
	if sess.Data.AuthState != "" || sess.Data.PKCEVerifier != "" || sess.Data.RedirectURL != "" {
		t.Fatalf("expected transient login state cleared, got %+v", sess.Data)
	}
}

func TestCallbackStateMismatch(t *testing.T) {
	flow := &fakeOAuth{}
	handler := AuthHandler{OAuth: flow}
	sess := &session.Session{ID: "sid", Data: &session.Data{AuthState: "s1", PKCEVerifier: "v1"}}
	c, _ := authContext(t, CallbackPath+"?state=tampered&code=authcode", sess)

	err := handler.Callback(c)
	if !errors.Is(err, oauth.ErrStateMismatch) {
		t.Fatalf("expected state mismatch error got %v", err)
	}
	if flow.exchangedCode != "" {
		t.Fatal("code must not be exchanged on state mismatch")
	}
}

func TestCallbackWithoutPendingAuthorization(t *testing.T) {
	handler := AuthHandler{OAuth: &fakeOAuth{}}
	sess := &session.Session{ID: "sid", Data: &session.Data{}}
	c, _ := authContext(t, CallbackPath+"?state=s1&code=authcode", sess)

	err := handler.Callback(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %v", err)
	}
}

func TestCallbackExchangeFailure(t *testing.T) {
	flow := &fakeOAuth{exchangeErr: &oauth.AuthError{Op: "exchange", Err: errors.New("invalid_grant")}}
	handler := AuthHandler{OAuth: flow}
	sess := &session.Session{ID: "sid", Data: &session.Data{AuthState: "s1", PKCEVerifier: "v1"}}
	c, _ := authContext(t, CallbackPath+"?state=s1&code=bad", sess)

	err := handler.Callback(c)
	var authErr *oauth.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError got %v", err)
	}
	if sess.Data.Token != nil {
		t.Fatal("no token must be stored on a failed exchange")
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	handler := AuthHandler{}
	sess := &session.Session{ID: "sid", Data: &session.Data{Token: &oauth.Token{AccessToken: "at"}}}
	c, rec := authContext(t, "/logout", sess)

	if err := handler.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to landing, got %d %s", rec.Code, rec.Header().Get("Location"))
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected expired session cookie, got %v", cookies)
	}
}
