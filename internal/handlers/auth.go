package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/microtodo/webapp/internal/logging"
	"github.com/microtodo/webapp/internal/oauth"
	"github.com/microtodo/webapp/internal/session"
)

// AuthHandler implements the login, OAuth callback, and logout routes.
type AuthHandler struct {
	OAuth       OAuthFlow
	CallbackURL string
}

// Login handles GET /login: it always starts a fresh authorization round
// trip, resuming at the landing page afterwards.
func (h AuthHandler) Login(c echo.Context) error {
	sess := session.FromContext(c.Request().Context())
	if sess == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
	}

	sess.Data.RedirectURL = "/"

	ar, err := h.OAuth.AuthorizationRequest(h.CallbackURL)
	if err != nil {
		return err
	}
	sess.Data.AuthState = ar.State
	sess.Data.PKCEVerifier = ar.Verifier

	return c.Redirect(http.StatusFound, ar.URL)
}

// Callback handles the provider's redirect back: it validates the state,
// exchanges the code, stores the token in the session, and resumes the
// originally requested URL. An exchange failure is fatal to the request;
// there is no graceful fallback from a broken login.
func (h AuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	sess := session.FromContext(ctx)
	if sess == nil || sess.Data.AuthState == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no pending authorization")
	}

	if c.QueryParam("state") != sess.Data.AuthState {
		return &oauth.AuthError{Op: "callback", Err: oauth.ErrStateMismatch}
	}

	token, err := h.OAuth.Exchange(ctx, c.QueryParam("code"), sess.Data.PKCEVerifier, h.CallbackURL)
	if err != nil {
		return err
	}

	sess.Data.Token = token
	sess.Data.AuthState = ""
	sess.Data.PKCEVerifier = ""

	target := sess.Data.RedirectURL
	if target == "" {
		target = "/"
	}
	sess.Data.RedirectURL = ""

	logging.FromContext(ctx).Info("user logged in", "resume", target)

	return c.Redirect(http.StatusFound, target)
}

// Logout handles GET /logout: the session is cleared from the store and
// the cookie expired.
func (h AuthHandler) Logout(c echo.Context) error {
	if sess := session.FromContext(c.Request().Context()); sess != nil {
		sess.Destroy()
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/")
}
