package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/microtodo/webapp/internal/logging"
	"github.com/microtodo/webapp/internal/oauth"
	"github.com/microtodo/webapp/internal/session"
)

// HTMX request headers this application cares about.
const (
	HeaderHXRequest    = "HX-Request"
	HeaderHXCurrentURL = "HX-Current-URL"
	HeaderHXRedirect   = "HX-Redirect"
)

// AuthGuard decides allow-or-challenge for every inbound request. Public
// paths always pass. Otherwise the session must hold a token whose refresh
// expiry is still in the future; anything else is challenged with an
// authorization redirect, after capturing the originally requested URL so
// the callback can resume it.
func AuthGuard(client *oauth.Client, callbackURL string, public *PublicPaths) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if public.Match(req.URL.EscapedPath()) {
				return next(c)
			}

			sess := session.FromContext(req.Context())
			if sess != nil && sess.Data.Token.RefreshLive(time.Now()) {
				return next(c)
			}

			logger := logging.FromContext(req.Context())
			logger.Debug("unauthenticated request, redirecting to identity provider", "path", req.URL.Path)

			if sess == nil {
				// session middleware not in the chain; nothing to resume into
				return echo.NewHTTPError(http.StatusUnauthorized)
			}

			sess.Data.RedirectURL = resumeTarget(req)

			ar, err := client.AuthorizationRequest(callbackURL)
			if err != nil {
				return err
			}
			sess.Data.AuthState = ar.State
			sess.Data.PKCEVerifier = ar.Verifier

			return c.Redirect(http.StatusFound, ar.URL)
		}
	}
}

// resumeTarget captures the URL to return to after login: the requested
// path plus query, unless the request is a partial-page request fired from
// a different page, in which case that page's URL wins.
func resumeTarget(req *http.Request) string {
	if req.Header.Get(HeaderHXRequest) != "" {
		if current := req.Header.Get(HeaderHXCurrentURL); current != "" {
			return current
		}
	}
	target := req.URL.EscapedPath()
	if q := req.URL.RawQuery; q != "" {
		target += "?" + q
	}
	return target
}

// hostTargets reports whether a redirect location points at the given host.
func hostTargets(location, host string) bool {
	return host != "" && strings.Contains(location, host)
}
