package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTMXRedirect rewrites redirect responses that target the identity
// provider into 200 responses carrying an HX-Redirect header, but only for
// partial-page requests. The HTMX fetch layer does not follow a
// cross-origin 3xx into a full-page navigation; the header instructs it to
// navigate the browser itself. All other responses pass through untouched.
func HTMXRedirect(authServerHost string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(HeaderHXRequest) == "" {
				return next(c)
			}
			c.Response().Writer = &hxRedirectWriter{
				ResponseWriter: c.Response().Writer,
				authHost:       authServerHost,
			}
			return next(c)
		}
	}
}

// hxRedirectWriter intercepts the status line: a 3xx whose Location targets
// the identity provider is rewritten in place before headers are flushed.
// Remaining headers, including any Set-Cookie, are left on the response.
type hxRedirectWriter struct {
	http.ResponseWriter
	authHost  string
	rewritten bool
}

var redirectStatuses = map[int]struct{}{
	http.StatusMovedPermanently:  {},
	http.StatusFound:             {},
	http.StatusSeeOther:          {},
	http.StatusTemporaryRedirect: {},
	http.StatusPermanentRedirect: {},
}

func (w *hxRedirectWriter) WriteHeader(status int) {
	if _, isRedirect := redirectStatuses[status]; isRedirect {
		location := w.Header().Get("Location")
		if hostTargets(location, w.authHost) {
			w.Header().Del("Location")
			w.Header().Set(HeaderHXRedirect, location)
			w.rewritten = true
			w.ResponseWriter.WriteHeader(http.StatusOK)
			return
		}
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *hxRedirectWriter) Write(b []byte) (int, error) {
	if w.rewritten {
		// swallow the redirect body; the replacement response is empty
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}
