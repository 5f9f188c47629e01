package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/microtodo/webapp/internal/logging"
)

// Middleware loads the session named by the request cookie (issuing a new
// id when absent), binds it to the request context, and persists it after
// the handler finishes on every exit path. Saving on every access resets
// the store TTL, which gives rolling expiry.
func Middleware(store Store, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()
			logger := logging.FromContext(ctx)

			var id string
			if cookie, err := req.Cookie(CookieName); err == nil && cookie.Value != "" {
				id = cookie.Value
			} else {
				id = uuid.NewString()
			}

			// re-issued on every response so the browser expiry rolls
			// together with the store TTL
			c.SetCookie(&http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			sess := &Session{ID: id, Data: &Data{}}
			data, err := store.Load(ctx, id)
			switch {
			case err == nil:
				sess.Data = data
				sess.existed = true
			case errors.Is(err, ErrNotFound):
				// fresh session
			default:
				logger.Warn("failed to load session, starting empty", "error", err)
			}

			c.SetRequest(req.WithContext(WithSession(ctx, sess)))

			handlerErr := next(c)

			// persist regardless of handler outcome, detached from the
			// request context so a client disconnect cannot cancel the write
			persistCtx := context.WithoutCancel(c.Request().Context())
			switch {
			case sess.destroyed:
				if err := store.Clear(persistCtx, id); err != nil {
					logger.Warn("failed to clear session", "error", err)
				}
			case sess.existed || !sess.Data.Empty():
				if err := store.Save(persistCtx, id, sess.Data); err != nil {
					logger.Warn("failed to save session", "error", err)
				}
			}

			return handlerErr
		}
	}
}
