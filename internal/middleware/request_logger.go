package middleware

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/microtodo/webapp/internal/logging"
)

// RequestLogger stamps every request with an id and binds a request-scoped
// logger to the context for downstream handlers and services. Access
// logging itself is handled separately.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := uuid.NewString()

			reqLogger := base.With(
				slog.String("request_id", requestID),
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
			)

			ctx := logging.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
