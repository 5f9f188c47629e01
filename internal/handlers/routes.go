package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/microtodo/webapp/internal/middleware"
)

// CallbackPath is the OAuth redirect route registered with the identity provider.
const CallbackPath = "/login/oauth2/code/keycloak"

// RegisterRoutes wires HTTP handlers into the provided echo instance.
func RegisterRoutes(e *echo.Echo, deps Dependencies, loginLimiter middleware.RateLimiter) {
	health := HealthHandler{}
	landing := LandingHandler{}
	auth := AuthHandler{OAuth: deps.OAuth, CallbackURL: deps.CallbackURL}
	dashboard := DashboardHandler{Todos: deps.Todos, Shares: deps.Shares, Stats: deps.Statistics}

	limited := middleware.RateLimit(loginLimiter)

	e.GET("/healthz", health.Handle)
	e.GET("/", landing.Landing)

	e.GET("/login", auth.Login, limited)
	e.GET(CallbackPath, auth.Callback, limited)
	e.GET("/logout", auth.Logout)

	e.GET("/dashboard", dashboard.Dashboard)
	e.GET("/dashboard/partials/todos", dashboard.TodoList)
	e.GET("/dashboard/partials/statistics", dashboard.Statistics)
	e.GET("/dashboard/partials/drawer/:id", dashboard.Drawer)
	e.POST("/dashboard/todos/create", dashboard.CreateTodo)
	e.POST("/dashboard/todos/update/:id", dashboard.UpdateTodo)
	e.DELETE("/dashboard/todos/:id", dashboard.DeleteTodo)
}
