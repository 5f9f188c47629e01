package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/microtodo/webapp/internal/logging"
	"github.com/microtodo/webapp/internal/session"
	"github.com/microtodo/webapp/internal/todo"
)

// DashboardHandler implements the dashboard page and its HTMX partials.
type DashboardHandler struct {
	Todos      TodoAPI
	Shares     ShareAPI
	Stats StatisticsAPI
}

// Dashboard handles GET /dashboard.
func (h DashboardHandler) Dashboard(c echo.Context) error {
	var name string
	if sess := session.FromContext(c.Request().Context()); sess != nil {
		name = sess.Data.Token.UserinfoString("given_name")
	}
	return c.Render(http.StatusOK, "dashboard.html", map[string]any{"name": name})
}

// TodoList handles GET /dashboard/partials/todos. Upstream failures degrade
// to an inline message rather than an error page.
func (h DashboardHandler) TodoList(c echo.Context) error {
	ctx := c.Request().Context()

	q, mode, err := queryFromRequest(c, todo.ModeOwn)
	if err != nil {
		return err
	}

	page, err := h.Todos.List(ctx, q, mode)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list todos", "error", err)
		return c.Render(http.StatusOK, "partials/_todo_list.html", map[string]any{
			"load_error": "Your todos could not be loaded right now.",
		})
	}

	// upstream page numbers are 0-based; page_display is what the user sees
	return c.Render(http.StatusOK, "partials/_todo_list.html", map[string]any{
		"todos":        page.Content,
		"page":         page.Page,
		"page_display": page.Page.Number + 1,
		"prev_page":    page.Page.Number - 1,
		"next_page":    page.Page.Number + 1,
	})
}

// Statistics handles GET /dashboard/partials/statistics, grouped when a
// groupBy parameter is present.
func (h DashboardHandler) Statistics(c echo.Context) error {
	ctx := c.Request().Context()

	q, mode, err := queryFromRequest(c, todo.ModeOwn)
	if err != nil {
		return err
	}

	if groupBy := c.QueryParam("groupBy"); groupBy != "" {
		grouped, err := h.Stats.Grouped(ctx, groupBy, q, mode)
		if err != nil {
			logging.FromContext(ctx).Error("failed to fetch grouped statistics", "error", err)
			return c.Render(http.StatusOK, "partials/_todo_statistics.html", map[string]any{
				"load_error": "Statistics are unavailable right now.",
			})
		}
		return c.Render(http.StatusOK, "partials/_todo_statistics.html", map[string]any{"grouped": grouped})
	}

	stats, err := h.Stats.Simple(ctx, q, mode)
	if err != nil {
		logging.FromContext(ctx).Error("failed to fetch statistics", "error", err)
		return c.Render(http.StatusOK, "partials/_todo_statistics.html", map[string]any{
			"load_error": "Statistics are unavailable right now.",
		})
	}
	return c.Render(http.StatusOK, "partials/_todo_statistics.html", map[string]any{"statistics": stats})
}

// Drawer handles GET /dashboard/partials/drawer/:id, the edit/share panel
// for one todo.
func (h DashboardHandler) Drawer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.Todos.Get(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Error("failed to fetch todo", "todoId", id, "error", err)
		return c.Render(http.StatusOK, "partials/_todo_drawer.html", map[string]any{
			"load_error": "This todo could not be loaded right now.",
		})
	}

	shares, err := h.Shares.List(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Warn("failed to fetch shares", "todoId", id, "error", err)
		shares = nil
	}

	return c.Render(http.StatusOK, "partials/_todo_drawer.html", map[string]any{
		"todo":   item,
		"shares": shares,
	})
}

// CreateTodo handles POST /dashboard/todos/create.
func (h DashboardHandler) CreateTodo(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := parseTodoForm(c)
	if err != nil {
		return err
	}

	created, err := h.Todos.Create(ctx, form.createRequest())
	if err != nil {
		logging.FromContext(ctx).Error("failed to create todo", "error", err)
		return h.toast(c, toastError, "")
	}

	// the create form has no pre-existing rows, so every share row counts
	if !createShares(ctx, h.Shares, created.ID, form, false) {
		return h.toast(c, toastWarning, "")
	}
	return h.toast(c, toastSuccess, "")
}

// UpdateTodo handles POST /dashboard/todos/update/:id.
func (h DashboardHandler) UpdateTodo(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}
	form, err := parseTodoForm(c)
	if err != nil {
		return err
	}

	if _, err := h.Todos.Patch(ctx, id, form.patchRequest(time.Now())); err != nil {
		logging.FromContext(ctx).Error("failed to update todo", "todoId", id, "error", err)
		return h.toast(c, toastError, "")
	}

	// the first share row in the drawer is the blank template row
	if !h.Shares.Sync(ctx, id, form.targetShares(true)) {
		return h.toast(c, toastWarning, "")
	}
	return h.toast(c, toastSuccess, "")
}

// DeleteTodo handles DELETE /dashboard/todos/:id.
func (h DashboardHandler) DeleteTodo(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.Todos.Delete(ctx, id); err != nil {
		logging.FromContext(ctx).Error("failed to delete todo", "todoId", id, "error", err)
		return h.toast(c, toastError, "We couldn’t delete this todo. Please try again.")
	}
	return h.toast(c, toastSuccess, "Todo deleted.")
}

type toastType string

const (
	toastSuccess toastType = "success"
	toastWarning toastType = "warning"
	toastError   toastType = "error"
)

// toast renders the dashboard content partial with an inline notification
// instead of surfacing a raw error page.
func (h DashboardHandler) toast(c echo.Context, typ toastType, message string) error {
	if message == "" {
		switch typ {
		case toastError:
			message = "We couldn’t save your changes. Please try again."
		case toastWarning:
			message = "Saved, but sharing could not be completed."
		default:
			message = "Your changes have been saved."
		}
	}
	return c.Render(http.StatusOK, "dashboard/content.html", map[string]any{
		"toast_type":    string(typ),
		"toast_message": message,
	})
}

// queryFromRequest decodes the shared list parameters, rejecting malformed
// values instead of coercing them.
func queryFromRequest(c echo.Context, fallback todo.QueryMode) (todo.Query, todo.QueryMode, error) {
	mode, err := todo.ParseQueryMode(c.QueryParam("mode"), fallback)
	if err != nil {
		return todo.Query{}, "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	q := todo.Query{
		Search:   c.QueryParam("search"),
		Sort:     c.QueryParam("sort"),
		PageSize: 20,
	}
	if raw := c.QueryParam("pageNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return todo.Query{}, "", echo.NewHTTPError(http.StatusBadRequest, "pageNumber must be an integer")
		}
		q.PageNumber = n
	}
	if raw := c.QueryParam("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return todo.Query{}, "", echo.NewHTTPError(http.StatusBadRequest, "pageSize must be an integer")
		}
		q.PageSize = n
	}
	return q, mode, nil
}

var errBadID = errors.New("id must be an integer")

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errBadID.Error())
	}
	return id, nil
}
