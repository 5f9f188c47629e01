package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/microtodo/webapp/internal/logging"
	"github.com/microtodo/webapp/internal/todo"
)

// todoForm carries the raw fields of the create/edit form. The deadline is
// split across separate date and time inputs; share rows arrive as two
// parallel value lists.
type todoForm struct {
	Title        string
	Description  string
	Priority     int
	Completed    bool
	DeadlineDate string
	DeadlineTime string
	Categories   []string
	ShareEmails  []string
	ShareLevels  []int
}

func parseTodoForm(c echo.Context) (todoForm, error) {
	vals, err := c.FormParams()
	if err != nil {
		return todoForm{}, echo.NewHTTPError(http.StatusBadRequest, "malformed form body")
	}

	form := todoForm{
		Title:        strings.TrimSpace(vals.Get("title")),
		Description:  vals.Get("description"),
		DeadlineDate: vals.Get("deadline_date"),
		DeadlineTime: vals.Get("deadline_time"),
		Categories:   vals["categories"],
		ShareEmails:  vals["shares_email"],
	}
	if raw := vals.Get("priority"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return todoForm{}, echo.NewHTTPError(http.StatusBadRequest, "priority must be an integer")
		}
		form.Priority = n
	}
	switch vals.Get("completed") {
	case "on", "true", "1":
		form.Completed = true
	}
	for _, raw := range vals["shares_access_level"] {
		n, _ := strconv.Atoi(raw)
		form.ShareLevels = append(form.ShareLevels, n)
	}
	return form, nil
}

func (f todoForm) createRequest() todo.CreateRequest {
	categories := f.Categories
	if categories == nil {
		categories = []string{}
	}
	return todo.CreateRequest{
		Title:       f.Title,
		Description: f.Description,
		Deadline:    parseDeadline(f.DeadlineDate, f.DeadlineTime),
		Completed:   f.Completed,
		Priority:    f.Priority,
		Categories:  categories,
	}
}

// patchRequest builds the partial update. A deadline already in the past
// is dropped from the payload entirely, leaving the stored deadline alone.
func (f todoForm) patchRequest(now time.Time) todo.PatchRequest {
	deadline := parseDeadline(f.DeadlineDate, f.DeadlineTime)
	if deadline != nil && deadline.Before(now.UTC()) {
		deadline = nil
	}

	categories := f.Categories
	if categories == nil {
		categories = []string{}
	}
	return todo.PatchRequest{
		Title:       ptr(f.Title),
		Description: ptr(f.Description),
		Deadline:    deadline,
		Completed:   ptr(f.Completed),
		Priority:    ptr(f.Priority),
		Categories:  categories,
	}
}

// targetShares collapses the form's share rows into the desired
// email-to-level mapping. The drawer renders a blank template row first,
// which callers skip.
func (f todoForm) targetShares(skipFirst bool) map[string]int {
	emails, levels := f.ShareEmails, f.ShareLevels
	if skipFirst {
		if len(emails) > 0 {
			emails = emails[1:]
		}
		if len(levels) > 0 {
			levels = levels[1:]
		}
	}

	target := make(map[string]int)
	for i, email := range emails {
		if i >= len(levels) {
			break
		}
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		target[email] = levels[i]
	}
	return target
}

// createShares applies the form's share rows one by one, recording
// failures independently. Returns true only when every row succeeded.
func createShares(ctx context.Context, api ShareAPI, todoID int64, f todoForm, skipFirst bool) bool {
	target := f.targetShares(skipFirst)
	ok := true
	for email, level := range target {
		if err := api.Create(ctx, todoID, todo.Share{Email: email, AccessLevel: level}); err != nil {
			logging.FromContext(ctx).Warn("failed to share todo", "todoId", todoID, "email", email, "error", err)
			ok = false
		}
	}
	return ok
}

// parseDeadline assembles a UTC deadline from the split form fields. A
// blank date means no deadline; a missing time defaults to midnight.
// Malformed input degrades to no deadline rather than failing the save.
func parseDeadline(date, timeOfDay string) *time.Time {
	if strings.TrimSpace(date) == "" {
		return nil
	}

	timeOfDay = strings.TrimSpace(timeOfDay)
	if timeOfDay == "" {
		timeOfDay = "00:00"
	}
	if len(timeOfDay) == 5 {
		timeOfDay += ":00"
	}

	parsed, err := time.Parse("2006-01-02T15:04:05", date+"T"+timeOfDay)
	if err != nil {
		return nil
	}
	deadline := parsed.UTC()
	return &deadline
}

func ptr[T any](v T) *T {
	return &v
}
