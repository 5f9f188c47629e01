package todo

import (
	"encoding/json"
	"time"
)

// priorityLabels maps the upstream integer priority to a display label.
var priorityLabels = map[int]string{
	0: "Low",
	1: "Medium",
	2: "High",
}

// RevokedAccessLevel is the upstream sentinel meaning "effectively removed";
// shares at this level are excluded from the current-shares set.
const RevokedAccessLevel = 3

// Todo is an immutable snapshot of an upstream todo record, constructed
// only by deserializing upstream JSON.
type Todo struct {
	ID          int64
	Title       string
	Description string
	Deadline    *time.Time
	Completed   bool
	ParentID    *int64
	Shared      bool
	Priority    int
	Categories  []string
	AccessLevel int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PriorityText returns the display label for the todo's priority.
func (t Todo) PriorityText() string {
	if label, ok := priorityLabels[t.Priority]; ok {
		return label
	}
	return "Unknown"
}

// DeadlineText formats the deadline for display, empty when unset.
func (t Todo) DeadlineText() string {
	if t.Deadline == nil {
		return ""
	}
	return t.Deadline.Format("2006-01-02 15:04")
}

// DeadlineDateInput and DeadlineTimeInput format the deadline for the
// split date/time form inputs.
func (t Todo) DeadlineDateInput() string {
	if t.Deadline == nil {
		return ""
	}
	return t.Deadline.Format("2006-01-02")
}

func (t Todo) DeadlineTimeInput() string {
	if t.Deadline == nil {
		return ""
	}
	return t.Deadline.Format("15:04")
}

// PageInfo accompanies every page of results.
type PageInfo struct {
	Size          int `json:"size"`
	Number        int `json:"number"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// Page is one page of todos plus its paging metadata.
type Page struct {
	Content []Todo
	Page    PageInfo
}

// Share is one share record on a todo.
type Share struct {
	Email       string `json:"email"`
	AccessLevel int    `json:"accessLevel"`
}

// Statistics are the upstream completion counters.
type Statistics struct {
	Total      int `json:"total"`
	Finished   int `json:"finished"`
	Unfinished int `json:"unfinished"`
}

// GroupedStatistics maps an upstream-defined group key to its counters.
type GroupedStatistics map[string]Statistics

// CreateRequest is the body for creating a todo.
type CreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    int        `json:"priority"`
	Categories  []string   `json:"categories"`
}

// UpdateRequest is the body for a full replace.
type UpdateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Completed   bool       `json:"completed"`
	Parent      *int64     `json:"parent,omitempty"`
	Priority    int        `json:"priority"`
	Categories  []string   `json:"categories"`
}

// PatchRequest is the body for a partial update. A nil Deadline drops the
// field from the payload entirely, which is the upstream's "leave the
// deadline alone" shape.
type PatchRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	Parent      *int64     `json:"parent,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	Categories  []string   `json:"categories,omitempty"`
}

// upstream wire shapes, decoded with explicit required-field checks

type todoJSON struct {
	ID          *int64   `json:"id"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Deadline    *string  `json:"deadline"`
	Completed   *bool    `json:"completed"`
	ParentID    *int64   `json:"parent_id"`
	Shared      *bool    `json:"shared"`
	Priority    *int     `json:"priority"`
	Categories  []string `json:"categories"`
	AccessLevel *int     `json:"accessLevel"`
	CreatedAt   *string  `json:"createdAt"`
	UpdatedAt   *string  `json:"updatedAt"`
}

type pageJSON struct {
	Content []todoJSON `json:"content"`
	Page    *PageInfo  `json:"page"`
}

type sharesJSON struct {
	Content []Share `json:"content"`
}

// DecodeTodo deserializes a single upstream todo record.
func DecodeTodo(body []byte) (*Todo, error) {
	var raw todoJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Type: "Todo", Field: "", Reason: err.Error()}
	}
	return todoFromJSON(raw)
}

// DecodePage deserializes one upstream page of todos.
func DecodePage(body []byte) (*Page, error) {
	var raw pageJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Type: "Page", Field: "", Reason: err.Error()}
	}
	if raw.Page == nil {
		return nil, &DecodeError{Type: "Page", Field: "page", Reason: "missing"}
	}

	page := &Page{Content: make([]Todo, 0, len(raw.Content)), Page: *raw.Page}
	for _, item := range raw.Content {
		todo, err := todoFromJSON(item)
		if err != nil {
			return nil, err
		}
		page.Content = append(page.Content, *todo)
	}
	return page, nil
}

// DecodeShares deserializes the share list for a todo.
func DecodeShares(body []byte) ([]Share, error) {
	var raw sharesJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Type: "Shares", Field: "", Reason: err.Error()}
	}
	return raw.Content, nil
}

// DecodeStatistics deserializes the simple statistics payload.
func DecodeStatistics(body []byte) (*Statistics, error) {
	var stats Statistics
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, &DecodeError{Type: "Statistics", Field: "", Reason: err.Error()}
	}
	return &stats, nil
}

// DecodeGroupedStatistics deserializes the grouped statistics payload.
func DecodeGroupedStatistics(body []byte) (GroupedStatistics, error) {
	var grouped GroupedStatistics
	if err := json.Unmarshal(body, &grouped); err != nil {
		return nil, &DecodeError{Type: "GroupedStatistics", Field: "", Reason: err.Error()}
	}
	return grouped, nil
}

func todoFromJSON(raw todoJSON) (*Todo, error) {
	if raw.ID == nil {
		return nil, &DecodeError{Type: "Todo", Field: "id", Reason: "missing"}
	}
	if raw.CreatedAt == nil {
		return nil, &DecodeError{Type: "Todo", Field: "createdAt", Reason: "missing"}
	}
	if raw.UpdatedAt == nil {
		return nil, &DecodeError{Type: "Todo", Field: "updatedAt", Reason: "missing"}
	}

	createdAt, err := parseUpstreamTime(*raw.CreatedAt)
	if err != nil {
		return nil, &DecodeError{Type: "Todo", Field: "createdAt", Reason: err.Error()}
	}
	updatedAt, err := parseUpstreamTime(*raw.UpdatedAt)
	if err != nil {
		return nil, &DecodeError{Type: "Todo", Field: "updatedAt", Reason: err.Error()}
	}

	todo := &Todo{
		ID:         *raw.ID,
		ParentID:   raw.ParentID,
		Categories: raw.Categories,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
	if todo.Categories == nil {
		todo.Categories = []string{}
	}
	if raw.Title != nil {
		todo.Title = *raw.Title
	}
	if raw.Description != nil {
		todo.Description = *raw.Description
	}
	if raw.Completed != nil {
		todo.Completed = *raw.Completed
	}
	if raw.Shared != nil {
		todo.Shared = *raw.Shared
	}
	if raw.Priority != nil {
		todo.Priority = *raw.Priority
	}
	if raw.AccessLevel != nil {
		todo.AccessLevel = *raw.AccessLevel
	}
	if raw.Deadline != nil && *raw.Deadline != "" {
		deadline, err := parseUpstreamTime(*raw.Deadline)
		if err != nil {
			return nil, &DecodeError{Type: "Todo", Field: "deadline", Reason: err.Error()}
		}
		todo.Deadline = &deadline
	}
	return todo, nil
}

// parseUpstreamTime accepts both zoned RFC 3339 timestamps and the
// zone-less form the upstream emits for local datetimes.
func parseUpstreamTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}
