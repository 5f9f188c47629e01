package todo

import (
	"fmt"
	"strings"

	"github.com/google/go-querystring/query"
)

// QueryMode selects the server-side visibility filter applied upstream.
type QueryMode string

const (
	ModeAll    QueryMode = "ALL"
	ModeShared QueryMode = "SHARED"
	ModeOwn    QueryMode = "OWN"
)

// ParseQueryMode converts a query-parameter value into a QueryMode. An
// empty value yields the fallback; anything else unknown is a DecodeError.
func ParseQueryMode(value string, fallback QueryMode) (QueryMode, error) {
	switch QueryMode(value) {
	case "":
		return fallback, nil
	case ModeAll, ModeShared, ModeOwn:
		return QueryMode(value), nil
	default:
		return "", &DecodeError{Type: "QueryMode", Field: "mode", Reason: fmt.Sprintf("unknown value %q", value)}
	}
}

// Query carries the list filters forwarded upstream. Zero values are
// dropped from the query string: a page number of 0 and an empty search
// are both omitted, matching the upstream defaults.
type Query struct {
	Search     string `url:"search,omitempty"`
	Sort       string `url:"sort,omitempty"`
	PageNumber int    `url:"pageNumber,omitempty"`
	PageSize   int    `url:"pageSize,omitempty"`
}

// buildPath serializes the query, mode, and any extra parameters onto the
// base path. A free-text search term is rewritten into the upstream
// filter-expression DSL before being sent.
func buildPath(base string, q Query, mode QueryMode, extra map[string]string) (string, error) {
	vals, err := query.Values(q)
	if err != nil {
		return "", err
	}
	vals.Set("mode", string(mode))
	if term := vals.Get("search"); term != "" {
		if filter := searchFilter(term); filter != "" {
			vals.Set("search", filter)
		} else {
			vals.Del("search")
		}
	}
	for key, value := range extra {
		vals.Set(key, value)
	}
	return base + "?" + vals.Encode(), nil
}

// searchFilter rewrites a free-text term into the upstream filter DSL,
// matching it against titles, descriptions, and category names.
func searchFilter(term string) string {
	if strings.TrimSpace(term) == "" {
		return ""
	}
	return fmt.Sprintf("title=ilike='%s' or description=ilike='%s' or categories.name=ilike='%s'", term, term, term)
}
