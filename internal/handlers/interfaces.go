package handlers

import (
	"context"

	"github.com/microtodo/webapp/internal/oauth"
	"github.com/microtodo/webapp/internal/todo"
)

// TodoAPI captures the upstream todo operations required by the dashboard handlers.
type TodoAPI interface {
	List(ctx context.Context, q todo.Query, mode todo.QueryMode) (*todo.Page, error)
	Get(ctx context.Context, id int64) (*todo.Todo, error)
	Create(ctx context.Context, req todo.CreateRequest) (*todo.Todo, error)
	Update(ctx context.Context, id int64, req todo.UpdateRequest) (*todo.Todo, error)
	Patch(ctx context.Context, id int64, req todo.PatchRequest) (*todo.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// ShareAPI captures the share operations required by the dashboard handlers.
type ShareAPI interface {
	List(ctx context.Context, todoID int64) ([]todo.Share, error)
	Create(ctx context.Context, todoID int64, share todo.Share) error
	Delete(ctx context.Context, todoID int64, email string) error
	Sync(ctx context.Context, todoID int64, target map[string]int) bool
}

// StatisticsAPI captures the aggregate operations required by the dashboard handlers.
type StatisticsAPI interface {
	Simple(ctx context.Context, q todo.Query, mode todo.QueryMode) (*todo.Statistics, error)
	Grouped(ctx context.Context, groupBy string, q todo.Query, mode todo.QueryMode) (todo.GroupedStatistics, error)
}

// OAuthFlow captures the login-flow operations required by the auth handlers.
type OAuthFlow interface {
	AuthorizationRequest(callbackURL string) (*oauth.AuthRequest, error)
	Exchange(ctx context.Context, code, verifier, callbackURL string) (*oauth.Token, error)
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Todos       TodoAPI
	Shares      ShareAPI
	Statistics  StatisticsAPI
	OAuth       OAuthFlow
	CallbackURL string
}
