package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/microtodo/webapp/internal/config"
	"github.com/microtodo/webapp/internal/handlers"
	"github.com/microtodo/webapp/internal/oauth"
	"github.com/microtodo/webapp/internal/session"
	"github.com/microtodo/webapp/internal/todo"
)

func connectSessionStore(ctx context.Context, cfg config.Config) (session.Store, *redis.Client, error) {
	client, err := session.Connect(ctx, cfg.ValkeyURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect session store: %w", err)
	}
	return session.NewRedisStore(client, cfg.SessionTTL), client, nil
}

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(cfg config.Config, endpoints oauth.Endpoints) (*oauth.Client, handlers.Dependencies) {
	client := oauth.New(oauth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
		Endpoints:    endpoints,
		APIBaseURL:   cfg.APIBaseURL,
		Tokens:       session.TokenStore{},
	})

	return client, handlers.Dependencies{
		Todos:       todo.NewService(client),
		Shares:      todo.NewShareService(client),
		Statistics:  todo.NewStatisticsService(client),
		OAuth:       client,
		CallbackURL: strings.TrimSuffix(cfg.PublicURL, "/") + handlers.CallbackPath,
	}
}
