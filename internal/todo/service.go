// Package todo proxies the upstream todo REST API: it translates typed
// queries and commands into authenticated HTTP calls and parses the JSON
// responses into typed models. No retries, no caching.
package todo

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const basePath = "/api/v1/todos"

// Doer issues an authenticated request against the upstream API. Implemented
// by the OAuth client, which attaches and refreshes the bearer token.
type Doer interface {
	Do(ctx context.Context, method, path string, payload any) (*http.Response, error)
}

// Service exposes the todo CRUD operations.
type Service struct {
	api Doer
}

func NewService(api Doer) *Service {
	return &Service{api: api}
}

// List fetches one page of todos matching the query.
func (s *Service) List(ctx context.Context, q Query, mode QueryMode) (*Page, error) {
	path, err := buildPath(basePath, q, mode, nil)
	if err != nil {
		return nil, err
	}
	body, err := call(ctx, s.api, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return DecodePage(body)
}

// Get fetches a single todo by id.
func (s *Service) Get(ctx context.Context, id int64) (*Todo, error) {
	body, err := call(ctx, s.api, http.MethodGet, fmt.Sprintf("%s/%d", basePath, id), nil)
	if err != nil {
		return nil, err
	}
	return DecodeTodo(body)
}

// Create posts a new todo and returns the created record.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Todo, error) {
	body, err := call(ctx, s.api, http.MethodPost, basePath, req)
	if err != nil {
		return nil, err
	}
	return DecodeTodo(body)
}

// Update fully replaces a todo.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Todo, error) {
	body, err := call(ctx, s.api, http.MethodPut, fmt.Sprintf("%s/%d", basePath, id), req)
	if err != nil {
		return nil, err
	}
	return DecodeTodo(body)
}

// Patch partially updates a todo.
func (s *Service) Patch(ctx context.Context, id int64, req PatchRequest) (*Todo, error) {
	body, err := call(ctx, s.api, http.MethodPatch, fmt.Sprintf("%s/%d", basePath, id), req)
	if err != nil {
		return nil, err
	}
	return DecodeTodo(body)
}

// Delete removes a todo.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := call(ctx, s.api, http.MethodDelete, fmt.Sprintf("%s/%d", basePath, id), nil)
	return err
}

// call issues the upstream request and returns the response body, turning
// any non-2xx status into a RequestError.
func call(ctx context.Context, api Doer, method, path string, payload any) ([]byte, error) {
	resp, err := api.Do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &RequestError{Method: method, Path: path, Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
