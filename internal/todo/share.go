package todo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/microtodo/webapp/internal/logging"
)

// ShareService exposes the share records of a todo.
type ShareService struct {
	api Doer
}

func NewShareService(api Doer) *ShareService {
	return &ShareService{api: api}
}

// List fetches the current share records for a todo.
func (s *ShareService) List(ctx context.Context, todoID int64) ([]Share, error) {
	body, err := call(ctx, s.api, http.MethodGet, sharePath(todoID), nil)
	if err != nil {
		return nil, err
	}
	return DecodeShares(body)
}

// Create upserts a share record.
func (s *ShareService) Create(ctx context.Context, todoID int64, share Share) error {
	_, err := call(ctx, s.api, http.MethodPut, sharePath(todoID), share)
	return err
}

// Delete removes the share record for an email address.
func (s *ShareService) Delete(ctx context.Context, todoID int64, email string) error {
	path := sharePath(todoID) + "?" + url.Values{"email": {email}}.Encode()
	_, err := call(ctx, s.api, http.MethodDelete, path, nil)
	return err
}

// Sync reconciles the upstream share records with the target set: shares
// absent from the target are deleted, new ones created, and a changed
// access level is applied as delete-then-recreate. Records at the revoked
// sentinel level are not part of the current set. Sub-operations fail
// independently; the return value reports whether all of them succeeded.
func (s *ShareService) Sync(ctx context.Context, todoID int64, target map[string]int) bool {
	logger := logging.FromContext(ctx)

	current, err := s.List(ctx, todoID)
	if err != nil {
		logger.Warn("failed to list current shares", "todoId", todoID, "error", err)
		return false
	}

	currentLevels := make(map[string]int, len(current))
	for _, share := range current {
		if share.AccessLevel != RevokedAccessLevel {
			currentLevels[share.Email] = share.AccessLevel
		}
	}

	ok := true

	for email := range currentLevels {
		if _, keep := target[email]; keep {
			continue
		}
		if err := s.Delete(ctx, todoID, email); err != nil {
			logger.Warn("failed to delete share", "todoId", todoID, "email", email, "error", err)
			ok = false
		}
	}

	for email, level := range target {
		if _, exists := currentLevels[email]; exists {
			continue
		}
		if err := s.Create(ctx, todoID, Share{Email: email, AccessLevel: level}); err != nil {
			logger.Warn("failed to create share", "todoId", todoID, "email", email, "error", err)
			ok = false
		}
	}

	for email, level := range target {
		oldLevel, exists := currentLevels[email]
		if !exists || oldLevel == level {
			continue
		}
		if err := s.Delete(ctx, todoID, email); err != nil {
			logger.Warn("failed to replace share", "todoId", todoID, "email", email, "error", err)
			ok = false
			continue
		}
		if err := s.Create(ctx, todoID, Share{Email: email, AccessLevel: level}); err != nil {
			logger.Warn("failed to replace share", "todoId", todoID, "email", email, "error", err)
			ok = false
		}
	}

	return ok
}

func sharePath(todoID int64) string {
	return fmt.Sprintf("%s/%d/share", basePath, todoID)
}
