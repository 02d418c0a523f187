package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/domain"
	"github.com/serenehq/serene-backend/internal/pkg/ctxutil"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// requireUser pulls the authenticated user id from the request context.
func requireUser(ctx context.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, ErrUnauthorized
	}
	return rd.UserID, nil
}

// requireOwned is the single ownership guard applied to every resource kind
// before a resource-specific operation runs.
func requireOwned(resource domain.Owned, userID uuid.UUID) error {
	if resource == nil {
		return ErrNotFound
	}
	if !resource.OwnedBy(userID) {
		return ErrForbidden
	}
	return nil
}
