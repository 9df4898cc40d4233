package users

import (
	"context"

	"github.com/pancakescience/cooktrack/internal/server/models"
)

type Repository interface {
	// Create inserts a new user and returns its id. A username collision is
	// detected via the store's uniqueness constraint, not a pre-check, and
	// surfaces as common.ErrDuplicateUsername.
	Create(ctx context.Context, username, passwordHash string) (int64, error)

	// GetByUsername returns the user or common.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
