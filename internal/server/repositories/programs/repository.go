package programs

import (
	"context"

	"github.com/pancakescience/cooktrack/internal/server/models"
)

type Repository interface {
	// Create inserts a program row for the user and returns its id.
	Create(ctx context.Context, userID int64, name string) (int64, error)

	// ListForUser returns the user's programs, newest id first.
	ListForUser(ctx context.Context, userID int64) ([]models.Program, error)

	// OwnedBy reports whether the program belongs to the user.
	OwnedBy(ctx context.Context, userID, programID int64) (bool, error)

	// UpdateName renames the program; false when no owned row matched.
	UpdateName(ctx context.Context, userID, programID int64, name string) (bool, error)
}
