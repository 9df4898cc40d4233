package sessions

import (
	"context"
	"time"

	"github.com/pancakescience/cooktrack/internal/server/models"
)

type Repository interface {
	// Insert creates a session row with the given start time and a null end
	// time. Ownership of the program is the caller's responsibility.
	Insert(ctx context.Context, programID int64, startTime time.Time) (int64, error)

	// ListForProgram returns the program's sessions, newest start time
	// first, scoped by the ownership join through programs.
	ListForProgram(ctx context.Context, userID, programID int64) ([]models.Session, error)

	// Get returns the session if it transitively belongs to the user,
	// common.ErrNotFound otherwise.
	Get(ctx context.Context, userID, sessionID int64) (*models.Session, error)

	// Close sets end_time on a still-open owned session in one guarded
	// UPDATE. It reports false when no row matched: unknown session, a
	// session owned by another user, or a session already ended.
	Close(ctx context.Context, userID, sessionID int64, endTime time.Time) (bool, error)
}
