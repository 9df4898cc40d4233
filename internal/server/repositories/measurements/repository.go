package measurements

import (
	"context"
	"time"

	"github.com/pancakescience/cooktrack/internal/server/models"
)

type Repository interface {
	// Insert appends one reading to a session. Ownership of the session is
	// the caller's responsibility.
	Insert(ctx context.Context, sessionID int64, temperature float64, phase string, timestamp time.Time) (int64, error)

	// ListForSession returns the session's readings ordered by
	// (timestamp, id) ascending, scoped by the ownership join through
	// sessions and programs.
	ListForSession(ctx context.Context, userID, sessionID int64) ([]models.Measurement, error)
}
