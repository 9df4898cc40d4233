package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pancakescience/cooktrack/internal/common"
	"github.com/pancakescience/cooktrack/internal/server/models"
	"github.com/pancakescience/cooktrack/internal/server/repositories/repomanager"
)

// SessionService is the session ledger: it starts and ends timed program
// runs and records the measurements taken during them. Every operation
// verifies the ownership chain before touching session or measurement rows.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager) *SessionService {
	return &SessionService{db: db, repomanager: m}
}

// Start verifies the program belongs to the user and inserts a session row
// with the current server time. The check-then-insert is not race-free
// against a concurrent program deletion, which this server does not expose.
func (s *SessionService) Start(ctx context.Context, userID, programID int64) (int64, error) {
	owned, err := s.repomanager.Programs(s.db).OwnedBy(ctx, userID, programID)
	if err != nil {
		return 0, fmt.Errorf("error checking ownership: %w", err)
	}
	if !owned {
		return 0, common.ErrOwnership
	}

	id, err := s.repomanager.Sessions(s.db).Insert(ctx, programID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("error starting session: %w", err)
	}
	return id, nil
}

// End closes an owned, still-open session in a single guarded UPDATE.
// It reports false for unknown, foreign, and already-ended sessions alike.
func (s *SessionService) End(ctx context.Context, userID, sessionID int64) (bool, error) {
	return s.repomanager.Sessions(s.db).Close(ctx, userID, sessionID, time.Now().UTC())
}

// ListForProgram returns the program's sessions, newest first. A program
// that does not belong to the user yields common.ErrOwnership, never a
// silent empty list.
func (s *SessionService) ListForProgram(ctx context.Context, userID, programID int64) ([]models.Session, error) {
	owned, err := s.repomanager.Programs(s.db).OwnedBy(ctx, userID, programID)
	if err != nil {
		return nil, fmt.Errorf("error checking ownership: %w", err)
	}
	if !owned {
		return nil, common.ErrOwnership
	}
	return s.repomanager.Sessions(s.db).ListForProgram(ctx, userID, programID)
}

// Get returns an owned session. Unknown and foreign sessions collapse into
// common.ErrOwnership so existence does not leak.
func (s *SessionService) Get(ctx context.Context, userID, sessionID int64) (*models.Session, error) {
	session, err := s.repomanager.Sessions(s.db).Get(ctx, userID, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrOwnership
		}
		return nil, err
	}
	return session, nil
}

// AddMeasurement appends one reading to an owned session. A device-supplied
// timestamp is honored; when absent the server clock is used.
func (s *SessionService) AddMeasurement(ctx context.Context, userID, sessionID int64, temperature *float64, phase string, timestamp *time.Time) (int64, error) {
	phase = strings.TrimSpace(phase)
	if phase == "" {
		return 0, common.NewValidationError("phase name required")
	}
	if temperature == nil {
		return 0, common.NewValidationError("temperature required")
	}

	if _, err := s.Get(ctx, userID, sessionID); err != nil {
		return 0, err
	}

	ts := time.Now().UTC()
	if timestamp != nil {
		ts = timestamp.UTC()
	}

	id, err := s.repomanager.Measurements(s.db).Insert(ctx, sessionID, *temperature, phase, ts)
	if err != nil {
		return 0, fmt.Errorf("error recording measurement: %w", err)
	}
	return id, nil
}

// ListMeasurements returns the session's readings ordered by
// (timestamp, id) ascending, after verifying ownership.
func (s *SessionService) ListMeasurements(ctx context.Context, userID, sessionID int64) ([]models.Measurement, error) {
	if _, err := s.Get(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.repomanager.Measurements(s.db).ListForSession(ctx, userID, sessionID)
}
