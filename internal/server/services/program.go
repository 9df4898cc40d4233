package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pancakescience/cooktrack/internal/common"
	"github.com/pancakescience/cooktrack/internal/dbx"
	"github.com/pancakescience/cooktrack/internal/server/models"
	"github.com/pancakescience/cooktrack/internal/server/repositories/repomanager"
)

// PhaseInput is one phase entry as supplied by the caller. The temperature
// is a pointer so "absent" and "zero" stay distinguishable until validation.
type PhaseInput struct {
	Phase             string
	TargetTemperature *float64
}

// ProgramService is the program composer: it owns the atomic
// "program + phase settings" writes and the ownership-checked reads.
type ProgramService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProgramService(db *sql.DB, m repomanager.RepositoryManager) *ProgramService {
	return &ProgramService{db: db, repomanager: m}
}

// CreateWithPhases creates the program row and every phase setting as one
// atomic unit. Any validation or persistence failure part-way through rolls
// back the whole transaction, including the program row itself. An empty
// phases list is permitted and yields a program with no settings.
func (s *ProgramService) CreateWithPhases(ctx context.Context, userID int64, name string, phases []PhaseInput) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, common.NewValidationError("program name required")
	}

	var programID int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		id, err := s.repomanager.Programs(tx).Create(ctx, userID, name)
		if err != nil {
			return fmt.Errorf("error creating program: %w", err)
		}
		if err := s.insertPhases(ctx, tx, id, phases); err != nil {
			return err
		}
		programID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return programID, nil
}

// ReplaceWithPhases renames an owned program and replaces its phase settings
// wholesale, in one transaction. Non-owned and unknown programs both yield
// common.ErrOwnership.
func (s *ProgramService) ReplaceWithPhases(ctx context.Context, userID, programID int64, name string, phases []PhaseInput) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.NewValidationError("program name required")
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ok, err := s.repomanager.Programs(tx).UpdateName(ctx, userID, programID, name)
		if err != nil {
			return fmt.Errorf("error updating program: %w", err)
		}
		if !ok {
			return common.ErrOwnership
		}
		if err := s.repomanager.Settings(tx).DeleteForProgram(ctx, programID); err != nil {
			return fmt.Errorf("error clearing phase settings: %w", err)
		}
		return s.insertPhases(ctx, tx, programID, phases)
	})
}

// insertPhases validates and inserts each phase entry in order. Validation
// failures abort the surrounding transaction.
func (s *ProgramService) insertPhases(ctx context.Context, tx dbx.DBTX, programID int64, phases []PhaseInput) error {
	repo := s.repomanager.Settings(tx)
	for _, item := range phases {
		phase := strings.TrimSpace(item.Phase)
		if phase == "" {
			return common.NewValidationError("phase name required")
		}
		if item.TargetTemperature == nil {
			return common.NewValidationError("target temperature required")
		}
		if err := repo.Insert(ctx, programID, phase, *item.TargetTemperature); err != nil {
			return fmt.Errorf("error adding phase setting: %w", err)
		}
	}
	return nil
}

// ListForUser returns the user's programs, newest first.
func (s *ProgramService) ListForUser(ctx context.Context, userID int64) ([]models.Program, error) {
	return s.repomanager.Programs(s.db).ListForUser(ctx, userID)
}

// Get returns one owned program, common.ErrOwnership otherwise.
func (s *ProgramService) Get(ctx context.Context, userID, programID int64) (*models.Program, error) {
	programs, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range programs {
		if programs[i].ID == programID {
			return &programs[i], nil
		}
	}
	return nil, common.ErrOwnership
}

// ListPhaseSettings returns the program's phase settings in phase label
// order, after verifying the program belongs to the user.
func (s *ProgramService) ListPhaseSettings(ctx context.Context, userID, programID int64) ([]models.PhaseSetting, error) {
	owned, err := s.repomanager.Programs(s.db).OwnedBy(ctx, userID, programID)
	if err != nil {
		return nil, fmt.Errorf("error checking ownership: %w", err)
	}
	if !owned {
		return nil, common.ErrOwnership
	}
	return s.repomanager.Settings(s.db).ListForProgram(ctx, programID)
}
