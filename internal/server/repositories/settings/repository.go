package settings

import (
	"context"

	"github.com/pancakescience/cooktrack/internal/server/models"
)

type Repository interface {
	// Insert adds one phase setting to a program.
	Insert(ctx context.Context, programID int64, phase string, targetTemperature float64) error

	// ListForProgram returns the program's phase settings ordered by phase
	// label ascending. Ownership is not checked here; callers scope the
	// program id first.
	ListForProgram(ctx context.Context, programID int64) ([]models.PhaseSetting, error)

	// DeleteForProgram removes every phase setting of a program.
	DeleteForProgram(ctx context.Context, programID int64) error
}
