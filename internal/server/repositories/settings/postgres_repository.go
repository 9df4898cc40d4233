package settings

import (
	"context"
	"fmt"

	"github.com/pancakescience/cooktrack/internal/dbx"
	"github.com/pancakescience/cooktrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, programID int64, phase string, targetTemperature float64) error {

	query :=
		`INSERT INTO program_settings (program_id, phase, target_temperature)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, programID, phase, targetTemperature); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListForProgram(ctx context.Context, programID int64) ([]models.PhaseSetting, error) {

	query :=
		`SELECT id, program_id, phase, target_temperature
		 FROM program_settings
		 WHERE program_id = $1
		 ORDER BY phase ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, programID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.PhaseSetting{}
	for rows.Next() {
		var s models.PhaseSetting
		if err := rows.Scan(&s.ID, &s.ProgramID, &s.Phase, &s.TargetTemperature); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) DeleteForProgram(ctx context.Context, programID int64) error {

	query := `DELETE FROM program_settings WHERE program_id = $1`

	if _, err := r.db.ExecContext(ctx, query, programID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
