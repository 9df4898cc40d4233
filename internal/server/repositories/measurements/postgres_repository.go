package measurements

import (
	"context"
	"fmt"
	"time"

	"github.com/pancakescience/cooktrack/internal/dbx"
	"github.com/pancakescience/cooktrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, sessionID int64, temperature float64, phase string, timestamp time.Time) (int64, error) {

	query :=
		`INSERT INTO measurements (session_id, temperature, phase, timestamp)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, sessionID, temperature, phase, timestamp).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) ListForSession(ctx context.Context, userID, sessionID int64) ([]models.Measurement, error) {

	query :=
		`SELECT m.id, m.session_id, m.temperature, m.phase, m.timestamp
		 FROM measurements m
		 JOIN sessions s ON s.id = m.session_id
		 JOIN programs p ON p.id = s.program_id
		 WHERE m.session_id = $1 AND p.user_id = $2
		 ORDER BY m.timestamp ASC, m.id ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Measurement{}
	for rows.Next() {
		var m models.Measurement
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Temperature, &m.Phase, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
