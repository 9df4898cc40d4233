package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pancakescience/cooktrack/internal/common"
	"github.com/pancakescience/cooktrack/internal/dbx"
	"github.com/pancakescience/cooktrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, programID int64, startTime time.Time) (int64, error) {

	query :=
		`INSERT INTO sessions (program_id, start_time)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, programID, startTime).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) ListForProgram(ctx context.Context, userID, programID int64) ([]models.Session, error) {

	query :=
		`SELECT s.id, s.program_id, s.start_time, s.end_time
		 FROM sessions s
		 JOIN programs p ON p.id = s.program_id
		 WHERE s.program_id = $1 AND p.user_id = $2
		 ORDER BY s.start_time DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, programID, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, sessionID int64) (*models.Session, error) {

	query :=
		`SELECT s.id, s.program_id, s.start_time, s.end_time
		 FROM sessions s
		 JOIN programs p ON p.id = s.program_id
		 WHERE s.id = $1 AND p.user_id = $2
		 `

	s := &models.Session{}
	var endTime sql.NullTime
	err := r.db.QueryRowContext(ctx, query, sessionID, userID).
		Scan(&s.ID, &s.ProgramID, &s.StartTime, &endTime)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if endTime.Valid {
		s.EndTime = &endTime.Time
	}

	return s, nil
}

func (r *PostgresRepository) Close(ctx context.Context, userID, sessionID int64, endTime time.Time) (bool, error) {

	// The end_time IS NULL guard makes concurrent close calls safe: only
	// one of them can match the row, the rest report not found.
	query :=
		`UPDATE sessions s
		 SET end_time = $3
		 FROM programs p
		 WHERE p.id = s.program_id AND s.id = $1 AND p.user_id = $2 AND s.end_time IS NULL
		 `

	res, err := r.db.ExecContext(ctx, query, sessionID, userID, endTime)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return affected > 0, nil
}

func scanSession(rows *sql.Rows) (*models.Session, error) {
	s := &models.Session{}
	var endTime sql.NullTime
	if err := rows.Scan(&s.ID, &s.ProgramID, &s.StartTime, &endTime); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if endTime.Valid {
		s.EndTime = &endTime.Time
	}
	return s, nil
}
