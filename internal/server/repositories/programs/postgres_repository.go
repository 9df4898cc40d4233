package programs

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

func (r *PostgresRepository) Create(ctx context.Context, userID int64, name string) (int64, error) {

	query :=
		`INSERT INTO programs (user_id, name)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, userID, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]models.Program, error) {

	query :=
		`SELECT id, user_id, name
		 FROM programs
		 WHERE user_id = $1
		 ORDER BY id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Program{}
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) OwnedBy(ctx context.Context, userID, programID int64) (bool, error) {

	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM programs WHERE id = $1 AND user_id = $2
		 )`

	var owned bool
	if err := r.db.QueryRowContext(ctx, query, programID, userID).Scan(&owned); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return owned, nil
}

func (r *PostgresRepository) UpdateName(ctx context.Context, userID, programID int64, name string) (bool, error) {

	query :=
		`UPDATE programs
		 SET name = $3
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, programID, userID, name)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return affected > 0, nil
}
