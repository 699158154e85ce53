package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
)

type PostgresGoalRepository struct {
	db *sqlx.DB
}

func NewPostgresGoalRepository(db *sqlx.DB) *PostgresGoalRepository {
	return &PostgresGoalRepository{db: db}
}

func (r *PostgresGoalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	goals := []*domain.Goal{}

	query := `
		SELECT * FROM fitness_goals
		WHERE user_id = $1
		ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: list goals failed: %w", err)
	}
	return goals, nil
}

// CreateBatch inserts the seed goals in one transaction: two concurrent
// first reads must not double-seed a user.
func (r *PostgresGoalRepository) CreateBatch(ctx context.Context, goals []*domain.Goal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin seed tx failed: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO fitness_goals (
			id, user_id, name, target_calories, period, created_at, updated_at
		) VALUES (
			:id, :user_id, :name, :target_calories, :period, :created_at, :updated_at
		)
		ON CONFLICT (user_id, period) DO NOTHING`

	for _, g := range goals {
		if _, err := tx.NamedExecContext(ctx, query, g); err != nil {
			return fmt.Errorf("repository: seed goal %q failed: %w", g.Name, err)
		}
	}

	return tx.Commit()
}

func (r *PostgresGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	var goal domain.Goal

	query := `SELECT * FROM fitness_goals WHERE id = $1`

	err := r.db.GetContext(ctx, &goal, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("repository: get goal failed: %w", err)
	}
	return &goal, nil
}

// Update persists only the mutable fields: name and target.
func (r *PostgresGoalRepository) Update(ctx context.Context, g *domain.Goal) error {
	query := `
		UPDATE fitness_goals
		SET name = :name,
		    target_calories = :target_calories,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, g)
	if err != nil {
		return fmt.Errorf("repository: update goal failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrGoalNotFound
	}

	return nil
}
