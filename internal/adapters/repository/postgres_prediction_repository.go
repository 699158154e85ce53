package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresPredictionRepository struct {
	db *sqlx.DB
}

func NewPostgresPredictionRepository(db *sqlx.DB) *PostgresPredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

func (r *PostgresPredictionRepository) Create(ctx context.Context, p *domain.Prediction) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO predictions (
			id, user_id, calories, bmi, bmi_status,
			workout_type, duration, heart_rate, weight, created_at
		) VALUES (
			:id, :user_id, :calories, :bmi, :bmi_status,
			:workout_type, :duration, :heart_rate, :weight, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		switch pgErrorCode(err) {
		case pgForeignKeyViolation:
			return errors.New("referenced user does not exist")
		case pgUniqueViolation:
			return errors.New("duplicate prediction id")
		}
		return err
	}
	return nil
}

func (r *PostgresPredictionRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Prediction, error) {
	predictions := []*domain.Prediction{}

	query := `
		SELECT * FROM predictions
		WHERE user_id = $1
		ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &predictions, query, userID)
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *PostgresPredictionRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int

	query := `SELECT count(*) FROM predictions WHERE user_id = $1`

	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, err
	}
	return count, nil
}
