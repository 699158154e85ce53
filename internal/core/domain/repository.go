package domain

import (
	"context"
)

type PredictionRepository interface {
	// Create persists a new prediction record.
	Create(ctx context.Context, prediction *Prediction) error

	// ListByUserID retrieves the full history for a user, newest first.
	// Callers must not rely on the order for correctness: the derived
	// views recompute from timestamps.
	ListByUserID(ctx context.Context, userID string) ([]*Prediction, error)

	// CountByUserID returns the all-time number of records for a user.
	CountByUserID(ctx context.Context, userID string) (int, error)
}

type GoalRepository interface {
	// ListByUserID retrieves all goals for a user.
	ListByUserID(ctx context.Context, userID string) ([]*Goal, error)

	// CreateBatch persists a set of goals atomically. Used for seeding
	// the defaults on first access.
	CreateBatch(ctx context.Context, goals []*Goal) error

	// GetByID retrieves a goal by its unique identifier.
	GetByID(ctx context.Context, id string) (*Goal, error)

	// Update persists name and target changes for an existing goal.
	Update(ctx context.Context, goal *Goal) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
