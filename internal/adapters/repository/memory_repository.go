package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
)

// In-memory repositories backing tests and local development. History
// mutation is append-create-new-reference: List returns fresh slices of
// copies so a caller never observes a half-applied change.

type InMemoryPredictionRepository struct {
	store map[string]*domain.Prediction

	mu sync.RWMutex
}

func NewInMemoryPredictionRepository() *InMemoryPredictionRepository {
	return &InMemoryPredictionRepository{
		store: make(map[string]*domain.Prediction),
	}
}

func (r *InMemoryPredictionRepository) Create(ctx context.Context, p *domain.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *p
	r.store[p.ID] = &clone
	return nil
}

func (r *InMemoryPredictionRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	predictions := []*domain.Prediction{}
	for _, p := range r.store {
		if p.UserID == userID {
			clone := *p
			predictions = append(predictions, &clone)
		}
	}

	sort.Slice(predictions, func(i, j int) bool {
		return predictions[i].CreatedAt.After(predictions[j].CreatedAt)
	})

	return predictions, nil
}

func (r *InMemoryPredictionRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, p := range r.store {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

type InMemoryGoalRepository struct {
	store map[string]*domain.Goal

	mu sync.RWMutex
}

func NewInMemoryGoalRepository() *InMemoryGoalRepository {
	return &InMemoryGoalRepository{
		store: make(map[string]*domain.Goal),
	}
}

func (r *InMemoryGoalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := []*domain.Goal{}
	for _, g := range r.store {
		if g.UserID == userID {
			clone := *g
			goals = append(goals, &clone)
		}
	}

	sort.Slice(goals, func(i, j int) bool {
		return goals[i].CreatedAt.Before(goals[j].CreatedAt)
	})

	return goals, nil
}

func (r *InMemoryGoalRepository) CreateBatch(ctx context.Context, goals []*domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range goals {
		clone := *g
		r.store[g.ID] = &clone
	}
	return nil
}

func (r *InMemoryGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.store[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	clone := *g
	return &clone, nil
}

func (r *InMemoryGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[goal.ID]; !ok {
		return domain.ErrGoalNotFound
	}
	clone := *goal
	r.store[goal.ID] = &clone
	return nil
}

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
