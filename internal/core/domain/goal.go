package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrGoalNameEmpty     = errors.New("goal name cannot be empty")
	ErrGoalNameTooLong   = errors.New("goal name is too long (max 100 chars)")
	ErrInvalidGoalTarget = errors.New("goal target must be positive")
	ErrInvalidGoalPeriod = errors.New("invalid goal period (must be daily, weekly, or monthly)")
)

const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"

	MaxGoalNameLen = 100
)

// Goal is a user-defined calorie target for one period. Goals are never
// deleted in normal flow; only name and target can change after creation.
type Goal struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	TargetCalories int       `json:"target_calories" db:"target_calories"`
	Period         string    `json:"period" db:"period"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func validGoalPeriod(period string) bool {
	switch period {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

func NewGoal(userID, name string, targetCalories int, period string) (*Goal, error) {
	if userID == "" {
		return nil, errors.New("invalid user id")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGoalNameEmpty
	}
	if len(name) > MaxGoalNameLen {
		return nil, ErrGoalNameTooLong
	}
	if targetCalories <= 0 {
		return nil, ErrInvalidGoalTarget
	}
	if !validGoalPeriod(period) {
		return nil, ErrInvalidGoalPeriod
	}

	now := time.Now().UTC()

	return &Goal{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           name,
		TargetCalories: targetCalories,
		Period:         period,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Rename and Retarget are the only mutations a goal supports.
func (g *Goal) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrGoalNameEmpty
	}
	if len(name) > MaxGoalNameLen {
		return ErrGoalNameTooLong
	}
	g.Name = name
	g.UpdatedAt = time.Now().UTC()
	return nil
}

func (g *Goal) Retarget(targetCalories int) error {
	if targetCalories <= 0 {
		return ErrInvalidGoalTarget
	}
	g.TargetCalories = targetCalories
	g.UpdatedAt = time.Now().UTC()
	return nil
}

type defaultGoal struct {
	Name           string
	TargetCalories int
	Period         string
}

var defaultGoals = []defaultGoal{
	{Name: "Daily Burn", TargetCalories: 500, Period: PeriodDaily},
	{Name: "Weekly Goal", TargetCalories: 3500, Period: PeriodWeekly},
	{Name: "Monthly Target", TargetCalories: 15000, Period: PeriodMonthly},
}

// DefaultGoals builds the three goals seeded for a user on first access.
func DefaultGoals(userID string) []*Goal {
	goals := make([]*Goal, 0, len(defaultGoals))
	now := time.Now().UTC()
	for _, d := range defaultGoals {
		goals = append(goals, &Goal{
			ID:             uuid.New().String(),
			UserID:         userID,
			Name:           d.Name,
			TargetCalories: d.TargetCalories,
			Period:         d.Period,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return goals
}
