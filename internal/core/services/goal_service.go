package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
)

type GoalService struct {
	goalRepo       domain.GoalRepository
	predictionRepo domain.PredictionRepository
}

func NewGoalService(goalRepo domain.GoalRepository, predictionRepo domain.PredictionRepository) *GoalService {
	return &GoalService{
		goalRepo:       goalRepo,
		predictionRepo: predictionRepo,
	}
}

type UpdateGoalInput struct {
	ID             string
	UserID         string
	Name           string
	TargetCalories int
}

// GoalStatus pairs a goal with its derived progress and recommendation.
type GoalStatus struct {
	Goal           *domain.Goal          `json:"goal"`
	Progress       domain.GoalProgress   `json:"progress"`
	Recommendation domain.Recommendation `json:"recommendation"`
}

// ListByUserID returns the user's goals, seeding the three defaults on
// first access.
func (s *GoalService) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	goals, err := s.goalRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(goals) > 0 {
		return goals, nil
	}

	goals = domain.DefaultGoals(userID)
	if err := s.goalRepo.CreateBatch(ctx, goals); err != nil {
		return nil, fmt.Errorf("goal service: failed to seed defaults: %w", err)
	}

	return goals, nil
}

// Update applies a partial edit: only name and target can change, and
// only for a goal the caller owns.
func (s *GoalService) Update(ctx context.Context, input UpdateGoalInput) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if goal.UserID != input.UserID {
		return nil, domain.ErrGoalNotFound
	}

	if input.Name != "" {
		if err := goal.Rename(input.Name); err != nil {
			return nil, err
		}
	}

	if input.TargetCalories != 0 {
		if err := goal.Retarget(input.TargetCalories); err != nil {
			return nil, err
		}
	}

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, err
	}

	return goal, nil
}

// StatusByUserID computes progress and a recommendation for every goal,
// plus the current streak, all under one "now" snapshot.
func (s *GoalService) StatusByUserID(ctx context.Context, userID string) ([]GoalStatus, int, error) {
	goals, err := s.ListByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	records, err := s.predictionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	totals := Totals(records, now)

	statuses := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		prog := Progress(g, totals)
		statuses = append(statuses, GoalStatus{
			Goal:           g,
			Progress:       prog,
			Recommendation: Recommend(g, prog, now),
		})
	}

	return statuses, Streak(records, now), nil
}

// Progress measures a goal against the totals for its period. The goal
// invariant guarantees a positive target.
func Progress(goal *domain.Goal, totals domain.Totals) domain.GoalProgress {
	var current int
	switch goal.Period {
	case domain.PeriodDaily:
		current = totals.DailyCalories
	case domain.PeriodWeekly:
		current = totals.WeeklyCalories
	case domain.PeriodMonthly:
		current = totals.MonthlyCalories
	}

	percentage := math.Min(100, float64(current)/float64(goal.TargetCalories)*100)

	remaining := goal.TargetCalories - current
	if remaining < 0 {
		remaining = 0
	}

	return domain.GoalProgress{
		Current:     current,
		Percentage:  percentage,
		IsCompleted: current >= goal.TargetCalories,
		Remaining:   remaining,
	}
}

// Recommend derives a coaching message from the progress band. The rule
// table is fixed: completed goals always get the success message, daily
// and weekly goals get a warning below their band threshold, monthly
// goals are always informational.
func Recommend(goal *domain.Goal, prog domain.GoalProgress, now time.Time) domain.Recommendation {
	if prog.IsCompleted {
		return domain.Recommendation{
			Severity: domain.RecommendationSuccess,
			Message:  "Goal achieved! Keep up the great work! 🎉",
		}
	}

	switch goal.Period {
	case domain.PeriodDaily:
		if prog.Percentage < 50 {
			// Suggested session length assumes roughly 8 kcal burned
			// per minute of HIIT.
			minutes := int(math.Ceil(float64(prog.Remaining) / 8))
			return domain.Recommendation{
				Severity: domain.RecommendationWarning,
				Message:  fmt.Sprintf("Need %d more kcal today. Try a %d-min HIIT session!", prog.Remaining, minutes),
			}
		}
		return domain.Recommendation{
			Severity: domain.RecommendationInfo,
			Message:  fmt.Sprintf("Almost there! %d kcal to go.", prog.Remaining),
		}

	case domain.PeriodWeekly:
		daysLeft := 7 - int(now.Weekday())
		if prog.Percentage < 70 {
			perDay := int(math.Ceil(float64(prog.Remaining) / math.Max(1, float64(daysLeft))))
			return domain.Recommendation{
				Severity: domain.RecommendationWarning,
				Message:  fmt.Sprintf("Burn ~%d kcal/day for the next %d days to hit your goal.", perDay, daysLeft),
			}
		}
		return domain.Recommendation{
			Severity: domain.RecommendationInfo,
			Message:  fmt.Sprintf("On track! %d kcal remaining this week.", prog.Remaining),
		}
	}

	return domain.Recommendation{
		Severity: domain.RecommendationInfo,
		Message:  fmt.Sprintf("%d kcal remaining for the month.", prog.Remaining),
	}
}
