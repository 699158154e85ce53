package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
	"github.com/vitaburn/vitaburn-engine/internal/core/services"
)

type MockGoalRepo struct {
	mock.Mock
}

func (m *MockGoalRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

func (m *MockGoalRepo) CreateBatch(ctx context.Context, goals []*domain.Goal) error {
	args := m.Called(ctx, goals)
	return args.Error(0)
}

func (m *MockGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepo) Update(ctx context.Context, goal *domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func TestGoalService_ListByUserID(t *testing.T) {
	ctx := context.Background()
	userID := "user-goals-1"

	t.Run("Success: Existing goals returned as-is, no seeding", func(t *testing.T) {
		goalRepo := new(MockGoalRepo)
		svc := services.NewGoalService(goalRepo, new(MockPredictionRepo))

		existing := []*domain.Goal{
			{ID: "g1", UserID: userID, Name: "Custom", TargetCalories: 800, Period: domain.PeriodDaily},
		}
		goalRepo.On("ListByUserID", ctx, userID).Return(existing, nil)

		goals, err := svc.ListByUserID(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, existing, goals)
		goalRepo.AssertNotCalled(t, "CreateBatch")
	})

	t.Run("Success: First access seeds the three defaults", func(t *testing.T) {
		goalRepo := new(MockGoalRepo)
		svc := services.NewGoalService(goalRepo, new(MockPredictionRepo))

		goalRepo.On("ListByUserID", ctx, userID).Return([]*domain.Goal{}, nil)
		goalRepo.On("CreateBatch", ctx, mock.MatchedBy(func(goals []*domain.Goal) bool {
			return len(goals) == 3
		})).Return(nil)

		goals, err := svc.ListByUserID(ctx, userID)

		require.NoError(t, err)
		require.Len(t, goals, 3)

		assert.Equal(t, "Daily Burn", goals[0].Name)
		assert.Equal(t, 500, goals[0].TargetCalories)
		assert.Equal(t, domain.PeriodDaily, goals[0].Period)

		assert.Equal(t, "Weekly Goal", goals[1].Name)
		assert.Equal(t, 3500, goals[1].TargetCalories)
		assert.Equal(t, domain.PeriodWeekly, goals[1].Period)

		assert.Equal(t, "Monthly Target", goals[2].Name)
		assert.Equal(t, 15000, goals[2].TargetCalories)
		assert.Equal(t, domain.PeriodMonthly, goals[2].Period)

		for _, g := range goals {
			assert.Equal(t, userID, g.UserID)
			assert.NotEmpty(t, g.ID)
		}
		goalRepo.AssertExpectations(t)
	})

	t.Run("Fail: Seed write error propagates", func(t *testing.T) {
		goalRepo := new(MockGoalRepo)
		svc := services.NewGoalService(goalRepo, new(MockPredictionRepo))

		dbErr := errors.New("insert failed")
		goalRepo.On("ListByUserID", ctx, userID).Return([]*domain.Goal{}, nil)
		goalRepo.On("CreateBatch", ctx, mock.Anything).Return(dbErr)

		goals, err := svc.ListByUserID(ctx, userID)

		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, goals)
	})
}

func TestGoalService_Update(t *testing.T) {
	ctx := context.Background()
	userID := "user-goals-1"
	goalID := "goal-abc"

	existing := func() *domain.Goal {
		return &domain.Goal{
			ID:             goalID,
			UserID:         userID,
			Name:           "Daily Burn",
			TargetCalories: 500,
			Period:         domain.PeriodDaily,
			CreatedAt:      time.Now().UTC().Add(-24 * time.Hour),
			UpdatedAt:      time.Now().UTC().Add(-24 * time.Hour),
		}
	}

	t.Run("Success: Partial update changes only the provided fields", func(t *testing.T) {
		goalRepo := new(MockGoalRepo)
		svc := services.NewGoalService(goalRepo, new(MockPredictionRepo))

		goalRepo.On("GetByID", ctx, goalID).Return(existing(), nil)
		goalRepo.On("Update", ctx, mock.MatchedBy(func(g *domain.Goal) bool {
			return g.Name == "Daily Burn" && g.TargetCalories == 750
		})).Return(nil)

		updated, err := svc.Update(ctx, services.UpdateGoalInput{
			ID: goalID, UserID: userID, TargetCalories: 750,
		})

		require.NoError(t, err)
		assert.Equal(t, 750, updated.TargetCalories)
		assert.Equal(t, "Daily Burn", updated.Name)
		assert.Equal(t, domain.PeriodDaily, updated.Period)
		goalRepo.AssertExpectations(t)
	})

	t.Run("Success: Rename trims whitespace", func(t *testing.T) {
		goalRepo := new(MockGoalRepo)
		svc := services.NewGoalService(goalRepo, new(MockPredictionRepo))

		goalRepo.On("GetByID", ctx, goalID).Return(existing(), nil)
		goalRepo.On("Update", ctx, mock.Anything).Return(nil)

		updated, err := svc.Update(ctx, services.UpdateGoalInput{
			ID: goalID, UserID: userID, Name: "  Morning Burn  ",
		})

		require.NoError(t, err)
		assert.Equal(t, "Morning Burn", updated.Name)
	})

	t.Run("Security: Another user's goal reads as not found", func(t *testing.T) {
		goalRepo := new(MockGoalRepo)
		svc := services.NewGoalService(goalRepo, new(MockPredictionRepo))

		goalRepo.On("GetByID", ctx, goalID).Return(existing(), nil)

		updated, err := svc.Update(ctx, services.UpdateGoalInput{
			ID: goalID, UserID: "someone-else", TargetCalories: 1,
		})

		assert.ErrorIs(t, err, domain.ErrGoalNotFound)
		assert.Nil(t, updated)
		goalRepo.AssertNotCalled(t, "Update")
	})

	t.Run("Fail: Invalid target rejected before persisting", func(t *testing.T) {
		goalRepo := new(MockGoalRepo)
		svc := services.NewGoalService(goalRepo, new(MockPredictionRepo))

		goalRepo.On("GetByID", ctx, goalID).Return(existing(), nil)

		_, err := svc.Update(ctx, services.UpdateGoalInput{
			ID: goalID, UserID: userID, TargetCalories: -100,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidGoalTarget)
		goalRepo.AssertNotCalled(t, "Update")
	})
}

func TestProgress(t *testing.T) {
	totals := domain.Totals{
		DailyCalories:   300,
		WeeklyCalories:  2800,
		MonthlyCalories: 16000,
	}

	t.Run("Daily goal below target", func(t *testing.T) {
		goal := &domain.Goal{Period: domain.PeriodDaily, TargetCalories: 500}

		prog := services.Progress(goal, totals)

		assert.Equal(t, 300, prog.Current)
		assert.InDelta(t, 60.0, prog.Percentage, 0.001)
		assert.False(t, prog.IsCompleted)
		assert.Equal(t, 200, prog.Remaining)
	})

	t.Run("Exactly at target is completed with zero remaining", func(t *testing.T) {
		goal := &domain.Goal{Period: domain.PeriodDaily, TargetCalories: 300}

		prog := services.Progress(goal, totals)

		assert.Equal(t, 100.0, prog.Percentage)
		assert.True(t, prog.IsCompleted)
		assert.Equal(t, 0, prog.Remaining)
	})

	t.Run("Over target clamps percentage and remaining", func(t *testing.T) {
		goal := &domain.Goal{Period: domain.PeriodMonthly, TargetCalories: 15000}

		prog := services.Progress(goal, totals)

		assert.Equal(t, 16000, prog.Current)
		assert.Equal(t, 100.0, prog.Percentage)
		assert.True(t, prog.IsCompleted)
		assert.Equal(t, 0, prog.Remaining)
	})

	t.Run("Weekly goal reads the weekly window", func(t *testing.T) {
		goal := &domain.Goal{Period: domain.PeriodWeekly, TargetCalories: 3500}

		prog := services.Progress(goal, totals)

		assert.Equal(t, 2800, prog.Current)
		assert.InDelta(t, 80.0, prog.Percentage, 0.001)
		assert.Equal(t, 700, prog.Remaining)
	})
}

func TestRecommend(t *testing.T) {
	// A Wednesday: 4 days left in the week under the Sunday-start rule.
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

	daily := &domain.Goal{Period: domain.PeriodDaily, TargetCalories: 500}
	weekly := &domain.Goal{Period: domain.PeriodWeekly, TargetCalories: 3500}
	monthly := &domain.Goal{Period: domain.PeriodMonthly, TargetCalories: 15000}

	t.Run("Completed goal always gets the success message", func(t *testing.T) {
		prog := domain.GoalProgress{Current: 500, Percentage: 100, IsCompleted: true, Remaining: 0}

		rec := services.Recommend(daily, prog, now)

		assert.Equal(t, domain.RecommendationSuccess, rec.Severity)
		assert.Equal(t, "Goal achieved! Keep up the great work! 🎉", rec.Message)
	})

	t.Run("Daily below half suggests a HIIT session", func(t *testing.T) {
		prog := domain.GoalProgress{Current: 100, Percentage: 20, Remaining: 400}

		rec := services.Recommend(daily, prog, now)

		assert.Equal(t, domain.RecommendationWarning, rec.Severity)
		assert.Equal(t, "Need 400 more kcal today. Try a 50-min HIIT session!", rec.Message)
	})

	t.Run("Daily session length rounds up", func(t *testing.T) {
		prog := domain.GoalProgress{Current: 299, Percentage: 40.2, Remaining: 201}

		rec := services.Recommend(&domain.Goal{Period: domain.PeriodDaily, TargetCalories: 500}, prog, now)

		// ceil(201/8) = 26
		assert.Contains(t, rec.Message, "26-min HIIT session")
	})

	t.Run("Daily at or above half is informational", func(t *testing.T) {
		prog := domain.GoalProgress{Current: 300, Percentage: 60, Remaining: 200}

		rec := services.Recommend(daily, prog, now)

		assert.Equal(t, domain.RecommendationInfo, rec.Severity)
		assert.Equal(t, "Almost there! 200 kcal to go.", rec.Message)
	})

	t.Run("Weekly below band spreads the remainder over days left", func(t *testing.T) {
		prog := domain.GoalProgress{Current: 1400, Percentage: 40, Remaining: 2100}

		rec := services.Recommend(weekly, prog, now)

		assert.Equal(t, domain.RecommendationWarning, rec.Severity)
		// ceil(2100/4) = 525 over the 4 remaining days
		assert.Equal(t, "Burn ~525 kcal/day for the next 4 days to hit your goal.", rec.Message)
	})

	t.Run("Weekly on Saturday still divides by at least one day", func(t *testing.T) {
		saturday := time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC)
		prog := domain.GoalProgress{Current: 700, Percentage: 20, Remaining: 2800}

		rec := services.Recommend(weekly, prog, saturday)

		assert.Equal(t, domain.RecommendationWarning, rec.Severity)
		assert.Equal(t, "Burn ~2800 kcal/day for the next 1 days to hit your goal.", rec.Message)
	})

	t.Run("Weekly on track is informational", func(t *testing.T) {
		prog := domain.GoalProgress{Current: 2800, Percentage: 80, Remaining: 700}

		rec := services.Recommend(weekly, prog, now)

		assert.Equal(t, domain.RecommendationInfo, rec.Severity)
		assert.Equal(t, "On track! 700 kcal remaining this week.", rec.Message)
	})

	t.Run("Monthly is always informational", func(t *testing.T) {
		prog := domain.GoalProgress{Current: 100, Percentage: 0.7, Remaining: 14900}

		rec := services.Recommend(monthly, prog, now)

		assert.Equal(t, domain.RecommendationInfo, rec.Severity)
		assert.Equal(t, "14900 kcal remaining for the month.", rec.Message)
	})
}

func TestGoalService_StatusByUserID(t *testing.T) {
	ctx := context.Background()
	userID := "user-goals-2"

	t.Run("Success: One status per goal plus the streak", func(t *testing.T) {
		goalRepo := new(MockGoalRepo)
		predRepo := new(MockPredictionRepo)
		svc := services.NewGoalService(goalRepo, predRepo)

		goals := []*domain.Goal{
			{ID: "g1", UserID: userID, Name: "Daily Burn", TargetCalories: 500, Period: domain.PeriodDaily},
			{ID: "g2", UserID: userID, Name: "Weekly Goal", TargetCalories: 3500, Period: domain.PeriodWeekly},
		}
		goalRepo.On("ListByUserID", ctx, userID).Return(goals, nil)

		now := time.Now().UTC()
		records := []*domain.Prediction{
			record(userID, 600, "running", now),
			record(userID, 400, "cycling", now.AddDate(0, 0, -1)),
		}
		predRepo.On("ListByUserID", ctx, userID).Return(records, nil)

		statuses, streak, err := svc.StatusByUserID(ctx, userID)

		require.NoError(t, err)
		require.Len(t, statuses, 2)
		assert.Equal(t, 2, streak)

		assert.True(t, statuses[0].Progress.IsCompleted)
		assert.Equal(t, domain.RecommendationSuccess, statuses[0].Recommendation.Severity)

		assert.Equal(t, 1000, statuses[1].Progress.Current)
		assert.False(t, statuses[1].Progress.IsCompleted)
		assert.NotEmpty(t, statuses[1].Recommendation.Message)
	})

	t.Run("Fail: Prediction repo error propagates", func(t *testing.T) {
		goalRepo := new(MockGoalRepo)
		predRepo := new(MockPredictionRepo)
		svc := services.NewGoalService(goalRepo, predRepo)

		goalRepo.On("ListByUserID", ctx, userID).Return([]*domain.Goal{
			{ID: "g1", UserID: userID, Name: "Daily Burn", TargetCalories: 500, Period: domain.PeriodDaily},
		}, nil)

		dbErr := errors.New("query timeout")
		predRepo.On("ListByUserID", ctx, userID).Return(nil, dbErr)

		statuses, streak, err := svc.StatusByUserID(ctx, userID)

		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, statuses)
		assert.Equal(t, 0, streak)
	})
}
