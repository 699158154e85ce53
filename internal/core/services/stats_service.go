package services

import (
	"context"
	"math"
	"time"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
)

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var monthWeekLabels = [4]string{"Week 1", "Week 2", "Week 3", "Week 4"}

type StatsService struct {
	predictionRepo domain.PredictionRepository
}

func NewStatsService(predictionRepo domain.PredictionRepository) *StatsService {
	return &StatsService{
		predictionRepo: predictionRepo,
	}
}

// Dashboard computes every derived view from the full history under a
// single "now" snapshot, so the totals, series and streak are mutually
// consistent.
func (s *StatsService) Dashboard(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	records, err := s.predictionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &domain.DashboardStats{
		Totals:        Totals(records, now),
		WeeklySeries:  WeeklySeries(records, now),
		MonthlySeries: MonthlySeries(records, now),
		Distribution:  Distribution(records),
		Streak:        Streak(records, now),
	}, nil
}

// WeeklySeries buckets the last 7 days of activity by weekday of
// occurrence (Sun..Sat), not by offset from today. A record from 10 days
// ago is excluded even though it shares a weekday with a recent one.
func WeeklySeries(records []*domain.Prediction, now time.Time) []domain.DayBucket {
	buckets := make([]domain.DayBucket, 7)
	for i := range buckets {
		buckets[i].Day = weekdayLabels[i]
	}

	for _, r := range records {
		if now.Sub(r.CreatedAt) >= 7*24*time.Hour {
			continue
		}
		idx := int(r.CreatedAt.Weekday())
		buckets[idx].Calories += r.Calories
		buckets[idx].Workouts++
	}

	return buckets
}

// MonthlySeries buckets the last 28 days into four non-overlapping 7-day
// windows ordered oldest to newest, so the most recent window lands last.
func MonthlySeries(records []*domain.Prediction, now time.Time) []domain.WeekBucket {
	buckets := make([]domain.WeekBucket, 4)
	for i := range buckets {
		buckets[i].Week = monthWeekLabels[i]
	}

	for _, r := range records {
		daysSince := int(math.Floor(now.Sub(r.CreatedAt).Hours() / 24))
		if daysSince < 0 || daysSince >= 28 {
			continue
		}
		idx := daysSince / 7
		if idx > 3 {
			idx = 3
		}
		buckets[3-idx].Calories += r.Calories
		buckets[3-idx].Workouts++
	}

	return buckets
}

// Distribution counts records per workout type, in first-seen order.
// Unknown types pass through with their raw id and the default color.
func Distribution(records []*domain.Prediction) []domain.DistributionSlice {
	counts := make(map[string]int)
	var order []string

	for _, r := range records {
		if _, seen := counts[r.WorkoutType]; !seen {
			order = append(order, r.WorkoutType)
		}
		counts[r.WorkoutType]++
	}

	slices := make([]domain.DistributionSlice, 0, len(order))
	for _, id := range order {
		name := id
		color := domain.DefaultWorkoutColor
		if w, ok := domain.FindWorkoutType(id); ok {
			name = w.Name
			color = w.Color
		}
		slices = append(slices, domain.DistributionSlice{
			Name:  name,
			Value: counts[id],
			Color: color,
		})
	}

	return slices
}

// Totals sums calories over three lookback windows: the current calendar
// day, a rolling 7 days and a rolling 30 days.
func Totals(records []*domain.Prediction, now time.Time) domain.Totals {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, 0, -30)

	t := domain.Totals{TotalWorkouts: len(records)}

	for _, r := range records {
		if !r.CreatedAt.Before(todayStart) {
			t.DailyCalories += r.Calories
		}
		if !r.CreatedAt.Before(weekStart) {
			t.WeeklyCalories += r.Calories
		}
		if !r.CreatedAt.Before(monthStart) {
			t.MonthlyCalories += r.Calories
		}
	}

	// The average divides the 30-day sum by the all-time workout count.
	// That mismatch is carried over from the product's original metric
	// definition; changing the divisor would silently shift every
	// long-time user's dashboard.
	if t.TotalWorkouts > 0 {
		t.AvgPerWorkout = int(math.Round(float64(t.MonthlyCalories) / float64(t.TotalWorkouts)))
	}

	return t
}

// Streak counts consecutive calendar days with at least one record,
// walking backward from today. The day grouping uses UTC dates; a day
// with no records ends the walk immediately.
func Streak(records []*domain.Prediction, now time.Time) int {
	daysWithActivity := make(map[string]bool, len(records))
	for _, r := range records {
		daysWithActivity[r.CreatedAt.UTC().Format("2006-01-02")] = true
	}

	streak := 0
	day := now.UTC()
	for daysWithActivity[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak
}
