package services

import (
	"context"
	"math"
	"sort"

	"github.com/vitaburn/vitaburn-engine/internal/core/domain"
)

// StatsWarmer is notified whenever a user's history changes. Invalidate
// runs synchronously so a read racing the append never sees the
// pre-append snapshot; Enqueue schedules the background recompute.
type StatsWarmer interface {
	Invalidate(ctx context.Context, userID string)
	Enqueue(userID string)
}

type PredictionService struct {
	repo   domain.PredictionRepository
	warmer StatsWarmer
}

func NewPredictionService(repo domain.PredictionRepository, warmer StatsWarmer) *PredictionService {
	return &PredictionService{
		repo:   repo,
		warmer: warmer,
	}
}

type CreatePredictionInput struct {
	UserID          string
	WorkoutType     string
	WeightKg        float64
	HeightCm        float64
	DurationMinutes float64
	HeartRate       float64
	BodyTempC       float64
	Age             float64
	IsMale          bool
}

// Create runs the estimation model over the submitted measurements and
// appends the resulting record to the user's history.
func (s *PredictionService) Create(ctx context.Context, input CreatePredictionInput) (*domain.Prediction, error) {
	result := domain.Estimate(domain.EstimateInput{
		WorkoutType:     input.WorkoutType,
		WeightKg:        input.WeightKg,
		HeightCm:        input.HeightCm,
		DurationMinutes: input.DurationMinutes,
		HeartRate:       input.HeartRate,
		BodyTempC:       input.BodyTempC,
		Age:             input.Age,
		IsMale:          input.IsMale,
	})

	prediction := domain.NewPrediction(
		input.UserID, input.WorkoutType, result,
		input.DurationMinutes, input.HeartRate, input.WeightKg,
	)

	if err := prediction.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, prediction); err != nil {
		return nil, err
	}

	if s.warmer != nil {
		s.warmer.Invalidate(ctx, prediction.UserID)
		s.warmer.Enqueue(prediction.UserID)
	}

	return prediction, nil
}

func (s *PredictionService) ListByUserID(ctx context.Context, userID string) ([]*domain.Prediction, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// UserContext summarizes the history for the assistant: volume, average
// burn, the most frequent workout and the latest few sessions.
func (s *PredictionService) UserContext(ctx context.Context, userID string) (*domain.UserContext, error) {
	count, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	uc := &domain.UserContext{
		TotalPredictions: count,
		RecentWorkouts:   []string{},
	}

	if count == 0 {
		return uc, nil
	}

	records, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return uc, nil
	}

	sorted := make([]*domain.Prediction, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	total := 0
	counts := make(map[string]int)
	for _, r := range sorted {
		total += r.Calories
		counts[r.WorkoutType]++
	}
	uc.AvgCalories = int(math.Round(float64(total) / float64(len(sorted))))

	best := 0
	for _, r := range sorted {
		if counts[r.WorkoutType] > best {
			best = counts[r.WorkoutType]
			uc.FavoriteWorkout = workoutName(r.WorkoutType)
		}
	}

	for _, r := range sorted[:min(5, len(sorted))] {
		uc.RecentWorkouts = append(uc.RecentWorkouts, workoutName(r.WorkoutType))
	}

	return uc, nil
}

func workoutName(id string) string {
	if w, ok := domain.FindWorkoutType(id); ok {
		return w.Name
	}
	return id
}
