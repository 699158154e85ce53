package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPrediction  = errors.New("invalid prediction data")
	ErrPredictionNotFound = errors.New("prediction not found")
)

// Prediction is one completed calorie estimation. It is immutable after
// creation: history only grows by appending new records.
type Prediction struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Calories    int       `json:"calories" db:"calories"`
	BMI         float64   `json:"bmi" db:"bmi"`
	BMIStatus   string    `json:"bmi_status" db:"bmi_status"`
	WorkoutType string    `json:"workout_type" db:"workout_type"`
	Duration    float64   `json:"duration" db:"duration"`
	HeartRate   float64   `json:"heart_rate" db:"heart_rate"`
	Weight      float64   `json:"weight" db:"weight"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func NewPrediction(userID, workoutType string, result EstimateResult, duration, heartRate, weight float64) *Prediction {
	return &Prediction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Calories:    result.Calories,
		BMI:         result.BMI,
		BMIStatus:   result.BMIStatus,
		WorkoutType: workoutType,
		Duration:    duration,
		HeartRate:   heartRate,
		Weight:      weight,
		CreatedAt:   time.Now().UTC(),
	}
}

func (p *Prediction) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(p.WorkoutType) == "" {
		return errors.New("workout_type is required")
	}
	if p.Calories < 0 {
		return errors.New("calories cannot be negative")
	}
	if p.BMI <= 0 {
		return errors.New("bmi must be positive")
	}
	if p.Duration <= 0 {
		return errors.New("duration must be positive")
	}
	if p.HeartRate <= 0 {
		return errors.New("heart_rate must be positive")
	}
	if p.Weight <= 0 {
		return errors.New("weight must be positive")
	}
	if p.CreatedAt.IsZero() {
		return errors.New("created_at is required")
	}
	return nil
}
