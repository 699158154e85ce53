package domain

// Derived dashboard views. None of these are stored: they are recomputed
// from the prediction history and a single "now" snapshot on every read.

type DayBucket struct {
	Day      string `json:"day"`
	Calories int    `json:"calories"`
	Workouts int    `json:"workouts"`
}

type WeekBucket struct {
	Week     string `json:"week"`
	Calories int    `json:"calories"`
	Workouts int    `json:"workouts"`
}

type DistributionSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type Totals struct {
	DailyCalories   int `json:"daily_calories"`
	WeeklyCalories  int `json:"weekly_calories"`
	MonthlyCalories int `json:"monthly_calories"`
	TotalWorkouts   int `json:"total_workouts"`
	AvgPerWorkout   int `json:"avg_calories_per_workout"`
}

type DashboardStats struct {
	Totals        Totals              `json:"totals"`
	WeeklySeries  []DayBucket         `json:"weekly_series"`
	MonthlySeries []WeekBucket        `json:"monthly_series"`
	Distribution  []DistributionSlice `json:"distribution"`
	Streak        int                 `json:"streak"`
}

type GoalProgress struct {
	Current     int     `json:"current"`
	Percentage  float64 `json:"percentage"`
	IsCompleted bool    `json:"is_completed"`
	Remaining   int     `json:"remaining"`
}

const (
	RecommendationSuccess = "success"
	RecommendationWarning = "warning"
	RecommendationInfo    = "info"
)

type Recommendation struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}
