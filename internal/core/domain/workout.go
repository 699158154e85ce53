package domain

import "math"

const (
	// DefaultMET is the metabolic equivalent used when a workout type
	// is not in the catalog. Estimation never fails on an unknown type.
	DefaultMET = 6.0

	// DefaultWorkoutColor is used for chart slices of unknown types.
	DefaultWorkoutColor = "hsl(174 72% 56%)"
)

const (
	BMIUnderweight = "Underweight"
	BMINormal      = "Normal"
	BMIOverweight  = "Overweight"
	BMIObese       = "Obese"
)

type WorkoutType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MET         float64 `json:"met_value"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
}

// WorkoutTypes is the fixed activity catalog. Order matters for display.
var WorkoutTypes = []WorkoutType{
	{ID: "running", Name: "Running", MET: 9.8, Color: "hsl(174 72% 56%)", Description: "High-intensity cardio"},
	{ID: "cycling", Name: "Cycling", MET: 7.5, Color: "hsl(262 83% 68%)", Description: "Moderate-high cardio"},
	{ID: "swimming", Name: "Swimming", MET: 8.0, Color: "hsl(200 80% 55%)", Description: "Full-body workout"},
	{ID: "strength", Name: "Strength Training", MET: 5.0, Color: "hsl(45 90% 55%)", Description: "Weight training"},
	{ID: "hiit", Name: "HIIT", MET: 12.0, Color: "hsl(0 84% 60%)", Description: "High-intensity intervals"},
	{ID: "general", Name: "General Workout", MET: 6.0, Color: "hsl(30 80% 55%)", Description: "Mixed exercises"},
}

func FindWorkoutType(id string) (WorkoutType, bool) {
	for _, w := range WorkoutTypes {
		if w.ID == id {
			return w, true
		}
	}
	return WorkoutType{}, false
}

type EstimateInput struct {
	WorkoutType     string
	WeightKg        float64
	HeightCm        float64
	DurationMinutes float64
	HeartRate       float64
	BodyTempC       float64
	Age             float64
	IsMale          bool
}

type EstimateResult struct {
	Calories  int     `json:"calories"`
	BMI       float64 `json:"bmi"`
	BMIStatus string  `json:"bmi_status"`
}

// Estimate computes the calorie burn for one session using the MET formula
// (calories = MET x weight x hours) with multiplicative adjustments for
// heart rate, body temperature, sex and age. It is pure and never fails:
// an unknown workout type falls back to DefaultMET.
func Estimate(in EstimateInput) EstimateResult {
	met := DefaultMET
	if w, ok := FindWorkoutType(in.WorkoutType); ok {
		met = w.MET
	}

	base := met * in.WeightKg * (in.DurationMinutes / 60)

	heartRateFactor := 1 + (in.HeartRate-80)*0.003
	tempFactor := 1 + (in.BodyTempC-36.5)*0.02
	sexFactor := 1.0
	if in.IsMale {
		sexFactor = 1.08
	}
	// The age factor is floored at 0.8 so calories never collapse for
	// older users.
	ageFactor := math.Max(0.8, 1-(in.Age-25)*0.003)

	calories := int(math.Round(base * heartRateFactor * tempFactor * sexFactor * ageFactor))

	bmi, status := CalculateBMI(in.WeightKg, in.HeightCm)

	return EstimateResult{
		Calories:  calories,
		BMI:       bmi,
		BMIStatus: status,
	}
}

// CalculateBMI returns weight/height^2 rounded to one decimal, with
// its status band. Thresholds: <18.5, [18.5,25), [25,30), >=30.
func CalculateBMI(weightKg, heightCm float64) (float64, string) {
	heightM := heightCm / 100
	bmi := weightKg / (heightM * heightM)
	bmi = math.Round(bmi*10) / 10

	status := BMINormal
	switch {
	case bmi < 18.5:
		status = BMIUnderweight
	case bmi >= 30:
		status = BMIObese
	case bmi >= 25:
		status = BMIOverweight
	}

	return bmi, status
}
