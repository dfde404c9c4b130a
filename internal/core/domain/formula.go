package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"

	ActivitySedentary        = "sedentary"
	ActivityLightlyActive    = "lightly_active"
	ActivityModeratelyActive = "moderately_active"
	ActivityVeryActive       = "very_active"
	ActivityExtremelyActive  = "extremely_active"

	MinHeightCm = 50
	MaxHeightCm = 300
	MinWeightKg = 10
	MaxWeightKg = 500
	MinAge      = 1
	MaxAge      = 150

	// CalorieAdjustment is the daily deficit/surplus used for lose and gain
	// recommendations.
	CalorieAdjustment = 500
)

var activityMultipliers = map[string]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtremelyActive:  1.9,
}

// BodyMetrics is the shared input of the BMI and calorie calculators.
type BodyMetrics struct {
	HeightCm float64
	WeightKg float64
	Gender   string
	Age      int
}

func (m BodyMetrics) Validate() error {
	v := NewValidationError()
	if m.HeightCm < MinHeightCm || m.HeightCm > MaxHeightCm {
		v.Add("height", "must be between 50 and 300 cm")
	}
	if m.WeightKg < MinWeightKg || m.WeightKg > MaxWeightKg {
		v.Add("weight", "must be between 10 and 500 kg")
	}
	if m.Gender != GenderMale && m.Gender != GenderFemale {
		v.Add("gender", "must be male or female")
	}
	if m.Age < MinAge || m.Age > MaxAge {
		v.Add("age", "must be between 1 and 150")
	}
	return v.OrNil()
}

// CalculateBMI returns weight / height² with height given in centimeters.
func CalculateBMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	h := heightCm / 100
	return weightKg / (h * h)
}

func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

var bmiRecommendations = map[string]string{
	"Underweight":   "Gain weight with a healthy diet and suitable exercise. Consult a doctor or nutritionist.",
	"Normal weight": "Your weight is ideal. Keep it with a balanced diet and regular exercise.",
	"Overweight":    "Lose weight with a healthy diet and more physical activity. Consult a nutritionist.",
	"Obese":         "Consult a doctor for a safe and effective weight loss program.",
}

// BMIRecommendation returns the advice for a BMICategory result, or "" for
// an unknown category.
func BMIRecommendation(category string) string {
	return bmiRecommendations[category]
}

// CalculateBMR uses the revised Harris-Benedict equation.
func CalculateBMR(m BodyMetrics) float64 {
	if m.Gender == GenderMale {
		return 88.362 + 13.397*m.WeightKg + 4.799*m.HeightCm - 5.677*float64(m.Age)
	}
	return 447.593 + 9.247*m.WeightKg + 3.098*m.HeightCm - 4.330*float64(m.Age)
}

// ActivityMultiplier falls back to sedentary for unknown levels.
func ActivityMultiplier(level string) float64 {
	if mult, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(level))]; ok {
		return mult
	}
	return activityMultipliers[ActivitySedentary]
}

func IsKnownActivityLevel(level string) bool {
	_, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(level))]
	return ok
}

func ActivityLevelLabel(multiplier float64) string {
	switch {
	case multiplier <= 1.2:
		return "Sedentary"
	case multiplier <= 1.375:
		return "Lightly Active"
	case multiplier <= 1.55:
		return "Moderately Active"
	case multiplier <= 1.725:
		return "Very Active"
	default:
		return "Extremely Active"
	}
}

type CalorieTargets struct {
	Maintain int `json:"maintain"`
	Lose     int `json:"lose"`
	Gain     int `json:"gain"`
}

func TargetsFor(dailyCalories float64) CalorieTargets {
	return CalorieTargets{
		Maintain: int(math.Round(dailyCalories)),
		Lose:     int(math.Round(dailyCalories - CalorieAdjustment)),
		Gain:     int(math.Round(dailyCalories + CalorieAdjustment)),
	}
}

// round2 rounds half away from zero, matching how stored decimal(…,2)
// columns are written.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
