package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CalorieCalculationRecord is a stored BMR / daily needs calculation. The
// latest one per user seeds default targets and suggestions.
type CalorieCalculationRecord struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"user_id" db:"user_id"`
	HeightCm           float64   `json:"height_cm" db:"height_cm"`
	WeightKg           float64   `json:"weight_kg" db:"weight_kg"`
	Gender             string    `json:"gender" db:"gender"`
	Age                int       `json:"age" db:"age"`
	ActivityLevel      string    `json:"activity_level" db:"activity_level"`
	BMR                float64   `json:"bmr" db:"bmr"`
	DailyCalories      float64   `json:"daily_calories" db:"daily_calories"`
	ActivityMultiplier float64   `json:"activity_multiplier" db:"activity_multiplier"`
	RecommendMaintain  int       `json:"recommend_maintain" db:"recommend_maintain"`
	RecommendLose      int       `json:"recommend_lose" db:"recommend_lose"`
	RecommendGain      int       `json:"recommend_gain" db:"recommend_gain"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

func NewCalorieCalculation(userID string, m BodyMetrics, activityLevel string) (*CalorieCalculationRecord, error) {
	level := strings.ToLower(strings.TrimSpace(activityLevel))

	err := m.Validate()
	v, _ := err.(*ValidationError)
	if v == nil {
		v = NewValidationError()
	}
	if !IsKnownActivityLevel(level) {
		v.Add("activity_level", "must be one of sedentary, lightly_active, moderately_active, very_active, extremely_active")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	bmr := CalculateBMR(m)
	mult := ActivityMultiplier(level)
	daily := bmr * mult
	targets := TargetsFor(daily)

	return &CalorieCalculationRecord{
		ID:                 uuid.NewString(),
		UserID:             userID,
		HeightCm:           m.HeightCm,
		WeightKg:           m.WeightKg,
		Gender:             m.Gender,
		Age:                m.Age,
		ActivityLevel:      level,
		BMR:                round2(bmr),
		DailyCalories:      round2(daily),
		ActivityMultiplier: mult,
		RecommendMaintain:  targets.Maintain,
		RecommendLose:      targets.Lose,
		RecommendGain:      targets.Gain,
		CreatedAt:          time.Now().UTC(),
	}, nil
}

type BMIRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	HeightCm  float64   `json:"height_cm" db:"height_cm"`
	WeightKg  float64   `json:"weight_kg" db:"weight_kg"`
	Gender    string    `json:"gender" db:"gender"`
	Age       int       `json:"age" db:"age"`
	BMI       float64   `json:"bmi" db:"bmi"`
	Category  string    `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewBMIRecord(userID string, m BodyMetrics) (*BMIRecord, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	bmi := CalculateBMI(m.HeightCm, m.WeightKg)
	return &BMIRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		HeightCm:  m.HeightCm,
		WeightKg:  m.WeightKg,
		Gender:    m.Gender,
		Age:       m.Age,
		BMI:       round2(bmi),
		Category:  BMICategory(bmi),
		CreatedAt: time.Now().UTC(),
	}, nil
}
