package domain

import "math"

// Suggestion is a set of recommended targets derived from the latest
// calorie calculation.
type Suggestion struct {
	CalorieTarget   int      `json:"calorie_target"`
	WaterTarget     int      `json:"water_target"`
	GoalType        GoalType `json:"goal_type"`
	ActivityLevel   string   `json:"activity_level"`
	CalculationDate string   `json:"calculation_date"`
}

// SuggestTargets returns nil when there is no calculation or when the
// aggregate no longer carries the default targets.
func SuggestTargets(agg *DailyAggregate, record *CalorieCalculationRecord) *Suggestion {
	if agg == nil || record == nil {
		return nil
	}
	if !agg.IsUsingDefaults() {
		return nil
	}

	calories := int(math.Round(record.DailyCalories))

	return &Suggestion{
		CalorieTarget:   calories,
		WaterTarget:     RecommendedWater(record.ActivityMultiplier),
		GoalType:        RecommendedGoal(calories, record.BMR),
		ActivityLevel:   ActivityLevelLabel(record.ActivityMultiplier),
		CalculationDate: record.CreatedAt.Format(DateLayout),
	}
}

func RecommendedWater(activityMultiplier float64) int {
	switch {
	case activityMultiplier <= 1.2:
		return 2000
	case activityMultiplier <= 1.55:
		return 2500
	default:
		return 3000
	}
}

// RecommendedGoal leaves a 10% band above BMR as "maintain".
func RecommendedGoal(calories int, bmr float64) GoalType {
	c := float64(calories)
	switch {
	case c < bmr:
		return GoalLoseWeight
	case c > bmr*1.1:
		return GoalGainWeight
	default:
		return GoalMaintainWeight
	}
}
