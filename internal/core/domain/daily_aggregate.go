package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GoalType string

const (
	GoalLoseWeight     GoalType = "lose_weight"
	GoalGainWeight     GoalType = "gain_weight"
	GoalMaintainWeight GoalType = "maintain_weight"
)

func (g GoalType) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalGainWeight, GoalMaintainWeight:
		return true
	}
	return false
}

const (
	DefaultCalorieTarget = 2000
	DefaultWaterTarget   = 2000
	DefaultGoalType      = GoalMaintainWeight

	MinCalorieTarget = 500
	MaxCalorieTarget = 5000
	MinWaterTarget   = 500
	MaxWaterTarget   = 10000

	DateLayout = "2006-01-02"
)

var hundred = decimal.NewFromInt(100)

// DailyAggregate is the per-user, per-day rollup of logged consumption.
// Totals and percentages are derived from the entries and only change
// through Recompute.
type DailyAggregate struct {
	ID     string    `json:"id" db:"id"`
	UserID string    `json:"user_id" db:"user_id"`
	Date   time.Time `json:"date" db:"date"`

	CalorieTarget int      `json:"calorie_target" db:"calorie_target"`
	WaterTarget   int      `json:"water_target" db:"water_target"`
	GoalType      GoalType `json:"goal_type" db:"goal_type"`

	TotalCalorieIntake        int     `json:"total_calorie_intake" db:"total_calorie_intake"`
	TotalWaterIntake          int     `json:"total_water_intake" db:"total_water_intake"`
	CalorieProgressPercentage float64 `json:"calorie_progress_percentage" db:"calorie_progress_percentage"`
	WaterProgressPercentage   float64 `json:"water_progress_percentage" db:"water_progress_percentage"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Targets is the user-editable part of an aggregate.
type Targets struct {
	CalorieTarget int
	WaterTarget   int
	GoalType      GoalType
}

// NewDailyAggregate builds a fresh aggregate with default targets. A
// calorieTarget <= 0 means "no calculation on record" and falls back to
// DefaultCalorieTarget.
func NewDailyAggregate(userID string, date time.Time, calorieTarget int) (*DailyAggregate, error) {
	if strings.TrimSpace(userID) == "" {
		v := NewValidationError()
		v.Add("user_id", "is required")
		return nil, v
	}
	if date.IsZero() {
		v := NewValidationError()
		v.Add("date", "is required")
		return nil, v
	}
	if calorieTarget <= 0 {
		calorieTarget = DefaultCalorieTarget
	}

	now := time.Now().UTC()
	return &DailyAggregate{
		ID:            uuid.NewString(),
		UserID:        userID,
		Date:          DateOnly(date),
		CalorieTarget: calorieTarget,
		WaterTarget:   DefaultWaterTarget,
		GoalType:      DefaultGoalType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (t Targets) Validate() error {
	v := NewValidationError()
	if t.CalorieTarget < MinCalorieTarget || t.CalorieTarget > MaxCalorieTarget {
		v.Add("calorie_target", "must be between 500 and 5000")
	}
	if t.WaterTarget < MinWaterTarget || t.WaterTarget > MaxWaterTarget {
		v.Add("water_target", "must be between 500 and 10000")
	}
	if !t.GoalType.Valid() {
		v.Add("goal_type", "must be one of lose_weight, gain_weight, maintain_weight")
	}
	return v.OrNil()
}

// SetTargets validates and applies new targets. Percentages are stale until
// the next Recompute.
func (a *DailyAggregate) SetTargets(t Targets) error {
	if err := t.Validate(); err != nil {
		return err
	}
	a.CalorieTarget = t.CalorieTarget
	a.WaterTarget = t.WaterTarget
	a.GoalType = t.GoalType
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Recompute folds the complete entry set of the day into the totals.
// Water counts regardless of entry kind.
func (a *DailyAggregate) Recompute(entries []*ConsumptionEntry) {
	calories, water := 0, 0
	for _, e := range entries {
		calories += e.Calories
		water += e.WaterIntake
	}

	a.TotalCalorieIntake = calories
	a.TotalWaterIntake = water
	a.CalorieProgressPercentage = ProgressPercentage(calories, a.CalorieTarget)
	a.WaterProgressPercentage = ProgressPercentage(water, a.WaterTarget)
	a.UpdatedAt = time.Now().UTC()
}

// IsUsingDefaults reports whether the targets still equal the stock values.
// A user who re-enters exactly the defaults is indistinguishable from one
// who never touched them.
func (a *DailyAggregate) IsUsingDefaults() bool {
	return a.CalorieTarget == DefaultCalorieTarget &&
		a.WaterTarget == DefaultWaterTarget &&
		a.GoalType == DefaultGoalType
}

// ProgressPercentage is round(100*total/target, 2), or 0 for a non-positive
// target.
func ProgressPercentage(total, target int) float64 {
	if target <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(total)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(target))).
		Round(2)
	return pct.InexactFloat64()
}

// DateOnly strips the clock part, keeping the calendar day as seen in t's
// own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return ParseDateField("date", s)
}

// ParseDateField parses a YYYY-MM-DD value, reporting failures under field.
func ParseDateField(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		v := NewValidationError()
		v.Add(field, "must be formatted as YYYY-MM-DD")
		return time.Time{}, v
	}
	return t, nil
}
