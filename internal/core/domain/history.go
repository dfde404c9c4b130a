package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultHistoryDays = 30
	WeeklyHistoryDays  = 7
	MaxHistoryDays     = 366
)

// HistoryWindow selects either the most recent Days aggregates (Anchor nil)
// or the Days calendar days ending at Anchor.
type HistoryWindow struct {
	Days   int
	Anchor *time.Time
}

func (w HistoryWindow) Normalize() HistoryWindow {
	if w.Days <= 0 {
		w.Days = DefaultHistoryDays
	}
	if w.Days > MaxHistoryDays {
		w.Days = MaxHistoryDays
	}
	if w.Anchor != nil {
		a := DateOnly(*w.Anchor)
		w.Anchor = &a
	}
	return w
}

// Range is only meaningful for anchored windows.
func (w HistoryWindow) Range() (from, to time.Time) {
	to = DateOnly(*w.Anchor)
	from = to.AddDate(0, 0, -(w.Days - 1))
	return from, to
}

type HistoryRollup struct {
	TotalDays                 int     `json:"total_days"`
	AvgCalorieIntake          float64 `json:"avg_calorie_intake"`
	AvgWaterIntake            float64 `json:"avg_water_intake"`
	CalorieGoalAttainmentRate float64 `json:"calorie_goal_attainment_rate"`
	WaterGoalAttainmentRate   float64 `json:"water_goal_attainment_rate"`
}

// ComputeRollup averages totals over the window and counts days whose
// progress reached 100%. An empty window yields the zero rollup.
func ComputeRollup(aggs []*DailyAggregate) HistoryRollup {
	if len(aggs) == 0 {
		return HistoryRollup{}
	}

	var calories, water int64
	calorieHits, waterHits := 0, 0
	for _, a := range aggs {
		calories += int64(a.TotalCalorieIntake)
		water += int64(a.TotalWaterIntake)
		if a.CalorieProgressPercentage >= 100 {
			calorieHits++
		}
		if a.WaterProgressPercentage >= 100 {
			waterHits++
		}
	}

	days := decimal.NewFromInt(int64(len(aggs)))
	ratio := func(n int64) float64 {
		return decimal.NewFromInt(n).Div(days).Round(2).InexactFloat64()
	}

	return HistoryRollup{
		TotalDays:                 len(aggs),
		AvgCalorieIntake:          ratio(calories),
		AvgWaterIntake:            ratio(water),
		CalorieGoalAttainmentRate: ratio(int64(calorieHits) * 100),
		WaterGoalAttainmentRate:   ratio(int64(waterHits) * 100),
	}
}
