package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wawanmain22/CaloMeter/internal/adapters/repository"
	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

type failingCalculations struct {
	domain.CalorieCalculationRepository
}

func (failingCalculations) Latest(ctx context.Context, userID string) (*domain.CalorieCalculationRecord, error) {
	return nil, errors.New("connection reset")
}

func TestSuggestionService(t *testing.T) {
	ctx := context.Background()
	defaults := func(t *testing.T) *domain.DailyAggregate {
		agg, err := domain.NewDailyAggregate("u1", testToday, 0)
		require.NoError(t, err)
		return agg
	}

	t.Run("Default target rounds daily calories to the nearest kcal", func(t *testing.T) {
		store := repository.NewMemoryStore()
		require.NoError(t, store.Calculations().Create(ctx, &domain.CalorieCalculationRecord{
			ID: "c-round", UserID: "u1", BMR: 1500, DailyCalories: 2100.6, ActivityMultiplier: 1.4, CreatedAt: testToday,
		}))

		target, err := NewSuggestionService(store.Calculations()).DefaultCalorieTarget(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2101, target)
	})

	t.Run("Nothing without a calculation", func(t *testing.T) {
		svc := NewSuggestionService(repository.NewMemoryStore().Calculations())

		s, err := svc.ComputeSuggestion(ctx, "u1", defaults(t))
		assert.NoError(t, err)
		assert.Nil(t, s)

		target, err := svc.DefaultCalorieTarget(ctx, "u1")
		assert.NoError(t, err)
		assert.Equal(t, domain.DefaultCalorieTarget, target)
	})

	t.Run("Offered from the latest calculation", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCalculation(t, store, "u1", testToday.AddDate(0, 0, -7))
		latest := seedCalculation(t, store, "u1", testToday)
		svc := NewSuggestionService(store.Calculations())

		s, err := svc.ComputeSuggestion(ctx, "u1", defaults(t))
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, 2628, s.CalorieTarget)
		assert.Equal(t, 2500, s.WaterTarget)
		assert.Equal(t, domain.GoalGainWeight, s.GoalType)
		assert.Equal(t, "Moderately Active", s.ActivityLevel)
		assert.Equal(t, latest.CreatedAt.Format(domain.DateLayout), s.CalculationDate)

		target, err := svc.DefaultCalorieTarget(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2628, target)
	})

	t.Run("Withheld once targets were customised", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCalculation(t, store, "u1", testToday)
		svc := NewSuggestionService(store.Calculations())

		agg := defaults(t)
		require.NoError(t, agg.SetTargets(domain.Targets{CalorieTarget: 2200, WaterTarget: 2000, GoalType: domain.GoalMaintainWeight}))

		s, err := svc.ComputeSuggestion(ctx, "u1", agg)
		assert.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("Repository failures propagate", func(t *testing.T) {
		svc := NewSuggestionService(failingCalculations{})

		_, err := svc.ComputeSuggestion(ctx, "u1", defaults(t))
		assert.Error(t, err)
		_, err = svc.DefaultCalorieTarget(ctx, "u1")
		assert.Error(t, err)
	})
}
