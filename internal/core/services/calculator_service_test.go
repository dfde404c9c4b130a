package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wawanmain22/CaloMeter/internal/adapters/repository"
	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

var adult = domain.BodyMetrics{HeightCm: 175, WeightKg: 70, Gender: domain.GenderMale, Age: 30}

func TestCalorieService(t *testing.T) {
	ctx := context.Background()

	t.Run("Guests are not persisted", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCalorieService(store.Calculations())

		res, err := svc.Calculate(ctx, CalorieInput{Metrics: adult, ActivityLevel: "Moderately_Active"})
		require.NoError(t, err)
		assert.False(t, res.Saved)
		assert.Equal(t, 1695.67, res.Record.BMR)
		assert.Equal(t, "Moderately Active", res.ActivityLabel)
		assert.Equal(t, domain.CalorieTargets{Maintain: 2628, Lose: 2128, Gain: 3128}, res.Targets)

		_, err = store.Calculations().Latest(ctx, "")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Signed-in results are saved and listed", func(t *testing.T) {
		store := repository.NewMemoryStore()
		svc := NewCalorieService(store.Calculations())

		res, err := svc.Calculate(ctx, CalorieInput{UserID: "u1", Metrics: adult, ActivityLevel: domain.ActivitySedentary})
		require.NoError(t, err)
		assert.True(t, res.Saved)

		records, err := svc.History(ctx, "u1", 0)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, res.Record.ID, records[0].ID)

		assert.ErrorIs(t, svc.Delete(ctx, res.Record.ID, "u2"), domain.ErrForbidden)
		assert.NoError(t, svc.Delete(ctx, res.Record.ID, "u1"))
		assert.ErrorIs(t, svc.Delete(ctx, res.Record.ID, "u1"), domain.ErrRecordNotFound)
	})

	t.Run("Invalid metrics", func(t *testing.T) {
		svc := NewCalorieService(repository.NewMemoryStore().Calculations())
		_, err := svc.Calculate(ctx, CalorieInput{Metrics: domain.BodyMetrics{HeightCm: 20, WeightKg: 70, Gender: "x", Age: 30}, ActivityLevel: "couch"})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "height")
		assert.Contains(t, verr.Fields, "gender")
		assert.Contains(t, verr.Fields, "activity_level")
	})

	t.Run("History requires a user", func(t *testing.T) {
		svc := NewCalorieService(repository.NewMemoryStore().Calculations())
		_, err := svc.History(ctx, "", 5)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestBMIService(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewBMIService(store.BMIRecords())

	guest, err := svc.Calculate(ctx, BMIInput{Metrics: adult})
	require.NoError(t, err)
	assert.False(t, guest.Saved)
	assert.Equal(t, 22.86, guest.Record.BMI)
	assert.Equal(t, "Normal weight", guest.Record.Category)
	assert.Equal(t, domain.BMIRecommendation("Normal weight"), guest.Recommendation)
	assert.NotEmpty(t, guest.Recommendation)

	saved, err := svc.Calculate(ctx, BMIInput{UserID: "u1", Metrics: adult})
	require.NoError(t, err)
	assert.True(t, saved.Saved)

	records, err := svc.History(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	assert.NoError(t, svc.Delete(ctx, saved.Record.ID, "u1"))
	assert.ErrorIs(t, svc.Delete(ctx, "u1", ""), domain.ErrUnauthenticated)
}
