package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

func day(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

func newEntry(t *testing.T, name, at string, calories, water int) *domain.ConsumptionEntry {
	t.Helper()
	e, err := domain.NewConsumptionEntry(domain.EntrySpec{
		Kind: domain.EntryKindFood, Name: name, ConsumedAt: at,
		Amount: 1, Unit: "pcs", Calories: &calories, WaterIntake: &water,
	})
	require.NoError(t, err)
	return e
}

func TestInMemoryDailyAggregateRepository_CreateConflict(t *testing.T) {
	repo := NewMemoryStore().Aggregates()
	ctx := context.Background()

	first, _ := domain.NewDailyAggregate("u1", day("2024-01-15"), 0)
	require.NoError(t, repo.Create(ctx, first))

	second, _ := domain.NewDailyAggregate("u1", day("2024-01-15"), 0)
	assert.ErrorIs(t, repo.Create(ctx, second), domain.ErrAggregateConflict)

	other, _ := domain.NewDailyAggregate("u2", day("2024-01-15"), 0)
	assert.NoError(t, repo.Create(ctx, other))
}

func TestInMemoryDailyAggregateRepository_Listing(t *testing.T) {
	repo := NewMemoryStore().Aggregates()
	ctx := context.Background()

	for _, d := range []string{"2024-01-10", "2024-01-12", "2024-01-11", "2024-01-20"} {
		agg, _ := domain.NewDailyAggregate("u1", day(d), 0)
		require.NoError(t, repo.Create(ctx, agg))
	}

	t.Run("recent is newest first and limited", func(t *testing.T) {
		aggs, err := repo.ListRecent(ctx, "u1", 2)
		require.NoError(t, err)
		require.Len(t, aggs, 2)
		assert.Equal(t, day("2024-01-20"), aggs[0].Date)
		assert.Equal(t, day("2024-01-12"), aggs[1].Date)
	})

	t.Run("range is inclusive", func(t *testing.T) {
		aggs, err := repo.ListByDateRange(ctx, "u1", day("2024-01-11"), day("2024-01-12"))
		require.NoError(t, err)
		require.Len(t, aggs, 2)
		assert.Equal(t, day("2024-01-12"), aggs[0].Date)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		aggs, err := repo.ListRecent(ctx, "u2", 30)
		require.NoError(t, err)
		assert.Empty(t, aggs)
	})
}

func TestInMemoryDailyAggregateRepository_Mutate(t *testing.T) {
	store := NewMemoryStore()
	aggs, entries := store.Aggregates(), store.Entries()
	ctx := context.Background()

	agg, _ := domain.NewDailyAggregate("u1", day("2024-01-15"), 0)
	require.NoError(t, aggs.Create(ctx, agg))

	t.Run("commits entries and totals together", func(t *testing.T) {
		updated, err := aggs.Mutate(ctx, agg.ID, func(ctx context.Context, tx domain.AggregateTx) error {
			require.NoError(t, tx.InsertEntry(ctx, newEntry(t, "Rice", "12:00", 550, 0)))
			all, err := tx.Entries(ctx)
			require.NoError(t, err)
			tx.Aggregate().Recompute(all)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 550, updated.TotalCalorieIntake)
		assert.Equal(t, 27.5, updated.CalorieProgressPercentage)

		list, err := entries.ListByAggregateID(ctx, agg.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := aggs.Mutate(ctx, agg.ID, func(ctx context.Context, tx domain.AggregateTx) error {
			_ = tx.InsertEntry(ctx, newEntry(t, "Cake", "15:00", 400, 0))
			tx.Aggregate().TotalCalorieIntake = 9999
			return boom
		})
		assert.ErrorIs(t, err, boom)

		stored, err := aggs.GetByID(ctx, agg.ID)
		require.NoError(t, err)
		assert.Equal(t, 550, stored.TotalCalorieIntake)

		list, _ := entries.ListByAggregateID(ctx, agg.ID)
		assert.Len(t, list, 1)
	})

	t.Run("deleting an unknown entry fails", func(t *testing.T) {
		_, err := aggs.Mutate(ctx, agg.ID, func(ctx context.Context, tx domain.AggregateTx) error {
			return tx.DeleteEntry(ctx, "missing")
		})
		assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	})

	t.Run("unknown aggregate", func(t *testing.T) {
		_, err := aggs.Mutate(ctx, "missing", func(ctx context.Context, tx domain.AggregateTx) error { return nil })
		assert.ErrorIs(t, err, domain.ErrAggregateNotFound)
	})
}

func TestInMemoryDailyAggregateRepository_ConcurrentMutations(t *testing.T) {
	store := NewMemoryStore()
	aggs := store.Aggregates()
	ctx := context.Background()

	agg, _ := domain.NewDailyAggregate("u1", day("2024-01-15"), 0)
	require.NoError(t, aggs.Create(ctx, agg))

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := aggs.Mutate(ctx, agg.ID, func(ctx context.Context, tx domain.AggregateTx) error {
				if err := tx.InsertEntry(ctx, newEntry(t, "Water", "08:00", 10, 100)); err != nil {
					return err
				}
				all, _ := tx.Entries(ctx)
				tx.Aggregate().Recompute(all)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, err := aggs.GetByID(ctx, agg.ID)
	require.NoError(t, err)
	assert.Equal(t, writers*10, final.TotalCalorieIntake)
	assert.Equal(t, writers*100, final.TotalWaterIntake)
}

func TestInMemoryConsumptionEntryRepository_Ordering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	agg, _ := domain.NewDailyAggregate("u1", day("2024-01-15"), 0)
	require.NoError(t, store.Aggregates().Create(ctx, agg))

	_, err := store.Aggregates().Mutate(ctx, agg.ID, func(ctx context.Context, tx domain.AggregateTx) error {
		for _, at := range []string{"19:00", "07:30", "12:15"} {
			if err := tx.InsertEntry(ctx, newEntry(t, "Meal "+at, at, 100, 0)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	list, err := store.Entries().ListByAggregateID(ctx, agg.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "07:30", list[0].ConsumedAt)
	assert.Equal(t, "12:15", list[1].ConsumedAt)
	assert.Equal(t, "19:00", list[2].ConsumedAt)

	counts, err := store.Entries().CountByAggregateIDs(ctx, []string{agg.ID, "other"})
	require.NoError(t, err)
	assert.Equal(t, 3, counts[agg.ID])
	assert.Equal(t, 0, counts["other"])
}

func TestInMemoryCalculationRepositories(t *testing.T) {
	store := NewMemoryStore()
	calcs := store.Calculations()
	ctx := context.Background()

	_, err := calcs.Latest(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	older := &domain.CalorieCalculationRecord{ID: "c1", UserID: "u1", DailyCalories: 2000, CreatedAt: time.Now().Add(-time.Hour)}
	newer := &domain.CalorieCalculationRecord{ID: "c2", UserID: "u1", DailyCalories: 2500, CreatedAt: time.Now()}
	require.NoError(t, calcs.Create(ctx, older))
	require.NoError(t, calcs.Create(ctx, newer))

	latest, err := calcs.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "c2", latest.ID)

	assert.ErrorIs(t, calcs.Delete(ctx, "c2", "u2"), domain.ErrForbidden)
	assert.ErrorIs(t, calcs.Delete(ctx, "nope", "u1"), domain.ErrRecordNotFound)
	require.NoError(t, calcs.Delete(ctx, "c2", "u1"))

	latest, err = calcs.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "c1", latest.ID)

	bmi := store.BMIRecords()
	require.NoError(t, bmi.Create(ctx, &domain.BMIRecord{ID: "b1", UserID: "u1", CreatedAt: time.Now()}))
	list, err := bmi.ListByUserID(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestInMemoryUserRepository(t *testing.T) {
	users := NewMemoryStore().Users()
	ctx := context.Background()

	u, err := domain.NewUser("id-1", "a@example.com", "alice", "female")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, u))

	dup, _ := domain.NewUser("id-2", "a@example.com", "alice2", "female")
	assert.ErrorIs(t, users.Create(ctx, dup), domain.ErrEmailAlreadyExists)

	got, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)

	_, err = users.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	born := time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, got.UpdateProfile("alice-b", "female", &born, time.Now()))
	require.NoError(t, users.Update(ctx, got))
	stored, err := users.GetByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "alice-b", stored.Username)
	assert.True(t, stored.BirthDate.Equal(born))

	ghost, _ := domain.NewUser("id-9", "g@example.com", "ghost", "male")
	assert.ErrorIs(t, users.Update(ctx, ghost), domain.ErrUserNotFound)
}
