package domain

import (
	"context"
	"time"
)

type DailyAggregateRepository interface {
	// Create inserts a new aggregate. A concurrent insert for the same
	// (user, date) must surface as ErrAggregateConflict.
	Create(ctx context.Context, agg *DailyAggregate) error
	GetByID(ctx context.Context, id string) (*DailyAggregate, error)
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*DailyAggregate, error)
	// ListRecent returns at most limit aggregates, newest date first.
	ListRecent(ctx context.Context, userID string, limit int) ([]*DailyAggregate, error)
	// ListByDateRange returns aggregates with from <= date <= to, newest first.
	ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*DailyAggregate, error)
	// Mutate runs fn while holding an exclusive lock on the aggregate. Entry
	// changes made through tx and the aggregate state left in tx.Aggregate()
	// are committed together, or not at all when fn returns an error.
	Mutate(ctx context.Context, aggregateID string, fn func(ctx context.Context, tx AggregateTx) error) (*DailyAggregate, error)
}

// AggregateTx is the unit of work handed to DailyAggregateRepository.Mutate.
type AggregateTx interface {
	Aggregate() *DailyAggregate
	Entries(ctx context.Context) ([]*ConsumptionEntry, error)
	InsertEntry(ctx context.Context, entry *ConsumptionEntry) error
	DeleteEntry(ctx context.Context, entryID string) error
}

type ConsumptionEntryRepository interface {
	GetByID(ctx context.Context, id string) (*ConsumptionEntry, error)
	// ListByAggregateID returns entries ordered by consumption time.
	ListByAggregateID(ctx context.Context, aggregateID string) ([]*ConsumptionEntry, error)
	CountByAggregateIDs(ctx context.Context, aggregateIDs []string) (map[string]int, error)
}

type CalorieCalculationRepository interface {
	Create(ctx context.Context, record *CalorieCalculationRecord) error
	// Latest returns ErrRecordNotFound when the user has no calculation.
	Latest(ctx context.Context, userID string) (*CalorieCalculationRecord, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]*CalorieCalculationRecord, error)
	Delete(ctx context.Context, id, userID string) error
}

type BMIRecordRepository interface {
	Create(ctx context.Context, record *BMIRecord) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]*BMIRecord, error)
	Delete(ctx context.Context, id, userID string) error
}
