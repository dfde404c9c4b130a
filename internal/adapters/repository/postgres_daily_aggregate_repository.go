package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

var (
	_ domain.DailyAggregateRepository   = (*PostgresDailyAggregateRepository)(nil)
	_ domain.ConsumptionEntryRepository = (*PostgresConsumptionEntryRepository)(nil)
)

const aggregateColumns = `id, user_id, date, calorie_target, water_target, goal_type,
	total_calorie_intake, total_water_intake,
	calorie_progress_percentage, water_progress_percentage,
	created_at, updated_at`

const entryColumns = `id, aggregate_id, kind, name, consumed_at, amount, unit,
	calories, water_intake, created_at`

type PostgresDailyAggregateRepository struct {
	db *sqlx.DB
}

func NewPostgresDailyAggregateRepository(db *sqlx.DB) *PostgresDailyAggregateRepository {
	return &PostgresDailyAggregateRepository{db: db}
}

func (r *PostgresDailyAggregateRepository) Create(ctx context.Context, agg *domain.DailyAggregate) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO daily_aggregates (` + aggregateColumns + `)
		VALUES (
			:id, :user_id, :date, :calorie_target, :water_target, :goal_type,
			:total_calorie_intake, :total_water_intake,
			:calorie_progress_percentage, :water_progress_percentage,
			:created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, agg); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAggregateConflict
		}
		return fmt.Errorf("repository: create daily aggregate failed: %w", err)
	}
	return nil
}

func (r *PostgresDailyAggregateRepository) GetByID(ctx context.Context, id string) (*domain.DailyAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var agg domain.DailyAggregate
	err := r.db.GetContext(ctx, &agg, `SELECT `+aggregateColumns+` FROM daily_aggregates WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAggregateNotFound
		}
		return nil, fmt.Errorf("repository: get daily aggregate failed: %w", err)
	}
	return normalizeAggregate(&agg), nil
}

func (r *PostgresDailyAggregateRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DailyAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var agg domain.DailyAggregate
	err := r.db.GetContext(ctx, &agg,
		`SELECT `+aggregateColumns+` FROM daily_aggregates WHERE user_id = $1 AND date = $2`,
		userID, domain.DateOnly(date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAggregateNotFound
		}
		return nil, fmt.Errorf("repository: get daily aggregate by date failed: %w", err)
	}
	return normalizeAggregate(&agg), nil
}

func (r *PostgresDailyAggregateRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.DailyAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var aggs []*domain.DailyAggregate
	err := r.db.SelectContext(ctx, &aggs,
		`SELECT `+aggregateColumns+` FROM daily_aggregates WHERE user_id = $1 ORDER BY date DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: list recent aggregates failed: %w", err)
	}
	for _, a := range aggs {
		normalizeAggregate(a)
	}
	return aggs, nil
}

func (r *PostgresDailyAggregateRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyAggregate, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var aggs []*domain.DailyAggregate
	err := r.db.SelectContext(ctx, &aggs,
		`SELECT `+aggregateColumns+` FROM daily_aggregates
		 WHERE user_id = $1 AND date BETWEEN $2 AND $3
		 ORDER BY date DESC`,
		userID, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("repository: list aggregates by range failed: %w", err)
	}
	for _, a := range aggs {
		normalizeAggregate(a)
	}
	return aggs, nil
}

// Mutate locks the aggregate row with SELECT ... FOR UPDATE so that
// concurrent writers on the same day serialise, then writes the aggregate
// back in the same transaction.
func (r *PostgresDailyAggregateRepository) Mutate(ctx context.Context, aggregateID string, fn func(ctx context.Context, tx domain.AggregateTx) error) (*domain.DailyAggregate, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("repository: begin tx failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var agg domain.DailyAggregate
	err = tx.GetContext(ctx, &agg,
		`SELECT `+aggregateColumns+` FROM daily_aggregates WHERE id = $1 FOR UPDATE`, aggregateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAggregateNotFound
		}
		return nil, fmt.Errorf("repository: lock daily aggregate failed: %w", err)
	}
	normalizeAggregate(&agg)

	if err := fn(ctx, &postgresAggregateTx{tx: tx, agg: &agg}); err != nil {
		return nil, err
	}

	_, err = tx.NamedExecContext(ctx, `
		UPDATE daily_aggregates SET
			calorie_target = :calorie_target,
			water_target = :water_target,
			goal_type = :goal_type,
			total_calorie_intake = :total_calorie_intake,
			total_water_intake = :total_water_intake,
			calorie_progress_percentage = :calorie_progress_percentage,
			water_progress_percentage = :water_progress_percentage,
			updated_at = :updated_at
		WHERE id = :id`, &agg)
	if err != nil {
		return nil, fmt.Errorf("repository: update daily aggregate failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("repository: commit failed: %w", err)
	}
	return &agg, nil
}

type postgresAggregateTx struct {
	tx  *sqlx.Tx
	agg *domain.DailyAggregate
}

func (t *postgresAggregateTx) Aggregate() *domain.DailyAggregate {
	return t.agg
}

func (t *postgresAggregateTx) Entries(ctx context.Context) ([]*domain.ConsumptionEntry, error) {
	var entries []*domain.ConsumptionEntry
	err := t.tx.SelectContext(ctx, &entries,
		`SELECT `+entryColumns+` FROM consumption_entries WHERE aggregate_id = $1 ORDER BY consumed_at, created_at`,
		t.agg.ID)
	if err != nil {
		return nil, fmt.Errorf("repository: list entries in tx failed: %w", err)
	}
	return entries, nil
}

func (t *postgresAggregateTx) InsertEntry(ctx context.Context, entry *domain.ConsumptionEntry) error {
	entry.AggregateID = t.agg.ID
	_, err := t.tx.NamedExecContext(ctx, `
		INSERT INTO consumption_entries (`+entryColumns+`)
		VALUES (:id, :aggregate_id, :kind, :name, :consumed_at, :amount, :unit,
			:calories, :water_intake, :created_at)`, entry)
	if err != nil {
		return fmt.Errorf("repository: insert entry failed: %w", err)
	}
	return nil
}

func (t *postgresAggregateTx) DeleteEntry(ctx context.Context, entryID string) error {
	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM consumption_entries WHERE id = $1 AND aggregate_id = $2`, entryID, t.agg.ID)
	if err != nil {
		return fmt.Errorf("repository: delete entry failed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

type PostgresConsumptionEntryRepository struct {
	db *sqlx.DB
}

func NewPostgresConsumptionEntryRepository(db *sqlx.DB) *PostgresConsumptionEntryRepository {
	return &PostgresConsumptionEntryRepository{db: db}
}

func (r *PostgresConsumptionEntryRepository) GetByID(ctx context.Context, id string) (*domain.ConsumptionEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var entry domain.ConsumptionEntry
	err := r.db.GetContext(ctx, &entry, `SELECT `+entryColumns+` FROM consumption_entries WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("repository: get entry failed: %w", err)
	}
	return &entry, nil
}

func (r *PostgresConsumptionEntryRepository) ListByAggregateID(ctx context.Context, aggregateID string) ([]*domain.ConsumptionEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	entries := []*domain.ConsumptionEntry{}
	err := r.db.SelectContext(ctx, &entries,
		`SELECT `+entryColumns+` FROM consumption_entries WHERE aggregate_id = $1 ORDER BY consumed_at, created_at`,
		aggregateID)
	if err != nil {
		return nil, fmt.Errorf("repository: list entries failed: %w", err)
	}
	return entries, nil
}

func (r *PostgresConsumptionEntryRepository) CountByAggregateIDs(ctx context.Context, aggregateIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(aggregateIDs))
	if len(aggregateIDs) == 0 {
		return counts, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := sqlx.In(
		`SELECT aggregate_id, COUNT(*) AS n FROM consumption_entries WHERE aggregate_id IN (?) GROUP BY aggregate_id`,
		aggregateIDs)
	if err != nil {
		return nil, fmt.Errorf("repository: build count query failed: %w", err)
	}

	var rows []struct {
		AggregateID string `db:"aggregate_id"`
		N           int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("repository: count entries failed: %w", err)
	}
	for _, row := range rows {
		counts[row.AggregateID] = row.N
	}
	return counts, nil
}

// normalizeAggregate pins the DATE column to UTC midnight whatever the
// driver hands back.
func normalizeAggregate(agg *domain.DailyAggregate) *domain.DailyAggregate {
	agg.Date = domain.DateOnly(agg.Date)
	return agg
}
