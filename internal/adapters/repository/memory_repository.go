package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

// MemoryStore keeps every table in process memory behind one lock. Values
// are copied in and out so callers never alias stored rows.
type MemoryStore struct {
	mu sync.RWMutex

	users        map[string]*domain.User
	aggregates   map[string]*domain.DailyAggregate
	entries      map[string]*domain.ConsumptionEntry
	calculations map[string]*domain.CalorieCalculationRecord
	bmi          map[string]*domain.BMIRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]*domain.User),
		aggregates:   make(map[string]*domain.DailyAggregate),
		entries:      make(map[string]*domain.ConsumptionEntry),
		calculations: make(map[string]*domain.CalorieCalculationRecord),
		bmi:          make(map[string]*domain.BMIRecord),
	}
}

func (s *MemoryStore) Users() *InMemoryUserRepository { return &InMemoryUserRepository{s: s} }
func (s *MemoryStore) Aggregates() *InMemoryDailyAggregateRepository {
	return &InMemoryDailyAggregateRepository{s: s}
}
func (s *MemoryStore) Entries() *InMemoryConsumptionEntryRepository {
	return &InMemoryConsumptionEntryRepository{s: s}
}
func (s *MemoryStore) Calculations() *InMemoryCalorieCalculationRepository {
	return &InMemoryCalorieCalculationRepository{s: s}
}
func (s *MemoryStore) BMIRecords() *InMemoryBMIRecordRepository {
	return &InMemoryBMIRecordRepository{s: s}
}

var (
	_ domain.UserRepository               = (*InMemoryUserRepository)(nil)
	_ domain.DailyAggregateRepository     = (*InMemoryDailyAggregateRepository)(nil)
	_ domain.ConsumptionEntryRepository   = (*InMemoryConsumptionEntryRepository)(nil)
	_ domain.CalorieCalculationRepository = (*InMemoryCalorieCalculationRepository)(nil)
	_ domain.BMIRecordRepository          = (*InMemoryBMIRecordRepository)(nil)
)

type InMemoryUserRepository struct{ s *MemoryStore }

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

type InMemoryDailyAggregateRepository struct{ s *MemoryStore }

func (r *InMemoryDailyAggregateRepository) Create(ctx context.Context, agg *domain.DailyAggregate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	date := domain.DateOnly(agg.Date)
	for _, a := range r.s.aggregates {
		if a.UserID == agg.UserID && a.Date.Equal(date) {
			return domain.ErrAggregateConflict
		}
	}
	cp := *agg
	cp.Date = date
	r.s.aggregates[agg.ID] = &cp
	return nil
}

func (r *InMemoryDailyAggregateRepository) GetByID(ctx context.Context, id string) (*domain.DailyAggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.aggregates[id]
	if !ok {
		return nil, domain.ErrAggregateNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *InMemoryDailyAggregateRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*domain.DailyAggregate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	date = domain.DateOnly(date)
	for _, a := range r.s.aggregates {
		if a.UserID == userID && a.Date.Equal(date) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAggregateNotFound
}

func (r *InMemoryDailyAggregateRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.DailyAggregate, error) {
	aggs := r.filter(func(a *domain.DailyAggregate) bool { return a.UserID == userID })
	if limit > 0 && len(aggs) > limit {
		aggs = aggs[:limit]
	}
	return aggs, nil
}

func (r *InMemoryDailyAggregateRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyAggregate, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	return r.filter(func(a *domain.DailyAggregate) bool {
		return a.UserID == userID && !a.Date.Before(from) && !a.Date.After(to)
	}), nil
}

// filter returns copies of the matching aggregates, newest date first.
func (r *InMemoryDailyAggregateRepository) filter(keep func(*domain.DailyAggregate) bool) []*domain.DailyAggregate {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.DailyAggregate{}
	for _, a := range r.s.aggregates {
		if keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Mutate holds the store lock for the whole of fn and only publishes the
// staged changes when fn succeeds.
func (r *InMemoryDailyAggregateRepository) Mutate(ctx context.Context, aggregateID string, fn func(ctx context.Context, tx domain.AggregateTx) error) (*domain.DailyAggregate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.aggregates[aggregateID]
	if !ok {
		return nil, domain.ErrAggregateNotFound
	}

	agg := *stored
	tx := &memoryAggregateTx{
		store:    r.s,
		agg:      &agg,
		inserted: make(map[string]*domain.ConsumptionEntry),
		deleted:  make(map[string]bool),
	}
	if err := fn(ctx, tx); err != nil {
		return nil, err
	}

	for id := range tx.deleted {
		delete(r.s.entries, id)
	}
	for id, e := range tx.inserted {
		r.s.entries[id] = e
	}
	r.s.aggregates[aggregateID] = &agg

	out := agg
	return &out, nil
}

// memoryAggregateTx stages entry changes on top of the locked store.
type memoryAggregateTx struct {
	store    *MemoryStore
	agg      *domain.DailyAggregate
	inserted map[string]*domain.ConsumptionEntry
	deleted  map[string]bool
}

func (t *memoryAggregateTx) Aggregate() *domain.DailyAggregate {
	return t.agg
}

func (t *memoryAggregateTx) Entries(ctx context.Context) ([]*domain.ConsumptionEntry, error) {
	out := []*domain.ConsumptionEntry{}
	for id, e := range t.store.entries {
		if e.AggregateID == t.agg.ID && !t.deleted[id] {
			cp := *e
			out = append(out, &cp)
		}
	}
	for _, e := range t.inserted {
		cp := *e
		out = append(out, &cp)
	}
	sortEntries(out)
	return out, nil
}

func (t *memoryAggregateTx) InsertEntry(ctx context.Context, entry *domain.ConsumptionEntry) error {
	entry.AggregateID = t.agg.ID
	cp := *entry
	t.inserted[entry.ID] = &cp
	return nil
}

func (t *memoryAggregateTx) DeleteEntry(ctx context.Context, entryID string) error {
	if _, ok := t.inserted[entryID]; ok {
		delete(t.inserted, entryID)
		return nil
	}
	e, ok := t.store.entries[entryID]
	if !ok || e.AggregateID != t.agg.ID || t.deleted[entryID] {
		return domain.ErrEntryNotFound
	}
	t.deleted[entryID] = true
	return nil
}

type InMemoryConsumptionEntryRepository struct{ s *MemoryStore }

func (r *InMemoryConsumptionEntryRepository) GetByID(ctx context.Context, id string) (*domain.ConsumptionEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *InMemoryConsumptionEntryRepository) ListByAggregateID(ctx context.Context, aggregateID string) ([]*domain.ConsumptionEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.ConsumptionEntry{}
	for _, e := range r.s.entries {
		if e.AggregateID == aggregateID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortEntries(out)
	return out, nil
}

func (r *InMemoryConsumptionEntryRepository) CountByAggregateIDs(ctx context.Context, aggregateIDs []string) (map[string]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[string]bool, len(aggregateIDs))
	for _, id := range aggregateIDs {
		want[id] = true
	}
	counts := make(map[string]int, len(aggregateIDs))
	for _, e := range r.s.entries {
		if want[e.AggregateID] {
			counts[e.AggregateID]++
		}
	}
	return counts, nil
}

func sortEntries(entries []*domain.ConsumptionEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ConsumedAt != entries[j].ConsumedAt {
			return entries[i].ConsumedAt < entries[j].ConsumedAt
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

type InMemoryCalorieCalculationRepository struct{ s *MemoryStore }

func (r *InMemoryCalorieCalculationRepository) Create(ctx context.Context, record *domain.CalorieCalculationRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *record
	r.s.calculations[record.ID] = &cp
	return nil
}

func (r *InMemoryCalorieCalculationRepository) Latest(ctx context.Context, userID string) (*domain.CalorieCalculationRecord, error) {
	records, _ := r.ListByUserID(ctx, userID, 1)
	if len(records) == 0 {
		return nil, domain.ErrRecordNotFound
	}
	return records[0], nil
}

func (r *InMemoryCalorieCalculationRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.CalorieCalculationRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.CalorieCalculationRecord{}
	for _, rec := range r.s.calculations {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryCalorieCalculationRepository) Delete(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.calculations[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if rec.UserID != userID {
		return domain.ErrForbidden
	}
	delete(r.s.calculations, id)
	return nil
}

type InMemoryBMIRecordRepository struct{ s *MemoryStore }

func (r *InMemoryBMIRecordRepository) Create(ctx context.Context, record *domain.BMIRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *record
	r.s.bmi[record.ID] = &cp
	return nil
}

func (r *InMemoryBMIRecordRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*domain.BMIRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.BMIRecord{}
	for _, rec := range r.s.bmi {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryBMIRecordRepository) Delete(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.bmi[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if rec.UserID != userID {
		return domain.ErrForbidden
	}
	delete(r.s.bmi, id)
	return nil
}
