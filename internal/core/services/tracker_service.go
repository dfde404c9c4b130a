package services

import (
	"context"
	"errors"
	"time"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
	"github.com/wawanmain22/CaloMeter/internal/metrics"
)

type TrackerService struct {
	aggregates  domain.DailyAggregateRepository
	entries     domain.ConsumptionEntryRepository
	suggestions *SuggestionService
	history     *HistoryService
	clock       domain.Clock
}

func NewTrackerService(
	aggregates domain.DailyAggregateRepository,
	entries domain.ConsumptionEntryRepository,
	suggestions *SuggestionService,
	history *HistoryService,
	clock domain.Clock,
) *TrackerService {
	return &TrackerService{
		aggregates:  aggregates,
		entries:     entries,
		suggestions: suggestions,
		history:     history,
		clock:       clock,
	}
}

// AddEntryInput and UpdateTargetsInput default a zero Date to today.
type AddEntryInput struct {
	UserID string
	Date   time.Time
	Entry  domain.EntrySpec
}

type UpdateTargetsInput struct {
	UserID  string
	Date    time.Time
	Targets domain.Targets
}

// DailyView is everything the tracker page needs for one day.
type DailyView struct {
	Date          string                     `json:"date"`
	DateContext   domain.DateContext         `json:"date_context"`
	CanEdit       bool                       `json:"can_edit"`
	Aggregate     *domain.DailyAggregate     `json:"aggregate"`
	Entries       []*domain.ConsumptionEntry `json:"entries"`
	WeeklyHistory []*domain.DailyAggregate   `json:"weekly_history"`
	Suggestion    *domain.Suggestion         `json:"suggestion"`
}

// GetOrCreateAggregate is idempotent per (user, date). Losing a creation
// race falls back to the row written by the winner.
func (s *TrackerService) GetOrCreateAggregate(ctx context.Context, userID string, date time.Time) (*domain.DailyAggregate, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	date = domain.DateOnly(date)

	agg, err := s.aggregates.GetByUserAndDate(ctx, userID, date)
	if err == nil {
		return agg, nil
	}
	if !errors.Is(err, domain.ErrAggregateNotFound) {
		return nil, err
	}

	target, err := s.suggestions.DefaultCalorieTarget(ctx, userID)
	if err != nil {
		return nil, err
	}

	agg, err = domain.NewDailyAggregate(userID, date, target)
	if err != nil {
		return nil, err
	}

	if err := s.aggregates.Create(ctx, agg); err != nil {
		if errors.Is(err, domain.ErrAggregateConflict) {
			return s.aggregates.GetByUserAndDate(ctx, userID, date)
		}
		return nil, err
	}

	return agg, nil
}

func (s *TrackerService) AddEntry(ctx context.Context, input AddEntryInput) (*domain.ConsumptionEntry, *domain.DailyAggregate, error) {
	if input.UserID == "" {
		return nil, nil, domain.ErrUnauthenticated
	}
	if input.Date.IsZero() {
		input.Date = s.clock.Today()
	}

	entry, err := domain.NewConsumptionEntry(input.Entry)
	if err != nil {
		return nil, nil, err
	}

	if !domain.ClassifyDate(input.Date, s.clock.Today()).AllowsEntryMutation() {
		return nil, nil, domain.ErrPastDateLocked
	}

	agg, err := s.GetOrCreateAggregate(ctx, input.UserID, input.Date)
	if err != nil {
		return nil, nil, err
	}

	updated, err := s.aggregates.Mutate(ctx, agg.ID, func(ctx context.Context, tx domain.AggregateTx) error {
		entry.AggregateID = tx.Aggregate().ID
		if err := tx.InsertEntry(ctx, entry); err != nil {
			return err
		}
		return recomputeTotals(ctx, tx)
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.EntriesAdded.WithLabelValues(string(entry.Kind)).Inc()
	return entry, updated, nil
}

func (s *TrackerService) RemoveEntry(ctx context.Context, entryID, userID string) (*domain.DailyAggregate, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	agg, err := s.aggregates.GetByID(ctx, entry.AggregateID)
	if err != nil {
		return nil, err
	}
	if agg.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if !domain.ClassifyDate(agg.Date, s.clock.Today()).AllowsEntryMutation() {
		return nil, domain.ErrPastDateLocked
	}

	updated, err := s.aggregates.Mutate(ctx, agg.ID, func(ctx context.Context, tx domain.AggregateTx) error {
		if tx.Aggregate().UserID != userID {
			return domain.ErrForbidden
		}
		if err := tx.DeleteEntry(ctx, entryID); err != nil {
			return err
		}
		return recomputeTotals(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	metrics.EntriesRemoved.Inc()
	return updated, nil
}

// UpdateTargets creates the day when needed. Past days may still have their
// targets corrected; only entries are locked.
func (s *TrackerService) UpdateTargets(ctx context.Context, input UpdateTargetsInput) (*domain.DailyAggregate, error) {
	if input.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := input.Targets.Validate(); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		input.Date = s.clock.Today()
	}

	agg, err := s.GetOrCreateAggregate(ctx, input.UserID, input.Date)
	if err != nil {
		return nil, err
	}

	updated, err := s.aggregates.Mutate(ctx, agg.ID, func(ctx context.Context, tx domain.AggregateTx) error {
		if err := tx.Aggregate().SetTargets(input.Targets); err != nil {
			return err
		}
		return recomputeTotals(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	metrics.TargetUpdates.Inc()
	return updated, nil
}

// DailyView defaults to the clock's today when date is nil.
func (s *TrackerService) DailyView(ctx context.Context, userID string, date *time.Time) (*DailyView, error) {
	today := s.clock.Today()
	day := today
	if date != nil {
		day = domain.DateOnly(*date)
	}

	agg, err := s.GetOrCreateAggregate(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByAggregateID(ctx, agg.ID)
	if err != nil {
		return nil, err
	}

	weekly, err := s.history.GetWindow(ctx, userID, domain.HistoryWindow{Days: domain.WeeklyHistoryDays, Anchor: &day})
	if err != nil {
		return nil, err
	}

	suggestion, err := s.suggestions.ComputeSuggestion(ctx, userID, agg)
	if err != nil {
		return nil, err
	}

	dc := domain.ClassifyDate(day, today)
	return &DailyView{
		Date:          day.Format(domain.DateLayout),
		DateContext:   dc,
		CanEdit:       dc.AllowsEntryMutation(),
		Aggregate:     agg,
		Entries:       entries,
		WeeklyHistory: weekly,
		Suggestion:    suggestion,
	}, nil
}

func recomputeTotals(ctx context.Context, tx domain.AggregateTx) error {
	entries, err := tx.Entries(ctx)
	if err != nil {
		return err
	}
	tx.Aggregate().Recompute(entries)
	return nil
}
