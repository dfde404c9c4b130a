package services

import (
	"context"
	"time"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

type HistoryService struct {
	aggregates domain.DailyAggregateRepository
	entries    domain.ConsumptionEntryRepository
}

func NewHistoryService(aggregates domain.DailyAggregateRepository, entries domain.ConsumptionEntryRepository) *HistoryService {
	return &HistoryService{
		aggregates: aggregates,
		entries:    entries,
	}
}

type HistoryItem struct {
	*domain.DailyAggregate
	EntryCount int `json:"entry_count"`
}

type HistoryReport struct {
	Days   int                  `json:"days"`
	Anchor string               `json:"anchor,omitempty"`
	Items  []HistoryItem        `json:"items"`
	Rollup domain.HistoryRollup `json:"rollup"`
}

type DayDetail struct {
	Aggregate *domain.DailyAggregate     `json:"aggregate"`
	Entries   []*domain.ConsumptionEntry `json:"entries"`
}

// GetWindow returns aggregates newest first, never more than window.Days.
func (s *HistoryService) GetWindow(ctx context.Context, userID string, window domain.HistoryWindow) ([]*domain.DailyAggregate, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	window = window.Normalize()

	var (
		aggs []*domain.DailyAggregate
		err  error
	)
	if window.Anchor == nil {
		aggs, err = s.aggregates.ListRecent(ctx, userID, window.Days)
	} else {
		from, to := window.Range()
		aggs, err = s.aggregates.ListByDateRange(ctx, userID, from, to)
	}
	if err != nil {
		return nil, err
	}
	if aggs == nil {
		aggs = []*domain.DailyAggregate{}
	}
	if len(aggs) > window.Days {
		aggs = aggs[:window.Days]
	}
	return aggs, nil
}

func (s *HistoryService) History(ctx context.Context, userID string, window domain.HistoryWindow) (*HistoryReport, error) {
	window = window.Normalize()

	aggs, err := s.GetWindow(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(aggs))
	for _, a := range aggs {
		ids = append(ids, a.ID)
	}
	counts, err := s.entries.CountByAggregateIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	report := &HistoryReport{
		Days:   window.Days,
		Items:  make([]HistoryItem, 0, len(aggs)),
		Rollup: domain.ComputeRollup(aggs),
	}
	if window.Anchor != nil {
		report.Anchor = window.Anchor.Format(domain.DateLayout)
	}
	for _, a := range aggs {
		report.Items = append(report.Items, HistoryItem{DailyAggregate: a, EntryCount: counts[a.ID]})
	}

	return report, nil
}

// HistoryDetail never creates a day: an unknown date is ErrAggregateNotFound.
func (s *HistoryService) HistoryDetail(ctx context.Context, userID string, date time.Time) (*DayDetail, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	agg, err := s.aggregates.GetByUserAndDate(ctx, userID, domain.DateOnly(date))
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByAggregateID(ctx, agg.ID)
	if err != nil {
		return nil, err
	}

	return &DayDetail{Aggregate: agg, Entries: entries}, nil
}
