package services

import (
	"context"
	"errors"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
	"github.com/wawanmain22/CaloMeter/internal/metrics"
)

type SuggestionService struct {
	calculations domain.CalorieCalculationRepository
}

func NewSuggestionService(calculations domain.CalorieCalculationRepository) *SuggestionService {
	return &SuggestionService{calculations: calculations}
}

// ComputeSuggestion returns (nil, nil) when there is nothing to suggest.
func (s *SuggestionService) ComputeSuggestion(ctx context.Context, userID string, agg *domain.DailyAggregate) (*domain.Suggestion, error) {
	record, err := s.calculations.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			metrics.ObserveSuggestion("no_calculation")
			return nil, nil
		}
		return nil, err
	}

	suggestion := domain.SuggestTargets(agg, record)
	if suggestion == nil {
		metrics.ObserveSuggestion("customized")
		return nil, nil
	}

	metrics.ObserveSuggestion("offered")
	return suggestion, nil
}

// DefaultCalorieTarget is the target a brand-new aggregate starts with.
func (s *SuggestionService) DefaultCalorieTarget(ctx context.Context, userID string) (int, error) {
	record, err := s.calculations.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.DefaultCalorieTarget, nil
		}
		return 0, err
	}
	return domain.TargetsFor(record.DailyCalories).Maintain, nil
}
