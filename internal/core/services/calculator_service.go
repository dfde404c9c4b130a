package services

import (
	"context"
	"fmt"

	"github.com/wawanmain22/CaloMeter/internal/core/domain"
)

const defaultCalculatorHistory = 10

type CalorieInput struct {
	UserID        string
	Metrics       domain.BodyMetrics
	ActivityLevel string
}

type CalorieResult struct {
	Record        *domain.CalorieCalculationRecord `json:"record"`
	ActivityLabel string                           `json:"activity_label"`
	Targets       domain.CalorieTargets            `json:"targets"`
	Saved         bool                             `json:"saved"`
}

type BMIInput struct {
	UserID  string
	Metrics domain.BodyMetrics
}

type BMIResult struct {
	Record         *domain.BMIRecord `json:"record"`
	Recommendation string            `json:"recommendation"`
	Saved          bool              `json:"saved"`
}

type CalorieService struct {
	repo domain.CalorieCalculationRepository
}

func NewCalorieService(repo domain.CalorieCalculationRepository) *CalorieService {
	return &CalorieService{repo: repo}
}

// Calculate persists the result only for signed-in users; guests get the
// numbers back without a stored record.
func (s *CalorieService) Calculate(ctx context.Context, input CalorieInput) (*CalorieResult, error) {
	record, err := domain.NewCalorieCalculation(input.UserID, input.Metrics, input.ActivityLevel)
	if err != nil {
		return nil, err
	}

	result := &CalorieResult{
		Record:        record,
		ActivityLabel: domain.ActivityLevelLabel(record.ActivityMultiplier),
		Targets: domain.CalorieTargets{
			Maintain: record.RecommendMaintain,
			Lose:     record.RecommendLose,
			Gain:     record.RecommendGain,
		},
	}

	if input.UserID == "" {
		return result, nil
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("calorie service: save calculation: %w", err)
	}
	result.Saved = true
	return result, nil
}

func (s *CalorieService) History(ctx context.Context, userID string, limit int) ([]*domain.CalorieCalculationRecord, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if limit <= 0 {
		limit = defaultCalculatorHistory
	}
	return s.repo.ListByUserID(ctx, userID, limit)
}

func (s *CalorieService) Delete(ctx context.Context, id, userID string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	return s.repo.Delete(ctx, id, userID)
}

type BMIService struct {
	repo domain.BMIRecordRepository
}

func NewBMIService(repo domain.BMIRecordRepository) *BMIService {
	return &BMIService{repo: repo}
}

func (s *BMIService) Calculate(ctx context.Context, input BMIInput) (*BMIResult, error) {
	record, err := domain.NewBMIRecord(input.UserID, input.Metrics)
	if err != nil {
		return nil, err
	}

	result := &BMIResult{Record: record, Recommendation: domain.BMIRecommendation(record.Category)}
	if input.UserID == "" {
		return result, nil
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("bmi service: save record: %w", err)
	}
	result.Saved = true
	return result, nil
}

func (s *BMIService) History(ctx context.Context, userID string, limit int) ([]*domain.BMIRecord, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if limit <= 0 {
		limit = defaultCalculatorHistory
	}
	return s.repo.ListByUserID(ctx, userID, limit)
}

func (s *BMIService) Delete(ctx context.Context, id, userID string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	return s.repo.Delete(ctx, id, userID)
}
