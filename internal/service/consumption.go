package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/velora-agency/api/internal/domain"
)

type ConsumptionRepository interface {
	Create(ctx context.Context, consumption domain.Consumption) (domain.Consumption, error)
	FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]domain.Consumption, error)
}

type PointsAwarder interface {
	ProcessConsumption(ctx context.Context, userID uint, amount int64, currency string, consumptionID uuid.UUID) (domain.ConsumptionResult, error)
}

// ConsumptionService owns the POS consumption records. A consumption is
// persisted first and only then handed to the points engine; if no point
// rule is configured the record stays in place and the missing rule is
// reported to the caller.
type ConsumptionService struct {
	repo   ConsumptionRepository
	points PointsAwarder
}

func NewConsumptionService(repo ConsumptionRepository, points PointsAwarder) *ConsumptionService {
	return &ConsumptionService{
		repo:   repo,
		points: points,
	}
}

func (s *ConsumptionService) RecordConsumption(ctx context.Context, userID uint, amount int64, currency string) (domain.Consumption, domain.ConsumptionResult, error) {
	if amount <= 0 {
		return domain.Consumption{}, domain.ConsumptionResult{}, ErrNonPositiveAmount
	}

	consumption, err := s.repo.Create(ctx, domain.Consumption{
		UserID:   userID,
		Amount:   amount,
		Currency: currency,
	})
	if err != nil {
		return domain.Consumption{}, domain.ConsumptionResult{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	result, err := s.points.ProcessConsumption(ctx, userID, amount, currency, consumption.ID)
	if err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			// The consumption stands; only the award is blocked.
			return consumption, domain.ConsumptionResult{}, ErrRuleNotFound
		}

		return consumption, domain.ConsumptionResult{}, fmt.Errorf("s.points.ProcessConsumption -> %w", err)
	}

	return consumption, result, nil
}

func (s *ConsumptionService) GetConsumptions(ctx context.Context, userID uint, limit, offset int) ([]domain.Consumption, error) {
	consumptions, err := s.repo.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return consumptions, nil
}
