package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/repository"
)

var (
	ErrRuleExists      = repository.ErrRuleExists
	ErrInvalidRuleRate = errors.New("points_per_unit and unit_size must be positive")
)

type RuleRepository interface {
	Create(ctx context.Context, rule domain.PointRule) (domain.PointRule, error)
	FindByActionType(ctx context.Context, actionType string) (domain.PointRule, error)
	Update(ctx context.Context, rule domain.PointRule) (domain.PointRule, error)
	List(ctx context.Context) ([]domain.PointRule, error)
}

// RuleService manages the point rule store. Creating a rule for an action
// type that already has one rejects with ErrRuleExists; mutation goes
// through Update.
type RuleService struct {
	repo RuleRepository
}

func NewRuleService(repo RuleRepository) *RuleService {
	return &RuleService{
		repo: repo,
	}
}

func (s *RuleService) CreateRule(ctx context.Context, rule domain.PointRule) (domain.PointRule, error) {
	if rule.PointsPerUnit <= 0 || rule.UnitSize <= 0 {
		return domain.PointRule{}, ErrInvalidRuleRate
	}

	rule.Active = true
	created, err := s.repo.Create(ctx, rule)
	if err != nil {
		if errors.Is(err, ErrRuleExists) {
			return domain.PointRule{}, ErrRuleExists
		}

		return domain.PointRule{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *RuleService) UpdateRule(ctx context.Context, rule domain.PointRule) (domain.PointRule, error) {
	if rule.PointsPerUnit <= 0 || rule.UnitSize <= 0 {
		return domain.PointRule{}, ErrInvalidRuleRate
	}

	updated, err := s.repo.Update(ctx, rule)
	if err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			return domain.PointRule{}, ErrRuleNotFound
		}

		return domain.PointRule{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *RuleService) GetRule(ctx context.Context, actionType string) (domain.PointRule, error) {
	rule, err := s.repo.FindByActionType(ctx, actionType)
	if err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			return domain.PointRule{}, ErrRuleNotFound
		}

		return domain.PointRule{}, fmt.Errorf("s.repo.FindByActionType -> %w", err)
	}

	return rule, nil
}

func (s *RuleService) ListRules(ctx context.Context) ([]domain.PointRule, error) {
	rules, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return rules, nil
}
