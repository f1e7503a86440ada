package repository

import (
	"context"
	"fmt"

	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/repository/dao"
)

var (
	ErrRuleExists   = dao.ErrRuleExists
	ErrRuleNotFound = dao.ErrRuleNotFound
)

type PointRuleDAO interface {
	Insert(ctx context.Context, rule dao.PointRule) (dao.PointRule, error)
	FindByActionType(ctx context.Context, actionType string) (dao.PointRule, error)
	Update(ctx context.Context, actionType string, pointsPerUnit, unitSize int64, unit string, active bool) (dao.PointRule, error)
	List(ctx context.Context) ([]dao.PointRule, error)
}

type PointRuleRepository struct {
	dao PointRuleDAO
}

func NewPointRuleRepository(dao PointRuleDAO) *PointRuleRepository {
	return &PointRuleRepository{
		dao: dao,
	}
}

func (r *PointRuleRepository) Create(ctx context.Context, rule domain.PointRule) (domain.PointRule, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(rule))
	if err != nil {
		return domain.PointRule{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PointRuleRepository) FindByActionType(ctx context.Context, actionType string) (domain.PointRule, error) {
	found, err := r.dao.FindByActionType(ctx, actionType)
	if err != nil {
		return domain.PointRule{}, fmt.Errorf("r.dao.FindByActionType -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PointRuleRepository) Update(ctx context.Context, rule domain.PointRule) (domain.PointRule, error) {
	updated, err := r.dao.Update(ctx, rule.ActionType, rule.PointsPerUnit, rule.UnitSize, rule.Unit, rule.Active)
	if err != nil {
		return domain.PointRule{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PointRuleRepository) List(ctx context.Context) ([]domain.PointRule, error) {
	rulesDAO, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	rules := make([]domain.PointRule, len(rulesDAO))
	for i, ruleDAO := range rulesDAO {
		rules[i] = r.daoToDomain(ruleDAO)
	}

	return rules, nil
}

func (r *PointRuleRepository) domainToDao(rule domain.PointRule) dao.PointRule {
	return dao.PointRule{
		ID:            rule.ID,
		ActionType:    rule.ActionType,
		PointsPerUnit: rule.PointsPerUnit,
		UnitSize:      rule.UnitSize,
		Unit:          rule.Unit,
		Active:        rule.Active,
		CreatedAt:     rule.CreatedAt,
		UpdatedAt:     rule.UpdatedAt,
	}
}

func (r *PointRuleRepository) daoToDomain(rule dao.PointRule) domain.PointRule {
	return domain.PointRule{
		ID:            rule.ID,
		ActionType:    rule.ActionType,
		PointsPerUnit: rule.PointsPerUnit,
		UnitSize:      rule.UnitSize,
		Unit:          rule.Unit,
		Active:        rule.Active,
		CreatedAt:     rule.CreatedAt,
		UpdatedAt:     rule.UpdatedAt,
	}
}
