package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/repository/dao"
)

var ErrConsumptionNotFound = dao.ErrConsumptionNotFound

type ConsumptionDAO interface {
	Insert(ctx context.Context, consumption dao.Consumption) (dao.Consumption, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.Consumption, error)
	FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]dao.Consumption, error)
}

type ConsumptionRepository struct {
	dao ConsumptionDAO
}

func NewConsumptionRepository(dao ConsumptionDAO) *ConsumptionRepository {
	return &ConsumptionRepository{
		dao: dao,
	}
}

func (r *ConsumptionRepository) Create(ctx context.Context, consumption domain.Consumption) (domain.Consumption, error) {
	created, err := r.dao.Insert(ctx, dao.Consumption{
		ID:       consumption.ID,
		UserID:   consumption.UserID,
		Amount:   consumption.Amount,
		Currency: consumption.Currency,
	})
	if err != nil {
		return domain.Consumption{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ConsumptionRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Consumption, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Consumption{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ConsumptionRepository) FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]domain.Consumption, error) {
	consumptionsDAO, err := r.dao.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	consumptions := make([]domain.Consumption, len(consumptionsDAO))
	for i, consumptionDAO := range consumptionsDAO {
		consumptions[i] = r.daoToDomain(consumptionDAO)
	}

	return consumptions, nil
}

func (r *ConsumptionRepository) daoToDomain(c dao.Consumption) domain.Consumption {
	return domain.Consumption{
		ID:        c.ID,
		UserID:    c.UserID,
		Amount:    c.Amount,
		Currency:  c.Currency,
		CreatedAt: c.CreatedAt,
	}
}
