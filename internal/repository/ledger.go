package repository

import (
	"context"
	"fmt"

	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/repository/dao"
)

type LedgerDAO interface {
	Insert(ctx context.Context, entry dao.LedgerEntry) (dao.LedgerEntry, error)
	FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]dao.LedgerEntry, error)
	ReplayTotals(ctx context.Context, userID uint) (balance int64, lifetime int64, err error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

type LedgerRepository struct {
	dao LedgerDAO
}

func NewLedgerRepository(dao LedgerDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func (r *LedgerRepository) Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	created, err := r.dao.Insert(ctx, dao.LedgerEntry{
		UserID:          entry.UserID,
		DeltaPoints:     entry.DeltaPoints,
		Reason:          entry.Reason,
		Source:          string(entry.Source),
		RelatedEntityID: entry.RelatedEntityID,
	})
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *LedgerRepository) FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]domain.LedgerEntry, error) {
	entriesDAO, err := r.dao.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	entries := make([]domain.LedgerEntry, len(entriesDAO))
	for i, entryDAO := range entriesDAO {
		entries[i] = r.daoToDomain(entryDAO)
	}

	return entries, nil
}

func (r *LedgerRepository) ReplayTotals(ctx context.Context, userID uint) (int64, int64, error) {
	balance, lifetime, err := r.dao.ReplayTotals(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("r.dao.ReplayTotals -> %w", err)
	}

	return balance, lifetime, nil
}

func (r *LedgerRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	count, err := r.dao.CountByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByUserID -> %w", err)
	}

	return count, nil
}

func (r *LedgerRepository) daoToDomain(e dao.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:              e.ID,
		UserID:          e.UserID,
		DeltaPoints:     e.DeltaPoints,
		Reason:          e.Reason,
		Source:          domain.LedgerSource(e.Source),
		RelatedEntityID: e.RelatedEntityID,
		CreatedAt:       e.CreatedAt,
	}
}
