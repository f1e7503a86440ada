package repository

import (
	"context"
	"fmt"

	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/repository/dao"
)

var (
	ErrCardUIDExists = dao.ErrCardUIDExists
	ErrCardNotFound  = dao.ErrCardNotFound
)

type CardDAO interface {
	Insert(ctx context.Context, card dao.Card) (dao.Card, error)
	FindActiveByUserID(ctx context.Context, userID uint) ([]dao.Card, error)
	StampTier(ctx context.Context, userID uint, tier string) (int64, error)
	Deactivate(ctx context.Context, uid string) error
}

type CardRepository struct {
	dao CardDAO
}

func NewCardRepository(dao CardDAO) *CardRepository {
	return &CardRepository{
		dao: dao,
	}
}

func (r *CardRepository) Create(ctx context.Context, card domain.Card) (domain.Card, error) {
	created, err := r.dao.Insert(ctx, dao.Card{
		UID:      card.UID,
		UserID:   card.UserID,
		Tier:     card.Tier,
		Active:   true,
		IssuedAt: card.IssuedAt,
		SyncedAt: card.IssuedAt,
	})
	if err != nil {
		return domain.Card{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CardRepository) FindActiveByUserID(ctx context.Context, userID uint) ([]domain.Card, error) {
	cardsDAO, err := r.dao.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActiveByUserID -> %w", err)
	}

	cards := make([]domain.Card, len(cardsDAO))
	for i, cardDAO := range cardsDAO {
		cards[i] = r.daoToDomain(cardDAO)
	}

	return cards, nil
}

func (r *CardRepository) StampTier(ctx context.Context, userID uint, tier string) (int64, error) {
	stamped, err := r.dao.StampTier(ctx, userID, tier)
	if err != nil {
		return 0, fmt.Errorf("r.dao.StampTier -> %w", err)
	}

	return stamped, nil
}

func (r *CardRepository) Deactivate(ctx context.Context, uid string) error {
	if err := r.dao.Deactivate(ctx, uid); err != nil {
		return fmt.Errorf("r.dao.Deactivate -> %w", err)
	}

	return nil
}

func (r *CardRepository) daoToDomain(c dao.Card) domain.Card {
	return domain.Card{
		ID:       c.ID,
		UID:      c.UID,
		UserID:   c.UserID,
		Tier:     c.Tier,
		Active:   c.Active,
		IssuedAt: c.IssuedAt,
		SyncedAt: c.SyncedAt,
	}
}
