package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/repository"
)

var (
	ErrCardUIDExists = repository.ErrCardUIDExists
	ErrCardNotFound  = repository.ErrCardNotFound
)

type CardRepository interface {
	Create(ctx context.Context, card domain.Card) (domain.Card, error)
	FindActiveByUserID(ctx context.Context, userID uint) ([]domain.Card, error)
	StampTier(ctx context.Context, userID uint, tier string) (int64, error)
	Deactivate(ctx context.Context, uid string) error
}

// CardService maintains the NFC card registry. The points engine only
// reports tier changes; propagating them onto physical card metadata is
// this service's job, triggered by the caller after an award.
type CardService struct {
	repo        CardRepository
	memberships MembershipRepository
}

func NewCardService(repo CardRepository, memberships MembershipRepository) *CardService {
	return &CardService{
		repo:        repo,
		memberships: memberships,
	}
}

func (s *CardService) RegisterCard(ctx context.Context, uid string, userID uint) (domain.Card, error) {
	membership, err := s.memberships.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return domain.Card{}, ErrMembershipNotFound
		}

		return domain.Card{}, fmt.Errorf("s.memberships.FindByUserID -> %w", err)
	}

	card, err := s.repo.Create(ctx, domain.Card{
		UID:      uid,
		UserID:   userID,
		Tier:     membership.Tier,
		IssuedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, ErrCardUIDExists) {
			return domain.Card{}, ErrCardUIDExists
		}

		return domain.Card{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return card, nil
}

// SyncTier re-stamps the membership tier onto every active card of the
// user. Safe to call when nothing changed; the stamp is idempotent.
func (s *CardService) SyncTier(ctx context.Context, userID uint, tier string) error {
	stamped, err := s.repo.StampTier(ctx, userID, tier)
	if err != nil {
		return fmt.Errorf("s.repo.StampTier -> %w", err)
	}

	if stamped > 0 {
		zap.L().Info("nfc card tier metadata synced",
			zap.Uint("user_id", userID),
			zap.String("tier", tier),
			zap.Int64("cards", stamped),
		)
	}

	return nil
}

func (s *CardService) GetCards(ctx context.Context, userID uint) ([]domain.Card, error) {
	cards, err := s.repo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActiveByUserID -> %w", err)
	}

	return cards, nil
}

func (s *CardService) DeactivateCard(ctx context.Context, uid string) error {
	if err := s.repo.Deactivate(ctx, uid); err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return ErrCardNotFound
		}

		return fmt.Errorf("s.repo.Deactivate -> %w", err)
	}

	return nil
}
