package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/repository"
)

var ErrMembershipExists = repository.ErrMembershipExists

type MembershipRepository interface {
	Create(ctx context.Context, membership domain.Membership) (domain.Membership, error)
	FindByUserID(ctx context.Context, userID uint) (domain.Membership, error)
	UpdateStatus(ctx context.Context, userID uint, status string) error
}

type MembershipService struct {
	repo     MembershipRepository
	userRepo UserRepository
	tiers    domain.TierSchedule
}

func NewMembershipService(repo MembershipRepository, userRepo UserRepository, tiers domain.TierSchedule) *MembershipService {
	return &MembershipService{
		repo:     repo,
		userRepo: userRepo,
		tiers:    tiers,
	}
}

// Enroll creates the VIP membership for a user: zero balances, base tier,
// active status. One membership per user; re-enrollment conflicts.
func (s *MembershipService) Enroll(ctx context.Context, userID uint) (domain.Membership, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return domain.Membership{}, ErrUserNotFound
		}

		return domain.Membership{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	membership, err := s.repo.Create(ctx, domain.Membership{
		UserID: userID,
		Tier:   s.tiers.TierFor(0),
		Status: domain.MembershipActive,
	})
	if err != nil {
		if errors.Is(err, ErrMembershipExists) {
			return domain.Membership{}, ErrMembershipExists
		}

		return domain.Membership{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return membership, nil
}

func (s *MembershipService) GetMembership(ctx context.Context, userID uint) (domain.Membership, error) {
	membership, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return domain.Membership{}, ErrMembershipNotFound
		}

		return domain.Membership{}, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return membership, nil
}

// Deactivate flags the membership instead of deleting it; the ledger and
// the row itself remain for audit.
func (s *MembershipService) Deactivate(ctx context.Context, userID uint) error {
	if err := s.repo.UpdateStatus(ctx, userID, domain.MembershipDisabled); err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return ErrMembershipNotFound
		}

		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}
