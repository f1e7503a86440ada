package repository

import (
	"context"
	"fmt"

	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/repository/dao"
)

var (
	ErrMembershipExists   = dao.ErrMembershipExists
	ErrMembershipNotFound = dao.ErrMembershipNotFound
)

type MembershipDAO interface {
	Insert(ctx context.Context, membership dao.Membership) (dao.Membership, error)
	FindByUserID(ctx context.Context, userID uint) (dao.Membership, error)
	ApplyBalanceDelta(ctx context.Context, userID uint, deltaBalance, deltaLifetime int64) (dao.Membership, error)
	UpdateTier(ctx context.Context, userID uint, tier string) error
	UpdateStatus(ctx context.Context, userID uint, status string) error
	SetBalances(ctx context.Context, userID uint, balance, lifetime int64, tier string) error
}

type MembershipRepository struct {
	dao MembershipDAO
}

func NewMembershipRepository(dao MembershipDAO) *MembershipRepository {
	return &MembershipRepository{
		dao: dao,
	}
}

func (r *MembershipRepository) Create(ctx context.Context, membership domain.Membership) (domain.Membership, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(membership))
	if err != nil {
		return domain.Membership{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *MembershipRepository) FindByUserID(ctx context.Context, userID uint) (domain.Membership, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// ApplyBalanceDelta is the sanctioned mutation path for balance and
// lifetime points; the increment happens atomically at the storage layer.
func (r *MembershipRepository) ApplyBalanceDelta(ctx context.Context, userID uint, deltaBalance, deltaLifetime int64) (domain.Membership, error) {
	updated, err := r.dao.ApplyBalanceDelta(ctx, userID, deltaBalance, deltaLifetime)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("r.dao.ApplyBalanceDelta -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *MembershipRepository) UpdateTier(ctx context.Context, userID uint, tier string) error {
	if err := r.dao.UpdateTier(ctx, userID, tier); err != nil {
		return fmt.Errorf("r.dao.UpdateTier -> %w", err)
	}

	return nil
}

func (r *MembershipRepository) UpdateStatus(ctx context.Context, userID uint, status string) error {
	if err := r.dao.UpdateStatus(ctx, userID, status); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *MembershipRepository) SetBalances(ctx context.Context, userID uint, balance, lifetime int64, tier string) error {
	if err := r.dao.SetBalances(ctx, userID, balance, lifetime, tier); err != nil {
		return fmt.Errorf("r.dao.SetBalances -> %w", err)
	}

	return nil
}

func (r *MembershipRepository) domainToDao(m domain.Membership) dao.Membership {
	return dao.Membership{
		ID:             m.ID,
		UserID:         m.UserID,
		PointsBalance:  m.PointsBalance,
		LifetimePoints: m.LifetimePoints,
		Tier:           m.Tier,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *MembershipRepository) daoToDomain(m dao.Membership) domain.Membership {
	return domain.Membership{
		ID:             m.ID,
		UserID:         m.UserID,
		PointsBalance:  m.PointsBalance,
		LifetimePoints: m.LifetimePoints,
		Tier:           m.Tier,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
