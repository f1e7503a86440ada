package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velora-agency/api/internal/domain"
)

type memMembershipRepo struct {
	mu          sync.Mutex
	memberships map[uint]domain.Membership
	nextID      uint
}

func newMemMembershipRepo() *memMembershipRepo {
	return &memMembershipRepo{memberships: make(map[uint]domain.Membership)}
}

func (r *memMembershipRepo) Create(_ context.Context, membership domain.Membership) (domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.memberships[membership.UserID]; ok {
		return domain.Membership{}, ErrMembershipExists
	}
	r.nextID++
	membership.ID = r.nextID
	r.memberships[membership.UserID] = membership
	return membership, nil
}

func (r *memMembershipRepo) FindByUserID(_ context.Context, userID uint) (domain.Membership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memberships[userID]
	if !ok {
		return domain.Membership{}, ErrMembershipNotFound
	}
	return m, nil
}

func (r *memMembershipRepo) UpdateStatus(_ context.Context, userID uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memberships[userID]
	if !ok {
		return ErrMembershipNotFound
	}
	m.Status = status
	r.memberships[userID] = m
	return nil
}

type memUserRepo struct {
	users map[uint]domain.User
}

func (r *memUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return u, nil
}

func TestMembershipService_Enroll(t *testing.T) {
	users := &memUserRepo{users: map[uint]domain.User{7: {ID: 7, Email: "staff@velora.example"}}}

	t.Run("creates an active base-tier membership with zero balances", func(t *testing.T) {
		svc := NewMembershipService(newMemMembershipRepo(), users, testSchedule(t))

		m, err := svc.Enroll(context.Background(), 7)
		require.NoError(t, err)
		require.Equal(t, uint(7), m.UserID)
		require.Zero(t, m.PointsBalance)
		require.Zero(t, m.LifetimePoints)
		require.Equal(t, "Bronze", m.Tier)
		require.Equal(t, domain.MembershipActive, m.Status)
	})

	t.Run("re-enrollment conflicts", func(t *testing.T) {
		svc := NewMembershipService(newMemMembershipRepo(), users, testSchedule(t))

		_, err := svc.Enroll(context.Background(), 7)
		require.NoError(t, err)

		_, err = svc.Enroll(context.Background(), 7)
		require.ErrorIs(t, err, ErrMembershipExists)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewMembershipService(newMemMembershipRepo(), users, testSchedule(t))

		_, err := svc.Enroll(context.Background(), 999)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestMembershipService_Deactivate(t *testing.T) {
	users := &memUserRepo{users: map[uint]domain.User{7: {ID: 7}}}
	repo := newMemMembershipRepo()
	svc := NewMembershipService(repo, users, testSchedule(t))

	_, err := svc.Enroll(context.Background(), 7)
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), 7))

	m, err := svc.GetMembership(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, domain.MembershipDisabled, m.Status)

	require.ErrorIs(t, svc.Deactivate(context.Background(), 999), ErrMembershipNotFound)
}
