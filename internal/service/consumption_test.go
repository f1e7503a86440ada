package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/velora-agency/api/internal/domain"
)

type memConsumptionRepo struct {
	mu      sync.Mutex
	records []domain.Consumption
}

func (r *memConsumptionRepo) Create(_ context.Context, consumption domain.Consumption) (domain.Consumption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	consumption.ID = uuid.New()
	r.records = append(r.records, consumption)
	return consumption, nil
}

func (r *memConsumptionRepo) FindByUserID(_ context.Context, userID uint, limit, offset int) ([]domain.Consumption, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Consumption
	for _, c := range r.records {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type stubAwarder struct {
	result domain.ConsumptionResult
	err    error

	gotConsumptionID uuid.UUID
}

func (a *stubAwarder) ProcessConsumption(_ context.Context, _ uint, _ int64, _ string, consumptionID uuid.UUID) (domain.ConsumptionResult, error) {
	a.gotConsumptionID = consumptionID
	if a.err != nil {
		return domain.ConsumptionResult{}, a.err
	}
	return a.result, nil
}

func TestConsumptionService_RecordConsumption(t *testing.T) {
	t.Run("persists the record and links it to the award", func(t *testing.T) {
		repo := &memConsumptionRepo{}
		awarder := &stubAwarder{result: domain.ConsumptionResult{PointsAwarded: 5, NewBalance: 5, NewTier: "Bronze"}}
		svc := NewConsumptionService(repo, awarder)

		consumption, result, err := svc.RecordConsumption(context.Background(), 7, 55, "EUR")
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, consumption.ID)
		require.Equal(t, consumption.ID, awarder.gotConsumptionID)
		require.Equal(t, int64(5), result.PointsAwarded)
	})

	t.Run("the record stands when no rule is configured", func(t *testing.T) {
		repo := &memConsumptionRepo{}
		awarder := &stubAwarder{err: ErrRuleNotFound}
		svc := NewConsumptionService(repo, awarder)

		consumption, _, err := svc.RecordConsumption(context.Background(), 7, 100, "EUR")
		require.ErrorIs(t, err, ErrRuleNotFound)
		require.NotEqual(t, uuid.Nil, consumption.ID)

		stored, ferr := repo.FindByUserID(context.Background(), 7, 10, 0)
		require.NoError(t, ferr)
		require.Len(t, stored, 1)
	})

	t.Run("a partial award failure is surfaced with the record intact", func(t *testing.T) {
		repo := &memConsumptionRepo{}
		awarder := &stubAwarder{err: &PartialFailureError{LedgerEntryID: 12, UserID: 7}}
		svc := NewConsumptionService(repo, awarder)

		consumption, _, err := svc.RecordConsumption(context.Background(), 7, 100, "EUR")

		var pf *PartialFailureError
		require.ErrorAs(t, err, &pf)
		require.Equal(t, uint(12), pf.LedgerEntryID)
		require.NotEqual(t, uuid.Nil, consumption.ID)
	})

	t.Run("rejects a non-positive amount before persisting", func(t *testing.T) {
		repo := &memConsumptionRepo{}
		svc := NewConsumptionService(repo, &stubAwarder{})

		_, _, err := svc.RecordConsumption(context.Background(), 7, 0, "EUR")
		require.ErrorIs(t, err, ErrNonPositiveAmount)
		require.Empty(t, repo.records)
	})
}
