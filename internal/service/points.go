package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velora-agency/api/internal/domain"
	"github.com/velora-agency/api/internal/repository"
)

var (
	ErrRuleNotFound       = repository.ErrRuleNotFound
	ErrMembershipNotFound = repository.ErrMembershipNotFound

	ErrNonPositiveAmount = errors.New("consumption amount must be positive")
	ErrZeroDelta         = errors.New("adjustment delta must be non-zero")
	ErrEmptyReason       = errors.New("adjustment reason must not be empty")
)

// PartialFailureError marks the one failure mode that needs operational
// attention: a ledger entry was appended but the membership row was not
// brought in line with it. Recovery is a ledger replay (Reconcile), never
// a blind retry of the failed step.
type PartialFailureError struct {
	LedgerEntryID uint
	UserID        uint
	Err           error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("ledger entry %d written for user %d but membership update failed: %v",
		e.LedgerEntryID, e.UserID, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

type PointRuleStore interface {
	FindByActionType(ctx context.Context, actionType string) (domain.PointRule, error)
}

type PointsLedger interface {
	Append(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error)
	FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]domain.LedgerEntry, error)
	ReplayTotals(ctx context.Context, userID uint) (balance int64, lifetime int64, err error)
}

type MembershipStore interface {
	FindByUserID(ctx context.Context, userID uint) (domain.Membership, error)
	ApplyBalanceDelta(ctx context.Context, userID uint, deltaBalance, deltaLifetime int64) (domain.Membership, error)
	UpdateTier(ctx context.Context, userID uint, tier string) error
	SetBalances(ctx context.Context, userID uint, balance, lifetime int64, tier string) error
}

// PointsService orchestrates the points engine: resolve rule, append
// ledger entry, apply the balance delta atomically, recompute tier.
// No locks are held across the steps; correctness under concurrent calls
// for the same user rests on the atomic delta update alone.
type PointsService struct {
	rules       PointRuleStore
	ledger      PointsLedger
	memberships MembershipStore
	tiers       domain.TierSchedule

	consumptionAction string
}

func NewPointsService(rules PointRuleStore, ledger PointsLedger, memberships MembershipStore, tiers domain.TierSchedule, consumptionAction string) *PointsService {
	if consumptionAction == "" {
		consumptionAction = domain.ActionConsumption
	}

	return &PointsService{
		rules:             rules,
		ledger:            ledger,
		memberships:       memberships,
		tiers:             tiers,
		consumptionAction: consumptionAction,
	}
}

// ProcessConsumption awards points for an already-persisted consumption.
// The consumption record itself is never rolled back here: this service
// only awards points, it does not own consumption creation.
func (s *PointsService) ProcessConsumption(ctx context.Context, userID uint, amount int64, currency string, consumptionID uuid.UUID) (domain.ConsumptionResult, error) {
	if amount <= 0 {
		return domain.ConsumptionResult{}, ErrNonPositiveAmount
	}

	rule, err := s.rules.FindByActionType(ctx, s.consumptionAction)
	if err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			return domain.ConsumptionResult{}, ErrRuleNotFound
		}

		return domain.ConsumptionResult{}, fmt.Errorf("s.rules.FindByActionType -> %w", err)
	}
	if !rule.Active {
		return domain.ConsumptionResult{}, ErrRuleNotFound
	}

	pointsAwarded := rule.PointsFor(amount)

	relatedID := consumptionID
	entry, err := s.ledger.Append(ctx, domain.LedgerEntry{
		UserID:          userID,
		DeltaPoints:     pointsAwarded,
		Reason:          fmt.Sprintf("consumption of %d %s", amount, currency),
		Source:          domain.SourceConsumption,
		RelatedEntityID: &relatedID,
	})
	if err != nil {
		return domain.ConsumptionResult{}, fmt.Errorf("s.ledger.Append -> %w", err)
	}

	// Lifetime grows by the full award: consumption never reduces it.
	membership, newTier, tierChanged, err := s.settle(ctx, userID, entry, pointsAwarded, pointsAwarded)
	if err != nil {
		return domain.ConsumptionResult{}, err
	}

	return domain.ConsumptionResult{
		PointsAwarded: pointsAwarded,
		NewBalance:    membership.PointsBalance,
		NewTier:       newTier,
		TierChanged:   tierChanged,
	}, nil
}

// AdjustPointsManually applies an admin-issued delta. Deductions reduce
// the balance only; lifetime points never decrease, preserving tier
// history integrity.
func (s *PointsService) AdjustPointsManually(ctx context.Context, userID uint, deltaPoints int64, reason string) (domain.AdjustmentResult, error) {
	if deltaPoints == 0 {
		return domain.AdjustmentResult{}, ErrZeroDelta
	}
	if strings.TrimSpace(reason) == "" {
		return domain.AdjustmentResult{}, ErrEmptyReason
	}

	entry, err := s.ledger.Append(ctx, domain.LedgerEntry{
		UserID:      userID,
		DeltaPoints: deltaPoints,
		Reason:      reason,
		Source:      domain.SourceManualAdjustment,
	})
	if err != nil {
		return domain.AdjustmentResult{}, fmt.Errorf("s.ledger.Append -> %w", err)
	}

	deltaLifetime := deltaPoints
	if deltaLifetime < 0 {
		deltaLifetime = 0
	}

	membership, newTier, tierChanged, err := s.settle(ctx, userID, entry, deltaPoints, deltaLifetime)
	if err != nil {
		return domain.AdjustmentResult{}, err
	}

	return domain.AdjustmentResult{
		NewBalance:  membership.PointsBalance,
		NewTier:     newTier,
		TierChanged: tierChanged,
	}, nil
}

// settle runs the post-log steps: apply the balance delta and persist a
// tier change. Once the ledger entry exists, every failure here is a
// partial failure and is both surfaced and logged for alerting.
func (s *PointsService) settle(ctx context.Context, userID uint, entry domain.LedgerEntry, deltaBalance, deltaLifetime int64) (domain.Membership, string, bool, error) {
	membership, err := s.memberships.ApplyBalanceDelta(ctx, userID, deltaBalance, deltaLifetime)
	if err != nil {
		return domain.Membership{}, "", false, s.partialFailure(entry, fmt.Errorf("s.memberships.ApplyBalanceDelta -> %w", err))
	}

	newTier := s.tiers.TierFor(membership.LifetimePoints)
	tierChanged := newTier != membership.Tier
	if tierChanged {
		if err = s.memberships.UpdateTier(ctx, userID, newTier); err != nil {
			return domain.Membership{}, "", false, s.partialFailure(entry, fmt.Errorf("s.memberships.UpdateTier -> %w", err))
		}
	}

	return membership, newTier, tierChanged, nil
}

func (s *PointsService) partialFailure(entry domain.LedgerEntry, err error) error {
	pf := &PartialFailureError{
		LedgerEntryID: entry.ID,
		UserID:        entry.UserID,
		Err:           err,
	}

	zap.L().Error("points ledger and membership diverged, reconciliation required",
		zap.Uint("user_id", entry.UserID),
		zap.Uint("ledger_entry_id", entry.ID),
		zap.Error(err),
	)

	return pf
}

// Reconcile replays the user's ledger, recomputes balance, lifetime and
// tier, and repairs the membership row if it drifted. This is the
// prescribed recovery after a PartialFailureError.
func (s *PointsService) Reconcile(ctx context.Context, userID uint) (domain.ReconciliationResult, error) {
	membership, err := s.memberships.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			return domain.ReconciliationResult{}, ErrMembershipNotFound
		}

		return domain.ReconciliationResult{}, fmt.Errorf("s.memberships.FindByUserID -> %w", err)
	}

	balance, lifetime, err := s.ledger.ReplayTotals(ctx, userID)
	if err != nil {
		return domain.ReconciliationResult{}, fmt.Errorf("s.ledger.ReplayTotals -> %w", err)
	}

	tier := s.tiers.TierFor(lifetime)

	repaired := balance != membership.PointsBalance ||
		lifetime != membership.LifetimePoints ||
		tier != membership.Tier
	if repaired {
		if err = s.memberships.SetBalances(ctx, userID, balance, lifetime, tier); err != nil {
			return domain.ReconciliationResult{}, fmt.Errorf("s.memberships.SetBalances -> %w", err)
		}

		zap.L().Info("membership repaired from ledger replay",
			zap.Uint("user_id", userID),
			zap.Int64("balance", balance),
			zap.Int64("lifetime", lifetime),
			zap.String("tier", tier),
		)
	}

	return domain.ReconciliationResult{
		UserID:         userID,
		PointsBalance:  balance,
		LifetimePoints: lifetime,
		Tier:           tier,
		Repaired:       repaired,
	}, nil
}

func (s *PointsService) GetLedger(ctx context.Context, userID uint, limit, offset int) ([]domain.LedgerEntry, error) {
	entries, err := s.ledger.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("s.ledger.FindByUserID -> %w", err)
	}

	return entries, nil
}
