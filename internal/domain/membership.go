package domain

import "time"

const (
	MembershipActive   = "active"
	MembershipDisabled = "disabled"
)

// Membership is one VIP record per user. PointsBalance is the redeemable
// total and may go negative through manual deductions; LifetimePoints only
// ever grows and drives the tier. Both fields are mutated exclusively
// through the repository's atomic delta update.
type Membership struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	PointsBalance  int64     `json:"points_balance"`
	LifetimePoints int64     `json:"lifetime_points"`
	Tier           string    `json:"tier"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ConsumptionResult is what a consumption-driven award reports back to the
// caller. TierChanged tells the POS layer whether to re-stamp NFC cards.
type ConsumptionResult struct {
	PointsAwarded int64  `json:"points_awarded"`
	NewBalance    int64  `json:"new_balance"`
	NewTier       string `json:"new_tier"`
	TierChanged   bool   `json:"tier_changed"`
}

type AdjustmentResult struct {
	NewBalance  int64  `json:"new_balance"`
	NewTier     string `json:"new_tier"`
	TierChanged bool   `json:"tier_changed"`
}

// ReconciliationResult reports a ledger replay: the balances recomputed
// from the log and whether the membership row had drifted from them.
type ReconciliationResult struct {
	UserID         uint   `json:"user_id"`
	PointsBalance  int64  `json:"points_balance"`
	LifetimePoints int64  `json:"lifetime_points"`
	Tier           string `json:"tier"`
	Repaired       bool   `json:"repaired"`
}
