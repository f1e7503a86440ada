package domain

import "time"

// ActionConsumption is the fixed action type a POS consumption resolves
// its point rule against.
const ActionConsumption = "consumption"

// PointRule maps an action type to an award rate: PointsPerUnit points for
// every full UnitSize of the measured unit (e.g. 1 point per 1000 cents).
// At most one rule exists per action type.
type PointRule struct {
	ID            uint      `json:"id"`
	ActionType    string    `json:"action_type"`
	PointsPerUnit int64     `json:"points_per_unit"`
	UnitSize      int64     `json:"unit_size"`
	Unit          string    `json:"unit"` // e.g. "EUR_cents", "visit"
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PointsFor computes the award for a given amount. Rounding policy is
// floor: the award is the integer part of amount / UnitSize * PointsPerUnit,
// evaluated as (amount * PointsPerUnit) / UnitSize in integer math so the
// result is deterministic for every currency.
func (r PointRule) PointsFor(amount int64) int64 {
	if r.UnitSize <= 0 {
		return 0
	}

	return amount * r.PointsPerUnit / r.UnitSize
}
