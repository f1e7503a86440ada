package response

import "github.com/velora-agency/api/internal/domain"

type ConsumptionResponse struct {
	Consumption   domain.Consumption `json:"consumption"`
	PointsAwarded int64              `json:"points_awarded"`
	NewBalance    int64              `json:"new_balance"`
	NewTier       string             `json:"new_tier"`
	TierChanged   bool               `json:"tier_changed"`
}

type AdjustmentResponse struct {
	Success     bool   `json:"success"`
	NewBalance  int64  `json:"new_balance"`
	NewTier     string `json:"new_tier"`
	TierChanged bool   `json:"tier_changed"`
}

type LedgerResponse struct {
	Entries []domain.LedgerEntry `json:"entries"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}
