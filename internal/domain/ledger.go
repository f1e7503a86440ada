package domain

import (
	"time"

	"github.com/google/uuid"
)

type LedgerSource string

const (
	SourceConsumption      LedgerSource = "consumption"
	SourceManualAdjustment LedgerSource = "manual_adjustment"
)

// LedgerEntry is one immutable row of the append-only points log. Entries
// are never updated or deleted; the ledger is the audit trail and the
// reconciliation source for membership balances.
type LedgerEntry struct {
	ID              uint         `json:"id"`
	UserID          uint         `json:"user_id"`
	DeltaPoints     int64        `json:"delta_points"`
	Reason          string       `json:"reason"`
	Source          LedgerSource `json:"source"`
	RelatedEntityID *uuid.UUID   `json:"related_entity_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}
