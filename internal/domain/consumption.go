package domain

import (
	"time"

	"github.com/google/uuid"
)

// Consumption is a purchase recorded by the POS surface. Amount is in
// minor currency units (cents). The record is owned by the POS flow and
// persisted before any points are awarded; the points engine only
// back-references it from the ledger.
type Consumption struct {
	ID        uuid.UUID `json:"id"`
	UserID    uint      `json:"user_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}
