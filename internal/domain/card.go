package domain

import "time"

// Card is a physical NFC card issued to a VIP member. Tier is the tier
// stamped onto the card metadata at issue or last sync; it can lag the
// membership tier until the next sync.
type Card struct {
	ID       uint      `json:"id"`
	UID      string    `json:"uid"`
	UserID   uint      `json:"user_id"`
	Tier     string    `json:"tier"`
	Active   bool      `json:"active"`
	IssuedAt time.Time `json:"issued_at"`
	SyncedAt time.Time `json:"synced_at"`
}
