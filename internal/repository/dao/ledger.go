package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerEntry rows are append-only: the DAO exposes no update or delete.
type LedgerEntry struct {
	ID uint `gorm:"primaryKey"`

	UserID          uint   `gorm:"index;not null"`
	DeltaPoints     int64  `gorm:"not null"`
	Reason          string `gorm:"not null"`
	Source          string `gorm:"not null"`
	RelatedEntityID *uuid.UUID

	CreatedAt time.Time `gorm:"not null;index"`
}

func (LedgerEntry) TableName() string {
	return "points_ledger"
}

type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

func (d *LedgerDAO) Insert(ctx context.Context, entry LedgerEntry) (LedgerEntry, error) {
	result := d.db.WithContext(ctx).Create(&entry)
	if result.Error != nil {
		return LedgerEntry{}, result.Error
	}

	return entry, nil
}

func (d *LedgerDAO) FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]LedgerEntry, error) {
	var entries []LedgerEntry

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

// ReplayTotals recomputes what the membership row should hold from the
// ledger alone: balance is the sum of every delta, lifetime is the sum of
// positive deltas only (deductions never reduce lifetime points).
func (d *LedgerDAO) ReplayTotals(ctx context.Context, userID uint) (balance int64, lifetime int64, err error) {
	row := d.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Select(
			"COALESCE(SUM(delta_points), 0)",
			"COALESCE(SUM(CASE WHEN delta_points > 0 THEN delta_points ELSE 0 END), 0)",
		).
		Where("user_id = ?", userID).
		Row()

	if err = row.Scan(&balance, &lifetime); err != nil {
		return 0, 0, err
	}

	return balance, lifetime, nil
}

func (d *LedgerDAO) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Where("user_id = ?", userID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
