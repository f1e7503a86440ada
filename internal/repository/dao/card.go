package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrCardUIDExists = errors.New("card uid already registered")
	ErrCardNotFound  = errors.New("card not found")
)

type Card struct {
	ID uint `gorm:"primaryKey"`

	UID    string `gorm:"uniqueIndex;not null"`
	UserID uint   `gorm:"index;not null"`
	Tier   string `gorm:"not null"`
	Active bool   `gorm:"not null;default:true"`

	IssuedAt time.Time `gorm:"not null"`
	SyncedAt time.Time `gorm:"not null"`
}

func (Card) TableName() string {
	return "nfc_cards"
}

type CardDAO struct {
	db *gorm.DB
}

func NewCardDAO(db *gorm.DB) *CardDAO {
	return &CardDAO{
		db: db,
	}
}

func (d *CardDAO) Insert(ctx context.Context, card Card) (Card, error) {
	result := d.db.WithContext(ctx).Create(&card)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "uid") {
			return Card{}, ErrCardUIDExists
		}

		return Card{}, result.Error
	}

	return card, nil
}

func (d *CardDAO) FindActiveByUserID(ctx context.Context, userID uint) ([]Card, error) {
	var cards []Card

	result := d.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("issued_at ASC").
		Find(&cards)
	if result.Error != nil {
		return nil, result.Error
	}

	return cards, nil
}

// StampTier updates the tier metadata on every active card of the user.
// Returns the number of cards touched; zero is not an error, a member may
// hold no physical card.
func (d *CardDAO) StampTier(ctx context.Context, userID uint, tier string) (int64, error) {
	result := d.db.WithContext(ctx).
		Model(&Card{}).
		Where("user_id = ? AND active = ?", userID, true).
		Updates(map[string]interface{}{
			"tier":      tier,
			"synced_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (d *CardDAO) Deactivate(ctx context.Context, uid string) error {
	result := d.db.WithContext(ctx).
		Model(&Card{}).
		Where("uid = ?", uid).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}

	return nil
}
