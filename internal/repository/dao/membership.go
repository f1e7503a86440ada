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
	ErrMembershipExists   = errors.New("membership already exists")
	ErrMembershipNotFound = errors.New("membership not found")
)

type Membership struct {
	ID uint `gorm:"primaryKey"`

	UserID         uint   `gorm:"uniqueIndex;not null"`
	PointsBalance  int64  `gorm:"not null;default:0"`
	LifetimePoints int64  `gorm:"not null;default:0"`
	Tier           string `gorm:"not null"`
	Status         string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Membership) TableName() string {
	return "vip_memberships"
}

type MembershipDAO struct {
	db *gorm.DB
}

func NewMembershipDAO(db *gorm.DB) *MembershipDAO {
	return &MembershipDAO{
		db: db,
	}
}

func (d *MembershipDAO) Insert(ctx context.Context, membership Membership) (Membership, error) {
	result := d.db.WithContext(ctx).Create(&membership)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "user_id") {
			return Membership{}, ErrMembershipExists
		}

		return Membership{}, result.Error
	}

	return membership, nil
}

func (d *MembershipDAO) FindByUserID(ctx context.Context, userID uint) (Membership, error) {
	var membership Membership

	result := d.db.WithContext(ctx).Where("user_id = ?", userID).First(&membership)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Membership{}, ErrMembershipNotFound
		}

		return Membership{}, result.Error
	}

	return membership, nil
}

// ApplyBalanceDelta adds both deltas in a single UPDATE so concurrent
// callers for the same user cannot lose an increment. This is the only
// write path for points_balance and lifetime_points.
func (d *MembershipDAO) ApplyBalanceDelta(ctx context.Context, userID uint, deltaBalance, deltaLifetime int64) (Membership, error) {
	result := d.db.WithContext(ctx).
		Model(&Membership{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"points_balance":  gorm.Expr("points_balance + ?", deltaBalance),
			"lifetime_points": gorm.Expr("lifetime_points + ?", deltaLifetime),
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return Membership{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Membership{}, ErrMembershipNotFound
	}

	return d.FindByUserID(ctx, userID)
}

func (d *MembershipDAO) UpdateTier(ctx context.Context, userID uint, tier string) error {
	result := d.db.WithContext(ctx).
		Model(&Membership{}).
		Where("user_id = ?", userID).
		Update("tier", tier)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

func (d *MembershipDAO) UpdateStatus(ctx context.Context, userID uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Membership{}).
		Where("user_id = ?", userID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

// SetBalances overwrites both balance fields. Reserved for ledger
// reconciliation, which is the one flow allowed to bypass the delta path.
func (d *MembershipDAO) SetBalances(ctx context.Context, userID uint, balance, lifetime int64, tier string) error {
	result := d.db.WithContext(ctx).
		Model(&Membership{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"points_balance":  balance,
			"lifetime_points": lifetime,
			"tier":            tier,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}

	return nil
}
