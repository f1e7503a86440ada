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
	ErrRuleExists   = errors.New("point rule already exists")
	ErrRuleNotFound = errors.New("point rule not found")
)

type PointRule struct {
	ID uint `gorm:"primaryKey"`

	ActionType    string `gorm:"uniqueIndex;not null"`
	PointsPerUnit int64  `gorm:"not null"`
	UnitSize      int64  `gorm:"not null"`
	Unit          string `gorm:"not null"`
	Active        bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (PointRule) TableName() string {
	return "point_rules"
}

type PointRuleDAO struct {
	db *gorm.DB
}

func NewPointRuleDAO(db *gorm.DB) *PointRuleDAO {
	return &PointRuleDAO{
		db: db,
	}
}

func (d *PointRuleDAO) Insert(ctx context.Context, rule PointRule) (PointRule, error) {
	result := d.db.WithContext(ctx).Create(&rule)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "action_type") {
			return PointRule{}, ErrRuleExists
		}

		return PointRule{}, result.Error
	}

	return rule, nil
}

func (d *PointRuleDAO) FindByActionType(ctx context.Context, actionType string) (PointRule, error) {
	var rule PointRule

	result := d.db.WithContext(ctx).Where("action_type = ?", actionType).First(&rule)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PointRule{}, ErrRuleNotFound
		}

		return PointRule{}, result.Error
	}

	return rule, nil
}

func (d *PointRuleDAO) Update(ctx context.Context, actionType string, pointsPerUnit, unitSize int64, unit string, active bool) (PointRule, error) {
	result := d.db.WithContext(ctx).
		Model(&PointRule{}).
		Where("action_type = ?", actionType).
		Updates(map[string]interface{}{
			"points_per_unit": pointsPerUnit,
			"unit_size":       unitSize,
			"unit":            unit,
			"active":          active,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return PointRule{}, result.Error
	}
	if result.RowsAffected == 0 {
		return PointRule{}, ErrRuleNotFound
	}

	return d.FindByActionType(ctx, actionType)
}

func (d *PointRuleDAO) List(ctx context.Context) ([]PointRule, error) {
	var rules []PointRule

	result := d.db.WithContext(ctx).Order("action_type ASC").Find(&rules)
	if result.Error != nil {
		return nil, result.Error
	}

	return rules, nil
}
