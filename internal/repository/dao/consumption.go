package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrConsumptionNotFound = errors.New("consumption not found")

type Consumption struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID   uint   `gorm:"index;not null"`
	Amount   int64  `gorm:"not null"`
	Currency string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

func (Consumption) TableName() string {
	return "consumptions"
}

type ConsumptionDAO struct {
	db *gorm.DB
}

func NewConsumptionDAO(db *gorm.DB) *ConsumptionDAO {
	return &ConsumptionDAO{
		db: db,
	}
}

func (d *ConsumptionDAO) Insert(ctx context.Context, consumption Consumption) (Consumption, error) {
	if consumption.ID == uuid.Nil {
		consumption.ID = uuid.New()
	}

	result := d.db.WithContext(ctx).Create(&consumption)
	if result.Error != nil {
		return Consumption{}, result.Error
	}

	return consumption, nil
}

func (d *ConsumptionDAO) FindByID(ctx context.Context, id uuid.UUID) (Consumption, error) {
	var consumption Consumption

	result := d.db.WithContext(ctx).Where("id = ?", id).First(&consumption)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Consumption{}, ErrConsumptionNotFound
		}

		return Consumption{}, result.Error
	}

	return consumption, nil
}

func (d *ConsumptionDAO) FindByUserID(ctx context.Context, userID uint, limit, offset int) ([]Consumption, error) {
	var consumptions []Consumption

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&consumptions)
	if result.Error != nil {
		return nil, result.Error
	}

	return consumptions, nil
}
