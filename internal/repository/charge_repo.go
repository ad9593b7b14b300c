package repository

import (
	"giveflow/internal/models"

	"gorm.io/gorm"
)

type ChargeRepository struct {
	db *gorm.DB
}

func NewChargeRepository(db *gorm.DB) *ChargeRepository {
	return &ChargeRepository{db: db}
}

func (r *ChargeRepository) Create(c *models.Charge) error {
	return r.db.Create(c).Error
}

func (r *ChargeRepository) GetByIdempotencyKey(key string) (*models.Charge, error) {
	var c models.Charge
	err := r.db.Where("idempotency_key = ?", key).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChargeRepository) GetByProviderRef(ref string) (*models.Charge, error) {
	var c models.Charge
	err := r.db.Where("provider_ref = ?", ref).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChargeRepository) Update(c *models.Charge) error {
	return r.db.Save(c).Error
}
