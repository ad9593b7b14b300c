package repository

import (
	"giveflow/internal/domain"
	"giveflow/internal/models"

	"gorm.io/gorm"
)

type IntentRepository struct {
	db *gorm.DB
}

func NewIntentRepository(db *gorm.DB) *IntentRepository {
	return &IntentRepository{db: db}
}

func (r *IntentRepository) Create(i *models.PaymentIntent) error {
	return r.db.Create(i).Error
}

func (r *IntentRepository) GetByReference(ref string) (*models.PaymentIntent, error) {
	var i models.PaymentIntent
	err := r.db.Where("reference = ?", ref).First(&i).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *IntentRepository) Update(i *models.PaymentIntent) error {
	return r.db.Save(i).Error
}

// Supersede marks a prior intent dead when the total changed and a new
// secret was minted for it.
func (r *IntentRepository) Supersede(ref string) error {
	return r.db.Model(&models.PaymentIntent{}).
		Where("reference = ? AND status = ?", ref, domain.IntentStatusActive).
		Update("status", domain.IntentStatusSuperseded).Error
}
