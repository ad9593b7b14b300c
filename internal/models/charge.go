package models

import (
	"time"

	"gorm.io/gorm"
)

// Charge is one settled (or attempted) donation charge. IdempotencyKey is
// the deduplication key: the unique index makes a replayed submission read
// back the original row instead of charging twice.
type Charge struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	AmountCents    int64          `gorm:"not null" json:"amount_cents"`
	Currency       string         `gorm:"size:3;default:'USD'" json:"currency"`
	Fund           string         `gorm:"size:50;not null;index" json:"fund"`
	DonorName      string         `gorm:"size:255" json:"donor_name,omitempty"`
	DonorEmail     string         `gorm:"size:255" json:"donor_email,omitempty"`
	Note           string         `gorm:"type:text" json:"-"`
	Token          string         `gorm:"size:255;not null" json:"-"`
	IdempotencyKey string         `gorm:"size:255;not null;uniqueIndex" json:"-"`
	Status         string         `gorm:"size:20;not null;index" json:"status"`
	ProviderRef    string         `gorm:"size:255;index" json:"provider_ref"`
	ReceiptURL     string         `gorm:"size:512" json:"receipt_url,omitempty"`
	FailureReason  string         `gorm:"size:512" json:"-"`
	CompletedAt    *time.Time     `json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Charge) TableName() string {
	return "charges"
}

// PaymentIntent is the server-side payment context for providers that bind
// the amount up front. One row per issued client secret; a changed total
// supersedes the row and mints a new one.
type PaymentIntent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Reference   string    `gorm:"size:64;not null;uniqueIndex" json:"reference"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Fund        string    `gorm:"size:50;not null" json:"fund"`
	DonorName   string    `gorm:"size:255" json:"-"`
	DonorEmail  string    `gorm:"size:255" json:"-"`
	Dedication  string    `gorm:"type:text" json:"-"`
	Status      string    `gorm:"size:20;not null;index" json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (PaymentIntent) TableName() string {
	return "payment_intents"
}
