package models

import (
	"time"
)

// Wallet holds a user's balance in minor units (cents) together with the
// payment provider customer reference created alongside it.
// Exactly one wallet exists per user.
type Wallet struct {
	ID                 uint   `gorm:"primarykey"`
	UserID             uint   `gorm:"uniqueIndex;not null"`
	Balance            int64  `gorm:"not null;default:0"`
	Currency           string `gorm:"not null;default:'USD'"`
	ProviderCustomerID string `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
