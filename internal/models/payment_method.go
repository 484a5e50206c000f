package models

import "time"

// PaymentMethod mirrors a provider-side payment method attached to the
// owner's provider customer. A user stores each provider method at most
// once; shared test method ids may appear under several users.
type PaymentMethod struct {
	ID                uint   `gorm:"primarykey"`
	UserID            uint   `gorm:"not null;uniqueIndex:idx_user_method"`
	ProviderMethodRef string `gorm:"not null;uniqueIndex:idx_user_method"`
	Type              string `gorm:"not null;default:'card'"`
	CardBrand         string
	CardLast4         string
	CardExpMonth      int64
	CardExpYear       int64
	IsDefault         bool `gorm:"default:false"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
