package models

import "gorm.io/gorm"

// KYC statuses
const (
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

type KYCVerification struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex;not null"`
	Status string `gorm:"default:'pending'"`
}
