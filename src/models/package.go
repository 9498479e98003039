package models

import (
	"abs/src/types"
	"time"
)

type CorporatePackage struct {
	ID    uint  `gorm:"primarykey" json:"id"`
	OrgID uint  `json:"org_id,omitempty"`

	TotalCredits             uint    `json:"total_credits"`
	UsedCredits              uint    `gorm:"default:0" json:"used_credits"`
	PermanentDiscountPercent float64 `json:"permanent_discount_percent"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`

	Organization Organization `gorm:"foreignKey:org_id" json:"-"`

	types.Timestamps
}

// CreditEntry is the append-only record of a single credit deduction.
// One row per confirmed booking; also the idempotency anchor for retries.
type CreditEntry struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	PackageID uint   `json:"package_id,omitempty"`
	BookingID uint   `gorm:"uniqueIndex" json:"booking_id,omitempty"`
	Delta     int    `json:"delta,omitempty"`
	Reason    string `json:"reason,omitempty"`

	Package CorporatePackage `json:"-"`

	types.Timestamps
}
