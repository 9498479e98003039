package models

import "abs/src/types"

type User struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `gorm:"uniqueIndex" json:"email,omitempty"`
	Role  string `gorm:"default:'customer'" json:"role,omitempty"`
	OrgID *uint  `json:"org_id,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
