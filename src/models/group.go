package models

import (
	"abs/src/types"

	"github.com/google/uuid"
)

// BookingGroup labels a bulk-created cohort; no behavior beyond grouping.
type BookingGroup struct {
	ID    uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	Label string    `json:"label,omitempty"`

	Bookings []Booking `gorm:"foreignKey:booking_group_id" json:"bookings,omitempty"`

	types.Timestamps
}
