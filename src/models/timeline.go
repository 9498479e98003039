package models

import (
	"abs/src/types"
	"time"

	"github.com/google/uuid"
)

// TimelineEntry rows are never updated after insertion.
type TimelineEntry struct {
	ID        uuid.UUID               `gorm:"primarykey;type:uuid" json:"id"`
	BookingID uint                    `json:"booking_id,omitempty"`
	Type      types.TimelineEntryType `json:"type,omitempty"`
	Actor     string                  `json:"actor,omitempty"`
	ActorID   *uint                   `json:"actor_id,omitempty"`
	Message   string                  `json:"message,omitempty"`
	Metadata  *types.JSONB            `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time               `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`

	Booking Booking `json:"-"`
}
