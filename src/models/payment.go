package models

import (
	"abs/src/types"
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID        uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	BookingID uint      `json:"booking_id,omitempty"`

	Amount   float64             `json:"amount"`
	Currency string              `json:"currency,omitempty"`
	Status   types.PaymentStatus `gorm:"default:'pending'" json:"status,omitempty"`

	// ReferenceID is the request id carried in the processor's metadata;
	// every webhook category locates the Payment through it.
	ReferenceID string  `gorm:"uniqueIndex" json:"reference_id,omitempty"`
	SessionID   *string `json:"session_id,omitempty"`
	IntentID    *string `json:"intent_id,omitempty"`
	RefundID    *string `json:"refund_id,omitempty"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`

	Metadata *types.JSONB `gorm:"type:jsonb" json:"metadata,omitempty"`

	Booking Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}
