package models

import (
	"abs/src/types"

	"github.com/google/uuid"
)

type Notification struct {
	ID      uuid.UUID    `gorm:"primarykey;type:uuid" json:"id"`
	UserID  uint         `json:"user_id,omitempty"`
	Subject string       `json:"subject"`
	Message string       `json:"message"`
	Meta    *types.JSONB `gorm:"type:jsonb" json:"meta,omitempty"`

	types.Timestamps
}
