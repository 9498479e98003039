package common

import (
	"abs/src/models"
	"abs/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppendTimeline inserts one audit entry. Entries are append-only; nothing
// in this codebase updates or deletes them.
func AppendTimeline(tx *gorm.DB, bookingID uint, entryType types.TimelineEntryType, actor string, actorID *uint, message string, metadata *types.JSONB) error {
	entry := models.TimelineEntry{
		ID:        uuid.New(),
		BookingID: bookingID,
		Type:      entryType,
		Actor:     actor,
		ActorID:   actorID,
		Message:   message,
		Metadata:  metadata,
	}
	return tx.Create(&entry).Error
}
