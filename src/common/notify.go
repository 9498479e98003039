package common

import (
	"abs/src/lib"
	"abs/src/models"
	"abs/src/types"
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotifyUser records a notification and pushes it out by mail. Fire and
// forget: delivery failure never rolls back the transition that caused it,
// so this must be called after the owning transaction has committed.
func NotifyUser(dbi *gorm.DB, userID uint, subject string, message string, meta types.JSONB) {
	notification := models.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Subject: subject,
		Message: message,
		Meta:    &meta,
	}
	if err := dbi.Create(&notification).Error; err != nil {
		log.Printf("Error saving notification for user [%d]: %s\n", userID, err.Error())
		return
	}

	var user models.User
	if err := dbi.
		Model(&models.User{}).
		Where("id = ?", userID).
		First(&user).
		Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error retrieving user [%d] for notification: %s\n", userID, err.Error())
		}
		return
	}
	go func() {
		err := lib.SendMail(&lib.SendMailInput{
			From:     os.Getenv("MAIL_FROM"),
			FromName: os.Getenv("MAIL_FROM_NAME"),
			To:       []string{user.Email},
			Subject:  subject,
			Body:     message,
		})
		if err != nil {
			log.Printf("Error delivering notification [%s]: %s\n", notification.ID.String(), err.Error())
		}
	}()
}

// NotifyBookingStatus is the standard post-transition notification.
func NotifyBookingStatus(dbi *gorm.DB, booking *models.Booking, subject string, message string) {
	NotifyUser(dbi, booking.UserID, subject, message, types.JSONB{
		"reservationId": booking.ID,
		"number":        booking.Number,
		"status":        booking.Status,
	})
}
