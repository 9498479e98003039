package boot

import (
	"abs/src/common"
	"abs/src/db"
	"abs/src/lib"
	"abs/src/models"
	"log"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Product{},
		&models.AddOn{},
		&models.CorporatePackage{},
		&models.CreditEntry{},
		&models.BookingGroup{},
		&models.Booking{},
		&models.BookingAddOn{},
		&models.Payment{},
		&models.TimelineEntry{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler wires the only non-manual, non-settlement status mover:
// confirmed bookings start automatically once their scheduled time passes.
func InitScheduler() {
	jobId, err := lib.CreateCronJob(func() {
		common.PromoteInProgressBookings(db.GetDb())
	}, time.Minute)
	if err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *jobId)
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched.Start()
}

func StopScheduler() {
	lib.StopScheduler()
}
