package main

import (
	"abs/src/common"
	"abs/src/db"
	"abs/src/models"
	"abs/src/types"
	"abs/src/utils"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var user models.User
			if err := db.
				Model(&models.User{}).
				Where(&models.User{ID: userId}).
				First(&user).
				Error; err != nil {
				ctx.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			bookings, groupId, err := common.CreateBookingSet(db, &user, &body)
			if err != nil {
				utils.AbortWithDomainError(ctx, err)
				return
			}
			for i := range bookings {
				booking := bookings[i]
				subject := fmt.Sprintf("Booking %s received", booking.Number)
				go common.NotifyBookingStatus(db, &booking, subject, "We received your booking request. Our staff will review it shortly.")
			}
			response := gin.H{"data": bookings, "count": len(bookings)}
			if groupId != nil {
				response["group_id"] = groupId.String()
			}
			ctx.JSON(http.StatusCreated, response)
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			db := db.GetDb()
			var bookings []models.Booking
			q := db.Model(&models.Booking{}).Limit(100).Order("created_at desc")
			if utils.IsStaff(role) {
				if status := ctx.Query("status"); status != "" {
					q = q.Where("status = ?", status)
				}
			} else {
				q = q.Where(&models.Booking{UserID: userId})
			}
			if err := q.Find(&bookings).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID}).
				Preload("Product").
				Preload("AddOns").
				Preload("Payments").
				Preload("ChildBookings").
				First(&booking).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if !utils.IsStaff(ctx.GetString("role")) && booking.UserID != ctx.GetUint("id") {
				ctx.Status(http.StatusForbidden)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		GET("/bookings/:id/timeline", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var entries []models.TimelineEntry
			err := db.
				Model(&models.TimelineEntry{}).
				Where("booking_id = ?", params.ID).
				Order("created_at asc").
				Find(&entries).
				Error
			if err != nil {
				log.Print(err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": entries, "count": len(entries)})
		})
	return g
}
