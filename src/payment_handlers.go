package main

import (
	"abs/src/common"
	"abs/src/db"
	"abs/src/lib"
	"abs/src/models"
	"abs/src/types"
	"abs/src/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings/:id/payments", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			dbi := db.GetDb()
			var booking models.Booking
			if err := dbi.
				Model(&models.Booking{}).
				Where("id = ?", params.ID).
				First(&booking).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.AbortWithDomainError(ctx, &types.NotFoundError{Resource: "booking", ID: params.ID})
					return
				}
				utils.AbortWithDomainError(ctx, err)
				return
			}
			if booking.UserID != userId && !utils.IsStaff(ctx.GetString("role")) {
				utils.AbortWithDomainError(ctx, &types.AuthorizationError{Action: "pay for another customer's booking"})
				return
			}
			if booking.QuoteRequested {
				utils.AbortWithDomainError(ctx, &types.ConflictError{Reason: "booking awaits quote approval before payment"})
				return
			}

			amount := body.Amount
			if amount == 0 {
				total, err := common.CompletedTotal(dbi, booking.ID)
				if err != nil {
					utils.AbortWithDomainError(ctx, err)
					return
				}
				amount = booking.FinalPrice - total
			}
			if amount <= 0 {
				utils.AbortWithDomainError(ctx, &types.ConflictError{Reason: "booking has no outstanding balance"})
				return
			}

			requestId := uuid.NewString()
			session, err := lib.CreateBookingCheckoutSession(requestId, amount, booking.Currency, booking.Number)
			if err != nil {
				log.Printf("error on checkout: %s\n", err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach payment processor"})
				return
			}
			payment := models.Payment{
				ID:          uuid.New(),
				BookingID:   booking.ID,
				Amount:      amount,
				Currency:    booking.Currency,
				Status:      types.PAYMENT_PENDING,
				ReferenceID: requestId,
				SessionID:   &session.ID,
			}
			if err := dbi.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&payment).Error
			}); err != nil {
				utils.AbortWithDomainError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"data":         payment,
				"checkout_url": session.URL,
			})
		}).
		GET("/bookings/:id/payments", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			dbi := db.GetDb()
			var payments []models.Payment
			if err := dbi.
				Model(&models.Payment{}).
				Where("booking_id = ?", params.ID).
				Order("created_at asc").
				Find(&payments).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			total, err := common.CompletedTotal(dbi, params.ID)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payments, "count": len(payments), "total_paid": total})
		})
	return g
}
