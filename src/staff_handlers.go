package main

import (
	"abs/src/common"
	"abs/src/db"
	"abs/src/models"
	"abs/src/types"
	"abs/src/utils"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func staffHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		PUT("/bookings/:id/action", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.StaffActionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			role := ctx.GetString("role")
			if !utils.IsStaff(role) {
				utils.AbortWithDomainError(ctx, &types.AuthorizationError{Action: body.Action + " bookings"})
				return
			}
			staffId := ctx.GetUint("id")
			dbi := db.GetDb()
			var booking models.Booking
			err := dbi.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Booking{}).
					Where("id = ?", params.ID).
					First(&booking).
					Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return &types.NotFoundError{Resource: "booking", ID: params.ID}
					}
					return err
				}
				action := common.Action(body.Action)
				if action == common.ActionApprove && booking.IsCorporate && booking.QuoteRequested {
					return &types.ConflictError{Reason: "booking awaits quote approval; use the quote approval endpoint"}
				}
				_, err := common.Transition(tx, &booking, common.TransitionInput{
					Action:  action,
					Actor:   common.ActorStaff,
					ActorID: &staffId,
					Reason:  body.Reason,
				})
				return err
			})
			if err != nil {
				utils.AbortWithDomainError(ctx, err)
				return
			}
			subject := fmt.Sprintf("Booking %s %s", booking.Number, booking.Status)
			go common.NotifyBookingStatus(dbi, &booking, subject, fmt.Sprintf("Your booking %s is now %s.", booking.Number, booking.Status))
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/quote/approve", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.ApproveQuoteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			role := ctx.GetString("role")
			if !utils.IsStaff(role) {
				utils.AbortWithDomainError(ctx, &types.AuthorizationError{Action: "approve quotes"})
				return
			}
			staffId := ctx.GetUint("id")
			dbi := db.GetDb()
			booking, err := common.ApproveQuote(dbi, params.ID, body.NetTerms, staffId)
			if err != nil {
				utils.AbortWithDomainError(ctx, err)
				return
			}
			subject := fmt.Sprintf("Quote approved for booking %s", booking.Number)
			go common.NotifyBookingStatus(dbi, booking, subject, "Your quote has been approved and the booking is confirmed.")
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		})
	return g
}
