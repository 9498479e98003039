package main

import (
	"abs/src/common"
	"abs/src/db"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"github.com/tidwall/gjson"
)

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		requestId := gjson.GetBytes(event.Data.Raw, "metadata.requestId").String()
		dbi := db.GetDb()
		switch event.Type {
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			log.Printf("[CheckoutSession] ID: %s %s\n", cs.ID, cs.Status)
			if requestId == "" {
				log.Printf("[%s] No requestId in metadata. Skipping\n", cs.ID)
				break
			}
			result, err := common.HandleCheckoutCompleted(dbi, requestId, cs.ID)
			if err != nil {
				log.Printf("Error processing checkout session [%s]: %s\n", cs.ID, err.Error())
				break
			}
			notifySettlement(result)
		case "payment_intent.succeeded":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			log.Printf("[PaymentIntent] ID: %s %s\n", pi.ID, pi.Status)
			if requestId == "" {
				log.Printf("[%s] No requestId in metadata. Skipping\n", pi.ID)
				break
			}
			result, err := common.HandlePaymentSucceeded(dbi, requestId, pi.ID)
			if err != nil {
				log.Printf("Error processing payment intent [%s]: %s\n", pi.ID, err.Error())
				break
			}
			notifySettlement(result)
		case "charge.refunded":
			var ch stripe.Charge
			if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
				log.Printf("[Stripe] Error parsing Charge: %s\n", err.Error())
				break
			}
			if requestId == "" {
				log.Printf("[%s] No requestId in metadata. Skipping\n", ch.ID)
				break
			}
			refundId := ch.ID
			if ch.Refunds != nil && len(ch.Refunds.Data) > 0 {
				refundId = ch.Refunds.Data[0].ID
			}
			if _, err := common.HandleChargeRefunded(dbi, requestId, refundId); err != nil {
				log.Printf("Error processing refund for charge [%s]: %s\n", ch.ID, err.Error())
			}
		default:
			// Forward-compatible no-op for event categories we do not consume.
			log.Printf("[StripeEvent] Ignoring %s\n", event.Type)
		}
		ctx.Status(http.StatusNoContent)
	})
	return apiv1
}

func notifySettlement(result *common.SettlementResult) {
	if result == nil || result.Skipped {
		return
	}
	dbi := db.GetDb()
	booking := result.Booking
	if result.Confirmed {
		subject := fmt.Sprintf("Booking %s confirmed", booking.Number)
		go common.NotifyBookingStatus(dbi, &booking, subject, "Your payment covered the full amount and your booking is confirmed.")
		return
	}
	if result.Remaining > 0 {
		subject := fmt.Sprintf("Deposit received for booking %s", booking.Number)
		go common.NotifyBookingStatus(dbi, &booking, subject, fmt.Sprintf("We received your payment. %.2f %s remains outstanding.", result.Remaining, booking.Currency))
	}
}
