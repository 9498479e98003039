package common

import (
	"abs/src/models"
	"abs/src/types"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettlementResult tells the webhook handler what happened so notifications
// can go out after the transaction commits, never inside it.
type SettlementResult struct {
	Payment   models.Payment
	Booking   models.Booking
	Skipped   bool
	Confirmed bool
	Remaining float64
	Overpaid  float64
}

// CompletedTotal recomputes the cumulative paid amount from all COMPLETED
// payments. Events arrive out of order, so the running total is always
// derived from the rows, never from event sequence.
func CompletedTotal(tx *gorm.DB, bookingID uint) (float64, error) {
	var total float64
	err := tx.
		Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, string(types.PAYMENT_COMPLETED)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).
		Error
	return total, err
}

// HandleCheckoutCompleted marks the payment behind a finished checkout
// session as COMPLETED and confirms the booking when the total covers the
// final price.
func HandleCheckoutCompleted(dbi *gorm.DB, requestID string, sessionID string) (*SettlementResult, error) {
	return settlePayment(dbi, requestID, func(updates map[string]any) {
		updates["session_id"] = sessionID
	})
}

// HandlePaymentSucceeded is the payment-intent variant. The processor may
// deliver it more than once per intent; the status check makes the replay a
// no-op.
func HandlePaymentSucceeded(dbi *gorm.DB, requestID string, intentID string) (*SettlementResult, error) {
	return settlePayment(dbi, requestID, func(updates map[string]any) {
		updates["intent_id"] = intentID
	})
}

func settlePayment(dbi *gorm.DB, requestID string, stampRef func(map[string]any)) (*SettlementResult, error) {
	var result SettlementResult
	err := dbi.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Model(&models.Payment{}).
			Where("reference_id = ?", requestID).
			First(&payment).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &types.NotFoundError{Resource: "payment", ID: requestID}
			}
			return err
		}
		result.Payment = payment
		if payment.Status != types.PAYMENT_PENDING {
			log.Printf("Payment [%s] already %s. Skipping\n", requestID, payment.Status)
			result.Skipped = true
			return nil
		}

		now := time.Now()
		updates := map[string]any{
			"status":       string(types.PAYMENT_COMPLETED),
			"processed_at": now,
		}
		stampRef(updates)
		res := tx.
			Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, string(types.PAYMENT_PENDING)).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("Payment [%s] settled concurrently. Skipping\n", requestID)
			result.Skipped = true
			return nil
		}
		payment.Status = types.PAYMENT_COMPLETED
		payment.ProcessedAt = &now
		result.Payment = payment

		// The booking row lock serializes concurrent settlements for the same
		// booking, so the SUM below always sees every previously committed
		// payment.
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Model(&models.Booking{}).
			Where("id = ?", payment.BookingID).
			First(&booking).
			Error; err != nil {
			return err
		}
		total, err := CompletedTotal(tx, booking.ID)
		if err != nil {
			return err
		}

		if err := AppendTimeline(tx, booking.ID, types.TIMELINE_PAYMENT, ActorSettlement, nil, fmt.Sprintf("payment of %.2f %s received", payment.Amount, payment.Currency), &types.JSONB{
			"paymentId": payment.ID.String(),
			"total":     total,
		}); err != nil {
			return err
		}

		if total >= booking.FinalPrice {
			if types.BookingStatus(booking.Status) == types.BOOKING_PENDING {
				_, err := Transition(tx, &booking, TransitionInput{
					Action: ActionApprove,
					Actor:  ActorSettlement,
					Reason: fmt.Sprintf("paid in full (%.2f of %.2f)", total, booking.FinalPrice),
				})
				if err != nil {
					var conflict *types.ConflictError
					if errors.As(err, &conflict) {
						// Lost a race against a manual approval; the payment
						// mutation still stands.
						log.Printf("Booking [%d] confirmed concurrently: %s\n", booking.ID, conflict.Reason)
					} else {
						return err
					}
				} else {
					result.Confirmed = true
				}
			}
			if total > booking.FinalPrice {
				result.Overpaid = total - booking.FinalPrice
				if err := AppendTimeline(tx, booking.ID, types.TIMELINE_OVERPAYMENT, ActorSettlement, nil, fmt.Sprintf("payments exceed final price by %.2f", result.Overpaid), &types.JSONB{
					"total":      total,
					"finalPrice": booking.FinalPrice,
				}); err != nil {
					return err
				}
			}
		} else {
			result.Remaining = booking.FinalPrice - total
			if err := AppendTimeline(tx, booking.ID, types.TIMELINE_PARTIAL_PAYMENT, ActorSettlement, nil, fmt.Sprintf("deposit received, %.2f remaining", result.Remaining), &types.JSONB{
				"total":     total,
				"remaining": result.Remaining,
			}); err != nil {
				return err
			}
		}
		result.Booking = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HandleChargeRefunded marks the payment REFUNDED and records the refund
// reference. Reservation status is untouched: reverting it stays a staff
// decision.
func HandleChargeRefunded(dbi *gorm.DB, requestID string, refundID string) (*SettlementResult, error) {
	var result SettlementResult
	err := dbi.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Model(&models.Payment{}).
			Where("reference_id = ?", requestID).
			First(&payment).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &types.NotFoundError{Resource: "payment", ID: requestID}
			}
			return err
		}
		result.Payment = payment
		if payment.Status == types.PAYMENT_REFUNDED {
			log.Printf("Payment [%s] already refunded. Skipping\n", requestID)
			result.Skipped = true
			return nil
		}

		now := time.Now()
		res := tx.
			Model(&models.Payment{}).
			Where("id = ? AND status <> ?", payment.ID, string(types.PAYMENT_REFUNDED)).
			Updates(map[string]any{
				"status":      string(types.PAYMENT_REFUNDED),
				"refunded_at": now,
				"refund_id":   refundID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("Payment [%s] refunded concurrently. Skipping\n", requestID)
			result.Skipped = true
			return nil
		}
		payment.Status = types.PAYMENT_REFUNDED
		payment.RefundedAt = &now
		payment.RefundID = &refundID
		result.Payment = payment

		return AppendTimeline(tx, payment.BookingID, types.TIMELINE_REFUND, ActorSettlement, nil, fmt.Sprintf("payment of %.2f refunded", payment.Amount), &types.JSONB{
			"paymentId": payment.ID.String(),
			"refundId":  refundID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
