package common

import (
	"abs/src/models"
	"abs/src/types"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
	ActionNoShow   Action = "no_show"
	ActionInvoice  Action = "invoice"
	ActionStart    Action = "start"
)

// ActorSystem marks transitions driven by the settlement reconciler or the
// scheduler rather than a staff member.
const (
	ActorStaff      = "staff"
	ActorSettlement = "settlement"
	ActorScheduler  = "scheduler"
)

// transitionTable is the single source of truth for legal status moves.
// COMPLETED, CANCELED and NO_SHOW are terminal: they have no row.
var transitionTable = map[types.BookingStatus]map[Action]types.BookingStatus{
	types.BOOKING_DRAFT: {
		ActionConfirm: types.BOOKING_CONFIRMED,
		ActionCancel:  types.BOOKING_CANCELED,
	},
	types.BOOKING_PENDING: {
		ActionApprove: types.BOOKING_CONFIRMED,
		ActionReject:  types.BOOKING_CANCELED,
	},
	types.BOOKING_CONFIRMED: {
		ActionComplete: types.BOOKING_COMPLETED,
		ActionNoShow:   types.BOOKING_NO_SHOW,
		ActionCancel:   types.BOOKING_CANCELED,
		ActionInvoice:  types.BOOKING_INVOICED,
		ActionStart:    types.BOOKING_IN_PROGRESS,
	},
	types.BOOKING_IN_PROGRESS: {
		ActionComplete: types.BOOKING_COMPLETED,
	},
	types.BOOKING_INVOICED: {
		ActionComplete: types.BOOKING_COMPLETED,
	},
}

func NextStatus(from types.BookingStatus, action Action) (types.BookingStatus, bool) {
	actions, ok := transitionTable[from]
	if !ok {
		return "", false
	}
	next, ok := actions[action]
	return next, ok
}

func IsTerminal(status types.BookingStatus) bool {
	_, ok := transitionTable[status]
	return !ok
}

type TransitionInput struct {
	Action  Action
	Actor   string
	ActorID *uint
	Reason  string
}

// Transition moves a booking to the next status with a guarded update: the
// UPDATE only applies while the row still holds the status we read. Zero rows affected means another actor won the race and the caller's
// transaction aborts with a ConflictError. All post-transition effects
// (credit deduction, stamps, timeline) run inside the same tx.
func Transition(tx *gorm.DB, booking *models.Booking, in TransitionInput) (types.BookingStatus, error) {
	from := types.BookingStatus(booking.Status)
	next, ok := NextStatus(from, in.Action)
	if !ok {
		return "", &types.ConflictError{Reason: fmt.Sprintf("cannot %s a booking in status %q", in.Action, booking.Status)}
	}
	if next == types.BOOKING_INVOICED && !booking.IsCorporate {
		return "", &types.ConflictError{Reason: "only corporate bookings can be invoiced"}
	}

	updates := map[string]any{"status": string(next)}
	switch next {
	case types.BOOKING_COMPLETED:
		updates["completed_at"] = time.Now()
	case types.BOOKING_INVOICED:
		updates["invoice_number"] = NewInvoiceNumber()
	}

	res := tx.
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, string(from)).
		Updates(updates)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", &types.ConflictError{Reason: "booking status changed concurrently"}
	}

	if next == types.BOOKING_CONFIRMED && booking.PackageID != nil {
		if err := DeductPackageCredit(tx, *booking.PackageID, booking.ID, in.Actor); err != nil {
			return "", err
		}
	}

	message := in.Reason
	if message == "" {
		message = fmt.Sprintf("status changed from %s to %s", from, next)
	}
	if err := AppendTimeline(tx, booking.ID, types.TIMELINE_STATUS_CHANGE, in.Actor, in.ActorID, message, &types.JSONB{
		"from":   string(from),
		"to":     string(next),
		"action": string(in.Action),
	}); err != nil {
		return "", err
	}
	booking.Status = string(next)
	return next, nil
}

// ApproveQuote is the corporate specialization of approval: one transaction
// flips the status, clears the quote flag, stamps terms and approver, and
// deducts a package credit. A failure in any step leaves nothing applied.
func ApproveQuote(dbi *gorm.DB, bookingID uint, netTerms *int, staffID uint) (*models.Booking, error) {
	if netTerms != nil && *netTerms < 0 {
		return nil, &types.ValidationError{Field: "net_terms", Reason: "must be zero or greater"}
	}
	var booking models.Booking
	err := dbi.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", bookingID).
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &types.NotFoundError{Resource: "booking", ID: bookingID}
			}
			return err
		}
		if !booking.IsCorporate || !booking.QuoteRequested {
			return &types.ConflictError{Reason: "booking has no pending quote"}
		}
		if types.BookingStatus(booking.Status) != types.BOOKING_PENDING {
			return &types.ConflictError{Reason: fmt.Sprintf("cannot approve quote for a booking in status %q", booking.Status)}
		}

		now := time.Now()
		updates := map[string]any{
			"status":            string(types.BOOKING_CONFIRMED),
			"quote_requested":   false,
			"quote_approved_at": now,
			"quote_approved_by": staffID,
		}
		if netTerms != nil {
			updates["net_terms"] = *netTerms
		}
		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, string(types.BOOKING_PENDING)).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &types.ConflictError{Reason: "booking status changed concurrently"}
		}

		if booking.PackageID != nil {
			if err := DeductPackageCredit(tx, *booking.PackageID, booking.ID, ActorStaff); err != nil {
				return err
			}
		}

		if err := AppendTimeline(tx, booking.ID, types.TIMELINE_QUOTE_APPROVED, ActorStaff, &staffID, "quote approved", &types.JSONB{
			"netTerms": netTerms,
		}); err != nil {
			return err
		}
		booking.Status = string(types.BOOKING_CONFIRMED)
		booking.QuoteRequested = false
		booking.QuoteApprovedAt = &now
		booking.QuoteApprovedBy = &staffID
		booking.NetTerms = netTerms
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// PromoteInProgressBookings is the scheduler entry point: confirmed bookings
// whose scheduled time has passed move to IN_PROGRESS. This is the only way
// a booking reaches that status.
func PromoteInProgressBookings(dbi *gorm.DB) {
	var due []models.Booking
	if err := dbi.
		Model(&models.Booking{}).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", string(types.BOOKING_CONFIRMED), time.Now()).
		Limit(100).
		Find(&due).
		Error; err != nil {
		log.Printf("Error retrieving due bookings: %s\n", err.Error())
		return
	}
	for i := range due {
		booking := due[i]
		err := dbi.Transaction(func(tx *gorm.DB) error {
			_, err := Transition(tx, &booking, TransitionInput{
				Action: ActionStart,
				Actor:  ActorScheduler,
				Reason: "scheduled start time reached",
			})
			return err
		})
		if err != nil {
			var conflict *types.ConflictError
			if errors.As(err, &conflict) {
				continue
			}
			log.Printf("Error promoting Booking [%d]: %s\n", booking.ID, err.Error())
		}
	}
}

func NewInvoiceNumber() string {
	return fmt.Sprintf("INV-%s", strings.ToUpper(uuid.NewString()[:8]))
}
