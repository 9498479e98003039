package common

import (
	"abs/src/models"
	"abs/src/types"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNextStatus(t *testing.T) {
	legal := []struct {
		from   types.BookingStatus
		action Action
		to     types.BookingStatus
	}{
		{types.BOOKING_DRAFT, ActionConfirm, types.BOOKING_CONFIRMED},
		{types.BOOKING_DRAFT, ActionCancel, types.BOOKING_CANCELED},
		{types.BOOKING_PENDING, ActionApprove, types.BOOKING_CONFIRMED},
		{types.BOOKING_PENDING, ActionReject, types.BOOKING_CANCELED},
		{types.BOOKING_CONFIRMED, ActionComplete, types.BOOKING_COMPLETED},
		{types.BOOKING_CONFIRMED, ActionNoShow, types.BOOKING_NO_SHOW},
		{types.BOOKING_CONFIRMED, ActionCancel, types.BOOKING_CANCELED},
		{types.BOOKING_CONFIRMED, ActionInvoice, types.BOOKING_INVOICED},
		{types.BOOKING_CONFIRMED, ActionStart, types.BOOKING_IN_PROGRESS},
		{types.BOOKING_IN_PROGRESS, ActionComplete, types.BOOKING_COMPLETED},
		{types.BOOKING_INVOICED, ActionComplete, types.BOOKING_COMPLETED},
	}
	for _, tc := range legal {
		next, ok := NextStatus(tc.from, tc.action)
		assert.Truef(t, ok, "%s + %s should be legal", tc.from, tc.action)
		assert.Equal(t, tc.to, next)
	}

	illegal := []struct {
		from   types.BookingStatus
		action Action
	}{
		{types.BOOKING_DRAFT, ActionApprove},
		{types.BOOKING_PENDING, ActionConfirm},
		{types.BOOKING_PENDING, ActionComplete},
		{types.BOOKING_IN_PROGRESS, ActionCancel},
		{types.BOOKING_COMPLETED, ActionCancel},
		{types.BOOKING_CANCELED, ActionApprove},
		{types.BOOKING_NO_SHOW, ActionComplete},
	}
	for _, tc := range illegal {
		_, ok := NextStatus(tc.from, tc.action)
		assert.Falsef(t, ok, "%s + %s should be illegal", tc.from, tc.action)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(types.BOOKING_COMPLETED))
	assert.True(t, IsTerminal(types.BOOKING_CANCELED))
	assert.True(t, IsTerminal(types.BOOKING_NO_SHOW))
	assert.False(t, IsTerminal(types.BOOKING_PENDING))
	assert.False(t, IsTerminal(types.BOOKING_CONFIRMED))
	assert.False(t, IsTerminal(types.BOOKING_INVOICED))
}

func TestTransition(t *testing.T) {
	t.Run("Should reject an illegal move without touching the database", func(t *testing.T) {
		gormDB, mock := newMockDB()
		booking := models.Booking{ID: 1, Status: string(types.BOOKING_COMPLETED)}

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := gormDB.Transaction(func(tx *gorm.DB) error {
			_, err := Transition(tx, &booking, TransitionInput{Action: ActionCancel, Actor: ActorStaff})
			return err
		})

		var conflict *types.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("Should refuse to invoice a retail booking", func(t *testing.T) {
		gormDB, mock := newMockDB()
		booking := models.Booking{ID: 1, Status: string(types.BOOKING_CONFIRMED), IsCorporate: false}

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := gormDB.Transaction(func(tx *gorm.DB) error {
			_, err := Transition(tx, &booking, TransitionInput{Action: ActionInvoice, Actor: ActorStaff})
			return err
		})

		var conflict *types.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("Should treat a lost race as a conflict", func(t *testing.T) {
		gormDB, mock := newMockDB()
		booking := models.Booking{ID: 7, Status: string(types.BOOKING_PENDING)}

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "bookings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := gormDB.Transaction(func(tx *gorm.DB) error {
			_, err := Transition(tx, &booking, TransitionInput{Action: ActionApprove, Actor: ActorStaff})
			return err
		})

		var conflict *types.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("Should move the booking and append a timeline entry", func(t *testing.T) {
		gormDB, mock := newMockDB()
		booking := models.Booking{ID: 7, Status: string(types.BOOKING_PENDING)}

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "bookings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "timeline_entries"`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		var next types.BookingStatus
		err := gormDB.Transaction(func(tx *gorm.DB) error {
			var err error
			next, err = Transition(tx, &booking, TransitionInput{Action: ActionApprove, Actor: ActorStaff})
			return err
		})

		assert.Nil(t, err)
		assert.Equal(t, types.BOOKING_CONFIRMED, next)
		assert.Equal(t, string(types.BOOKING_CONFIRMED), booking.Status)
		assert.Nil(t, mock.ExpectationsWereMet())
	})
}

func TestApproveQuote(t *testing.T) {
	staffID := uint(99)
	bookingColumns := []string{"id", "status", "is_corporate", "quote_requested", "package_id", "final_price"}

	t.Run("Should confirm and stamp the quote in one transaction", func(t *testing.T) {
		gormDB, mock := newMockDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(7, "pending", true, true, nil, 150.0))
		mock.ExpectExec(`UPDATE "bookings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "timeline_entries"`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		terms := 30
		booking, err := ApproveQuote(gormDB, 7, &terms, staffID)

		assert.Nil(t, err)
		assert.Equal(t, string(types.BOOKING_CONFIRMED), booking.Status)
		assert.False(t, booking.QuoteRequested)
		assert.Equal(t, &staffID, booking.QuoteApprovedBy)
		assert.Equal(t, &terms, booking.NetTerms)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("Should roll everything back when the credit deduction fails", func(t *testing.T) {
		gormDB, mock := newMockDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(7, "pending", true, true, 3, 150.0))
		mock.ExpectExec(`UPDATE "bookings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "credit_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`UPDATE "corporate_packages" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM "corporate_packages"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "total_credits", "used_credits", "is_active"}).
				AddRow(3, 10, 10, true))
		mock.ExpectRollback()

		booking, err := ApproveQuote(gormDB, 7, nil, staffID)

		var conflict *types.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Nil(t, booking)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("Should reject a booking without a pending quote", func(t *testing.T) {
		gormDB, mock := newMockDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(7, "pending", false, false, nil, 150.0))
		mock.ExpectRollback()

		_, err := ApproveQuote(gormDB, 7, nil, staffID)

		var conflict *types.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("Should reject negative net terms up front", func(t *testing.T) {
		gormDB, _ := newMockDB()

		terms := -1
		_, err := ApproveQuote(gormDB, 7, &terms, staffID)

		var verr *types.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
