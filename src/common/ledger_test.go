package common

import (
	"abs/src/types"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

var packageColumns = []string{"id", "org_id", "total_credits", "used_credits", "permanent_discount_percent", "expires_at", "is_active"}

func TestCheckPackageAvailable(t *testing.T) {
	t.Run("Should return the package when credits remain", func(t *testing.T) {
		gormDB, mock := newMockDB()

		mock.ExpectQuery(`SELECT (.+) FROM "corporate_packages"`).
			WillReturnRows(sqlmock.NewRows(packageColumns).
				AddRow(3, 1, 10, 4, 5.0, nil, true))

		pkg, err := CheckPackageAvailable(gormDB, 3)

		assert.Nil(t, err)
		assert.Equal(t, uint(10), pkg.TotalCredits)
		assert.Equal(t, 5.0, pkg.PermanentDiscountPercent)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("Should report a missing package", func(t *testing.T) {
		gormDB, mock := newMockDB()

		mock.ExpectQuery(`SELECT (.+) FROM "corporate_packages"`).
			WillReturnRows(sqlmock.NewRows(packageColumns))

		_, err := CheckPackageAvailable(gormDB, 3)

		var notFound *types.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("Should reject an inactive package", func(t *testing.T) {
		gormDB, mock := newMockDB()

		mock.ExpectQuery(`SELECT (.+) FROM "corporate_packages"`).
			WillReturnRows(sqlmock.NewRows(packageColumns).
				AddRow(3, 1, 10, 4, 5.0, nil, false))

		_, err := CheckPackageAvailable(gormDB, 3)

		var conflict *types.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, "package is not active", conflict.Reason)
	})

	t.Run("Should reject an expired package", func(t *testing.T) {
		gormDB, mock := newMockDB()

		expired := time.Now().Add(-24 * time.Hour)
		mock.ExpectQuery(`SELECT (.+) FROM "corporate_packages"`).
			WillReturnRows(sqlmock.NewRows(packageColumns).
				AddRow(3, 1, 10, 4, 5.0, expired, true))

		_, err := CheckPackageAvailable(gormDB, 3)

		var conflict *types.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, "package has expired", conflict.Reason)
	})

	t.Run("Should reject an exhausted package", func(t *testing.T) {
		gormDB, mock := newMockDB()

		mock.ExpectQuery(`SELECT (.+) FROM "corporate_packages"`).
			WillReturnRows(sqlmock.NewRows(packageColumns).
				AddRow(3, 1, 10, 10, 5.0, nil, true))

		_, err := CheckPackageAvailable(gormDB, 3)

		var conflict *types.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, "package has no remaining credits", conflict.Reason)
	})
}

func TestDeductPackageCredit(t *testing.T) {
	t.Run("Should deduct once and write the ledger entry", func(t *testing.T) {
		gormDB, mock := newMockDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "credit_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`UPDATE "corporate_packages" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO "credit_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectExec(`INSERT INTO "timeline_entries"`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		err := gormDB.Transaction(func(tx *gorm.DB) error {
			return DeductPackageCredit(tx, 3, 7, ActorStaff)
		})

		assert.Nil(t, err)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("Should be a no-op when the booking already burned a credit", func(t *testing.T) {
		gormDB, mock := newMockDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "credit_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectCommit()

		err := gormDB.Transaction(func(tx *gorm.DB) error {
			return DeductPackageCredit(tx, 3, 7, ActorStaff)
		})

		assert.Nil(t, err)
		assert.Nil(t, mock.ExpectationsWereMet())
	})

	t.Run("Should abort when the package drained after the gate", func(t *testing.T) {
		gormDB, mock := newMockDB()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "credit_entries"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`UPDATE "corporate_packages" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM "corporate_packages"`).
			WillReturnRows(sqlmock.NewRows(packageColumns).
				AddRow(3, 1, 10, 10, 5.0, nil, true))
		mock.ExpectRollback()

		err := gormDB.Transaction(func(tx *gorm.DB) error {
			return DeductPackageCredit(tx, 3, 7, ActorStaff)
		})

		var conflict *types.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Nil(t, mock.ExpectationsWereMet())
	})
}
