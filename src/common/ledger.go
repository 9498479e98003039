package common

import (
	"abs/src/models"
	"abs/src/types"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

// CheckPackageAvailable is the creation-time validation gate. It reserves
// nothing; deduction happens only when a booking is confirmed.
func CheckPackageAvailable(tx *gorm.DB, packageID uint) (*models.CorporatePackage, error) {
	var pkg models.CorporatePackage
	if err := tx.
		Model(&models.CorporatePackage{}).
		Where("id = ?", packageID).
		First(&pkg).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Resource: "package", ID: packageID}
		}
		return nil, err
	}
	if !pkg.IsActive {
		return nil, &types.ConflictError{Reason: "package is not active"}
	}
	if pkg.ExpiresAt != nil && pkg.ExpiresAt.Before(time.Now()) {
		return nil, &types.ConflictError{Reason: "package has expired"}
	}
	if pkg.UsedCredits >= pkg.TotalCredits {
		return nil, &types.ConflictError{Reason: "package has no remaining credits"}
	}
	return &pkg, nil
}

// DeductPackageCredit burns exactly one credit for a booking. Safe to call
// again for the same booking: the existing CreditEntry short-circuits it.
// The guarded UPDATE re-checks exhaustion so a package drained between the
// creation-time gate and confirmation aborts the surrounding transaction.
func DeductPackageCredit(tx *gorm.DB, packageID uint, bookingID uint, actor string) error {
	var prior int64
	if err := tx.
		Model(&models.CreditEntry{}).
		Where("booking_id = ?", bookingID).
		Count(&prior).
		Error; err != nil {
		return err
	}
	if prior > 0 {
		log.Printf("Credit already deducted for Booking [%d]. Skipping\n", bookingID)
		return nil
	}

	res := tx.
		Model(&models.CorporatePackage{}).
		Where("id = ? AND is_active = ? AND used_credits < total_credits", packageID, true).
		Update("used_credits", gorm.Expr("used_credits + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := CheckPackageAvailable(tx, packageID); err != nil {
			return err
		}
		return &types.ConflictError{Reason: "package has no remaining credits"}
	}

	entry := models.CreditEntry{
		PackageID: packageID,
		BookingID: bookingID,
		Delta:     1,
		Reason:    actor,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	return AppendTimeline(tx, bookingID, types.TIMELINE_CREDIT_DEDUCTED, actor, nil, "1 package credit deducted", &types.JSONB{
		"packageId": packageID,
	})
}
