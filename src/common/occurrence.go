package common

import (
	"abs/src/config"
	"abs/src/lib"
	"abs/src/models"
	"abs/src/types"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecurringOccurrenceCap bounds recurring generation. Fixed system constant,
// not user-configurable.
const RecurringOccurrenceCap = 52

// ExpandRecurring returns the occurrence times for a recurring booking,
// starting at start inclusive. Generation stops once the next date would
// pass end, or at the cap, whichever comes first.
func ExpandRecurring(start time.Time, rule types.RecurringRule, end *time.Time) []time.Time {
	occurrences := []time.Time{start}
	current := start
	for len(occurrences) < RecurringOccurrenceCap {
		switch rule {
		case types.RECURRING_DAILY:
			current = current.AddDate(0, 0, 1)
		case types.RECURRING_WEEKLY:
			current = current.AddDate(0, 0, 7)
		case types.RECURRING_MONTHLY:
			current = current.AddDate(0, 1, 0)
		default:
			return occurrences
		}
		if end != nil && current.After(*end) {
			break
		}
		occurrences = append(occurrences, current)
	}
	return occurrences
}

// CreateBookingSet expands one creation request into one or more persisted
// bookings: single, bulk (shared group), multi-day (independent rows), or
// recurring (parent/child chain). Either every generated row exists
// afterwards or none do.
func CreateBookingSet(dbi *gorm.DB, user *models.User, body *types.CreateBookingRequestBody) ([]models.Booking, *uuid.UUID, error) {
	mode, err := creationMode(body)
	if err != nil {
		return nil, nil, err
	}

	var product models.Product
	if err := dbi.
		Model(&models.Product{}).
		Where("id = ?", body.ProductID).
		First(&product).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &types.NotFoundError{Resource: "product", ID: body.ProductID}
		}
		return nil, nil, err
	}
	if product.Status != "active" {
		return nil, nil, &types.ValidationError{Field: "product", Reason: "product is not bookable"}
	}

	lines, err := resolveAddOns(dbi, body.AddOns)
	if err != nil {
		return nil, nil, err
	}

	orgDiscount := 0.0
	isCorporate := body.OrgID != nil
	if isCorporate {
		var org models.Organization
		if err := dbi.
			Model(&models.Organization{}).
			Where("id = ?", *body.OrgID).
			First(&org).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, &types.NotFoundError{Resource: "organization", ID: *body.OrgID}
			}
			return nil, nil, err
		}
		orgDiscount = org.DiscountPercent
	}

	pkgDiscount := 0.0
	if body.PackageID != nil {
		if !isCorporate {
			return nil, nil, &types.ValidationError{Field: "package", Reason: "packages require an organization"}
		}
		pkg, err := CheckPackageAvailable(dbi, *body.PackageID)
		if err != nil {
			return nil, nil, err
		}
		if pkg.OrgID != *body.OrgID {
			return nil, nil, &types.AuthorizationError{Action: "use another organization's package"}
		}
		pkgDiscount = pkg.PermanentDiscountPercent
	}
	if body.RequestQuote && !isCorporate {
		return nil, nil, &types.ValidationError{Field: "request_quote", Reason: "quotes are available to corporate accounts only"}
	}

	breakdown := ComputePrice(product.BasePrice, orgDiscount, lines, pkgDiscount)
	vat := VATAmount(breakdown.Final, body.VatRate)

	status := types.BOOKING_PENDING
	if body.IsDraft {
		status = types.BOOKING_DRAFT
	}

	proto := models.Booking{
		ProductID:      product.ID,
		UserID:         user.ID,
		Status:         string(status),
		IsCorporate:    isCorporate,
		QuoteRequested: body.RequestQuote,
		OrgID:          body.OrgID,
		PackageID:      body.PackageID,
		FinalPrice:     breakdown.Final,
		Currency:       product.Currency,
		VatRate:        body.VatRate,
		VatAmount:      vat,
		ContactName:    body.ContactName,
		ContactEmail:   body.ContactEmail,
		ContactPhone:   body.ContactPhone,
		Address:        body.Address,
		Metadata: &types.Metadata{
			"pricing": breakdown,
		},
	}

	var created []models.Booking
	var groupID *uuid.UUID
	err = dbi.Transaction(func(tx *gorm.DB) error {
		switch mode {
		case "bulk":
			bookings, gid, err := createBulk(tx, proto, lines, body)
			if err != nil {
				return err
			}
			created, groupID = bookings, gid
		case "multi_day":
			bookings, err := createMultiDay(tx, proto, lines, body)
			if err != nil {
				return err
			}
			created = bookings
		case "recurring":
			bookings, err := createRecurring(tx, proto, lines, body)
			if err != nil {
				return err
			}
			created = bookings
		default:
			scheduledAt, err := parseScheduleTime(*body.ScheduledAt)
			if err != nil {
				return err
			}
			booking := proto
			booking.ScheduledAt = &scheduledAt
			if err := insertBookings(tx, []*models.Booking{&booking}, lines); err != nil {
				return err
			}
			created = []models.Booking{booking}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return created, groupID, nil
}

func creationMode(body *types.CreateBookingRequestBody) (string, error) {
	modes := 0
	mode := "single"
	if len(body.BulkLocations) > 0 {
		modes++
		mode = "bulk"
	}
	if len(body.MultiDayDates) > 0 {
		modes++
		mode = "multi_day"
	}
	if body.RecurringRule != nil {
		modes++
		mode = "recurring"
	}
	if modes > 1 {
		return "", &types.ValidationError{Reason: "request mixes bulk, multi-day and recurring scheduling"}
	}
	if mode == "single" && body.ScheduledAt == nil {
		return "", &types.ValidationError{Field: "scheduled_at", Reason: "required for a single booking"}
	}
	if mode == "recurring" && body.StartDate == nil {
		return "", &types.ValidationError{Field: "start_date", Reason: "required for a recurring booking"}
	}
	if mode == "multi_day" && body.TimeOfDay == nil {
		return "", &types.ValidationError{Field: "time_of_day", Reason: "required for multi-day bookings"}
	}
	return mode, nil
}

func createBulk(tx *gorm.DB, proto models.Booking, lines []AddOnLine, body *types.CreateBookingRequestBody) ([]models.Booking, *uuid.UUID, error) {
	group := models.BookingGroup{
		ID:    uuid.New(),
		Label: fmt.Sprintf("bulk-%s", time.Now().Format("20060102-150405")),
	}
	if err := tx.Create(&group).Error; err != nil {
		return nil, nil, err
	}
	bookings := make([]*models.Booking, 0, len(body.BulkLocations))
	for _, loc := range body.BulkLocations {
		scheduledAt, err := parseDateAndTime(loc.Date, loc.Time)
		if err != nil {
			return nil, nil, err
		}
		booking := proto
		booking.Address = loc.Address
		booking.ScheduledAt = &scheduledAt
		booking.BookingGroupID = &group.ID
		bookings = append(bookings, &booking)
	}
	if err := insertBookings(tx, bookings, lines); err != nil {
		return nil, nil, err
	}
	return deref(bookings), &group.ID, nil
}

func createMultiDay(tx *gorm.DB, proto models.Booking, lines []AddOnLine, body *types.CreateBookingRequestBody) ([]models.Booking, error) {
	bookings := make([]*models.Booking, 0, len(body.MultiDayDates))
	for _, date := range body.MultiDayDates {
		scheduledAt, err := parseDateAndTime(date, *body.TimeOfDay)
		if err != nil {
			return nil, err
		}
		booking := proto
		booking.ScheduledAt = &scheduledAt
		bookings = append(bookings, &booking)
	}
	if len(bookings) == 0 {
		return nil, &types.ValidationError{Field: "multi_day_dates", Reason: "at least one date is required"}
	}
	if err := insertBookings(tx, bookings, lines); err != nil {
		return nil, err
	}
	return deref(bookings), nil
}

func createRecurring(tx *gorm.DB, proto models.Booking, lines []AddOnLine, body *types.CreateBookingRequestBody) ([]models.Booking, error) {
	start, err := parseScheduleTime(*body.StartDate)
	if err != nil {
		return nil, err
	}
	var end *time.Time
	if body.EndDate != nil {
		parsed, err := parseScheduleTime(*body.EndDate)
		if err != nil {
			return nil, err
		}
		end = &parsed
	}
	occurrences := ExpandRecurring(start, types.RecurringRule(*body.RecurringRule), end)

	parent := proto
	parent.ScheduledAt = &occurrences[0]
	if err := insertBookings(tx, []*models.Booking{&parent}, lines); err != nil {
		return nil, err
	}
	bookings := []*models.Booking{&parent}
	children := make([]*models.Booking, 0, len(occurrences)-1)
	for _, occ := range occurrences[1:] {
		at := occ
		child := proto
		child.ScheduledAt = &at
		child.ParentBookingID = &parent.ID
		children = append(children, &child)
	}
	if len(children) > 0 {
		if err := insertBookings(tx, children, lines); err != nil {
			return nil, err
		}
		bookings = append(bookings, children...)
	}
	return deref(bookings), nil
}

// insertBookings persists a batch: numbers allocated up front, one "created"
// timeline entry and the add-on snapshot per row.
func insertBookings(tx *gorm.DB, bookings []*models.Booking, lines []AddOnLine) error {
	numbers := lib.NextBookingNumbers(context.Background(), len(bookings))
	for i, booking := range bookings {
		booking.Number = numbers[i]
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		for _, line := range lines {
			addOn := models.BookingAddOn{
				BookingID: booking.ID,
				AddOnID:   line.AddOnID,
				Qty:       line.Qty,
				UnitPrice: line.UnitPrice,
			}
			if err := tx.Create(&addOn).Error; err != nil {
				return err
			}
		}
		if err := AppendTimeline(tx, booking.ID, types.TIMELINE_CREATED, "customer", &booking.UserID, fmt.Sprintf("booking %s created", booking.Number), nil); err != nil {
			return err
		}
	}
	return nil
}

func resolveAddOns(dbi *gorm.DB, selections []types.AddOnSelection) ([]AddOnLine, error) {
	lines := make([]AddOnLine, 0, len(selections))
	for _, sel := range selections {
		var addOn models.AddOn
		if err := dbi.
			Model(&models.AddOn{}).
			Where("id = ?", sel.AddOnID).
			First(&addOn).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &types.NotFoundError{Resource: "add-on", ID: sel.AddOnID}
			}
			return nil, err
		}
		lines = append(lines, AddOnLine{
			AddOnID:   addOn.ID,
			Qty:       sel.Qty,
			UnitPrice: addOn.Price,
		})
	}
	return lines, nil
}

func parseScheduleTime(value string) (time.Time, error) {
	parsed, err := time.Parse(config.TIME_PARSE_FORMAT, value)
	if err != nil {
		return time.Time{}, &types.ValidationError{Field: "scheduled_at", Reason: fmt.Sprintf("invalid datetime %q", value)}
	}
	return parsed, nil
}

func parseDateAndTime(date string, timeOfDay string) (time.Time, error) {
	day, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return time.Time{}, &types.ValidationError{Field: "date", Reason: fmt.Sprintf("invalid date %q", date)}
	}
	tod, err := time.Parse(config.TIME_OF_DAY_FORMAT, timeOfDay)
	if err != nil {
		return time.Time{}, &types.ValidationError{Field: "time", Reason: fmt.Sprintf("invalid time %q", timeOfDay)}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, time.Local), nil
}

func deref(bookings []*models.Booking) []models.Booking {
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, *b)
	}
	return out
}
