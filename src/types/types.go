package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

func (a Metadata) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *Metadata) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type BookingStatus string

const (
	BOOKING_DRAFT       BookingStatus = "draft"
	BOOKING_PENDING     BookingStatus = "pending"
	BOOKING_CONFIRMED   BookingStatus = "confirmed"
	BOOKING_IN_PROGRESS BookingStatus = "in_progress"
	BOOKING_COMPLETED   BookingStatus = "completed"
	BOOKING_CANCELED    BookingStatus = "canceled"
	BOOKING_NO_SHOW     BookingStatus = "no_show"
	BOOKING_INVOICED    BookingStatus = "invoiced"
)

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_COMPLETED PaymentStatus = "completed"
	PAYMENT_REFUNDED  PaymentStatus = "refunded"
)

type RecurringRule string

const (
	RECURRING_DAILY   RecurringRule = "daily"
	RECURRING_WEEKLY  RecurringRule = "weekly"
	RECURRING_MONTHLY RecurringRule = "monthly"
)

type TimelineEntryType string

const (
	TIMELINE_CREATED         TimelineEntryType = "created"
	TIMELINE_STATUS_CHANGE   TimelineEntryType = "status_change"
	TIMELINE_QUOTE_APPROVED  TimelineEntryType = "quote_approved"
	TIMELINE_PAYMENT         TimelineEntryType = "payment_received"
	TIMELINE_PARTIAL_PAYMENT TimelineEntryType = "partial_payment"
	TIMELINE_OVERPAYMENT     TimelineEntryType = "overpayment"
	TIMELINE_REFUND          TimelineEntryType = "payment_refunded"
	TIMELINE_CREDIT_DEDUCTED TimelineEntryType = "credit_deducted"
)

type AddOnSelection struct {
	AddOnID uint `json:"add_on" binding:"required"`
	Qty     uint `json:"qty" binding:"required,min=1"`
}

type BulkLocation struct {
	Address string `json:"address" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
}

type CreateBookingRequestBody struct {
	ProductID     uint             `json:"product" binding:"required"`
	ScheduledAt   *string          `json:"scheduled_at,omitempty" binding:"omitempty,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	MultiDayDates []string         `json:"multi_day_dates,omitempty"`
	TimeOfDay     *string          `json:"time_of_day,omitempty"`
	BulkLocations []BulkLocation   `json:"bulk_locations,omitempty"`
	RecurringRule *string          `json:"recurring_rule,omitempty" binding:"omitempty,oneof=daily weekly monthly"`
	StartDate     *string          `json:"start_date,omitempty" binding:"omitempty,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndDate       *string          `json:"end_date,omitempty" binding:"omitempty,gtdate=StartDate" time_format:"2006-01-02 15:04:05 -07:00"`
	PackageID     *uint            `json:"package,omitempty"`
	OrgID         *uint            `json:"organization,omitempty"`
	AddOns        []AddOnSelection `json:"add_ons,omitempty"`
	ContactName   string           `json:"contact_name" binding:"required"`
	ContactEmail  string           `json:"contact_email" binding:"required,email"`
	ContactPhone  string           `json:"contact_phone,omitempty"`
	Address       string           `json:"address,omitempty"`
	VatRate       float64          `json:"vat_rate,omitempty" binding:"omitempty,min=0,max=100"`
	IsDraft       bool             `json:"draft,omitempty"`
	RequestQuote  bool             `json:"request_quote,omitempty"`
}

type StaffActionRequestBody struct {
	Action string `json:"action" binding:"required,oneof=approve reject confirm cancel complete no_show invoice"`
	Reason string `json:"reason,omitempty"`
}

type ApproveQuoteRequestBody struct {
	NetTerms *int `json:"net_terms,omitempty" binding:"omitempty,min=0"`
}

type CreatePaymentRequestBody struct {
	Amount float64 `json:"amount,omitempty" binding:"omitempty,gt=0"`
}

type CreateOrganizationRequestBody struct {
	Name            string  `json:"name" binding:"required"`
	ContactEmail    string  `json:"email" binding:"required,email"`
	DiscountPercent float64 `json:"discount_percent,omitempty" binding:"omitempty,min=0,max=100"`
}

type CreatePackageRequestBody struct {
	TotalCredits    uint       `json:"total_credits" binding:"required,min=1"`
	DiscountPercent float64    `json:"discount_percent,omitempty" binding:"omitempty,min=0,max=100"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

type UpdatePackageRequestBody struct {
	Active *bool `json:"active" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type Claims struct {
	Username     string   `json:"username"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	Organization uint
	jwt.RegisteredClaims
}
