package models

import (
	"abs/src/types"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Number string `gorm:"uniqueIndex" json:"number"`
	Status string `gorm:"default:'pending'" json:"status,omitempty"`

	ProductID uint `json:"product_id,omitempty"`
	UserID    uint `json:"user_id,omitempty"`

	IsCorporate    bool  `json:"is_corporate"`
	QuoteRequested bool  `json:"quote_requested"`
	OrgID          *uint `json:"org_id,omitempty"`
	PackageID      *uint `json:"package_id,omitempty"`

	FinalPrice    float64 `json:"final_price"`
	Currency      string  `gorm:"default:'usd'" json:"currency,omitempty"`
	VatRate       float64 `json:"vat_rate,omitempty"`
	VatAmount     float64 `json:"vat_amount,omitempty"`
	NetTerms      *int    `json:"net_terms,omitempty"`
	InvoiceNumber *string `json:"invoice_number,omitempty"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	QuoteApprovedAt *time.Time `json:"quote_approved_at,omitempty"`
	QuoteApprovedBy *uint      `json:"quote_approved_by,omitempty"`

	ParentBookingID *uint      `json:"parent_booking_id,omitempty"`
	BookingGroupID  *uuid.UUID `gorm:"type:uuid" json:"booking_group_id,omitempty"`

	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Address      string `json:"address,omitempty"`

	Metadata *types.Metadata `gorm:"type:jsonb" json:"metadata,omitempty"`

	Product       Product           `json:"product,omitempty"`
	User          *User             `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Organization  *Organization     `gorm:"foreignKey:org_id" json:"organization,omitempty"`
	Package       *CorporatePackage `gorm:"foreignKey:package_id" json:"package,omitempty"`
	Group         *BookingGroup     `gorm:"foreignKey:booking_group_id" json:"group,omitempty"`
	ChildBookings []*Booking        `gorm:"foreignKey:parent_booking_id" json:"child_bookings,omitempty"`
	AddOns        []BookingAddOn    `json:"add_ons,omitempty"`
	Payments      []Payment         `json:"payments,omitempty"`
	Timeline      []TimelineEntry   `json:"timeline,omitempty"`

	types.Timestamps
}

// BookingAddOn snapshots the unit price at booking time so later catalog
// edits never change what was sold.
type BookingAddOn struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	BookingID uint    `json:"booking_id,omitempty"`
	AddOnID   uint    `json:"add_on_id,omitempty"`
	Qty       uint    `json:"qty,omitempty"`
	UnitPrice float64 `json:"unit_price,omitempty"`

	AddOn AddOn `json:"add_on,omitempty"`

	types.Timestamps
}
