package models

import "abs/src/types"

// Product is a catalog row. Catalog management lives outside this core;
// bookings only read base prices from here.
type Product struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	Name      string  `json:"name,omitempty"`
	BasePrice float64 `json:"base_price"`
	Currency  string  `gorm:"default:'usd'" json:"currency,omitempty"`
	Status    string  `gorm:"default:'active'" json:"status,omitempty"`

	AddOns []AddOn `json:"add_ons,omitempty"`

	types.Timestamps
}

type AddOn struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	ProductID *uint   `json:"product_id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`

	types.Timestamps
}
