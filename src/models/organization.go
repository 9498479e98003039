package models

import (
	"abs/src/types"
)

type Organization struct {
	ID              uint            `gorm:"primarykey;uniqueIndex:slugid" json:"id"`
	Name            string          `json:"name,omitempty"`
	Slug            string          `gorm:"uniqueIndex:slugid" json:"slug"`
	DiscountPercent float64         `json:"discount_percent"`
	ContactEmail    string          `json:"email,omitempty"`
	OwnerID         uint            `json:"owner_id,omitempty"`
	Metadata        *types.Metadata `gorm:"type:jsonb" json:"metadata,omitempty"`

	Packages []CorporatePackage `gorm:"foreignKey:org_id" json:"-"`
	Owner    User               `gorm:"foreignKey:owner_id" json:"-"`

	types.Timestamps
}
