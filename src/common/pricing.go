package common

import (
	"math"
)

type AddOnLine struct {
	AddOnID   uint
	Qty       uint
	UnitPrice float64
}

// PriceBreakdown keeps the intermediate figures so a quoted price can be
// re-derived from the same inputs later.
type PriceBreakdown struct {
	BasePrice        float64 `json:"base_price"`
	OrgDiscountPct   float64 `json:"org_discount_pct"`
	AfterOrgDiscount float64 `json:"after_org_discount"`
	AddOnTotal       float64 `json:"add_on_total"`
	PkgDiscountPct   float64 `json:"pkg_discount_pct"`
	Final            float64 `json:"final"`
}

// ComputePrice applies the org discount to the base price only, adds the
// add-on lines undiscounted, then applies the package discount to the whole
// amount. The ordering is load-bearing: swapping steps changes which
// discounts touch add-ons.
func ComputePrice(basePrice float64, orgDiscountPct float64, addOns []AddOnLine, pkgDiscountPct float64) PriceBreakdown {
	bd := PriceBreakdown{
		BasePrice:      basePrice,
		OrgDiscountPct: orgDiscountPct,
		PkgDiscountPct: pkgDiscountPct,
	}
	bd.AfterOrgDiscount = basePrice * (1 - orgDiscountPct/100)
	for _, line := range addOns {
		bd.AddOnTotal += line.UnitPrice * float64(line.Qty)
	}
	withAddOns := bd.AfterOrgDiscount + bd.AddOnTotal
	bd.Final = withAddOns
	if pkgDiscountPct > 0 {
		bd.Final = withAddOns * (1 - pkgDiscountPct/100)
	}
	bd.Final = roundMoney(bd.Final)
	bd.AfterOrgDiscount = roundMoney(bd.AfterOrgDiscount)
	bd.AddOnTotal = roundMoney(bd.AddOnTotal)
	return bd
}

// VATAmount returns the flat-rate tax on an already-discounted final price.
func VATAmount(finalPrice float64, ratePct float64) float64 {
	if ratePct <= 0 {
		return 0
	}
	return roundMoney(finalPrice * ratePct / 100)
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
