// Package types - Quality tier types
package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// TierLevel is the quality grade of a replacement part
type TierLevel string

const (
	TierStandard    TierLevel = "standard"
	TierPremium     TierLevel = "premium"
	TierOriginal    TierLevel = "original"
	TierRefurbished TierLevel = "refurbished"
)

// IsKnown reports whether the level is one the backend documents
func (l TierLevel) IsKnown() bool {
	switch l {
	case TierStandard, TierPremium, TierOriginal, TierRefurbished:
		return true
	}
	return false
}

// Availability is the stock status of a tier's part
type Availability string

const (
	AvailabilityInStock      Availability = "in_stock"
	AvailabilityLowStock     Availability = "low_stock"
	AvailabilityOutOfStock   Availability = "out_of_stock"
	AvailabilityDiscontinued Availability = "discontinued"
)

// IsKnown reports whether the status is one the backend documents
func (a Availability) IsKnown() bool {
	switch a {
	case AvailabilityInStock, AvailabilityLowStock, AvailabilityOutOfStock, AvailabilityDiscontinued:
		return true
	}
	return false
}

// Orderable reports whether a part in this status can currently be supplied
func (a Availability) Orderable() bool {
	return a == AvailabilityInStock || a == AvailabilityLowStock
}

// QualityTier is a priced variant of a part-based repair
type QualityTier struct {
	ID           int             `json:"id"`
	Tier         TierLevel       `json:"quality_tier"`
	Price        decimal.Decimal `json:"price"`
	WarrantyDays int             `json:"warranty_days"`
	Availability Availability    `json:"availability_status"`
}

// UnmarshalJSON decodes a pricing option, tolerating string or empty prices.
// Negative warranties are clamped to zero.
func (t *QualityTier) UnmarshalJSON(data []byte) error {
	var w struct {
		ID           int             `json:"id"`
		Tier         TierLevel       `json:"quality_tier"`
		Price        json.RawMessage `json:"price"`
		WarrantyDays int             `json:"warranty_days"`
		Availability Availability    `json:"availability_status"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	price, err := ParseAmount(w.Price)
	if err != nil {
		return err
	}
	if w.WarrantyDays < 0 {
		w.WarrantyDays = 0
	}
	*t = QualityTier{
		ID:           w.ID,
		Tier:         w.Tier,
		Price:        price,
		WarrantyDays: w.WarrantyDays,
		Availability: w.Availability,
	}
	return nil
}

// FindTier returns the tier with the given id
func FindTier(tiers []QualityTier, id int) (QualityTier, bool) {
	for _, t := range tiers {
		if t.ID == id {
			return t, true
		}
	}
	return QualityTier{}, false
}
