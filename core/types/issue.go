// Package types defines the core domain types for repair intake pricing.
package types

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CategoryType is the backend's pricing category for an issue
type CategoryType string

const (
	// CategoryService is priced at the issue's fixed base price
	CategoryService CategoryType = "service_based"

	// CategoryPart is priced by the quality tier chosen for its part
	CategoryPart CategoryType = "product_based"
)

// Valid reports whether c is a known category
func (c CategoryType) Valid() bool {
	return c == CategoryService || c == CategoryPart
}

// Category is the sealed pricing sum type of an issue.
// Implementations: ServicePricing, PartPricing.
type Category interface {
	Type() CategoryType
	sealed()
}

// ServicePricing prices an issue at a fixed base price
type ServicePricing struct {
	BasePrice decimal.Decimal
}

// Type implements Category
func (ServicePricing) Type() CategoryType { return CategoryService }
func (ServicePricing) sealed()            {}

// PartPricing prices an issue through the quality tiers of its part
type PartPricing struct {
	AssociatedProduct *int
}

// Type implements Category
func (PartPricing) Type() CategoryType { return CategoryPart }
func (PartPricing) sealed()            {}

// Issue is a catalogued fault or service offering tied to device types
type Issue struct {
	// ID is the canonical string id
	ID string `json:"id"`

	// Name is the display label
	Name string `json:"name"`

	// DeviceTypes lists the device type ids the issue applies to
	DeviceTypes []int `json:"device_types,omitempty"`

	// RequiresPart is the backend's legacy part flag
	RequiresPart bool `json:"requires_part"`

	// Pricing is the issue's pricing category
	Pricing Category `json:"-"`

	// ServicePricing is the backend's optional service pricing reference
	ServicePricingRef json.RawMessage `json:"service_pricing,omitempty"`
}

// CategoryType returns the issue's category
func (i Issue) CategoryType() CategoryType {
	if i.Pricing == nil {
		return CategoryService
	}
	return i.Pricing.Type()
}

// BasePrice returns the base price of a service issue, zero otherwise
func (i Issue) BasePrice() decimal.Decimal {
	if sp, ok := i.Pricing.(ServicePricing); ok {
		return sp.BasePrice
	}
	return decimal.Zero
}

type issueWire struct {
	ID                json.Number     `json:"id"`
	Name              string          `json:"name"`
	DeviceTypes       []int           `json:"device_types"`
	RequiresPart      bool            `json:"requires_part"`
	BasePrice         json.RawMessage `json:"base_price"`
	CategoryType      CategoryType    `json:"category_type"`
	AssociatedProduct *int            `json:"associated_product"`
	ServicePricing    json.RawMessage `json:"service_pricing"`
}

// UnmarshalJSON decodes the backend issue representation.
// An unknown or missing category_type falls back to requires_part.
func (i *Issue) UnmarshalJSON(data []byte) error {
	var w issueWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id := NormalizeID(w.ID)
	if id == "" {
		return fmt.Errorf("issue %q has no id", w.Name)
	}

	basePrice, err := ParseAmount(w.BasePrice)
	if err != nil {
		return fmt.Errorf("issue %s: %w", id, err)
	}

	category := w.CategoryType
	if !category.Valid() {
		category = CategoryService
		if w.RequiresPart {
			category = CategoryPart
		}
	}

	*i = Issue{
		ID:                id,
		Name:              w.Name,
		DeviceTypes:       w.DeviceTypes,
		RequiresPart:      w.RequiresPart,
		ServicePricingRef: w.ServicePricing,
	}
	switch category {
	case CategoryPart:
		i.Pricing = PartPricing{AssociatedProduct: w.AssociatedProduct}
	default:
		i.Pricing = ServicePricing{BasePrice: basePrice}
	}
	return nil
}

// MarshalJSON encodes the issue in the backend representation
func (i Issue) MarshalJSON() ([]byte, error) {
	w := struct {
		ID                string          `json:"id"`
		Name              string          `json:"name"`
		DeviceTypes       []int           `json:"device_types,omitempty"`
		RequiresPart      bool            `json:"requires_part"`
		BasePrice         string          `json:"base_price"`
		CategoryType      CategoryType    `json:"category_type"`
		AssociatedProduct *int            `json:"associated_product,omitempty"`
		ServicePricing    json.RawMessage `json:"service_pricing,omitempty"`
	}{
		ID:             i.ID,
		Name:           i.Name,
		DeviceTypes:    i.DeviceTypes,
		RequiresPart:   i.RequiresPart,
		BasePrice:      FormatAmount(i.BasePrice()),
		CategoryType:   i.CategoryType(),
		ServicePricing: i.ServicePricingRef,
	}
	if pp, ok := i.Pricing.(PartPricing); ok {
		w.AssociatedProduct = pp.AssociatedProduct
	}
	return json.Marshal(w)
}
