// Package types - Device, client and listing types
package types

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// DeviceType is a device family (smartphone, tablet, ...)
type DeviceType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Brand is a device manufacturer
type Brand struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductModel is a concrete device model
type ProductModel struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	BrandID    int    `json:"brand"`
	DeviceType *int   `json:"device_type,omitempty"`
	IsPopular  bool   `json:"is_popular"`
}

// Profile carries the contact details attached to a user account
type Profile struct {
	PhoneNumber string `json:"phone_number"`
	RoleName    string `json:"role_name,omitempty"`
}

// Client is a shop customer as returned by /users/
type Client struct {
	ID        int     `json:"id"`
	Username  string  `json:"username,omitempty"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Profile   Profile `json:"profile"`
}

// FullName returns "First Last"
func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Matches reports whether the client's name or phone contains query
func (c Client) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.FullName()), q) ||
		strings.Contains(c.Profile.PhoneNumber, query)
}

// NewClient holds the fields needed to register a client during intake
type NewClient struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
}

// Complete reports whether the mandatory fields are present
func (n NewClient) Complete() bool {
	return strings.TrimSpace(n.FirstName) != "" &&
		strings.TrimSpace(n.LastName) != "" &&
		strings.TrimSpace(n.Phone) != ""
}

// Username derives the backend username: the email when given, else first.last
func (n NewClient) Username() string {
	if n.Email != "" {
		return n.Email
	}
	return strings.ToLower(n.FirstName + "." + n.LastName)
}

// Product is a stock product row from /tech/products/
type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// StoreOrder is a supplier order row from /tech/store-orders/
type StoreOrder struct {
	ID        int             `json:"id"`
	Reference string          `json:"reference,omitempty"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total_amount"`
	CreatedAt string          `json:"created_at"`
}

// Page is one page of a paginated listing.
// The backend returns either a bare array or {count, next, previous, results}.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}

// UnmarshalJSON accepts both the paginated envelope and a bare array
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*p = Page[T]{Count: len(items), Results: items}
		return nil
	}

	var env struct {
		Count    int    `json:"count"`
		Next     string `json:"next"`
		Previous string `json:"previous"`
		Results  []T    `json:"results"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	*p = Page[T]{Count: env.Count, Next: env.Next, Previous: env.Previous, Results: env.Results}
	if p.Count == 0 {
		p.Count = len(p.Results)
	}
	return nil
}
