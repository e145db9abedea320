// Package types - Repair creation and update payloads
package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RepairStatus is the workflow status of a repair
type RepairStatus string

const (
	StatusEntered    RepairStatus = "saisie"
	StatusInProgress RepairStatus = "en-cours"
	StatusReady      RepairStatus = "prete"
	StatusWaiting    RepairStatus = "en-attente"
)

// Valid reports whether s is accepted by the backend
func (s RepairStatus) Valid() bool {
	switch s {
	case StatusEntered, StatusInProgress, StatusReady, StatusWaiting:
		return true
	}
	return false
}

// DepositStatus records whether the device was handed over at intake
type DepositStatus string

const (
	DepositReceived  DepositStatus = "deposited"
	DepositScheduled DepositStatus = "scheduled"
)

// DepositStatusFor maps the intake deposit flag to its enumerated value
func DepositStatusFor(received bool) DepositStatus {
	if received {
		return DepositReceived
	}
	return DepositScheduled
}

// DateLayout is the backend's DateField format
const DateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// String returns YYYY-MM-DD
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// AccessoryList is the list of items left with the device.
// The backend stores it as one text field, so it is sent joined by ", "
// and as null when empty.
type AccessoryList []string

// ParseAccessories splits comma-separated free text, trimming and dropping empty items.
// It returns nil when nothing remains.
func ParseAccessories(text string) AccessoryList {
	var out AccessoryList
	for _, p := range strings.Split(text, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MarshalJSON implements json.Marshaler
func (a AccessoryList) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(strings.Join(a, ", "))
}

// UnmarshalJSON accepts the joined text form or an array
func (a *AccessoryList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = ParseAccessories(strings.Join(list, ","))
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*a = ParseAccessories(text)
	return nil
}

// RepairIssueData is one issue line of a repair creation request
type RepairIssueData struct {
	IssueID       int    `json:"issue_id"`
	QualityTierID *int   `json:"quality_tier_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// RepairCreate is the body of POST /repairs/repairs/
type RepairCreate struct {
	UID             string            `json:"uid"`
	ClientID        *int              `json:"client_id"`
	DeviceTypeID    *int              `json:"device_type_id"`
	BrandID         *int              `json:"brand_id"`
	ProductModelID  *int              `json:"product_model_id"`
	Description     string            `json:"description"`
	Password        *string           `json:"password"`
	Price           string            `json:"price"`
	RepairIssueData []RepairIssueData `json:"repair_issue_data"`
	Accessories     AccessoryList     `json:"accessories"`
	DepositStatus   DepositStatus     `json:"deposit_status"`
	Status          RepairStatus      `json:"status"`
	Date            Date              `json:"date"`
	ScheduledDate   *Date             `json:"scheduledDate,omitempty"`
}

// RepairUpdate is the body of PATCH /repairs/repairs/{id}/. Nil fields are not sent.
type RepairUpdate struct {
	Status        *RepairStatus    `json:"status,omitempty"`
	CardPayment   *decimal.Decimal `json:"card_payment,omitempty"`
	CashPayment   *decimal.Decimal `json:"cash_payment,omitempty"`
	ScheduledDate *Date            `json:"scheduledDate,omitempty"`
	Comment       *string          `json:"comment,omitempty"`
}

// Empty reports whether the update carries no field
func (u RepairUpdate) Empty() bool {
	return u.Status == nil && u.CardPayment == nil && u.CashPayment == nil &&
		u.ScheduledDate == nil && u.Comment == nil
}

// Repair is the backend representation of a created repair
type Repair struct {
	ID            int             `json:"id"`
	UID           string          `json:"uid"`
	Date          Date            `json:"date"`
	ScheduledDate *Date           `json:"scheduledDate,omitempty"`
	Status        RepairStatus    `json:"status"`
	Description   string          `json:"description"`
	Accessories   AccessoryList   `json:"accessories"`
	Price         decimal.Decimal `json:"price"`
	CardPayment   decimal.Decimal `json:"card_payment"`
	CashPayment   decimal.Decimal `json:"cash_payment"`
	Client        *Client         `json:"client,omitempty"`
	Issues        []string        `json:"issues,omitempty"`
}

// Outstanding returns the amount not yet paid
func (r Repair) Outstanding() decimal.Decimal {
	return r.Price.Sub(r.CardPayment).Sub(r.CashPayment)
}
