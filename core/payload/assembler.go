// Package payload converts an intake into the repair creation request
// expected by POST /repairs/repairs/.
package payload

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"repairdesk/core/catalog"
	"repairdesk/core/selection"
	"repairdesk/core/types"
)

// Input is everything the assembler needs besides the selection
type Input struct {
	// Entries is the selection, in display order
	Entries []selection.SelectedIssue

	// Devices resolves the display-layer keys below
	Devices *catalog.DeviceCatalog

	// DeviceType is the device type slug
	DeviceType string

	// Brand and Model are id strings or names
	Brand string
	Model string

	// ClientID is the existing or freshly created client
	ClientID *int

	// Description is the breakdown description
	Description string

	// Accessories is comma-separated free text
	Accessories string

	// UnlockCode is the device password or PIN
	UnlockCode string

	// DepositReceived is true when the device was left at intake
	DepositReceived bool

	// ScheduledDate is the planned repair date
	ScheduledDate *types.Date

	// Price is the subtotal
	Price decimal.Decimal
}

// Result is the assembled request plus non-fatal conversion warnings
type Result struct {
	Request  types.RepairCreate
	Warnings []string
}

// Assembler builds repair creation requests
type Assembler struct {
	defaultDescription string
	now                func() time.Time
}

// NewAssembler creates an assembler. Blank descriptions are replaced with defaultDescription.
func NewAssembler(defaultDescription string) *Assembler {
	return &Assembler{
		defaultDescription: defaultDescription,
		now:                time.Now,
	}
}

// WithClock returns a copy of the assembler using now as its clock
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	clone := *a
	clone.now = now
	return &clone
}

// Assemble builds the request. It never fails: keys that do not resolve
// are sent as null and non-numeric issue ids are dropped with a warning.
// The backend performs final validation.
func (a *Assembler) Assemble(in Input) Result {
	now := a.now()
	var warnings []string

	issues := make([]types.RepairIssueData, 0, len(in.Entries))
	for _, e := range in.Entries {
		id, ok := types.NumericID(e.IssueID)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("issue %q has no numeric id and was left out", e.IssueID))
			continue
		}
		line := types.RepairIssueData{IssueID: id}
		if e.CategoryType == types.CategoryPart && e.SelectedTierID != nil {
			tierID := *e.SelectedTierID
			line.QualityTierID = &tierID
		}
		line.Notes = strings.TrimSpace(e.Notes)
		issues = append(issues, line)
	}

	req := types.RepairCreate{
		UID:             fmt.Sprintf("REP%d", now.UnixMilli()),
		ClientID:        in.ClientID,
		DeviceTypeID:    resolve(in.Devices.DeviceTypeID, in.DeviceType, "device type", &warnings),
		BrandID:         resolve(in.Devices.BrandID, in.Brand, "brand", &warnings),
		ProductModelID:  resolve(in.Devices.ModelID, in.Model, "model", &warnings),
		Description:     strings.TrimSpace(in.Description),
		Price:           types.FormatAmount(in.Price),
		RepairIssueData: issues,
		Accessories:     types.ParseAccessories(in.Accessories),
		DepositStatus:   types.DepositStatusFor(in.DepositReceived),
		Status:          types.StatusEntered,
		Date:            types.NewDate(now),
		ScheduledDate:   in.ScheduledDate,
	}
	if req.Description == "" {
		req.Description = a.defaultDescription
	}
	if code := strings.TrimSpace(in.UnlockCode); code != "" {
		req.Password = &code
	}

	return Result{Request: req, Warnings: warnings}
}

func resolve(lookup func(string) *int, key, what string, warnings *[]string) *int {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	id := lookup(key)
	if id == nil {
		*warnings = append(*warnings, fmt.Sprintf("%s %q not found in catalog, sent as null", what, key))
	}
	return id
}
