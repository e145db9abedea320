// Package cost derives the running subtotal of a repair intake.
// The calculation is a pure function of the selection, the issue catalog and
// the resolved tier data; missing data contributes zero instead of failing.
package cost

import (
	"fmt"

	"github.com/shopspring/decimal"

	"repairdesk/core/pricing"
	"repairdesk/core/selection"
	"repairdesk/core/types"
)

// IssueLookup finds catalog issues by id
type IssueLookup interface {
	Lookup(id interface{}) (types.Issue, bool)
}

// TierLookup exposes resolved tier data per issue
type TierLookup interface {
	State(issueID string) pricing.TierState
	Find(issueID string, tierID int) (types.QualityTier, bool)
	Tiers(issueID string) []types.QualityTier
}

// LineStatus explains how a line was priced
type LineStatus string

const (
	// LinePriced - the line contributes its price
	LinePriced LineStatus = "priced"
	// LineMissing - the issue is not in the loaded catalog
	LineMissing LineStatus = "missing_issue"
	// LineUnpriced - part-based issue without a chosen tier
	LineUnpriced LineStatus = "awaiting_tier"
	// LinePending - the tier lookup has not finished
	LinePending LineStatus = "pending"
	// LineFailed - the tier lookup failed
	LineFailed LineStatus = "lookup_failed"
	// LineNoOptions - the issue has no tier to choose from
	LineNoOptions LineStatus = "no_options"
	// LineTierNotFound - the chosen tier is not among the resolved tiers
	LineTierNotFound LineStatus = "tier_not_found"
	// LineUnknownCategory - the entry carries a category the engine does not price
	LineUnknownCategory LineStatus = "unknown_category"
)

// Line is the priced view of one selected issue
type Line struct {
	IssueID   string             `json:"issue_id"`
	IssueName string             `json:"issue_name"`
	Category  types.CategoryType `json:"category_type"`
	TierID    *int               `json:"quality_tier_id,omitempty"`
	Tier      *types.QualityTier `json:"quality_tier,omitempty"`
	Amount    decimal.Decimal    `json:"amount"`
	Status    LineStatus         `json:"status"`
}

// Counted reports whether the line contributes to the total
func (l Line) Counted() bool {
	return l.Status == LinePriced
}

// Subtotal is the derived price of a selection
type Subtotal struct {
	// Total is the unrounded sum of counted lines
	Total decimal.Decimal `json:"total"`

	// Lines has one entry per selected issue, in selection order
	Lines []Line `json:"lines"`

	// Pending lists part-based issues whose tier lookup is in flight
	Pending []string `json:"pending,omitempty"`

	// Failed lists part-based issues whose tier lookup failed
	Failed []string `json:"failed,omitempty"`

	// Settled is false while any tier lookup that affects the total is outstanding
	Settled bool `json:"settled"`
}

// Display returns the total rounded to two decimal places
func (s Subtotal) Display() string {
	return types.FormatAmount(s.Total)
}

// String implements fmt.Stringer
func (s Subtotal) String() string {
	if s.Settled {
		return s.Display()
	}
	return s.Display() + " (partial)"
}

// Add returns the sum of the subtotal and other amounts, unrounded
func (s Subtotal) Add(amounts ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(s.Total, amounts...)
}

// Calculate prices every entry and sums the contributions.
// It never fails: unknown issues, unresolved tiers and unknown tier ids count as zero.
func Calculate(entries []selection.SelectedIssue, issues IssueLookup, tiers TierLookup) Subtotal {
	sub := Subtotal{
		Total:   decimal.Zero,
		Lines:   make([]Line, 0, len(entries)),
		Settled: true,
	}

	for _, e := range entries {
		line := Line{
			IssueID:   e.IssueID,
			IssueName: e.IssueName,
			Category:  e.CategoryType,
			TierID:    e.SelectedTierID,
			Amount:    decimal.Zero,
		}

		switch e.CategoryType {
		case types.CategoryService:
			priceService(&line, issues)
		case types.CategoryPart:
			pricePart(&line, e, tiers)
		default:
			line.Status = LineUnknownCategory
		}

		switch line.Status {
		case LinePriced:
			sub.Total = sub.Total.Add(line.Amount)
		case LinePending:
			sub.Pending = append(sub.Pending, line.IssueID)
			sub.Settled = false
		case LineFailed:
			sub.Failed = append(sub.Failed, line.IssueID)
		}
		sub.Lines = append(sub.Lines, line)
	}

	return sub
}

// CalculateSet is Calculate over a selection set
func CalculateSet(set *selection.Set, issues IssueLookup, tiers TierLookup) Subtotal {
	return Calculate(set.Entries(), issues, tiers)
}

func priceService(line *Line, issues IssueLookup) {
	if issues == nil {
		line.Status = LineMissing
		return
	}
	issue, ok := issues.Lookup(line.IssueID)
	if !ok {
		line.Status = LineMissing
		return
	}

	switch p := issue.Pricing.(type) {
	case types.ServicePricing:
		line.Amount = p.BasePrice
		line.Status = LinePriced
		if line.IssueName == "" {
			line.IssueName = issue.Name
		}
	case types.PartPricing, nil:
		// the catalog no longer prices this issue as a service
		line.Status = LineMissing
	default:
		panic(fmt.Sprintf("cost: unhandled pricing category %T", p))
	}
}

func pricePart(line *Line, e selection.SelectedIssue, tiers TierLookup) {
	state := pricing.TierUnknown
	if tiers != nil {
		state = tiers.State(e.IssueID)
	}

	if e.SelectedTierID == nil {
		line.Status = LineUnpriced
		if state == pricing.TierResolved && len(tiers.Tiers(e.IssueID)) == 0 {
			line.Status = LineNoOptions
		}
		return
	}

	switch state {
	case pricing.TierPending, pricing.TierUnknown:
		line.Status = LinePending
	case pricing.TierFailed:
		line.Status = LineFailed
	case pricing.TierResolved:
		tier, ok := tiers.Find(e.IssueID, *e.SelectedTierID)
		if !ok {
			line.Status = LineTierNotFound
			return
		}
		line.Tier = &tier
		line.Amount = tier.Price
		line.Status = LinePriced
	}
}
