// Package output provides quote formatting.
// This package produces human and machine-readable outputs.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"repairdesk/core/cost"
	"repairdesk/core/types"
	"repairdesk/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given quote
	Render(w io.Writer, quote *Quote) error
}

// Quote is the priced selection of an intake
type Quote struct {
	// DeviceType is the device type slug
	DeviceType string `json:"device_type"`

	// Currency is the display currency
	Currency types.Currency `json:"currency"`

	// Total is the subtotal rounded for display
	Total string `json:"total"`

	// Settled is false while tier lookups are outstanding
	Settled bool `json:"settled"`

	// Complete is false while a part-based issue has no tier
	Complete bool `json:"complete"`

	// Lines are the priced issues, in selection order
	Lines []QuoteLine `json:"lines"`

	// Pending lists issues whose tier lookup is in flight
	Pending []string `json:"pending,omitempty"`

	// Failed lists issues whose tier lookup failed
	Failed []string `json:"failed,omitempty"`

	// Warnings are non-fatal notes
	Warnings []string `json:"warnings,omitempty"`
}

// QuoteLine is one issue of a quote
type QuoteLine struct {
	IssueID  string             `json:"issue_id"`
	Name     string             `json:"name"`
	Category types.CategoryType `json:"category_type"`
	TierID   *int               `json:"tier_id,omitempty"`
	Tier     types.TierLevel    `json:"tier,omitempty"`
	Warranty int                `json:"warranty_days,omitempty"`
	Amount   string             `json:"amount"`
	Status   cost.LineStatus    `json:"status"`
}

// NewQuote builds a quote from a subtotal
func NewQuote(deviceType string, currency types.Currency, sub cost.Subtotal) *Quote {
	q := &Quote{
		DeviceType: deviceType,
		Currency:   currency,
		Total:      sub.Display(),
		Settled:    sub.Settled,
		Complete:   true,
		Lines:      make([]QuoteLine, 0, len(sub.Lines)),
		Pending:    sub.Pending,
		Failed:     sub.Failed,
	}
	for _, l := range sub.Lines {
		line := QuoteLine{
			IssueID:  l.IssueID,
			Name:     l.IssueName,
			Category: l.Category,
			TierID:   l.TierID,
			Amount:   types.FormatAmount(l.Amount),
			Status:   l.Status,
		}
		if l.Tier != nil {
			line.Tier = l.Tier.Tier
			line.Warranty = l.Tier.WarrantyDays
		}
		if l.Category == types.CategoryPart && l.TierID == nil {
			q.Complete = false
		}
		q.Lines = append(q.Lines, line)
	}
	return q
}

// JSONFormatter renders indented JSON
type JSONFormatter struct{}

// Format implements Formatter
func (JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (JSONFormatter) Render(w io.Writer, quote *Quote) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(quote)
}

// CLIFormatter renders a boxed table
type CLIFormatter struct{}

// Format implements Formatter
func (CLIFormatter) Format() Format { return FormatCLI }

const rule = "───────────────────────────────────────────────────────────────────────"

// Render implements Formatter
func (CLIFormatter) Render(w io.Writer, q *Quote) error {
	p := &printer{w: w}
	p.line("┌%s┐", rule)
	p.line("│ %-69s │", "REPAIR QUOTE  "+q.DeviceType)
	p.line("├%s┤", rule)

	if len(q.Lines) == 0 {
		p.line("│ %-69s │", "no issue selected")
	}
	for _, l := range q.Lines {
		p.line("│ %-48s %20s │", truncate(l.Name, 48), l.Amount+" "+string(q.Currency))
		if detail := lineDetail(l); detail != "" {
			p.line("│   └─ %-64s │", truncate(detail, 64))
		}
	}

	total := q.Total + " " + string(q.Currency)
	if !q.Settled {
		total += " (partial)"
	}
	p.line("├%s┤", rule)
	p.line("│ %-48s %20s │", "SUBTOTAL", total)
	p.line("└%s┘", rule)

	for _, warning := range q.Warnings {
		p.line("warning: %s", warning)
	}
	return p.err
}

func lineDetail(l QuoteLine) string {
	switch l.Status {
	case cost.LinePriced:
		if l.Tier == "" {
			return ""
		}
		if l.Warranty > 0 {
			return fmt.Sprintf("%s tier, %d days warranty", l.Tier, l.Warranty)
		}
		return fmt.Sprintf("%s tier", l.Tier)
	case cost.LineUnpriced:
		return "choose a quality tier"
	default:
		return string(l.Status)
	}
}

// printer keeps the first write error
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// Registry holds formatters by format
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry returns a registry with the built-in formatters
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	_ = r.Register(CLIFormatter{})
	_ = r.Register(JSONFormatter{})
	return r
}

// Register adds a formatter to the registry
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.formatters[f.Format()]; exists {
		return errors.Newf(errors.TypeConfig, "formatter %q already registered", f.Format())
	}
	r.formatters[f.Format()] = f
	return nil
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.Newf(errors.TypeInput, "unknown output format %q (want %s)", format, r.namesLocked())
	}
	return f, nil
}

func (r *Registry) namesLocked() string {
	names := make([]string, 0, len(r.formatters))
	for f := range r.formatters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return fmt.Sprint(names)
}
