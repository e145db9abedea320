// Package intakefile reads intake documents written in HCL or YAML and
// replays them into an intake session.
package intakefile

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"repairdesk/core/intake"
	"repairdesk/core/types"
	"repairdesk/internal/errors"
)

// IssueRef is one issue of a document
type IssueRef struct {
	ID     string
	TierID *int
	Notes  string
}

// ClientRef is either an existing client id or the fields of a new client
type ClientRef struct {
	ID  *int
	New *types.NewClient
}

// Document is a decoded intake file
type Document struct {
	DeviceType      string
	Brand           string
	Model           string
	Issues          []IssueRef
	Client          ClientRef
	Description     string
	Accessories     string
	UnlockCode      string
	DepositReceived bool
	ScheduledDate   *types.Date
}

// Load reads path, choosing the decoder from its extension
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "reading intake file %s", path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return ParseHCL(data, path)
	case ".yaml", ".yml":
		return ParseYAML(data, path)
	default:
		return nil, errors.Newf(errors.TypeInput, "unsupported intake file %s (want .hcl, .yaml or .yml)", path)
	}
}

// validate normalizes ids and checks the required fields
func (d *Document) validate(filename string) error {
	d.DeviceType = strings.TrimSpace(d.DeviceType)
	if d.DeviceType == "" {
		return errors.Newf(errors.TypeDecode, "%s: device type is required", filename)
	}
	for i := range d.Issues {
		d.Issues[i].ID = types.NormalizeID(d.Issues[i].ID)
		if d.Issues[i].ID == "" {
			return errors.Newf(errors.TypeDecode, "%s: issue %d has no id", filename, i+1)
		}
	}
	if d.Client.New != nil && d.Client.ID == nil && !d.Client.New.Complete() {
		return errors.Newf(errors.TypeDecode, "%s: new client requires first_name, last_name and phone", filename)
	}
	return nil
}

func parseDate(s, filename string) (*types.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeDecode, err, "%s: scheduled_date", filename)
	}
	return &d, nil
}

// Details returns the non-issue intake fields
func (d *Document) Details() intake.Details {
	return intake.Details{
		Brand:           d.Brand,
		Model:           d.Model,
		ClientID:        d.Client.ID,
		NewClient:       d.Client.New,
		Description:     d.Description,
		Accessories:     d.Accessories,
		UnlockCode:      d.UnlockCode,
		DepositReceived: d.DepositReceived,
		ScheduledDate:   d.ScheduledDate,
	}
}

// Apply replays the document into s: it loads the catalogs, selects the
// issues, resolves their tiers and records the chosen tiers and notes.
// Catalog problems with individual issues are returned as warnings.
func (d *Document) Apply(ctx context.Context, s *intake.Session) ([]string, error) {
	if err := s.LoadCatalog(ctx, d.DeviceType); err != nil {
		return nil, err
	}

	var warnings []string
	if d.Brand != "" || d.Model != "" {
		if err := s.LoadDevices(ctx, d.Brand); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	for _, ref := range d.Issues {
		if err := s.Add(ref.ID); err != nil {
			if errors.IsType(err, errors.TypeNotFound) {
				warnings = append(warnings, err.Error())
				continue
			}
			return warnings, err
		}
	}

	s.FetchTiers(ctx)

	for _, ref := range d.Issues {
		if ref.Notes != "" {
			_ = s.SetNotes(ref.ID, ref.Notes)
		}
		if ref.TierID == nil {
			continue
		}
		if err := s.SetTier(ref.ID, *ref.TierID); err != nil && !errors.IsType(err, errors.TypeNotFound) {
			warnings = append(warnings, err.Error())
		}
	}
	return warnings, nil
}
