package intakefile

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"repairdesk/core/types"
	"repairdesk/internal/errors"
)

type hclFile struct {
	Device          hclDevice  `hcl:"device,block"`
	Issues          []hclIssue `hcl:"issue,block"`
	Client          *hclClient `hcl:"client,block"`
	Description     string     `hcl:"description,optional"`
	Accessories     string     `hcl:"accessories,optional"`
	UnlockCode      string     `hcl:"unlock_code,optional"`
	DepositReceived bool       `hcl:"deposit_received,optional"`
	ScheduledDate   string     `hcl:"scheduled_date,optional"`
}

type hclDevice struct {
	Type  string `hcl:"type"`
	Brand string `hcl:"brand,optional"`
	Model string `hcl:"model,optional"`
}

type hclIssue struct {
	ID    string `hcl:"id,label"`
	Tier  *int   `hcl:"tier,optional"`
	Notes string `hcl:"notes,optional"`
}

type hclClient struct {
	ID        *int   `hcl:"id,optional"`
	FirstName string `hcl:"first_name,optional"`
	LastName  string `hcl:"last_name,optional"`
	Phone     string `hcl:"phone,optional"`
	Email     string `hcl:"email,optional"`
}

// ParseHCL decodes an HCL intake document:
//
//	device {
//	  type  = "smartphone"
//	  brand = "Apple"
//	}
//	issue "5" {
//	  tier = 7
//	}
//	client {
//	  id = 42
//	}
func ParseHCL(data []byte, filename string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	doc := &Document{
		DeviceType:      raw.Device.Type,
		Brand:           raw.Device.Brand,
		Model:           raw.Device.Model,
		Description:     raw.Description,
		Accessories:     raw.Accessories,
		UnlockCode:      raw.UnlockCode,
		DepositReceived: raw.DepositReceived,
	}
	for _, issue := range raw.Issues {
		doc.Issues = append(doc.Issues, IssueRef{ID: issue.ID, TierID: issue.Tier, Notes: issue.Notes})
	}
	if c := raw.Client; c != nil {
		doc.Client.ID = c.ID
		if c.ID == nil {
			doc.Client.New = &types.NewClient{FirstName: c.FirstName, LastName: c.LastName, Phone: c.Phone, Email: c.Email}
		}
	}

	var err error
	if doc.ScheduledDate, err = parseDate(raw.ScheduledDate, filename); err != nil {
		return nil, err
	}
	if err := doc.validate(filename); err != nil {
		return nil, err
	}
	return doc, nil
}

func diagError(filename string, diags hcl.Diagnostics) error {
	return errors.Wrapf(errors.TypeDecode, diags, "parsing %s", filename).
		WithContext("diagnostics", len(diags))
}
