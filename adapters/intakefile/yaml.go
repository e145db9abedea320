package intakefile

import (
	"gopkg.in/yaml.v3"

	"repairdesk/core/types"
	"repairdesk/internal/errors"
)

type yamlFile struct {
	Device struct {
		Type  string `yaml:"type"`
		Brand string `yaml:"brand"`
		Model string `yaml:"model"`
	} `yaml:"device"`
	Issues []struct {
		ID    interface{} `yaml:"id"`
		Tier  *int        `yaml:"tier"`
		Notes string      `yaml:"notes"`
	} `yaml:"issues"`
	Client *struct {
		ID        *int   `yaml:"id"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
		Phone     string `yaml:"phone"`
		Email     string `yaml:"email"`
	} `yaml:"client"`
	Description     string `yaml:"description"`
	Accessories     string `yaml:"accessories"`
	UnlockCode      string `yaml:"unlock_code"`
	DepositReceived bool   `yaml:"deposit_received"`
	ScheduledDate   string `yaml:"scheduled_date"`
}

// ParseYAML decodes a YAML intake document
func ParseYAML(data []byte, filename string) (*Document, error) {
	var raw yamlFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(errors.TypeDecode, err, "parsing %s", filename)
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
		doc.Issues = append(doc.Issues, IssueRef{ID: types.NormalizeID(issue.ID), TierID: issue.Tier, Notes: issue.Notes})
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
