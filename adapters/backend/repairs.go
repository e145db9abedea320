package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"repairdesk/core/types"
	"repairdesk/internal/errors"
)

// ListIssues returns the issues applicable to a device type slug.
// An empty slug lists every issue.
func (c *Client) ListIssues(ctx context.Context, deviceType string) ([]types.Issue, error) {
	query := url.Values{}
	if deviceType != "" {
		query.Set("device_types", deviceType)
	}
	return listAll[types.Issue](ctx, c, "repairs/issues/", query)
}

// PricingOptions returns the quality tiers offered for a part-based issue
func (c *Client) PricingOptions(ctx context.Context, issueID string) ([]types.QualityTier, error) {
	if issueID == "" {
		return nil, errors.Input("issue id is required")
	}
	var page types.Page[types.QualityTier]
	path := fmt.Sprintf("repairs/issues/%s/pricing_options/", url.PathEscape(issueID))
	if err := c.get(ctx, path, nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// CreateRepair posts a repair creation request
func (c *Client) CreateRepair(ctx context.Context, req types.RepairCreate) (types.Repair, error) {
	var repair types.Repair
	if err := c.send(ctx, http.MethodPost, "repairs/repairs/", req, &repair); err != nil {
		return types.Repair{}, err
	}
	return repair, nil
}

// UpdateRepair sends a partial update of a repair
func (c *Client) UpdateRepair(ctx context.Context, id int, upd types.RepairUpdate) (types.Repair, error) {
	if upd.Empty() {
		return types.Repair{}, errors.Input("repair update carries no field")
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return types.Repair{}, errors.Newf(errors.TypeInput, "unknown repair status %q", *upd.Status)
	}
	var repair types.Repair
	path := fmt.Sprintf("repairs/repairs/%d/", id)
	if err := c.send(ctx, http.MethodPatch, path, upd, &repair); err != nil {
		return types.Repair{}, err
	}
	return repair, nil
}

// GetRepair fetches one repair
func (c *Client) GetRepair(ctx context.Context, id int) (types.Repair, error) {
	var repair types.Repair
	if err := c.get(ctx, fmt.Sprintf("repairs/repairs/%d/", id), nil, &repair); err != nil {
		return types.Repair{}, err
	}
	return repair, nil
}
