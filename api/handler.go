// Package api - HTTP handler for repair quotes
// The handler replays a request into an intake session and renders its subtotal.
// All pricing logic lives in the core packages.
package api

import (
	"context"
	"net/http"

	"repairdesk/adapters/intakefile"
	"repairdesk/core/intake"
	"repairdesk/core/output"
	"repairdesk/core/types"
	"repairdesk/internal/errors"
)

// Handler computes quotes against a backend
type Handler struct {
	backend  intake.Backend
	opts     intake.Options
	currency types.Currency
}

// NewHandler creates a handler
func NewHandler(backend intake.Backend, opts intake.Options, currency types.Currency) *Handler {
	return &Handler{backend: backend, opts: opts, currency: currency}
}

// quote prices a request in a fresh session
func (h *Handler) quote(ctx context.Context, req *QuoteRequest) (*output.Quote, string, error) {
	doc := &intakefile.Document{DeviceType: req.DeviceType}
	for _, issue := range req.Issues {
		doc.Issues = append(doc.Issues, intakefile.IssueRef{
			ID:     types.NormalizeID(issue.ID),
			TierID: issue.TierID,
			Notes:  issue.Notes,
		})
	}

	session := intake.NewSession(h.backend, h.opts)
	warnings, err := doc.Apply(ctx, session)
	if err != nil {
		return nil, session.ID(), err
	}

	q := output.NewQuote(session.Catalog().DeviceType(), h.currency, session.Subtotal())
	q.Warnings = warnings
	return q, session.ID(), nil
}

func validateQuoteRequest(req *QuoteRequest) error {
	if req.DeviceType == "" {
		return errors.Input("device_type is required")
	}
	for i, issue := range req.Issues {
		if types.NormalizeID(issue.ID) == "" {
			return errors.Newf(errors.TypeInput, "issues[%d].id is required", i)
		}
	}
	return nil
}

// statusFor maps an error to its HTTP status and code
func statusFor(err error) (int, string) {
	switch {
	case errors.IsType(err, errors.TypeInput), errors.IsType(err, errors.TypeDecode):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.IsType(err, errors.TypeNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.IsType(err, errors.TypeNetwork):
		return http.StatusBadGateway, "BACKEND_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "ENGINE_ERROR"
	}
}
