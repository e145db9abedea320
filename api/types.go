// Package api - API types for repair quotes
// These types define the contract for the /quote endpoint.
package api

import (
	"repairdesk/core/output"
)

// QuoteRequest is the input to POST /quote
type QuoteRequest struct {
	// DeviceType is the device type slug
	DeviceType string `json:"device_type"`

	// Issues are the selected issues
	Issues []QuoteIssue `json:"issues"`
}

// QuoteIssue is one selected issue
type QuoteIssue struct {
	// ID is the issue id, as a number or a string
	ID interface{} `json:"id"`

	// TierID is the chosen quality tier of a part-based issue
	TierID *int `json:"tier_id,omitempty"`

	// Notes are free-text notes
	Notes string `json:"notes,omitempty"`
}

// QuoteResponse is the output of POST /quote
type QuoteResponse struct {
	*output.Quote

	// Metadata describes the computation
	Metadata *ResponseMetadata `json:"metadata,omitempty"`
}

// ResponseMetadata contains execution context
type ResponseMetadata struct {
	SessionID     string `json:"session_id"`
	EngineVersion string `json:"engine_version"`
	DurationMs    int64  `json:"duration_ms"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
