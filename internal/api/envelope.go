package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the wire format version reported in every response.
// Clients use it to detect incompatible envelope changes.
const EnvelopeVersion = 1

// successEnvelope wraps successful responses.
type successEnvelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// errorEnvelope wraps error responses. Error carries the human-readable
// message; Code/Message/Details carry the structured form when available.
type errorEnvelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope.
// The version field is named exactly "v"; renaming it breaks clients.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &errorEnvelope{
			V:       EnvelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	return &successEnvelope{
		V:       EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
