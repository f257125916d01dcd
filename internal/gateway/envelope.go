package gateway

import (
	"encoding/json"
)

// Request is the JSON body posted to the GraphQL endpoint.
type Request struct {
	Query     string `json:"query"`
	Variables any    `json:"variables"`
}

// GraphQLError is one entry of a response's errors array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Envelope is a decoded GraphQL response. Data and Errors may both be present.
type Envelope struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []GraphQLError  `json:"errors,omitempty"`
	// Status is the HTTP status the envelope arrived with.
	Status int `json:"-"`
}

// HasErrors reports whether the backend returned a non-empty errors array.
func (e *Envelope) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}

// FirstMessage returns the first error message, or "".
func (e *Envelope) FirstMessage() string {
	if !e.HasErrors() {
		return ""
	}
	return e.Errors[0].Message
}

// HasData reports whether data is present and not null.
func (e *Envelope) HasData() bool {
	return e != nil && len(e.Data) > 0 && string(e.Data) != "null"
}
