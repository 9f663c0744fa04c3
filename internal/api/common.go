// Package api provides the HTTP handlers and request/response types
// exposed by the server.
package api

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse represents a plain success message
type MessageResponse struct {
	Message string `json:"message"`
}
