package types

// ErrorResponse is the body written for every failed request:
//
//	{"error": "missing messages in request"}
type ErrorResponse struct {
	// Error is a human-readable description of the failure.
	Error string `json:"error"`
}

// NewErrorResponse creates an error response carrying message.
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}
