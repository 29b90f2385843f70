package models

// APIResponse is the normalized envelope returned on every response.
// Failures carry message "Error" and the underlying error text in Error.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
