package dto

// MessageResponse is the standard success body for mutating endpoints
type MessageResponse struct {
	Message string `json:"message"`
}

// CreatedResponse is returned by create endpoints
type CreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error body: a single message string
type ErrorResponse struct {
	Message string `json:"message"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Message: message}
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
