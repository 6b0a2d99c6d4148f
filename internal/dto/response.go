package dto

// SuccessResponse is the envelope for successful responses
type SuccessResponse struct {
	Status  string      `json:"status"`
	Results *int        `json:"results,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
