package common

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

// ErrorResponse documents the error body written by the handlers
type ErrorResponse struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Info    string `json:"info,omitempty"`
}
