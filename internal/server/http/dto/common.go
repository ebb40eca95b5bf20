package dto

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// QRResponse carries a PNG data URL.
type QRResponse struct {
	QRCode string `json:"qrCode"`
}

// LoginRequest describes the clerk login payload.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse returns the clerk session token.
type LoginResponse struct {
	Token string `json:"token"`
}

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status string `json:"status"`
}
