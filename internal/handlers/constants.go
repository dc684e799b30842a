package handlers

const (
	ErrInvalidRequest      = "Invalid request body"
	ErrInvalidSessionID    = "Invalid session id"
	ErrUnauthorized        = "Unauthorized"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
	ErrServiceUnavailable  = "Service unavailable"
)

const (
	maxRequestBodyBytes = 1 << 20
	requestIDHeader     = "X-Request-ID"
	bearerPrefix        = "Bearer "
	contentTypeHeader   = "Content-Type"
	contentTypeJSON     = "application/json"
)
