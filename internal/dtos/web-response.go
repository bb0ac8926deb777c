package dtos

// Response is the envelope every HTTP handler writes. RequestID echoes
// the id assigned by the request-id middleware so a client can quote it
// when reporting a failure.
type Response[T any] struct {
	Message   string         `json:"message"`
	Data      T              `json:"data"`
	RequestID string         `json:"request_id,omitempty"`
	Errors    *ErrorResponse `json:"errors,omitempty"`
}

// ErrorResponse mirrors AppError for the wire: the HTTP-equivalent code,
// a client-safe message, and the offending field when there is one.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
