// Package api defines the wire-level request/response types shared by all
// HTTP transports. Every endpoint responds with the same envelope.
package api

// Response is the uniform envelope returned by every endpoint.
// Exactly one of Data or Error is populated on a given response.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK builds a success envelope with an optional payload.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope with a stable, client-facing message.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// FailWithDetail builds a failure envelope carrying raw error detail.
// Callers must only attach detail outside of release mode.
func FailWithDetail(message, detail string) Response {
	return Response{Success: false, Message: message, Error: detail}
}
