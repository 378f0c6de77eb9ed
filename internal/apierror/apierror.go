// Package apierror provides the error envelope every 4xx/5xx response uses,
// so internal details (DB errors, stack traces) never reach the client.
package apierror

// APIError is the canonical error envelope. Kind carries the machine-readable
// ledger error kind when there is one.
type APIError struct {
	Detail string `json:"detail"`
	Kind   string `json:"kind,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

func NewKind(kind, msg string) *APIError {
	return &APIError{Detail: msg, Kind: kind}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Kind: "invalid_input", Fields: fields}
}
