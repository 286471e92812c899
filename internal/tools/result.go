package tools

import "github.com/oceankit/oceankit/internal/table"

// Status values for tool results.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error code constants for Result.Error.
const (
	ErrCodeValidation = "validation"
	ErrCodeNotFound   = "not_found"
	ErrCodeIO         = "io"
	ErrCodeSecurity   = "security"
	ErrCodeDelegate   = "delegate"
	ErrCodeInternal   = "internal"
)

// Error is a structured, model-readable failure.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// Result is the uniform tool output.
type Result struct {
	// InvocationID identifies one dispatch; set by the registry.
	InvocationID string `json:"invocation_id,omitempty"`

	Status  string `json:"status"`
	Message string `json:"message"`

	// Rows is the row count of the produced table, when one exists.
	Rows int `json:"rows,omitempty"`

	// Preview echoes the first rows of the produced table.
	Preview []table.Row `json:"preview,omitempty"`

	// Warnings accumulates non-fatal processing notes (rows dropped,
	// values filled, outliers found).
	Warnings []string `json:"warnings,omitempty"`

	// Files lists paths written by the tool.
	Files []string `json:"files,omitempty"`

	// Data carries tool-specific payload.
	Data map[string]any `json:"data,omitempty"`

	Error *Error `json:"error,omitempty"`
}

// Errorf builds an error Result in one call.
func Errorf(code, message string) Result {
	return Result{
		Status:  StatusError,
		Message: message,
		Error:   &Error{Code: code, Message: message},
	}
}
