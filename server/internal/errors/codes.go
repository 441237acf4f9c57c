package errors

import (
	"fmt"
)

// ErrorCode identifies a class of routing failure.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidModule indicates an unknown UI module identifier.
	ErrCodeInvalidModule ErrorCode = "INVALID_MODULE"
	// ErrCodeRateLimitExceeded indicates a client exceeded its request rate.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeTaxonomyInvalid indicates the taxonomy failed to load or validate.
	ErrCodeTaxonomyInvalid ErrorCode = "TAXONOMY_INVALID"
	// ErrCodeStoreUnavailable indicates the intent log store is unreachable.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrCodeLLMUnavailable indicates the LLM refinement service is down.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// RoutingError is a structured error carrying a stable code for API mapping.
type RoutingError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *RoutingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *RoutingError) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error.
func (e *RoutingError) WithContext(key string, value interface{}) *RoutingError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *RoutingError) GetCode() ErrorCode {
	return e.Code
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *RoutingError {
	return &RoutingError{Code: ErrCodeInvalidArgument, Message: msg}
}

// InvalidModule creates an unknown module error.
func InvalidModule(module string) *RoutingError {
	return &RoutingError{
		Code:    ErrCodeInvalidModule,
		Message: fmt.Sprintf("unknown module: %s", module),
	}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *RoutingError {
	return &RoutingError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// TaxonomyInvalid creates a taxonomy validation error.
func TaxonomyInvalid(msg string, cause error) *RoutingError {
	return &RoutingError{Code: ErrCodeTaxonomyInvalid, Message: msg, Cause: cause}
}

// StoreUnavailable creates a store unavailable error.
func StoreUnavailable(msg string, cause error) *RoutingError {
	return &RoutingError{Code: ErrCodeStoreUnavailable, Message: msg, Cause: cause}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string) *RoutingError {
	return &RoutingError{Code: ErrCodeLLMUnavailable, Message: msg}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *RoutingError {
	return &RoutingError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string) *RoutingError {
	return &RoutingError{Code: ErrCodeTimeout, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string, cause error) *RoutingError {
	return &RoutingError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// Wrap wraps an existing error under a code.
func Wrap(cause error, code ErrorCode, msg string) *RoutingError {
	return &RoutingError{Code: code, Message: msg, Cause: cause}
}

// IsCode reports whether err is a RoutingError with the given code.
func IsCode(err error, code ErrorCode) bool {
	if rErr, ok := err.(*RoutingError); ok {
		return rErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the code from any error, falling back to
// defaultCode when err is not a RoutingError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if rErr, ok := err.(*RoutingError); ok {
		return rErr.Code
	}
	return defaultCode
}
