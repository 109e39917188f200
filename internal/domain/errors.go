package domain

import "fmt"

// Error codes. The HTTP layer maps each code to one status.
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeUnavailable   = "UNAVAILABLE"
)

// DomainError is a coded error whose Message is safe to show a client.
// Two DomainErrors match under errors.Is when code and message agree, so a
// sentinel still matches after Wrap attaches a cause.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code && e.Message == t.Message
}

// Wrap returns a copy of e carrying cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Err: cause}
}

var (
	ErrInvalidBody       = NewDomainError(ErrCodeValidation, "invalid request body")
	ErrMissingContent    = NewDomainError(ErrCodeValidation, "content is required")
	ErrMissingQuery      = NewDomainError(ErrCodeValidation, "query is required")
	ErrEmptyQuery        = NewDomainError(ErrCodeValidation, "query cannot be empty")
	ErrInvalidPriceRange = NewDomainError(ErrCodeValidation, "min_price cannot be greater than max_price")
	ErrNegativePrice     = NewDomainError(ErrCodeValidation, "price bounds cannot be negative")

	ErrOrderNotFound    = NewDomainError(ErrCodeNotFound, "order not found")
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "catalog document not found")

	ErrGenerationFailed       = NewDomainError(ErrCodeInternalError, "text generation failed")
	ErrRetrievalFailed        = NewDomainError(ErrCodeInternalError, "retrieval failed")
	ErrGeneratorNotConfigured = NewDomainError(ErrCodeUnavailable, "text generation not configured")
)
