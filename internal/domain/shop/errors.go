package shop

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the error categories surfaced by the shared stores.
type ErrorCode string

const (
	// Auth errors.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeSuperseded         ErrorCode = "SUPERSEDED"

	// Cart errors.
	ErrCodeInvalidQuantity ErrorCode = "INVALID_QUANTITY"
	ErrCodeItemNotFound    ErrorCode = "ITEM_NOT_FOUND"
	ErrCodeUnknownBook     ErrorCode = "UNKNOWN_BOOK"

	// Preference persistence errors.
	ErrCodePersistence ErrorCode = "PERSISTENCE_ERROR"

	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is comparisons. They carry no message, so they match
// any DomainError with the same code.
var (
	ErrInvalidCredentials = &DomainError{Code: ErrCodeInvalidCredentials}
	ErrServiceUnavailable = &DomainError{Code: ErrCodeServiceUnavailable}
	ErrSuperseded         = &DomainError{Code: ErrCodeSuperseded}
	ErrInvalidQuantity    = &DomainError{Code: ErrCodeInvalidQuantity}
	ErrItemNotFound       = &DomainError{Code: ErrCodeItemNotFound}
	ErrUnknownBook        = &DomainError{Code: ErrCodeUnknownBook}
	ErrPersistence        = &DomainError{Code: ErrCodePersistence}
)

// DomainError represents a typed error enriched with contextual data while
// remaining free from infrastructure dependencies.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := string(e.Code)
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As usage.
func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another DomainError with the same code. A target without a
// message matches every message for that code.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if e == nil || !errors.As(target, &domainErr) || domainErr == nil {
		return false
	}
	if e.Code != domainErr.Code {
		return false
	}
	return domainErr.Message == "" || e.Message == domainErr.Message
}

// WithContext clones the error with additional contextual metadata.
func (e *DomainError) WithContext(ctx map[string]interface{}) *DomainError {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Context: merged,
	}
}

// CodeOf returns the code of the outermost DomainError in err's chain, or an
// empty code when err carries none.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) && domainErr != nil {
		return domainErr.Code
	}
	return ""
}

// IsAuthError reports whether err belongs to the authentication taxonomy.
func IsAuthError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeInvalidCredentials, ErrCodeServiceUnavailable, ErrCodeSuperseded:
		return true
	default:
		return false
	}
}

// IsCartError reports whether err belongs to the cart taxonomy.
func IsCartError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeInvalidQuantity, ErrCodeItemNotFound, ErrCodeUnknownBook:
		return true
	default:
		return false
	}
}

// NewError constructs a DomainError with the supplied code and message.
func NewError(code ErrorCode, message string, cause error, context map[string]interface{}) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

func newInvalidQuantityError(bookID string, qty int) *DomainError {
	return NewError(ErrCodeInvalidQuantity, "quantity must be positive", nil, map[string]interface{}{
		"book_id":  bookID,
		"quantity": qty,
	})
}

func newItemNotFoundError(bookID string) *DomainError {
	return NewError(ErrCodeItemNotFound, "book is not in the cart", nil, map[string]interface{}{
		"book_id": bookID,
	})
}

// UnknownBookError reports a book id that the catalog does not know.
func UnknownBookError(bookID string) *DomainError {
	return NewError(ErrCodeUnknownBook, "book is not in the catalog", nil, map[string]interface{}{
		"book_id": bookID,
	})
}
