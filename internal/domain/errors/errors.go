// Package domainerrors defines the closed set of failures business code may
// raise. Each Kind maps to exactly one HTTP status and one result code.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"

	"result-hub/internal/domain/result"
)

// Kind tags a DomainError. The zero value is not a valid kind.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindInvalidInput
	KindAlreadyDeleted
	KindDuplicate
	KindOperationFailed
	KindSaveFailed
)

var allKinds = []Kind{
	KindNotFound,
	KindInvalidInput,
	KindAlreadyDeleted,
	KindDuplicate,
	KindOperationFailed,
	KindSaveFailed,
}

// AllKinds returns every declared kind in a stable order.
func AllKinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool {
	return k >= KindNotFound && k <= KindSaveFailed
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "RESOURCE_NOT_FOUND"
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindAlreadyDeleted:
		return "ALREADY_DELETED"
	case KindDuplicate:
		return "DUPLICATE_RESOURCE"
	case KindOperationFailed:
		return "OPERATION_FAILED"
	case KindSaveFailed:
		return "SAVE_FAILED"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Status returns the HTTP status for k. ok is false for undeclared kinds.
func (k Kind) Status() (status int, ok bool) {
	switch k {
	case KindNotFound:
		return http.StatusNotFound, true
	case KindInvalidInput, KindAlreadyDeleted:
		return http.StatusBadRequest, true
	case KindDuplicate:
		return http.StatusConflict, true
	case KindOperationFailed, KindSaveFailed:
		return http.StatusInternalServerError, true
	}
	return http.StatusInternalServerError, false
}

// ResultCode returns the envelope code used when k is reported in-band.
func (k Kind) ResultCode() result.Code {
	switch k {
	case KindNotFound:
		return result.CodeNotFound
	case KindInvalidInput:
		return result.CodeValidationError
	case KindAlreadyDeleted, KindDuplicate:
		return result.CodeBadRequest
	case KindSaveFailed:
		return result.CodeServerError
	}
	return result.CodeFailure
}

// DomainError is the only error type the dispatcher classifies.
type DomainError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Cause }

// Is matches another *DomainError of the same kind, so sentinel-style
// comparisons like errors.Is(err, ErrNotFound) work across messages.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// New builds a DomainError of kind k.
func New(k Kind, message string) *DomainError {
	return &DomainError{Kind: k, Message: message}
}

// Wrap builds a DomainError of kind k that keeps cause for errors.Is/As.
func Wrap(k Kind, cause error, message string) *DomainError {
	return &DomainError{Kind: k, Message: message, Cause: cause}
}

func NotFound(message string) *DomainError        { return New(KindNotFound, message) }
func InvalidInput(message string) *DomainError    { return New(KindInvalidInput, message) }
func AlreadyDeleted(message string) *DomainError  { return New(KindAlreadyDeleted, message) }
func Duplicate(message string) *DomainError       { return New(KindDuplicate, message) }
func OperationFailed(message string) *DomainError { return New(KindOperationFailed, message) }

// SaveFailed reports a failed write. cause may be nil.
func SaveFailed(message string, cause error) *DomainError {
	return Wrap(KindSaveFailed, cause, message)
}

// Sentinels for errors.Is checks; their messages are never surfaced.
var (
	ErrNotFound        = New(KindNotFound, "resource not found")
	ErrInvalidInput    = New(KindInvalidInput, "invalid input")
	ErrAlreadyDeleted  = New(KindAlreadyDeleted, "resource already deleted")
	ErrDuplicate       = New(KindDuplicate, "duplicate resource")
	ErrOperationFailed = New(KindOperationFailed, "operation failed")
	ErrSaveFailed      = New(KindSaveFailed, "save failed")
)

// As returns the first DomainError in err's chain.
func As(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) && de != nil {
		return de, true
	}
	return nil, false
}

// ToResult turns err into a failure envelope for in-band reporting. Errors
// outside the taxonomy become CodeServerError with the default message.
func ToResult(err error) result.Result {
	if de, ok := As(err); ok && de.Kind.Valid() {
		return result.Failure(de.Kind.ResultCode(), de.Message)
	}
	return result.ServerErrorResult
}
