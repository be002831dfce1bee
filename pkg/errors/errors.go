package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// Business status values exposed to clients in the "status" field.
const (
	ResultSuccess       = "success"
	ResultError         = "error"
	ResultDuplicate     = "duplicate"
	ResultNotFound      = "not found"
	ResultWrongPassword = "wrong password"
)

const pqUniqueViolation = "23505"

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Result  string `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance reported with the generic "error" result.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Result: ResultError}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Result: ResultError, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrValidation          = New("VALIDATION_ERROR", http.StatusBadRequest, "Semua kolom wajib diisi!")
	ErrDuplicate           = withResult(New("DUPLICATE", http.StatusBadRequest, "data sudah ada"), ResultDuplicate)
	ErrNotFound            = withResult(New("NOT_FOUND", http.StatusNotFound, "data tidak ditemukan"), ResultNotFound)
	ErrWrongPassword       = withResult(New("WRONG_PASSWORD", http.StatusBadRequest, "Password yang Anda masukkan salah."), ResultWrongPassword)
	ErrUnauthorized        = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden           = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrPreconditionFailed  = New("PRECONDITION_FAILED", http.StatusBadRequest, "precondition failed")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "Terjadi kesalahan pada server.")
	ErrUnknownKind         = New("UNKNOWN_KIND", http.StatusBadRequest, "Tipe tidak dikenali")
	ErrGenerationExhausted = New("GENERATION_EXHAUSTED", http.StatusServiceUnavailable, "Kode unik gagal dibuat, silahkan coba lagi.")
	ErrCacheMiss           = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithResult returns a copy of err reporting a different business status.
func WithResult(err *Error, result string) *Error {
	if err == nil {
		return nil
	}
	return withResult(Clone(err, ""), result)
}

func withResult(err *Error, result string) *Error {
	err.Result = result
	return err
}

// Internal wraps a store failure into a generic internal error with the given message.
func Internal(err error, message string) *Error {
	if message == "" {
		message = ErrInternal.Message
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, message)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}

// Is reports whether err carries the same code as target.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code == target.Code
	}
	return false
}
