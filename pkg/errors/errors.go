package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code classifies a failure for the HTTP layer and for cart callers matching
// on kind rather than message.
type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	// CodePrecondition marks a transition requested from the wrong cart status.
	CodePrecondition Code = "PRECONDITION_FAILED"
	// CodePersistence wraps store I/O and constraint failures verbatim.
	CodePersistence Code = "PERSISTENCE_ERROR"
	CodeInternal    Code = "INTERNAL_ERROR"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

// Only validation and precondition failures expose details to clients; the
// rest surface the public message alone.
var metadataByCode = map[Code]Metadata{
	CodeValidation:   clientFault(http.StatusBadRequest, "validation failed", true),
	CodeUnauthorized: clientFault(http.StatusUnauthorized, "authentication required", false),
	CodeForbidden:    clientFault(http.StatusForbidden, "access denied", false),
	CodeNotFound:     clientFault(http.StatusNotFound, "resource not found", false),
	CodeConflict:     clientFault(http.StatusConflict, "conflict detected", false),
	CodePrecondition: clientFault(http.StatusPreconditionFailed, "cart status does not allow this operation", true),
	CodePersistence:  serverFault(http.StatusServiceUnavailable, "storage unavailable"),
	CodeInternal:     serverFault(http.StatusInternalServerError, "internal server error"),
}

func clientFault(status int, msg string, details bool) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: msg, DetailsAllowed: details}
}

func serverFault(status int, msg string) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: msg, Retryable: true}
}

// Metadata returns the HTTP mapping for c; unknown codes map as internal.
func (c Code) Metadata() Metadata {
	if meta, ok := metadataByCode[c]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

func MetadataFor(code Code) Metadata {
	return code.Metadata()
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap keeps err reachable through errors.Is and errors.As so cart callers can
// still match the store sentinel underneath.
func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return string(e.code) + ": " + e.message
	default:
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error by code alone, so errors.Is(err, New(CodeNotFound, ""))
// holds for any not-found failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t != nil && e.code == t.code
}

// As returns the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code carried by err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	return As(err).Code()
}

func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}

// Retryable reports whether a client may repeat the request that produced err.
func Retryable(err error) bool {
	return CodeOf(err).Metadata().Retryable
}
