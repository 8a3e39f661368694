// Package errs defines the error shape every failing request is answered with.
//
// Handlers return *Error values; the Fiber error handler serializes them
// so clients always receive the same JSON structure and never an internal
// error message.
package errs

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of its HTTP mapping.
type Kind string

const (
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindInvalidPassword    Kind = "invalid_password"
	KindValidation         Kind = "validation"
	KindUnprocessable      Kind = "unprocessable"
	KindUnauthorized       Kind = "unauthorized"
	KindTooManyRequests    Kind = "too_many_requests"
	KindRouteNotFound      Kind = "route_not_found"
	KindInternal           Kind = "internal"
)

type descriptor struct {
	status      int
	code        string
	description string
}

var descriptors = map[Kind]descriptor{
	KindNotFound:           {http.StatusUnprocessableEntity, "UNKNOWN_RESOURCE_ERROR", "Unknown resource"},
	KindConflict:           {http.StatusConflict, "EMAIL_ALREADY_TAKEN_ERROR", "Email is already taken"},
	KindInvalidCredentials: {http.StatusForbidden, "INVALID_CREDENTIALS_ERROR", "Invalid credentials"},
	KindInvalidPassword:    {http.StatusBadRequest, "INVALID_PASSWORD_ERROR", "Invalid password"},
	KindValidation:         {http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request"},
	KindUnprocessable:      {http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY_ERROR", "Unprocessable entity"},
	KindUnauthorized:       {http.StatusUnauthorized, "INVALID_TOKEN_ERROR", "Invalid token"},
	KindTooManyRequests:    {http.StatusTooManyRequests, "TOO_MANY_REQUESTS_ERROR", "Too many requests"},
	KindRouteNotFound:      {http.StatusNotFound, "ROUTE_NOT_FOUND_ERROR", "Route not found"},
	KindInternal:           {http.StatusInternalServerError, "SERVER_ERROR", "Server error"},
}

// FieldError is a single failed field of a request body.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Error is the error type handlers return. It serializes as the response body.
type Error struct {
	Kind        Kind         `json:"-"`
	Status      int          `json:"statusCode"`
	Code        string       `json:"error"`
	Description string       `json:"description"`
	Message     string       `json:"message"`
	Fields      []FieldError `json:"validation_errors,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an Error of the given kind.
func New(kind Kind, message string) *Error {
	d, ok := descriptors[kind]
	if !ok {
		kind, d = KindInternal, descriptors[KindInternal]
	}
	return &Error{
		Kind:        kind,
		Status:      d.status,
		Code:        d.code,
		Description: d.description,
		Message:     message,
	}
}

// Validation builds a 400 carrying per-field errors.
func Validation(message string, fields []FieldError) *Error {
	e := New(KindValidation, message)
	e.Fields = fields
	return e
}

// Internal is the generic failure shown for anything unexpected.
func Internal() *Error {
	return New(KindInternal, http.StatusText(http.StatusInternalServerError))
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
