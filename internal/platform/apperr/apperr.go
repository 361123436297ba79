// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the errors the catalog API returns to clients.

Error kinds:

  - VALIDATION_ERROR / INVALID_ID: malformed input, never retried.
  - NOT_FOUND: the id resolves to no entity.
  - DUPLICATE_KEY: a uniqueness invariant was violated on write.
  - INVALID_REFERENCE: a relation names ids that do not exist.
  - UNAUTHORIZED / FORBIDDEN: capability check failed.
  - RATE_LIMITED: the caller exhausted its request budget.
  - INTERNAL_ERROR: store failure; the cause is logged, never serialized.

Services return an [*AppError] for every expected failure; anything else is
reported as INTERNAL_ERROR by the response layer.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInvalidID        = "INVALID_ID"
	CodeDuplicateKey     = "DUPLICATE_KEY"
	CodeInvalidReference = "INVALID_REFERENCE"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// # Error Type

// AppError pairs a stable code and a client-safe message with the HTTP status
// it maps to. Cause is for server-side logs only.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message, never the cause.
func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string, details ...FieldError) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// # Client Errors

// NotFound reports that no resource matched, e.g. "Character not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

// InvalidID reports a route id that is not a UUID.
func InvalidID(resource string) *AppError {
	return newError(http.StatusBadRequest, CodeInvalidID, "Invalid "+resource+" id")
}

// ValidationError reports rejected input with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return newError(http.StatusBadRequest, CodeValidation, msg, details...)
}

// DuplicateKey reports a violated uniqueness invariant.
func DuplicateKey(msg string) *AppError {
	return newError(http.StatusConflict, CodeDuplicateKey, msg)
}

// InvalidReference lists, one detail per id, the references that did not resolve.
func InvalidReference(field string, missing []string) *AppError {
	details := make([]FieldError, 0, len(missing))
	for _, id := range missing {
		details = append(details, FieldError{Field: field, Message: "Unknown id " + id})
	}
	return newError(http.StatusUnprocessableEntity, CodeInvalidReference, "Referenced entities do not exist", details...)
}

func Unauthorized(msg string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, msg)
}

// RateLimited tells the caller how many seconds to back off.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// # Server Errors

// Internal wraps an unexpected failure; the client only sees a generic message.
func Internal(cause error) *AppError {
	err := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Inspection

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}

// IsAppError reports whether err's chain holds an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// HasCode reports whether err's chain holds an [*AppError] with code.
func HasCode(err error, code string) bool {
	appError := As(err)
	return appError != nil && appError.Code == code
}
