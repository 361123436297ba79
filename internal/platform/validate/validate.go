// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate accumulates field errors for the service layer.
//
// A [Validator] never stops at the first failure: every rule runs, and [Validator.Err]
// folds the failures into one VALIDATION_ERROR whose details name each field.
package validate

import (
	"cmp"
	"fmt"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/pkg/uuid"
)

const (
	msgRequired = "This field is required"
	msgFailed   = "Validation failed"
)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field errors. The zero value is ready to use; create one
// per operation.
type Validator struct {
	errs []apperr.FieldError
}

// # Text

// Required fails on an empty or blank value.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(field, strings.TrimSpace(value) == "", msgRequired)
}

// MinLen fails when value holds fewer than min characters.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) < min, fmt.Sprintf("Minimum %d characters", min))
}

// MaxLen fails when value holds more than max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.check(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// OneOf fails when value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(field, !slices.Contains(allowed, value), "Must be one of: "+strings.Join(allowed, ", "))
}

// # Numbers

// Range fails when value lies outside [min, max].
func (v *Validator) Range(field string, value, min, max int) *Validator {
	return v.check(field, outside(value, min, max), fmt.Sprintf("Must be between %d and %d", min, max))
}

// FloatRange fails when value lies outside [min, max].
func (v *Validator) FloatRange(field string, value, min, max float64) *Validator {
	return v.check(field, outside(value, min, max), fmt.Sprintf("Must be between %g and %g", min, max))
}

func outside[T cmp.Ordered](value, min, max T) bool {
	return value < min || value > max
}

// # Formats

// Email fails unless value parses as a single RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	_, err := mail.ParseAddress(value)
	return v.check(field, err != nil, "Must be a valid email address")
}

// UUID fails unless value is a UUID in any accepted spelling.
func (v *Validator) UUID(field, value string) *Validator {
	return v.check(field, !uuid.Valid(value), "Must be a valid UUID")
}

// URL accepts "", a root-relative path such as "/uploads/x.png", or an
// absolute http(s) URL with a host.
func (v *Validator) URL(field, value string) *Validator {
	if value == "" || strings.HasPrefix(value, "/") {
		return v
	}
	parsed, err := url.Parse(value)
	invalid := err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https")
	return v.check(field, invalid, "Must be a valid URL")
}

// Custom records message against field when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(field, failed, message)
}

// # Result

// Err returns nil when every rule passed, otherwise a VALIDATION_ERROR
// carrying the failures in the order they were recorded.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(msgFailed, v.errs...)
}

func (v *Validator) check(field string, failed bool, message string) *Validator {
	if failed {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// RequiredError builds a single-field VALIDATION_ERROR.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(msgFailed, apperr.FieldError{Field: field, Message: message})
}
