// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads route parameters, JSON bodies and the caller
identity off an [http.Request], returning API errors ready for respond.Error.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/ctxutil"
	"github.com/taibuivan/springfield/internal/platform/sec"
	"github.com/taibuivan/springfield/internal/platform/validate"
	"github.com/taibuivan/springfield/pkg/uuid"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// # Bodies

/*
DecodeJSON decodes exactly one JSON value from the body into target.

Returns:
  - error: VALIDATION_ERROR for malformed JSON, trailing data or a body over 1 MiB
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))

	if err := decoder.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.ValidationError("Request body too large")
		}
		return validate.ErrInvalidJSON
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// # Route Parameters

// ID returns the named route parameter as a canonical lowercase UUID, or
// INVALID_ID naming resource.
func ID(request *http.Request, name, resource string) (string, error) {
	id, ok := uuid.Canonical(chi.URLParam(request, name))
	if !ok {
		return "", apperr.InvalidID(resource)
	}
	return id, nil
}

// Param returns the raw named route parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// # Caller

// IsAdmin reports whether the caller holds an admin token.
func IsAdmin(request *http.Request) bool {
	return ctxutil.GetAuthUser(request.Context()).Has(sec.RoleAdmin)
}

// RequiredUserID returns the caller's user id, or UNAUTHORIZED for anonymous requests.
func RequiredUserID(request *http.Request) (string, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return "", apperr.Unauthorized("Authentication required")
	}
	return claims.UserID, nil
}
