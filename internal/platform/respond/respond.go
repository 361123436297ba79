// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes the JSON envelopes of the catalog API.
//
// Every body has one of three shapes:
//
//	{"data": ...}                                  single resource
//	{"data": [...], "meta": {...}}                 one page of a list
//	{"error": "...", "code": "...", "details": []} failure
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/ctxutil"
	"github.com/taibuivan/springfield/pkg/pagination"
)

const contentType = "application/json; charset=utf-8"

// SuccessEnvelope wraps a single resource.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope wraps one page of a list and its window metadata.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// # Success Responses

// JSON encodes payload with the given status.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", contentType)
	writer.WriteHeader(statusCode)

	// The status line is already out; an encode failure means the client went away
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK answers 200 with data in the success envelope.
func OK(writer http.ResponseWriter, data any) {
	Status(writer, http.StatusOK, data)
}

// Created answers 201 with the stored resource.
func Created(writer http.ResponseWriter, data any) {
	Status(writer, http.StatusCreated, data)
}

// Status answers an arbitrary status with data in the success envelope.
func Status(writer http.ResponseWriter, statusCode int, data any) {
	JSON(writer, statusCode, SuccessEnvelope{Data: data})
}

// Paginated answers 200 with one page and its metadata.
func Paginated(writer http.ResponseWriter, data any, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// NoContent answers 204 with an empty body.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// # Error Responses

/*
Error maps err onto its API error and writes the error envelope.

Description: Errors that are not an [apperr.AppError] become INTERNAL_ERROR.
Every 5xx is logged with its cause through the request logger; the cause
itself never reaches the client.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctx := request.Context()
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "request_failed",
			slog.String("code", appError.Code),
			slog.Int("status", appError.HTTPStatus),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
