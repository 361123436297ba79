// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries the per-request values set by the middleware chain:
// the correlation id, the request-scoped logger and the verified token claims.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/springfield/internal/platform/sec"
)

// key is typed by the value it stores, so a lookup can never return a value
// of the wrong type and no other package can forge a key.
type key[T any] struct{ name string }

func (k key[T]) with(ctx context.Context, value T) context.Context {
	return context.WithValue(ctx, k, value)
}

func (k key[T]) get(ctx context.Context) (T, bool) {
	value, ok := ctx.Value(k).(T)
	return value, ok
}

var (
	requestIDKey = key[string]{"request_id"}
	loggerKey    = key[*slog.Logger]{"logger"}
	userKey      = key[*sec.AuthClaims]{"user"}
)

// # Request Tracing

// WithRequestID attaches the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return requestIDKey.with(ctx, id)
}

// GetRequestID returns the request id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := requestIDKey.get(ctx)
	return id
}

// # Structured Logging

// WithLogger attaches the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return loggerKey.with(ctx, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := loggerKey.get(ctx); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity & Access

// WithAuthUser attaches the claims of a verified access token.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return userKey.with(ctx, user)
}

// GetAuthUser returns the verified claims, or nil for anonymous requests.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, _ := userKey.get(ctx)
	return claims
}
