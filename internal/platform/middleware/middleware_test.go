// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/internal/platform/middleware"
	"github.com/taibuivan/springfield/internal/platform/sec"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

type corsConfig struct {
	development bool
	suffix      string
}

func (c corsConfig) IsDevelopment() bool         { return c.development }
func (c corsConfig) AllowedOriginSuffix() string { return c.suffix }

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	handler := middleware.RequestID()(okHandler)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "abc")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "abc", recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestRequireRole covers anonymous, member and admin callers on an admin route.
*/
func TestRequireRole(t *testing.T) {
	tokens, err := sec.NewEphemeralTokenService("test")
	require.NoError(t, err)

	memberToken, err := tokens.GenerateAccessToken("u1", "bart", string(sec.RoleMember), time.Hour)
	require.NoError(t, err)
	adminToken, err := tokens.GenerateAccessToken("u2", "admin", string(sec.RoleAdmin), time.Hour)
	require.NoError(t, err)

	handler := middleware.Authenticate(tokens)(middleware.RequireRole(sec.RoleAdmin)(okHandler))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"bad_token", "Bearer abc", http.StatusUnauthorized},
		{"member", "Bearer " + memberToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/characters", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		config  corsConfig
		origin  string
		allowed bool
	}{
		{"development_allows_all", corsConfig{development: true}, "http://localhost:3000", true},
		{"suffix_match", corsConfig{suffix: "springfield.app"}, "https://www.springfield.app", true},
		{"suffix_mismatch", corsConfig{suffix: "springfield.app"}, "https://evil.example", false},
		{"no_suffix_production", corsConfig{}, "https://www.springfield.app", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			recorder := httptest.NewRecorder()

			middleware.CORS(tt.config)(okHandler).ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))
}

func TestRateLimit_RejectsBurstOverflow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx)(okHandler)

	var limited *httptest.ResponseRecorder
	for range constants.DefaultRateLimitBurst * 2 {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/episodes", nil)
		request.RemoteAddr = "198.51.100.4:5000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		if recorder.Code == http.StatusTooManyRequests {
			limited = recorder
			break
		}
	}

	require.NotNil(t, limited, "burst overflow was never limited")
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "RATE_LIMITED")

	// Another address still has a full bucket
	request := httptest.NewRequest(http.MethodGet, "/api/v1/episodes", nil)
	request.RemoteAddr = "198.51.100.5:5000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("d'oh")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, recorder.Body.String(), "d'oh")
}

func TestRequestID_ReplacesOversizedID(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, strings.Repeat("x", 500))
	recorder := httptest.NewRecorder()

	middleware.RequestID()(okHandler).ServeHTTP(recorder, request)

	id := recorder.Header().Get(constants.HeaderXRequestID)
	assert.NotEmpty(t, id)
	assert.Less(t, len(id), 500)
}

func TestCORS_Preflight(t *testing.T) {
	request := httptest.NewRequest(http.MethodOptions, "/api/v1/news", nil)
	request.Header.Set(constants.HeaderOrigin, "http://localhost:5173")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	recorder := httptest.NewRecorder()

	middleware.CORS(corsConfig{development: true})(okHandler).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "Origin", recorder.Header().Get("Vary"))
}
