// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/springfield/internal/platform/request"
	"github.com/taibuivan/springfield/internal/platform/sec"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"object", `{"name":"Homer"}`, true},
		{"trailing_whitespace", "{\"name\":\"Homer\"}\n", true},
		{"malformed", `{"name":`, false},
		{"two_values", `{"name":"Homer"}{"name":"Marge"}`, false},
		{"too_large", `{"name":"` + strings.Repeat("h", 2<<20) + `"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var target struct {
				Name string `json:"name"`
			}
			err := requestutil.DecodeJSON(request, &target)

			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, "Homer", target.Name)
				return
			}
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CodeValidation, appError.Code)
		})
	}
}

func TestID(t *testing.T) {
	withParam := func(value string) *http.Request {
		routeContext := chi.NewRouteContext()
		routeContext.URLParams.Add("id", value)
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
	}

	id, err := requestutil.ID(withParam("0192F1C4-7B2A-7C3E-9D4F-1A2B3C4D5E6F"), "id", "Character")
	require.NoError(t, err)
	assert.Equal(t, "0192f1c4-7b2a-7c3e-9d4f-1a2b3c4d5e6f", id)

	_, err = requestutil.ID(withParam("homer"), "id", "Character")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeInvalidID, appError.Code)
}

func TestCaller(t *testing.T) {
	anonymous := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, requestutil.IsAdmin(anonymous))
	_, err := requestutil.RequiredUserID(anonymous)
	assert.Error(t, err)

	claims := &sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleAdmin)}
	admin := anonymous.WithContext(ctxutil.WithAuthUser(anonymous.Context(), claims))
	assert.True(t, requestutil.IsAdmin(admin))

	userID, err := requestutil.RequiredUserID(admin)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}
