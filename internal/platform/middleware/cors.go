// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/springfield/internal/platform/constants"
)

// # Cross-Origin Resource Sharing

// AppConfig is the part of the configuration CORS depends on.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOriginSuffix() string
}

const (
	corsMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsHeaders = "Accept, Authorization, Content-Type, Content-Length, X-Request-ID"
	corsExpose  = "Content-Length, X-Request-ID, Retry-After"
	corsMaxAge  = "300"
)

// allowOrigin accepts every origin in development and, elsewhere, only
// origins ending with the configured suffix.
func allowOrigin(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() {
		return true
	}
	suffix := cfg.AllowedOriginSuffix()
	return suffix != "" && strings.HasSuffix(origin, suffix)
}

// CORS echoes allowed origins and answers preflight requests with 204.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Add("Vary", constants.HeaderOrigin)

			if allowOrigin(cfg, origin) {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", corsMethods)
				header.Set("Access-Control-Allow-Headers", corsHeaders)
				header.Set("Access-Control-Expose-Headers", corsExpose)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", corsMaxAge)
			}

			preflight := request.Method == http.MethodOptions && request.Header.Get("Access-Control-Request-Method") != ""
			if preflight {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
