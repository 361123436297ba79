// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stats

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/springfield/internal/platform/middleware"
	"github.com/taibuivan/springfield/internal/platform/respond"
	"github.com/taibuivan/springfield/internal/platform/sec"
)

// Handler exposes the statistics reports.
type Handler struct {
	service *Service
}

// NewHandler constructs a stats [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the public reports and the admin dashboard.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/overview", report(handler.service.Overview))
	router.Get("/episodes", report(handler.service.Episodes))
	router.Get("/characters", report(handler.service.Characters))

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))
		admin.Get("/admin", report(handler.service.Admin))
	})

	return router
}

// report adapts a report builder to a GET handler.
func report[T any](build func(context.Context) (*T, error)) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		result, err := build(request.Context())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, result)
	}
}
