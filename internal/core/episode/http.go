// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package episode

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/springfield/internal/platform/middleware"
	requestutil "github.com/taibuivan/springfield/internal/platform/request"
	"github.com/taibuivan/springfield/internal/platform/respond"
	"github.com/taibuivan/springfield/internal/platform/sec"
	"github.com/taibuivan/springfield/pkg/pagination"
)

// Handler implements the HTTP layer of the episode catalog.
type Handler struct {
	service *Service
}

// NewHandler constructs an episode [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the episode endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listEpisodes)
	router.Get("/seasons", handler.listSeasons)
	router.Get("/season/{season}", handler.listSeason)
	router.Get("/{id}", handler.getEpisode)

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createEpisode)
		admin.Patch("/{id}", handler.updateEpisode)
		admin.Delete("/{id}", handler.deleteEpisode)
		admin.Put("/{id}/rating", handler.setRatings)
	})

	return router
}

/*
GET /api/v1/episodes.

Request:
  - search: string
  - season, year: int
  - isSpecial: bool
  - minRating: number (imdb)
  - character: string (main character id)
  - sortBy, sortOrder, page, limit

Response:
  - 200: []Listing
*/
func (handler *Handler) listEpisodes(writer http.ResponseWriter, request *http.Request) {
	spec := Definition.Build(request.URL.Query())

	listings, total, err := handler.service.List(request.Context(), spec)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listings, pagination.NewMeta(spec.Page, spec.Limit, total))
}

// GET /api/v1/episodes/seasons.
func (handler *Handler) listSeasons(writer http.ResponseWriter, request *http.Request) {
	seasons, err := handler.service.Seasons(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, seasons)
}

/*
GET /api/v1/episodes/season/{season}.

Response:
  - 200: SeasonListing
  - 400: VALIDATION_ERROR when the season is not a positive integer
*/
func (handler *Handler) listSeason(writer http.ResponseWriter, request *http.Request) {
	// Non-numeric input falls through to the service check
	season, _ := strconv.Atoi(requestutil.Param(request, "season"))

	listing, err := handler.service.BySeason(request.Context(), season)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, listing)
}

// GET /api/v1/episodes/{id}.
func (handler *Handler) getEpisode(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, listing)
}

// POST /api/v1/episodes.
func (handler *Handler) createEpisode(writer http.ResponseWriter, request *http.Request) {
	var input Episode
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	episode, err := handler.service.Create(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, episode)
}

// PATCH /api/v1/episodes/{id}.
func (handler *Handler) updateEpisode(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var patch Patch
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	episode, err := handler.service.Update(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, episode)
}

// DELETE /api/v1/episodes/{id}.
func (handler *Handler) deleteEpisode(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

/*
PUT /api/v1/episodes/{id}/rating.

Description: Partial patch; only the sources present in the body change.

Request:
  - imdb, audience, critics: number in [0, 10]

Response:
  - 200: Ratings
*/
func (handler *Handler) setRatings(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Ratings
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ratings, err := handler.service.SetRatings(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ratings)
}
