// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/springfield/internal/platform/middleware"
	requestutil "github.com/taibuivan/springfield/internal/platform/request"
	"github.com/taibuivan/springfield/internal/platform/respond"
	"github.com/taibuivan/springfield/internal/platform/sec"
	"github.com/taibuivan/springfield/internal/platform/validate"
	"github.com/taibuivan/springfield/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer of the character catalog.
type Handler struct {
	service *Service
}

// NewHandler constructs a character [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the character endpoints.
//
// # Routing Strategy
//
//   - Discovery (Public): listings, projections and statistics.
//   - Management (Restricted): every mutation requires [sec.RoleAdmin].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listCharacters)
	router.Get("/major", handler.listMajor)
	router.Get("/families", handler.listFamilies)
	router.Get("/jobs", handler.listJobs)
	router.Get("/search/advanced", handler.advancedSearch)
	router.Get("/stats/overview", handler.overview)
	router.Get("/{id}", handler.getCharacter)
	router.Get("/{id}/episodes", handler.listEpisodes)
	router.Get("/{id}/relatives", handler.listRelatives)

	// ## Content Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createCharacter)
		admin.Patch("/{id}", handler.updateCharacter)
		admin.Delete("/{id}", handler.deleteCharacter)

		// Relations
		admin.Post("/{id}/episodes", handler.associateEpisodes)
		admin.Delete("/{id}/episodes/{episodeID}", handler.disassociateEpisode)
		admin.Put("/{id}/popularity", handler.setPopularity)
	})

	return router
}

// # Discovery Endpoints

/*
GET /api/v1/characters.

Description: Paginated list with filters, sorting and full-text search.

Request:
  - search: string
  - isMajor, isRecurring, hasEpisodes: bool
  - family, job: string (case-insensitive substring)
  - status: alive | dead | unknown
  - minPopularity: number
  - ageRange: "min-max"
  - sortBy, sortOrder, page, limit

Response:
  - 200: []Listing
*/
func (handler *Handler) listCharacters(writer http.ResponseWriter, request *http.Request) {
	spec := Definition.Build(request.URL.Query())

	listings, total, err := handler.service.List(request.Context(), spec)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, listings, pagination.NewMeta(spec.Page, spec.Limit, total))
}

// GET /api/v1/characters/major.
func (handler *Handler) listMajor(writer http.ResponseWriter, request *http.Request) {
	characters, err := handler.service.Major(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, characters)
}

// GET /api/v1/characters/families.
func (handler *Handler) listFamilies(writer http.ResponseWriter, request *http.Request) {
	families, err := handler.service.Families(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, families)
}

// GET /api/v1/characters/jobs.
func (handler *Handler) listJobs(writer http.ResponseWriter, request *http.Request) {
	jobs, err := handler.service.Jobs(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, jobs)
}

// searchResponse is the payload of the advanced search.
type searchResponse struct {
	Results []*Character `json:"results"`
	Count   int          `json:"count"`
}

/*
GET /api/v1/characters/search/advanced.

Description: Same filters as the list plus "query"; at most 50 hits, most
popular first.
*/
func (handler *Handler) advancedSearch(writer http.ResponseWriter, request *http.Request) {
	characters, count, err := handler.service.Search(request.Context(), AdvancedSpec(request.URL.Query()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if characters == nil {
		characters = []*Character{}
	}
	respond.OK(writer, searchResponse{Results: characters, Count: count})
}

// GET /api/v1/characters/stats/overview.
func (handler *Handler) overview(writer http.ResponseWriter, request *http.Request) {
	overview, err := handler.service.Overview(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, overview)
}

/*
GET /api/v1/characters/{id}.

Response:
  - 200: Detail
  - 400: INVALID_ID
  - 404: NOT_FOUND
*/
func (handler *Handler) getCharacter(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

/*
GET /api/v1/characters/{id}/episodes.

Request:
  - season: int (optional)
  - page, limit
*/
func (handler *Handler) listEpisodes(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	season, _ := strconv.Atoi(request.URL.Query().Get("season"))

	appearances, err := handler.service.Episodes(request.Context(), id, max(season, 0), params.Page, params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, appearances, pagination.NewMeta(params.Page, params.Limit, appearances.Total))
}

// GET /api/v1/characters/{id}/relatives.
func (handler *Handler) listRelatives(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	kin, err := handler.service.Relatives(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, kin)
}

// # Management Endpoints

// POST /api/v1/characters.
func (handler *Handler) createCharacter(writer http.ResponseWriter, request *http.Request) {
	var input Character
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	character, err := handler.service.Create(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, character)
}

// PATCH /api/v1/characters/{id}.
func (handler *Handler) updateCharacter(writer http.ResponseWriter, request *http.Request) {
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

	character, err := handler.service.Update(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, character)
}

// DELETE /api/v1/characters/{id}.
func (handler *Handler) deleteCharacter(writer http.ResponseWriter, request *http.Request) {
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

// # Relation Endpoints

type associateRequest struct {
	EpisodeIDs []string `json:"episode_ids"`
}

type associateResponse struct {
	Character *Character `json:"character"`
	Added     int        `json:"added"`
}

// POST /api/v1/characters/{id}/episodes.
func (handler *Handler) associateEpisodes(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input associateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	character, added, err := handler.service.Associate(request.Context(), id, input.EpisodeIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, associateResponse{Character: character, Added: added})
}

// DELETE /api/v1/characters/{id}/episodes/{episodeID}.
func (handler *Handler) disassociateEpisode(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	episodeID, err := requestutil.ID(request, "episodeID", "Episode")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	character, err := handler.service.Disassociate(request.Context(), id, episodeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, character)
}

type popularityRequest struct {
	PopularityScore *float64 `json:"popularity_score"`
}

// PUT /api/v1/characters/{id}/popularity.
func (handler *Handler) setPopularity(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input popularityRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.PopularityScore == nil {
		respond.Error(writer, request, validate.RequiredError(FieldPopularity, "This field is required"))
		return
	}

	character, err := handler.service.SetPopularity(request.Context(), id, *input.PopularityScore)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, popularityRequest{PopularityScore: &character.PopularityScore})
}
