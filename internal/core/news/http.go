// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package news

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/springfield/internal/platform/middleware"
	requestutil "github.com/taibuivan/springfield/internal/platform/request"
	"github.com/taibuivan/springfield/internal/platform/respond"
	"github.com/taibuivan/springfield/internal/platform/sec"
	"github.com/taibuivan/springfield/pkg/pagination"
)

// Handler implements the HTTP layer of the news desk.
type Handler struct {
	service *Service
}

// NewHandler constructs a news [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the news endpoints.
//
// # Routing Strategy
//
//   - Reading (Public): drafts and archives are visible to admins only.
//   - Liking (Authenticated).
//   - Editing (Restricted): requires [sec.RoleAdmin].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listNews)
	router.Get("/featured", handler.listFeatured)
	router.Get("/{idOrSlug}", handler.getNews)

	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth)
		member.Post("/{id}/like", handler.likeNews)
	})

	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/", handler.createNews)
		admin.Patch("/{id}", handler.updateNews)
		admin.Delete("/{id}", handler.deleteNews)
	})

	return router
}

/*
GET /api/v1/news.

Request:
  - search: string
  - category: actualite | rumeur | critique | interview | analyse | evenement
  - status: draft | published | archived (admins only)
  - tag: string
  - isFeatured, isPinned: bool
  - sortBy, sortOrder, page, limit (newest first by default)
*/
func (handler *Handler) listNews(writer http.ResponseWriter, request *http.Request) {
	spec := Definition.Build(request.URL.Query())

	articles, total, err := handler.service.List(request.Context(), spec, !requestutil.IsAdmin(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if articles == nil {
		articles = []*News{}
	}
	respond.Paginated(writer, articles, pagination.NewMeta(spec.Page, spec.Limit, total))
}

// GET /api/v1/news/featured.
func (handler *Handler) listFeatured(writer http.ResponseWriter, request *http.Request) {
	articles, err := handler.service.Featured(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if articles == nil {
		articles = []*News{}
	}
	respond.OK(writer, articles)
}

/*
GET /api/v1/news/{idOrSlug}.

Response:
  - 200: Detail
  - 404: NOT_FOUND (also for unpublished articles requested by non-admins)
*/
func (handler *Handler) getNews(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.Get(request.Context(), requestutil.Param(request, "idOrSlug"), !requestutil.IsAdmin(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

type likeResponse struct {
	Likes int64 `json:"likes"`
}

// POST /api/v1/news/{id}/like.
func (handler *Handler) likeNews(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	likes, err := handler.service.Like(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, likeResponse{Likes: likes})
}

// POST /api/v1/news.
func (handler *Handler) createNews(writer http.ResponseWriter, request *http.Request) {
	authorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input News
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	news, err := handler.service.Create(request.Context(), authorID, &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, news)
}

// PATCH /api/v1/news/{id}.
func (handler *Handler) updateNews(writer http.ResponseWriter, request *http.Request) {
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

	news, err := handler.service.Update(request.Context(), id, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, news)
}

// DELETE /api/v1/news/{id}.
func (handler *Handler) deleteNews(writer http.ResponseWriter, request *http.Request) {
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
