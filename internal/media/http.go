// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/internal/platform/middleware"
	requestutil "github.com/taibuivan/springfield/internal/platform/request"
	"github.com/taibuivan/springfield/internal/platform/respond"
	"github.com/taibuivan/springfield/internal/platform/sec"
	"github.com/taibuivan/springfield/internal/platform/validate"
)

// multipartOverhead leaves room for boundaries and headers around the files.
const multipartOverhead = 1 << 20

// Handler implements the upload endpoints. Every route is admin only.
type Handler struct {
	service *Service
}

// NewHandler constructs a media [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the upload endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Post("/image", handler.uploadImage)
	router.Post("/images", handler.uploadImages)
	router.Delete("/{filename}", handler.deleteImage)

	return router
}

/*
POST /api/v1/upload/image.

Request:
  - multipart/form-data with one file in the "image" field

Response:
  - 201: Upload
  - 400: VALIDATION_ERROR (missing file, wrong type, larger than 5MB)
*/
func (handler *Handler) uploadImage(writer http.ResponseWriter, request *http.Request) {
	if err := parseForm(writer, request, 1); err != nil {
		respond.Error(writer, request, err)
		return
	}

	_, header, err := request.FormFile(constants.UploadFormField)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(constants.UploadFormField, "No file provided"))
		return
	}

	upload, err := handler.service.Store(request.Context(), constants.UploadFormField, header)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	upload.FullURL = absolute(request, upload.URL)
	respond.Created(writer, upload)
}

// POST /api/v1/upload/images (up to 10 files in the "images" field).
func (handler *Handler) uploadImages(writer http.ResponseWriter, request *http.Request) {
	if err := parseForm(writer, request, constants.MaxUploadFiles); err != nil {
		respond.Error(writer, request, err)
		return
	}

	uploads, err := handler.service.StoreAll(request.Context(), constants.UploadBatchField, request.MultipartForm.File[constants.UploadBatchField])
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	for _, upload := range uploads {
		upload.FullURL = absolute(request, upload.URL)
	}
	respond.Created(writer, uploads)
}

// DELETE /api/v1/upload/{filename}.
func (handler *Handler) deleteImage(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "filename")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// parseForm bounds the body before parsing so oversized requests fail early.
func parseForm(writer http.ResponseWriter, request *http.Request, files int64) error {
	request.Body = http.MaxBytesReader(writer, request.Body, files*constants.MaxUploadBytes+multipartOverhead)

	err := request.ParseMultipartForm(constants.MaxUploadBytes)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return validate.RequiredError(constants.UploadFormField, "File too large (maximum 5MB)")
	case err != nil:
		return validate.RequiredError(constants.UploadFormField, "Expected a multipart form")
	}
	return nil
}

// absolute resolves a root-relative URL against the request host.
func absolute(request *http.Request, url string) string {
	if !strings.HasPrefix(url, "/") {
		return url
	}

	scheme := "http"
	if request.TLS != nil || strings.EqualFold(request.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + request.Host + url
}
