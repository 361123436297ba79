// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media stores the images administrators upload for the catalog.

Files land in a flat directory under generated names and are served back
statically; the API only ever hands out their URLs.
*/
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/internal/platform/validate"
	"github.com/taibuivan/springfield/pkg/uuid"
)

// allowedTypes maps accepted extensions to the content type sniffed from the
// first bytes of the file.
var allowedTypes = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Upload describes one stored image.
type Upload struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	URL          string `json:"url"`
	FullURL      string `json:"full_url,omitempty"`
}

// Service validates and stores uploads.
type Service struct {
	storage Storage
	baseURL string
	logger  *slog.Logger
}

// NewService constructs a media [Service]; baseURL prefixes the returned URLs.
func NewService(storage Storage, baseURL string, logger *slog.Logger) *Service {
	return &Service{storage: storage, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

/*
Store validates one multipart file and saves it under a generated name.

Description: The extension must be one of jpeg, jpg, png, gif or webp and the
sniffed content type must agree with it. Files above the size limit are
rejected before anything is written.

Parameters:
  - context: context.Context
  - field: string (form field, used as the name prefix)
  - header: *multipart.FileHeader

Returns:
  - *Upload: the stored file (FullURL is left to the transport)
  - error: ValidationError or Internal
*/
func (service *Service) Store(context context.Context, field string, header *multipart.FileHeader) (*Upload, error) {
	extension := strings.ToLower(filepath.Ext(header.Filename))

	validator := &validate.Validator{}
	_, known := allowedTypes[extension]
	validator.Custom(field, !known, "Only images are allowed (JPEG, JPG, PNG, GIF, WebP)")
	validator.Custom(field, header.Size > constants.MaxUploadBytes, "File too large (maximum 5MB)")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("media: open upload: %w", err))
	}
	defer file.Close()

	sniff := make([]byte, 512)
	read, err := io.ReadFull(file, sniff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperr.Internal(fmt.Errorf("media: read upload: %w", err))
	}
	if http.DetectContentType(sniff[:read]) != allowedTypes[extension] {
		return nil, validate.RequiredError(field, "File content does not match its extension")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, apperr.Internal(fmt.Errorf("media: rewind upload: %w", err))
	}

	name := field + "-" + uuid.New() + extension
	size, err := service.storage.Save(context, name, io.LimitReader(file, constants.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if size > constants.MaxUploadBytes {
		_ = service.storage.Delete(context, name)
		return nil, validate.RequiredError(field, "File too large (maximum 5MB)")
	}

	service.logger.Info("image_uploaded", slog.String("filename", name), slog.Int64("size", size))
	return &Upload{
		Filename:     name,
		OriginalName: filepath.Base(header.Filename),
		Size:         size,
		URL:          service.baseURL + "/" + name,
	}, nil
}

// StoreAll stores a batch; the first invalid file aborts the rest.
func (service *Service) StoreAll(context context.Context, field string, headers []*multipart.FileHeader) ([]*Upload, error) {
	if len(headers) == 0 {
		return nil, validate.RequiredError(field, "No file provided")
	}
	if len(headers) > constants.MaxUploadFiles {
		return nil, validate.RequiredError(field, fmt.Sprintf("At most %d files per upload", constants.MaxUploadFiles))
	}

	uploads := make([]*Upload, 0, len(headers))
	for _, header := range headers {
		upload, err := service.Store(context, field, header)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

// Delete removes a stored image by its generated name.
func (service *Service) Delete(context context.Context, filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return apperr.InvalidID("File")
	}

	if err := service.storage.Delete(context, filename); err != nil {
		return err
	}

	service.logger.Warn("image_deleted", slog.String("filename", filename))
	return nil
}
