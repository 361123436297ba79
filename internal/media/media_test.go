// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/media"
	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/constants"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newService(t *testing.T) (*media.Service, string) {
	t.Helper()

	dir := t.TempDir()
	storage, err := media.NewDiskStorage(dir)
	require.NoError(t, err)
	return media.NewService(storage, "/uploads/", slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

// fileHeaders builds multipart headers for the given name/content pairs.
func fileHeaders(t *testing.T, field string, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field]
}

func TestStore(t *testing.T) {
	service, dir := newService(t)
	header := fileHeaders(t, "image", map[string][]byte{"Duff Beer.PNG": pngHeader})[0]

	upload, err := service.Store(context.Background(), "image", header)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.Filename, "image-"))
	assert.True(t, strings.HasSuffix(upload.Filename, ".png"))
	assert.Equal(t, "Duff Beer.PNG", upload.OriginalName)
	assert.Equal(t, int64(len(pngHeader)), upload.Size)
	assert.Equal(t, "/uploads/"+upload.Filename, upload.URL)

	stored, err := os.ReadFile(filepath.Join(dir, upload.Filename))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestStore_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
	}{
		{"script", "payload.js", []byte("alert(1)")},
		{"disguised", "homer.jpg", []byte("<html><body>not an image</body></html>")},
		{"mismatch", "homer.gif", pngHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, dir := newService(t)
			header := fileHeaders(t, "image", map[string][]byte{tt.file: tt.content})[0]

			_, err := service.Store(context.Background(), "image", header)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestStore_TooLarge(t *testing.T) {
	service, _ := newService(t)

	content := append(append([]byte{}, pngHeader...), make([]byte, constants.MaxUploadBytes)...)
	header := fileHeaders(t, "image", map[string][]byte{"big.png": content})[0]

	_, err := service.Store(context.Background(), "image", header)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestStoreAll(t *testing.T) {
	service, _ := newService(t)

	headers := fileHeaders(t, "images", map[string][]byte{"a.png": pngHeader, "b.png": pngHeader})
	uploads, err := service.StoreAll(context.Background(), "images", headers)
	require.NoError(t, err)
	require.Len(t, uploads, 2)
	assert.NotEqual(t, uploads[0].Filename, uploads[1].Filename)

	_, err = service.StoreAll(context.Background(), "images", nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestDelete(t *testing.T) {
	service, dir := newService(t)
	header := fileHeaders(t, "image", map[string][]byte{"lisa.png": pngHeader})[0]

	upload, err := service.Store(context.Background(), "image", header)
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), upload.Filename))
	_, err = os.Stat(filepath.Join(dir, upload.Filename))
	assert.True(t, os.IsNotExist(err))

	assert.True(t, apperr.HasCode(service.Delete(context.Background(), upload.Filename), apperr.CodeNotFound))
	assert.True(t, apperr.HasCode(service.Delete(context.Background(), "../secrets"), apperr.CodeInvalidID))
}
