// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package app_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/app"
	"github.com/taibuivan/springfield/internal/platform/config"
)

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

func newClient(t *testing.T) *client {
	t.Helper()

	cfg := &config.Config{
		ServerPort:        "0",
		Environment:       "development",
		StoreDriver:       config.DriverMemory,
		UploadDir:         t.TempDir(),
		UploadBaseURL:     "/uploads",
		ViewFlushInterval: time.Second,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := app.New(t.Context(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(application.Close)

	summary, err := application.Seed(t.Context())
	require.NoError(t, err)
	require.False(t, summary.Skipped)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)
	return &client{t: t, server: server}
}

// do sends a JSON request and decodes the "data" member of the envelope.
func (c *client) do(method, path string, body, out any) int {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(c.t.Context(), method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	request.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.server.Client().Do(request)
	require.NoError(c.t, err)
	defer response.Body.Close()

	if out != nil && response.StatusCode < 300 {
		require.NoError(c.t, json.NewDecoder(response.Body).Decode(out))
	}
	return response.StatusCode
}

func (c *client) login(login, password string) {
	c.t.Helper()

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	status := c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"login": login, "password": password}, &envelope)
	require.Equal(c.t, http.StatusOK, status)
	c.token = envelope.Data.AccessToken
}

type page struct {
	Data []map[string]any `json:"data"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/ready", nil, nil))
}

/*
TestNews_DraftsAreAdminOnly checks that anonymous readers only see published
articles while an admin sees the drafts too.
*/
func TestNews_DraftsAreAdminOnly(t *testing.T) {
	c := newClient(t)

	var public page
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/news", nil, &public))
	for _, article := range public.Data {
		assert.Equal(t, "published", article["status"])
	}

	c.login("admin", "admin123")
	var all page
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/news", nil, &all))
	assert.Equal(t, public.Meta.Total+1, all.Meta.Total)
}

func TestNews_LikeRequiresAuth(t *testing.T) {
	c := newClient(t)

	var list page
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/news", nil, &list))
	require.NotEmpty(t, list.Data)
	id := list.Data[0]["id"].(string)

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/v1/news/"+id+"/like", nil, nil))

	c.login("testuser", "test123")
	var liked struct {
		Data struct {
			Likes int64 `json:"likes"`
		} `json:"data"`
	}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/news/"+id+"/like", nil, &liked))
	assert.EqualValues(t, int64(list.Data[0]["likes"].(float64))+1, liked.Data.Likes)
}

func TestCatalog_MutationsNeedAdmin(t *testing.T) {
	c := newClient(t)
	body := map[string]any{"name": "Apu Nahasapeemapetilon", "description": "Runs the Kwik-E-Mart."}

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/v1/characters", body, nil))

	c.login("testuser", "test123")
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/api/v1/characters", body, nil))

	c.login("admin", "admin123")
	assert.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/characters", body, nil))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/v1/characters", body, nil))
}

/*
TestCharacterDelete_SeversEpisodeCasts deletes a character through the API
and checks that no episode keeps it in its cast.
*/
func TestCharacterDelete_SeversEpisodeCasts(t *testing.T) {
	c := newClient(t)
	c.login("admin", "admin123")

	var characters page
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/characters?search=burns", nil, &characters))
	var burns string
	for _, found := range characters.Data {
		if found["name"] == "Mr. Burns" {
			burns = found["id"].(string)
		}
	}
	require.NotEmpty(t, burns)

	var episodes page
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/episodes?limit=50", nil, &episodes))

	casting := func() []string {
		var ids []string
		for _, ep := range episodes.Data {
			var detail struct {
				Data struct {
					MainCharacters []string `json:"main_characters"`
				} `json:"data"`
			}
			require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/episodes/"+ep["id"].(string), nil, &detail))
			for _, id := range detail.Data.MainCharacters {
				if id == burns {
					ids = append(ids, ep["id"].(string))
				}
			}
		}
		return ids
	}

	require.NotEmpty(t, casting())
	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/v1/characters/"+burns, nil, nil))
	assert.Empty(t, casting())
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/characters/"+burns, nil, nil))
}

func TestStats_AdminReport(t *testing.T) {
	c := newClient(t)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/v1/stats/admin", nil, nil))

	c.login("admin", "admin123")
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/stats/admin", nil, nil))
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/stats/overview", nil, nil))
}
