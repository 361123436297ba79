// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination normalizes the page/limit window of list endpoints and
// builds the "meta" block of paginated responses.
package pagination

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// # Window

// Params is a 1-indexed page window. A non-positive Limit means unbounded.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of items before the window.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Bounds clips the window to a collection of total items and returns the
// slice bounds [from, to). A page past the end yields from == to.
func (p Params) Bounds(total int) (from, to int) {
	from = min(p.Offset(), total)
	if p.Limit <= 0 {
		return from, total
	}
	return from, min(from+p.Limit, total)
}

// Parse reads raw page and limit values. Anything that is not a positive
// integer falls back to the default; limits above [MaxLimit] are capped.
func Parse(rawPage, rawLimit string) Params {
	return Params{
		Page:  positive(rawPage, DefaultPage),
		Limit: min(positive(rawLimit, DefaultLimit), MaxLimit),
	}
}

// FromRequest parses the "page" and "limit" query parameters.
func FromRequest(request *http.Request) Params {
	values := request.URL.Query()
	return Parse(values.Get("page"), values.Get("limit"))
}

func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// # Response Metadata

// Meta is the "meta" block of a paginated response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta derives TotalPages from total and limit.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}
