// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/springfield/pkg/pagination"
)

/*
TestParse verifies that malformed values never produce a zero or negative window.
*/
func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", "", 1, 20},
		{"explicit", "3", "15", 3, 15},
		{"garbage", "abc", "x10", 1, 20},
		{"zero", "0", "0", 1, 20},
		{"negative", "-2", "-5", 1, 20},
		{"capped", "2", "5000", 2, pagination.MaxLimit},
		{"float", "1.5", "10.0", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.Parse(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestParams_Offset checks the skip computation.
*/
func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, pagination.Params{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
}

func TestParams_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		params   pagination.Params
		total    int
		from, to int
	}{
		{"first_page", pagination.Params{Page: 1, Limit: 10}, 25, 0, 10},
		{"last_partial", pagination.Params{Page: 3, Limit: 10}, 25, 20, 25},
		{"past_end", pagination.Params{Page: 9, Limit: 10}, 25, 25, 25},
		{"unbounded", pagination.Params{Page: 1}, 25, 0, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := tt.params.Bounds(tt.total)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

/*
TestNewMeta verifies total page rounding.
*/
func TestNewMeta(t *testing.T) {
	assert.Equal(t, 3, pagination.NewMeta(1, 10, 21).TotalPages)
	assert.Equal(t, 2, pagination.NewMeta(1, 10, 20).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 10, 0).TotalPages)
}

func TestFromRequest(t *testing.T) {
	request := httptest.NewRequest("GET", "/characters?page=2&limit=7", nil)
	params := pagination.FromRequest(request)

	assert.Equal(t, pagination.Params{Page: 2, Limit: 7}, params)
}
