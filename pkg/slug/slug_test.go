// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/springfield/pkg/slug"
)

/*
TestFrom covers the normalization pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Homer Simpson", "homer-simpson"},
		{"accents", "Évènement à Springfield", "evenement-a-springfield"},
		{"punctuation", "D'oh! -- Again?", "d-oh-again"},
		{"leading_trailing", "  ...Bart...  ", "bart"},
		{"digits", "Saison 36, épisode 1", "saison-36-episode-1"},
		{"non_latin_dropped", "シンプソンズ 2025", "2025"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestFrom_Deterministic verifies that the same title always yields the same slug.
*/
func TestFrom_Deterministic(t *testing.T) {
	title := "Les Simpson : un nouveau film annoncé"
	assert.Equal(t, slug.From(title), slug.From(title))
}

/*
TestFrom_MaxLength verifies truncation never leaves a trailing hyphen.
*/
func TestFrom_MaxLength(t *testing.T) {
	long := strings.Repeat("abcd ", 60)

	got := slug.From(long)

	assert.LessOrEqual(t, len(got), slug.MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
	assert.True(t, strings.HasPrefix(got, "abcd-abcd"))
}
