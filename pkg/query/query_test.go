// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/pkg/query"
)

var characterDefinition = query.Definition{
	Params: map[string]query.Contributor{
		"isMajor":       query.Bool("is_major"),
		"family":        query.Fold("family"),
		"status":        query.Enum("status", "alive", "dead", "unknown"),
		"minPopularity": query.MinNumber("popularity_score"),
		"ageRange":      query.IntRange("age"),
		"hasEpisodes":   query.Presence("episodes"),
	},
	SortFields:  map[string]string{"name": "name", "popularity": "popularity_score"},
	DefaultSort: "name",
	Identity:    []string{"name", "id"},
}

/*
TestDefinition_Build_Defaults verifies the behaviour for an empty request.
*/
func TestDefinition_Build_Defaults(t *testing.T) {
	spec := characterDefinition.Build(url.Values{})

	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, 20, spec.Limit)
	assert.Empty(t, spec.Where)
	assert.False(t, spec.ByRelevance)
	assert.Equal(t, []query.SortKey{query.Asc("name"), query.Asc("id")}, spec.Sort)
}

/*
TestDefinition_Build_Filters checks every contributor and the silent-drop policy.
*/
func TestDefinition_Build_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  query.Predicate
	}{
		{"bool", "isMajor=true", query.Predicate{query.Eq("is_major", true)}},
		{"bool_malformed", "isMajor=maybe", nil},
		{"fold", "family=simp", query.Predicate{query.ContainsFold("family", "simp")}},
		{"enum", "status=dead", query.Predicate{query.Eq("status", "dead")}},
		{"enum_list", "status=dead,alive", query.Predicate{query.In("status", "dead", "alive")}},
		{"enum_unknown", "status=zombie", nil},
		{"min_number", "minPopularity=50", query.Predicate{query.Gte("popularity_score", 50.0)}},
		{"min_number_malformed", "minPopularity=lots", nil},
		{"age_range", "ageRange=5-12", query.Predicate{query.Gte("age", 5), query.Lte("age", 12)}},
		{"age_range_half", "ageRange=5-", nil},
		{"age_range_garbage", "ageRange=young", nil},
		{"presence_true", "hasEpisodes=true", query.Predicate{query.NonEmpty("episodes")}},
		{"presence_false", "hasEpisodes=false", query.Predicate{query.Empty("episodes")}},
		{"unknown_key", "favouriteColor=yellow", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			spec := characterDefinition.Build(values)
			assert.Equal(t, tt.want, spec.Where)
		})
	}
}

/*
TestDefinition_Build_Sort covers explicit sort, unknown sort, and relevance.
*/
func TestDefinition_Build_Sort(t *testing.T) {
	t.Run("explicit_desc", func(t *testing.T) {
		spec := characterDefinition.Build(url.Values{"sortBy": {"popularity"}, "sortOrder": {"desc"}})
		assert.Equal(t, []query.SortKey{query.Desc("popularity_score"), query.Asc("name"), query.Asc("id")}, spec.Sort)
	})

	t.Run("primary_is_identity", func(t *testing.T) {
		spec := characterDefinition.Build(url.Values{"sortBy": {"name"}, "sortOrder": {"desc"}})
		assert.Equal(t, []query.SortKey{query.Desc("name"), query.Asc("id")}, spec.Sort)
	})

	t.Run("unknown_field_falls_back", func(t *testing.T) {
		spec := characterDefinition.Build(url.Values{"sortBy": {"password"}, "sortOrder": {"sideways"}})
		assert.Equal(t, []query.SortKey{query.Asc("name"), query.Asc("id")}, spec.Sort)
	})

	t.Run("search_without_sort_uses_relevance", func(t *testing.T) {
		spec := characterDefinition.Build(url.Values{"search": {" homer "}})
		assert.True(t, spec.ByRelevance)
		assert.Equal(t, "homer", spec.Search)
		assert.Equal(t, []query.SortKey{query.Asc("id")}, spec.Sort)
	})

	t.Run("search_with_sort", func(t *testing.T) {
		spec := characterDefinition.Build(url.Values{"search": {"homer"}, "sortBy": {"name"}})
		assert.False(t, spec.ByRelevance)
	})
}

func TestSpec_Window(t *testing.T) {
	spec := query.Spec{Page: 2, Limit: 10}

	from, to := spec.Window(25)
	assert.Equal(t, 10, from)
	assert.Equal(t, 20, to)

	from, to = spec.Window(15)
	assert.Equal(t, 10, from)
	assert.Equal(t, 15, to)

	from, to = spec.Window(5)
	assert.Equal(t, 5, from)
	assert.Equal(t, 5, to)

	from, to = query.Spec{}.Window(7)
	assert.Equal(t, 0, from)
	assert.Equal(t, 7, to)
}

/*
TestMatch exercises in-memory evaluation against accessor values.
*/
func TestMatch(t *testing.T) {
	age := 10
	var noAge *int
	aired := time.Date(1990, 1, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		condition query.Condition
		value     any
		want      bool
	}{
		{"eq_string", query.Eq("status", "alive"), "alive", true},
		{"eq_int_float", query.Gte("popularity_score", 50.0), 75, true},
		{"eq_bool", query.Eq("is_major", false), false, true},
		{"contains_fold", query.ContainsFold("job", "PLANT"), "Nuclear plant safety inspector", true},
		{"contains_fold_miss", query.ContainsFold("job", "bar"), "Teacher", false},
		{"in", query.In("status", "dead", "unknown"), "dead", true},
		{"gte_pointer", query.Gte("age", 5), &age, true},
		{"lte_pointer", query.Lte("age", 8), &age, false},
		{"null_never_in_range", query.Gte("age", 0), noAge, false},
		{"nonempty_list", query.NonEmpty("episodes"), []string{"a"}, true},
		{"empty_list", query.Empty("episodes"), []string{}, true},
		{"empty_null", query.Empty("family"), noAge, true},
		{"has", query.Has("tags", "classic"), []string{"classic", "family"}, true},
		{"time_gte", query.Gte("air_date", aired.AddDate(-1, 0, 0)), aired, true},
		{"type_mismatch", query.Eq("season", "one"), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query.Match(tt.condition, tt.value))
		})
	}
}

func TestCompare(t *testing.T) {
	one := 1
	var null *int

	assert.Equal(t, -1, query.Compare(null, &one))
	assert.Equal(t, 1, query.Compare(2, &one))
	assert.Equal(t, 0, query.Compare(1.0, 1))
	assert.Equal(t, -1, query.Compare("bart", "homer"))
	assert.Equal(t, -1, query.Compare(false, true))
}

func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"a", "b"}, query.StringSlice(" a, ,b "))
}
