// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/postgres"
	"github.com/taibuivan/springfield/pkg/query"
)

var columns = postgres.Columns{
	"id":         {Expr: "id", Kind: postgres.KindText},
	"name":       {Expr: "name", Kind: postgres.KindText},
	"family":     {Expr: "family", Kind: postgres.KindText},
	"age":        {Expr: "age", Kind: postgres.KindNumber},
	"is_major":   {Expr: "ismajor", Kind: postgres.KindBool},
	"episodes":   {Expr: "episodes", Kind: postgres.KindList},
	"status":     {Expr: "status", Kind: postgres.KindText},
	"popularity": {Expr: "popularityscore", Kind: postgres.KindNumber},
}

var index = postgres.TextIndex{Vector: "searchvector", Document: "searchtext"}

/*
TestCompile_Conditions checks the SQL emitted for each operator.
*/
func TestCompile_Conditions(t *testing.T) {
	tests := []struct {
		name      string
		condition query.Condition
		where     string
		args      []any
	}{
		{"eq", query.Eq("is_major", true), "WHERE ismajor = $1", []any{true}},
		{"contains_escapes", query.ContainsFold("family", "50%_off"), `WHERE family ILIKE $1 ESCAPE '\'`, []any{`%50\%\_off%`}},
		{"in", query.In("status", "alive", "dead"), "WHERE status = ANY($1)", []any{[]string{"alive", "dead"}}},
		{"gte", query.Gte("age", 5), "WHERE age >= $1", []any{5}},
		{"has", query.Has("episodes", "e1"), "WHERE $1 = ANY(episodes)", []any{"e1"}},
		{"non_empty_list", query.NonEmpty("episodes"), "WHERE COALESCE(cardinality(episodes), 0) > 0", nil},
		{"empty_text", query.Empty("family"), "WHERE NOT (COALESCE(family, '') <> '')", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := &postgres.Args{}
			compiled, err := columns.Compile(query.Spec{Where: query.Predicate{tt.condition}}, index, args)
			require.NoError(t, err)

			assert.Equal(t, tt.where, compiled.Where)
			assert.Equal(t, tt.args, args.Values())
		})
	}
}

func TestCompile_SortAndWindow(t *testing.T) {
	args := &postgres.Args{}
	spec := query.Spec{
		Where: query.Predicate{query.Gte("age", 5), query.Lte("age", 12)},
		Sort:  []query.SortKey{query.Desc("popularity"), query.Asc("name"), query.Asc("id")},
		Page:  3,
		Limit: 10,
	}

	compiled, err := columns.Compile(spec, index, args)
	require.NoError(t, err)

	assert.Equal(t, "WHERE age >= $1 AND age <= $2", compiled.Where)
	assert.Equal(t, `ORDER BY popularityscore DESC NULLS LAST, name COLLATE "C" ASC NULLS FIRST, id COLLATE "C" ASC NULLS FIRST`, compiled.OrderBy)
	assert.Equal(t, "LIMIT $3 OFFSET $4", compiled.Window)
	assert.Equal(t, []any{5, 12, 10, 20}, args.Values())
}

func TestCompile_Search(t *testing.T) {
	args := &postgres.Args{}
	spec := query.Spec{Search: "Homér  homer Donut", ByRelevance: true, Sort: []query.SortKey{query.Asc("id")}}

	compiled, err := columns.Compile(spec, index, args)
	require.NoError(t, err)

	assert.Equal(t, "WHERE searchvector @@ to_tsquery('simple', $1)", compiled.Where)
	assert.Contains(t, compiled.OrderBy, "count(DISTINCT token)")
	assert.Equal(t, "homer | donut", args.Values()[0])
	assert.Equal(t, []string{"homer", "donut"}, args.Values()[1])
}

func TestCompile_PunctuationOnlySearchIsIgnored(t *testing.T) {
	args := &postgres.Args{}

	compiled, err := columns.Compile(query.Spec{Search: "?!", ByRelevance: true}, index, args)
	require.NoError(t, err)
	assert.Empty(t, compiled.Where)
	assert.Empty(t, args.Values())
}

func TestCompile_UnknownField(t *testing.T) {
	_, err := columns.Compile(query.Spec{Sort: []query.SortKey{query.Asc("nope")}}, index, &postgres.Args{})
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}
