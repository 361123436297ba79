// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memstore_test

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/memstore"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
)

type person struct {
	ID     string
	Name   string
	Family string
	Age    *int
	Score  float64
	Tags   []string
}

func age(n int) *int { return &n }

func newPeople(t *testing.T, people ...person) *memstore.Collection[person] {
	t.Helper()

	collection := memstore.New(memstore.Schema[person]{
		Resource: "Person",
		ID:       func(p person) string { return p.ID },
		Fields: map[string]memstore.Accessor[person]{
			"id":     func(p person) any { return p.ID },
			"name":   func(p person) any { return p.Name },
			"family": func(p person) any { return p.Family },
			"age":    func(p person) any { return p.Age },
			"score":  func(p person) any { return p.Score },
			"tags":   func(p person) any { return p.Tags },
		},
		Text: func(p person) []string { return []string{p.Name, p.Family} },
		Unique: []memstore.UniqueKey[person]{
			{Name: "name", Key: func(p person) string { return p.Name }},
		},
		Clone: func(p person) person {
			p.Tags = slices.Clone(p.Tags)
			return p
		},
	})

	for _, p := range people {
		require.NoError(t, collection.Insert(p))
	}
	return collection
}

func springfield(t *testing.T) *memstore.Collection[person] {
	return newPeople(t,
		person{ID: "1", Name: "Homer", Family: "Simpson", Score: 95},
		person{ID: "2", Name: "Bart", Family: "Simpson", Age: age(10), Score: 90},
		person{ID: "3", Name: "Lisa", Family: "Simpson", Age: age(8), Score: 88},
		person{ID: "4", Name: "Ned", Family: "Flanders", Age: age(60), Score: 70},
		person{ID: "5", Name: "Rod", Family: "Flanders", Age: age(10), Score: 30},
		person{ID: "6", Name: "Moe", Family: "", Score: 60},
	)
}

func names(people []person) []string {
	out := make([]string, 0, len(people))
	for _, p := range people {
		out = append(out, p.Name)
	}
	return out
}

func TestInsert_RejectsDuplicates(t *testing.T) {
	collection := springfield(t)

	err := collection.Insert(person{ID: "1", Name: "Other"})
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateKey))

	err = collection.Insert(person{ID: "9", Name: "Homer"})
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateKey))
	assert.Equal(t, 6, collection.Len())
}

/*
TestClone_Isolation verifies callers never share slices with the store.
*/
func TestClone_Isolation(t *testing.T) {
	collection := newPeople(t, person{ID: "1", Name: "Homer", Tags: []string{"dad"}})

	got, err := collection.Get("1")
	require.NoError(t, err)
	got.Tags[0] = "changed"

	again, err := collection.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "dad", again.Tags[0])
}

func TestMutate(t *testing.T) {
	collection := springfield(t)

	updated, err := collection.Mutate("2", func(p *person) error {
		p.Score = 99
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 99.0, updated.Score)

	// A failing mutation writes nothing
	_, err = collection.Mutate("2", func(p *person) error {
		p.Score = 0
		return errors.New("rejected")
	})
	require.Error(t, err)
	stored, _ := collection.Get("2")
	assert.Equal(t, 99.0, stored.Score)

	// Renaming onto another record's unique key is rejected
	_, err = collection.Mutate("2", func(p *person) error {
		p.Name = "Lisa"
		return nil
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateKey))

	_, err = collection.Mutate("missing", func(*person) error { return nil })
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestMutate_Concurrent verifies read-modify-write helpers do not lose updates.
*/
func TestMutate_Concurrent(t *testing.T) {
	collection := newPeople(t, person{ID: "1", Name: "Homer"})

	var wait sync.WaitGroup
	for range 100 {
		wait.Add(1)
		go func() {
			defer wait.Done()
			_, _ = collection.Mutate("1", func(p *person) error {
				p.Score++
				return nil
			})
		}()
	}
	wait.Wait()

	stored, _ := collection.Get("1")
	assert.Equal(t, 100.0, stored.Score)
}

func TestFind_FilterSortWindow(t *testing.T) {
	collection := springfield(t)

	tests := []struct {
		name  string
		spec  query.Spec
		want  []string
		total int
	}{
		{
			name:  "age_range",
			spec:  query.Spec{Where: query.Predicate{query.Gte("age", 5), query.Lte("age", 12)}, Sort: []query.SortKey{query.Asc("name")}},
			want:  []string{"Bart", "Lisa", "Rod"},
			total: 3,
		},
		{
			name:  "nulls_first_ascending",
			spec:  query.Spec{Sort: []query.SortKey{query.Asc("age"), query.Asc("id")}, Limit: 3},
			want:  []string{"Homer", "Moe", "Lisa"},
			total: 6,
		},
		{
			name:  "desc_with_window",
			spec:  query.Spec{Sort: []query.SortKey{query.Desc("score")}, Page: 2, Limit: 2},
			want:  []string{"Lisa", "Ned"},
			total: 6,
		},
		{
			name:  "contains_fold",
			spec:  query.Spec{Where: query.Predicate{query.ContainsFold("family", "simp")}, Sort: []query.SortKey{query.Asc("name")}},
			want:  []string{"Bart", "Homer", "Lisa"},
			total: 3,
		},
		{
			name:  "page_past_end",
			spec:  query.Spec{Sort: []query.SortKey{query.Asc("name")}, Page: 9, Limit: 10},
			want:  []string{},
			total: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := collection.Find(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(items))
			assert.Equal(t, tt.total, total)
		})
	}
}

/*
TestFind_Relevance ranks by share of matching tokens, then match count, then id.
*/
func TestFind_Relevance(t *testing.T) {
	collection := springfield(t)

	items, total, err := collection.Find(query.Spec{
		Search:      "flanders ned",
		ByRelevance: true,
		Sort:        []query.SortKey{query.Asc("id")},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"Ned", "Rod"}, names(items))
}

func TestFind_UnknownField(t *testing.T) {
	collection := springfield(t)

	_, _, err := collection.Find(query.Spec{Where: query.Predicate{query.Eq("nope", 1)}})
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

/*
TestPagination_Disjoint verifies consecutive pages partition the full order.
*/
func TestPagination_Disjoint(t *testing.T) {
	var people []person
	for i := range 25 {
		people = append(people, person{ID: fmt.Sprintf("%02d", i), Name: fmt.Sprintf("N%02d", i), Score: float64(i % 3)})
	}
	collection := newPeople(t, people...)
	sort := []query.SortKey{query.Asc("score"), query.Asc("id")}

	full, _, err := collection.Find(query.Spec{Sort: sort})
	require.NoError(t, err)
	first, _, err := collection.Find(query.Spec{Sort: sort, Page: 1, Limit: 10})
	require.NoError(t, err)
	second, _, err := collection.Find(query.Spec{Sort: sort, Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, full[:20], append(first, second...))
}

func TestGroupBy(t *testing.T) {
	collection := springfield(t)

	groups, err := collection.GroupBy(aggregate.GroupRequest{
		Field:   "family",
		Members: "name",
		Avg:     "age",
		Sum:     "score",
	})
	require.NoError(t, err)

	require.Len(t, groups, 2, "records with an empty family are excluded")
	assert.Equal(t, "Simpson", groups[0].Key)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, []string{"Bart", "Homer", "Lisa"}, groups[0].Members)
	require.NotNil(t, groups[0].Avg)
	assert.InDelta(t, 9.0, *groups[0].Avg, 0.001, "null ages are ignored")
	assert.InDelta(t, 273.0, *groups[0].Sum, 0.001)
	assert.Equal(t, "Flanders", groups[1].Key)
}

func TestGroupBy_KeyOrderAndLimit(t *testing.T) {
	collection := springfield(t)

	groups, err := collection.GroupBy(aggregate.GroupRequest{
		Field:       "age",
		Members:     "name",
		MemberLimit: 1,
		Order:       aggregate.OrderKeyAsc,
		Limit:       2,
	})
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, 8, groups[0].Key)
	assert.Equal(t, 10, groups[1].Key)
	assert.Equal(t, []string{"Bart"}, groups[1].Members)
}

func TestMutateWhere(t *testing.T) {
	collection := newPeople(t,
		person{ID: "1", Name: "Homer", Tags: []string{"a", "b"}},
		person{ID: "2", Name: "Marge", Tags: []string{"b"}},
		person{ID: "3", Name: "Bart"},
	)

	changed, err := collection.MutateWhere(query.Predicate{query.Has("tags", "b")}, func(p *person) bool {
		p.Tags = slices.DeleteFunc(p.Tags, func(tag string) bool { return tag == "b" })
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	count, err := collection.Count(query.Predicate{query.NonEmpty("tags")})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExistingAndLookup(t *testing.T) {
	collection := springfield(t)

	assert.Equal(t, []string{"3", "1"}, collection.Existing([]string{"3", "x", "1"}))
	assert.Equal(t, []string{"Lisa"}, names(collection.Lookup([]string{"x", "3"})))
	assert.True(t, collection.Delete("3"))
	assert.False(t, collection.Delete("3"))
}
