// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package query defines the normalized, storage-agnostic form of a list request.

A [Spec] carries a conjunctive [Predicate] (a flat list of [Condition]),
an optional free-text search, a sort order, and a pagination window. Specs are
produced from untrusted URL parameters by a per-kind [Definition] and are
executed either in memory (see [Match] and [Compare]) or compiled to SQL by
the postgres package.
*/
package query

import (
	"strings"

	"github.com/taibuivan/springfield/pkg/pagination"
)

// # Predicate AST

// Op identifies the comparison performed by a [Condition].
type Op string

const (
	// OpEq matches when the field equals the value.
	OpEq Op = "eq"

	// OpContainsFold matches when the string field contains the value, ignoring case.
	OpContainsFold Op = "contains"

	// OpIn matches when the field equals any of the values ([]any).
	OpIn Op = "in"

	// OpGte matches when the field is greater than or equal to the value.
	OpGte Op = "gte"

	// OpLte matches when the field is lower than or equal to the value.
	OpLte Op = "lte"

	// OpNonEmpty matches non-null, non-empty strings and non-empty lists.
	OpNonEmpty Op = "nonempty"

	// OpEmpty is the negation of [OpNonEmpty].
	OpEmpty Op = "empty"

	// OpHas matches when the list field contains the value.
	OpHas Op = "has"
)

// Condition is a single field comparison.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Predicate is a conjunction of conditions. An empty predicate matches everything.
type Predicate []Condition

// And returns a new predicate extended with the given conditions.
func (p Predicate) And(conditions ...Condition) Predicate {
	out := make(Predicate, 0, len(p)+len(conditions))
	out = append(out, p...)
	return append(out, conditions...)
}

// Eq builds an [OpEq] condition.
func Eq(field string, value any) Condition {
	return Condition{Field: field, Op: OpEq, Value: value}
}

// ContainsFold builds an [OpContainsFold] condition.
func ContainsFold(field, value string) Condition {
	return Condition{Field: field, Op: OpContainsFold, Value: value}
}

// In builds an [OpIn] condition.
func In(field string, values ...any) Condition {
	return Condition{Field: field, Op: OpIn, Value: values}
}

// Gte builds an [OpGte] condition.
func Gte(field string, value any) Condition {
	return Condition{Field: field, Op: OpGte, Value: value}
}

// Lte builds an [OpLte] condition.
func Lte(field string, value any) Condition {
	return Condition{Field: field, Op: OpLte, Value: value}
}

// NonEmpty builds an [OpNonEmpty] condition.
func NonEmpty(field string) Condition {
	return Condition{Field: field, Op: OpNonEmpty}
}

// Empty builds an [OpEmpty] condition.
func Empty(field string) Condition {
	return Condition{Field: field, Op: OpEmpty}
}

// Has builds an [OpHas] condition.
func Has(field string, value any) Condition {
	return Condition{Field: field, Op: OpHas, Value: value}
}

// # Sorting

// SortKey orders results by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Asc is shorthand for an ascending [SortKey].
func Asc(field string) SortKey { return SortKey{Field: field} }

// Desc is shorthand for a descending [SortKey].
func Desc(field string) SortKey { return SortKey{Field: field, Desc: true} }

// # Spec

// Spec is the validated form of a filter/sort/pagination request.
type Spec struct {
	// Where is applied before counting and windowing.
	Where Predicate

	// Search is the raw free-text query; empty disables text search.
	Search string

	// ByRelevance orders text-search hits by relevance desc, match count desc,
	// then by Sort.
	ByRelevance bool

	// Sort lists the order keys, the last ones being identity tie-breakers.
	Sort []SortKey

	// Page is 1-indexed. Limit <= 0 means "no window".
	Page  int
	Limit int
}

// Skip returns the number of matching items to skip.
func (s Spec) Skip() int {
	return s.window().Offset()
}

// Window returns the slice bounds [from, to) of the page within total matches.
func (s Spec) Window(total int) (from, to int) {
	return s.window().Bounds(total)
}

func (s Spec) window() pagination.Params {
	return pagination.Params{Page: s.Page, Limit: s.Limit}
}

// # Parsing helpers

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
