// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package aggregate describes grouped statistics over an entity store.

A [GroupRequest] names the grouping field and an optional member projection or
numeric aggregate. Stores return [Group] values which are ordered by [Sort]:
records whose group field is null or empty are never part of any group.
*/
package aggregate

import (
	"slices"

	"github.com/taibuivan/springfield/pkg/query"
)

// Order selects how groups are ranked.
type Order int

const (
	// OrderCountDesc ranks by member count desc, ties broken by key asc.
	OrderCountDesc Order = iota

	// OrderKeyAsc ranks by key asc (numeric keys numerically).
	OrderKeyAsc
)

// GroupRequest describes one grouping computation.
type GroupRequest struct {
	// Field is the grouping key.
	Field string

	// Where restricts the records considered.
	Where query.Predicate

	// Members, when set, projects this field of each member into the group.
	Members string

	// MemberLimit bounds the projected members; zero keeps them all.
	MemberLimit int

	// Sum and Avg name numeric fields to aggregate. Boolean fields count as 0/1.
	Sum string
	Avg string

	// Order ranks the resulting groups.
	Order Order

	// Limit bounds the number of groups; zero keeps them all.
	Limit int
}

// Group is one bucket of a grouped statistic.
type Group struct {
	Key     any      `json:"key"`
	Count   int      `json:"count"`
	Members []string `json:"members,omitempty"`
	Sum     *float64 `json:"sum,omitempty"`
	Avg     *float64 `json:"avg,omitempty"`
}

// Sort orders groups in place according to the requested order.
func Sort(groups []Group, order Order) {
	slices.SortStableFunc(groups, func(a, b Group) int {
		if order == OrderCountDesc && a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		return query.Compare(a.Key, b.Key)
	})
}

// Truncate keeps the first limit groups; a zero limit keeps them all.
func Truncate(groups []Group, limit int) []Group {
	if limit > 0 && len(groups) > limit {
		return groups[:limit]
	}
	return groups
}

// Keyed returns the groups as a key→count map, convenient for distributions.
func Keyed(groups []Group) map[string]int {
	out := make(map[string]int, len(groups))
	for _, group := range groups {
		if key, ok := group.Key.(string); ok {
			out[key] = group.Count
		}
	}
	return out
}
