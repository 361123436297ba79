// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/taibuivan/springfield/pkg/pagination"
)

// Reserved parameter names shared by every kind.
const (
	ParamPage      = "page"
	ParamLimit     = "limit"
	ParamSearch    = "search"
	ParamSortBy    = "sortBy"
	ParamSortOrder = "sortOrder"
)

// Contributor parses one raw parameter value and, when it is well formed,
// appends the matching conditions to the query. Malformed input is dropped.
type Contributor func(raw string, spec *Spec)

// Definition is the closed table of parameters recognized for one entity kind.
type Definition struct {
	// Params maps a URL parameter name to its contributor.
	Params map[string]Contributor

	// SortFields maps accepted sortBy values to store field names.
	SortFields map[string]string

	// DefaultSort is the field used when sortBy is absent or unknown.
	DefaultSort string

	// DefaultDesc flips the default direction when sortOrder is absent.
	DefaultDesc bool

	// Identity lists the natural identity keys appended after the primary sort
	// so that pagination is stable. Its last entry must be unique.
	Identity []string
}

/*
Build translates raw URL parameters into a [Spec].

Description: Unknown keys are ignored, malformed values are dropped, and
page/limit fall back to their defaults. When a search term is present and no
explicit sortBy is given, hits are ordered by relevance.

Parameters:
  - values: url.Values (untrusted request parameters)

Returns:
  - Spec: the normalized query
*/
func (definition Definition) Build(values url.Values) Spec {
	window := pagination.Parse(values.Get(ParamPage), values.Get(ParamLimit))
	spec := Spec{Page: window.Page, Limit: window.Limit}

	// Kind-specific filters, in a stable order
	for _, name := range slices.Sorted(maps.Keys(definition.Params)) {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			continue
		}
		definition.Params[name](raw, &spec)
	}

	spec.Search = strings.TrimSpace(values.Get(ParamSearch))

	desc := definition.DefaultDesc
	switch strings.ToLower(strings.TrimSpace(values.Get(ParamSortOrder))) {
	case "asc":
		desc = false
	case "desc":
		desc = true
	}

	sortBy, explicit := definition.SortFields[strings.TrimSpace(values.Get(ParamSortBy))]
	if !explicit {
		sortBy = definition.DefaultSort
	}

	// Relevance wins only when the caller did not pick an order
	if spec.Search != "" && !explicit {
		spec.ByRelevance = true
		spec.Sort = definition.tieBreak("")
		return spec
	}

	spec.Sort = append([]SortKey{{Field: sortBy, Desc: desc}}, definition.tieBreak(sortBy)...)
	return spec
}

// Sorted returns the default ordering of a kind, for internal listings.
func (definition Definition) Sorted(field string, desc bool) []SortKey {
	return append([]SortKey{{Field: field, Desc: desc}}, definition.tieBreak(field)...)
}

// tieBreak returns the identity keys, skipping the primary field.
func (definition Definition) tieBreak(primary string) []SortKey {
	// Relevance ties fall back to entity identity only
	if primary == "" {
		if len(definition.Identity) == 0 {
			return nil
		}
		return []SortKey{{Field: definition.Identity[len(definition.Identity)-1]}}
	}

	keys := make([]SortKey, 0, len(definition.Identity))
	for _, field := range definition.Identity {
		if field != primary {
			keys = append(keys, SortKey{Field: field})
		}
	}
	return keys
}

// # Contributors

// Bool contributes an equality condition on a boolean field.
func Bool(field string) Contributor {
	return func(raw string, spec *Spec) {
		if value, err := strconv.ParseBool(raw); err == nil {
			spec.Where = spec.Where.And(Eq(field, value))
		}
	}
}

// Fold contributes a case-insensitive substring condition.
func Fold(field string) Contributor {
	return func(raw string, spec *Spec) {
		spec.Where = spec.Where.And(ContainsFold(field, raw))
	}
}

// Enum contributes an equality (or membership, for comma-separated input)
// condition restricted to the allowed values. Unknown values are dropped.
func Enum(field string, allowed ...string) Contributor {
	return func(raw string, spec *Spec) {
		var values []any
		for _, candidate := range StringSlice(raw) {
			for _, accepted := range allowed {
				if candidate == accepted {
					values = append(values, candidate)
					break
				}
			}
		}

		switch len(values) {
		case 0:
			return
		case 1:
			spec.Where = spec.Where.And(Eq(field, values[0]))
		default:
			spec.Where = spec.Where.And(In(field, values...))
		}
	}
}

// Int contributes an equality condition on an integer field.
func Int(field string) Contributor {
	return func(raw string, spec *Spec) {
		if value, err := strconv.Atoi(raw); err == nil {
			spec.Where = spec.Where.And(Eq(field, value))
		}
	}
}

// MinNumber contributes a numeric lower bound.
func MinNumber(field string) Contributor {
	return func(raw string, spec *Spec) {
		if value, err := strconv.ParseFloat(raw, 64); err == nil {
			spec.Where = spec.Where.And(Gte(field, value))
		}
	}
}

// IntRange parses "min-max" into an inclusive integer range. The filter is
// applied only when both bounds parse.
func IntRange(field string) Contributor {
	return func(raw string, spec *Spec) {
		lower, upper, found := strings.Cut(raw, "-")
		if !found {
			return
		}

		minimum, errMin := strconv.Atoi(strings.TrimSpace(lower))
		maximum, errMax := strconv.Atoi(strings.TrimSpace(upper))
		if errMin != nil || errMax != nil {
			return
		}

		spec.Where = spec.Where.And(Gte(field, minimum), Lte(field, maximum))
	}
}

// Presence contributes a non-empty (true) or empty (false) test on a list field.
func Presence(field string) Contributor {
	return func(raw string, spec *Spec) {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return
		}
		if value {
			spec.Where = spec.Where.And(NonEmpty(field))
		} else {
			spec.Where = spec.Where.And(Empty(field))
		}
	}
}

// Contains contributes a list-membership condition.
func Contains(field string) Contributor {
	return func(raw string, spec *Spec) {
		spec.Where = spec.Where.And(Has(field, raw))
	}
}
