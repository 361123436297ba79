// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import (
	"cmp"
	"strings"
	"time"
)

// # In-memory evaluation
//
// Field accessors return one of: string, bool, int, int64, float64,
// time.Time, the pointer forms of those (nil is null), or []string.

// Match reports whether value satisfies the condition.
func Match(condition Condition, value any) bool {
	value = normalize(value)

	switch condition.Op {
	case OpNonEmpty:
		return !isEmpty(value)
	case OpEmpty:
		return isEmpty(value)
	}

	if value == nil {
		return false
	}

	switch condition.Op {
	case OpEq:
		return equal(value, condition.Value)

	case OpContainsFold:
		text, ok := value.(string)
		needle, okNeedle := condition.Value.(string)
		return ok && okNeedle && strings.Contains(strings.ToLower(text), strings.ToLower(needle))

	case OpIn:
		candidates, _ := condition.Value.([]any)
		for _, candidate := range candidates {
			if equal(value, candidate) {
				return true
			}
		}
		return false

	case OpGte:
		result, ok := compareComparable(value, normalize(condition.Value))
		return ok && result >= 0

	case OpLte:
		result, ok := compareComparable(value, normalize(condition.Value))
		return ok && result <= 0

	case OpHas:
		list, ok := value.([]string)
		needle, okNeedle := condition.Value.(string)
		if !ok || !okNeedle {
			return false
		}
		for _, item := range list {
			if item == needle {
				return true
			}
		}
		return false
	}

	return false
}

// Compare orders two accessor values. Nulls sort first; values of
// incomparable types compare equal.
func Compare(a, b any) int {
	a, b = normalize(a), normalize(b)

	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	result, _ := compareComparable(a, b)
	return result
}

// compareComparable compares two non-null normalized values.
func compareComparable(a, b any) (int, bool) {
	if left, ok := toFloat(a); ok {
		if right, ok := toFloat(b); ok {
			return cmp.Compare(left, right), true
		}
		return 0, false
	}

	switch left := a.(type) {
	case string:
		right, ok := b.(string)
		return strings.Compare(left, right), ok
	case bool:
		right, ok := b.(bool)
		if !ok || left == right {
			return 0, ok
		}
		if !left {
			return -1, true
		}
		return 1, true
	case time.Time:
		right, ok := b.(time.Time)
		return left.Compare(right), ok
	}

	return 0, false
}

func equal(a, b any) bool {
	result, ok := compareComparable(a, normalize(b))
	return ok && result == 0
}

// Normalize dereferences pointer accessor values; nil pointers become nil.
func Normalize(value any) any {
	return normalize(value)
}

// IsEmpty reports whether an accessor value is null, "", or an empty list.
func IsEmpty(value any) bool {
	return isEmpty(normalize(value))
}

// Float converts a numeric or boolean accessor value to float64.
func Float(value any) (float64, bool) {
	value = normalize(value)
	if flag, ok := value.(bool); ok {
		if flag {
			return 1, true
		}
		return 0, true
	}
	return toFloat(value)
}

// normalize dereferences pointers.
func normalize(value any) any {
	switch typed := value.(type) {
	case *string:
		if typed == nil {
			return nil
		}
		return *typed
	case *int:
		if typed == nil {
			return nil
		}
		return *typed
	case *int64:
		if typed == nil {
			return nil
		}
		return *typed
	case *float64:
		if typed == nil {
			return nil
		}
		return *typed
	case *bool:
		if typed == nil {
			return nil
		}
		return *typed
	case *time.Time:
		if typed == nil {
			return nil
		}
		return *typed
	}
	return value
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float64:
		return typed, true
	}
	return 0, false
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case []string:
		return len(typed) == 0
	}
	return false
}
