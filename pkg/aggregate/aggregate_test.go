// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/springfield/pkg/aggregate"
)

/*
TestSort_CountDesc verifies count ordering with key ties broken lexicographically.
*/
func TestSort_CountDesc(t *testing.T) {
	groups := []aggregate.Group{
		{Key: "Flanders", Count: 2},
		{Key: "Van Houten", Count: 2},
		{Key: "Simpson", Count: 5},
		{Key: "Bouvier", Count: 2},
	}

	aggregate.Sort(groups, aggregate.OrderCountDesc)

	keys := []any{groups[0].Key, groups[1].Key, groups[2].Key, groups[3].Key}
	assert.Equal(t, []any{"Simpson", "Bouvier", "Flanders", "Van Houten"}, keys)
}

/*
TestSort_KeyAsc verifies numeric keys order numerically, not lexically.
*/
func TestSort_KeyAsc(t *testing.T) {
	groups := []aggregate.Group{{Key: 10, Count: 1}, {Key: 2, Count: 9}, {Key: 1, Count: 3}}

	aggregate.Sort(groups, aggregate.OrderKeyAsc)

	assert.Equal(t, []any{1, 2, 10}, []any{groups[0].Key, groups[1].Key, groups[2].Key})
}

func TestTruncate(t *testing.T) {
	groups := []aggregate.Group{{Key: "a"}, {Key: "b"}, {Key: "c"}}

	assert.Len(t, aggregate.Truncate(groups, 2), 2)
	assert.Len(t, aggregate.Truncate(groups, 0), 3)
	assert.Len(t, aggregate.Truncate(groups, 10), 3)
}

func TestKeyed(t *testing.T) {
	keyed := aggregate.Keyed([]aggregate.Group{{Key: "alive", Count: 4}, {Key: "dead", Count: 1}})
	assert.Equal(t, map[string]int{"alive": 4, "dead": 1}, keyed)
}
