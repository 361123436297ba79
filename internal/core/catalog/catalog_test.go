// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/springfield/internal/core/catalog"
)

/*
TestResolve verifies ordering, truncation and placeholders for dangling ids.
*/
func TestResolve(t *testing.T) {
	found := map[string]catalog.CharacterRef{
		"a": {ID: "a", Name: "Homer"},
		"c": {ID: "c", Name: "Lisa"},
	}

	refs := catalog.Resolve([]string{"c", "b", "a", "d"}, 3, found, catalog.MissingCharacter)

	assert.Len(t, refs, 3)
	assert.Equal(t, "Lisa", refs[0].Name)
	assert.True(t, refs[1].Missing)
	assert.Equal(t, catalog.UnknownName, refs[1].Name)
	assert.Equal(t, "Homer", refs[2].Name)
}

func TestHead(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, catalog.Head([]string{"a", "b", "c"}, 2))
	assert.Equal(t, []string{"a"}, catalog.Head([]string{"a"}, 0))
}
