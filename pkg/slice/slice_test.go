// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/springfield/pkg/slice"
)

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, slice.Unique([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, slice.Unique[string](nil))
}

func TestDifference(t *testing.T) {
	assert.Equal(t, []string{"c"}, slice.Difference([]string{"a", "c", "b"}, []string{"a", "b"}))
	assert.Nil(t, slice.Difference(nil, []string{"a"}))
}

func TestMapIndex(t *testing.T) {
	upper := slice.Map([]string{"homer", "bart"}, strings.ToUpper)
	assert.Equal(t, []string{"HOMER", "BART"}, upper)

	index := slice.Index(upper, func(s string) byte { return s[0] })
	assert.Equal(t, "BART", index['B'])
}
