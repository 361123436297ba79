// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/springfield/pkg/uuid"
)

func TestNew_SortsByCreation(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.NotEqual(t, first, second)
	assert.Less(t, first, second)
}

func TestCanonical(t *testing.T) {
	canonical, ok := uuid.Canonical("0190F5A2-7B3C-7D4E-8F9A-0B1C2D3E4F50")
	assert.True(t, ok)
	assert.Equal(t, "0190f5a2-7b3c-7d4e-8f9a-0b1c2d3e4f50", canonical)

	_, ok = uuid.Canonical("homer")
	assert.False(t, ok)
}
