// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds pointers to literals, mostly for optional fields
// in patches and fixtures.
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}
