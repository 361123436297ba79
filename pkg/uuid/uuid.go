// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides the identifiers of every catalog entity.

Ids are UUIDv7 strings: sortable by creation time, which keeps "id asc" tie
breaks roughly chronological, and valid for both store backends (a Postgres
text primary key or a memory map key).
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// entropy failure is an unrecoverable system-level error
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// # Validation

// Canonical returns the lowercase hyphenated form of s, and false when s is
// not a UUID.
func Canonical(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// Valid reports whether s is a UUID.
func Valid(s string) bool {
	_, ok := Canonical(s)
	return ok
}
