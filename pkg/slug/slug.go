// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are used as human-readable identifiers for news articles
// (e.g., "les-simpson-saison-36"). This package handles normalization,
// accent removal, and character sanitization.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the upper bound for a generated slug, in bytes.
const MaxLength = 100

/*
From converts an arbitrary Unicode string into a URL-safe ASCII slug.

Description: The input is folded (see [Fold]); every run of characters
outside [a-z0-9] becomes a single hyphen; leading and trailing hyphens are
dropped and the result is cut to [MaxLength] without ending on a hyphen.
The same input always yields the same slug.
*/
func From(s string) string {
	var builder strings.Builder
	pending := false

	for _, r := range Fold(s) {
		if !isSlugRune(r) {
			pending = builder.Len() > 0
			continue
		}
		if pending {
			builder.WriteByte('-')
			pending = false
		}
		builder.WriteRune(r)
	}

	result := builder.String()
	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Fold lowercases s and strips diacritics, keeping every other rune.
//
// It is shared with the search tokenizer so that slugs and text indexes agree
// on what "the same word" means.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}

// isMn reports whether r is a Unicode non-spacing mark.
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
