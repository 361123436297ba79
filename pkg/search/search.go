// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package search provides the tokenizer and scoring used by the text indexes.

Text is folded (lowercase, diacritics stripped) and split on anything that is
neither a letter nor a digit. An [Index] is computed once per stored record;
queries are scored against it with [Index.Score].
*/
package search

import (
	"strings"
	"unicode"

	"github.com/taibuivan/springfield/pkg/slug"
)

// Tokenize folds s and splits it into tokens.
func Tokenize(s string) []string {
	return strings.FieldsFunc(slug.Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Terms returns the distinct tokens of a query, in first-seen order.
func Terms(query string) []string {
	tokens := Tokenize(query)
	seen := make(map[string]struct{}, len(tokens))
	terms := tokens[:0]
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		terms = append(terms, token)
	}
	return terms
}

// Document joins the normalized tokens of every field into one string.
// It is persisted alongside SQL rows so both backends index the same text.
func Document(fields ...string) string {
	var tokens []string
	for _, field := range fields {
		tokens = append(tokens, Tokenize(field)...)
	}
	return strings.Join(tokens, " ")
}

// Index is the precomputed token histogram of one record.
type Index struct {
	counts map[string]int
	total  int
}

// NewIndex builds an index over the given text fields.
func NewIndex(fields ...string) Index {
	index := Index{counts: make(map[string]int)}
	for _, field := range fields {
		for _, token := range Tokenize(field) {
			index.counts[token]++
			index.total++
		}
	}
	return index
}

// Score is the result of matching a query against an [Index].
type Score struct {
	// Relevance is the share of the record's tokens that match a query term.
	Relevance float64
	// Matches is the number of distinct query terms found.
	Matches int
}

// Score evaluates the given query terms. A zero Matches means no hit.
func (index Index) Score(terms []string) Score {
	var score Score
	occurrences := 0
	for _, term := range terms {
		if count := index.counts[term]; count > 0 {
			score.Matches++
			occurrences += count
		}
	}
	if index.total > 0 {
		score.Relevance = float64(occurrences) / float64(index.total)
	}
	return score
}
