// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds the generic helpers the standard [slices] package lacks.
package slice

// Map applies transform to every element. A nil input stays nil.
func Map[T, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}
	result := make([]U, 0, len(input))
	for _, v := range input {
		result = append(result, transform(v))
	}
	return result
}

// Filter keeps the elements for which keep returns true, in order.
func Filter[T any](input []T, keep func(T) bool) []T {
	var result []T
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}

// Unique returns the distinct elements of input in first-seen order.
func Unique[T comparable](input []T) []T {
	seen := make(map[T]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// Difference returns the elements of input absent from exclude, keeping order.
func Difference[T comparable](input, exclude []T) []T {
	skip := make(map[T]struct{}, len(exclude))
	for _, v := range exclude {
		skip[v] = struct{}{}
	}
	return Filter(input, func(v T) bool {
		_, found := skip[v]
		return !found
	})
}

// Index builds a lookup map keyed by the given function.
func Index[T any, K comparable](input []T, key func(T) K) map[K]T {
	result := make(map[K]T, len(input))
	for _, v := range input {
		result[key(v)] = v
	}
	return result
}
