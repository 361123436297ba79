// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package memstore provides the in-process entity store backend.

A [Collection] holds the records of one entity kind behind a single mutex.
Every exported method is one store operation: it runs entirely under the lock,
so read-modify-write helpers built on [Collection.Mutate] are atomic with
respect to each other. Records are cloned on the way in and on the way out;
callers never share memory with the store.

Field access is described once per kind by a [Schema], which the generic
predicate evaluator in package query and the grouping code here both use.
*/
package memstore

import (
	"fmt"
	"slices"
	"sync"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/search"
)

// # Schema

// Accessor reads one field of a record. See package query for the accepted
// return types.
type Accessor[T any] func(T) any

// UniqueKey declares a uniqueness constraint. Key returns "" when the record
// is not constrained (e.g. an optional localized name left empty).
type UniqueKey[T any] struct {
	Name    string
	Key     func(T) string
	Message func(T) string
}

// Schema describes how a [Collection] reads its records.
type Schema[T any] struct {
	// Resource names the kind in error messages ("Character").
	Resource string

	// ID returns the primary key.
	ID func(T) string

	// Fields maps predicate/sort field names to accessors.
	Fields map[string]Accessor[T]

	// Text returns the fields covered by the text index.
	Text func(T) []string

	// Unique lists the secondary uniqueness constraints.
	Unique []UniqueKey[T]

	// Clone deep-copies a record.
	Clone func(T) T
}

type record[T any] struct {
	item  T
	index search.Index
}

// # Collection

// Collection is a mutex-guarded set of records of one kind.
type Collection[T any] struct {
	mu      sync.RWMutex
	schema  Schema[T]
	records map[string]*record[T]
}

// New creates an empty collection.
func New[T any](schema Schema[T]) *Collection[T] {
	if schema.Clone == nil {
		schema.Clone = func(item T) T { return item }
	}
	return &Collection[T]{
		schema:  schema,
		records: make(map[string]*record[T]),
	}
}

// Len returns the number of stored records.
func (collection *Collection[T]) Len() int {
	collection.mu.RLock()
	defer collection.mu.RUnlock()
	return len(collection.records)
}

// Insert stores a new record, rejecting duplicate ids and unique keys.
func (collection *Collection[T]) Insert(item T) error {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	id := collection.schema.ID(item)
	if _, exists := collection.records[id]; exists {
		return apperr.DuplicateKey(fmt.Sprintf("%s %s already exists", collection.schema.Resource, id))
	}

	if err := collection.checkUnique(item, ""); err != nil {
		return err
	}

	collection.put(item)
	return nil
}

// Get returns a copy of the record with the given id.
func (collection *Collection[T]) Get(id string) (T, error) {
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	stored, ok := collection.records[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound(collection.schema.Resource)
	}
	return collection.schema.Clone(stored.item), nil
}

// Replace overwrites an existing record.
func (collection *Collection[T]) Replace(item T) error {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	id := collection.schema.ID(item)
	if _, ok := collection.records[id]; !ok {
		return apperr.NotFound(collection.schema.Resource)
	}

	if err := collection.checkUnique(item, id); err != nil {
		return err
	}

	collection.put(item)
	return nil
}

/*
Mutate applies fn to a copy of the record and stores the result.

Description: The read, the change and the write happen under one lock. When
fn returns an error, or the result violates a unique key, nothing is written.

Returns:
  - T: a copy of the stored record
  - error: NotFound, DuplicateKey, or the error returned by fn
*/
func (collection *Collection[T]) Mutate(id string, fn func(*T) error) (T, error) {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	var zero T
	stored, ok := collection.records[id]
	if !ok {
		return zero, apperr.NotFound(collection.schema.Resource)
	}

	updated := collection.schema.Clone(stored.item)
	if err := fn(&updated); err != nil {
		return zero, err
	}

	if err := collection.checkUnique(updated, id); err != nil {
		return zero, err
	}

	collection.put(updated)
	return collection.schema.Clone(updated), nil
}

// MutateWhere applies fn to every record matching the predicate and stores
// those for which fn reports a change. It returns the number of records changed.
func (collection *Collection[T]) MutateWhere(where query.Predicate, fn func(*T) bool) (int, error) {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	changed := 0
	for _, stored := range collection.records {
		matched, err := collection.matches(stored.item, where)
		if err != nil {
			return changed, err
		}
		if !matched {
			continue
		}

		updated := collection.schema.Clone(stored.item)
		if fn(&updated) {
			collection.put(updated)
			changed++
		}
	}
	return changed, nil
}

// Delete removes the record and reports whether it existed.
func (collection *Collection[T]) Delete(id string) bool {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	if _, ok := collection.records[id]; !ok {
		return false
	}
	delete(collection.records, id)
	return true
}

// Existing returns the subset of ids that resolve to a stored record,
// preserving input order.
func (collection *Collection[T]) Existing(ids []string) []string {
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	found := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := collection.records[id]; ok {
			found = append(found, id)
		}
	}
	return found
}

// Lookup returns copies of the records with the given ids, skipping unknown
// ones and preserving input order.
func (collection *Collection[T]) Lookup(ids []string) []T {
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	items := make([]T, 0, len(ids))
	for _, id := range ids {
		if stored, ok := collection.records[id]; ok {
			items = append(items, collection.schema.Clone(stored.item))
		}
	}
	return items
}

// # Queries

type hit[T any] struct {
	item  T
	score search.Score
}

/*
Find evaluates a [query.Spec].

Description: Records are filtered by the predicate and the text search,
ordered (relevance first when requested, then the sort keys with nulls
first on ascending keys), and windowed.

Returns:
  - []T: copies of the records inside the window
  - int: the number of matches before windowing
  - error: Internal when the query names an unknown field
*/
func (collection *Collection[T]) Find(spec query.Spec) ([]T, int, error) {
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	if err := collection.checkSort(spec.Sort); err != nil {
		return nil, 0, err
	}

	terms := search.Terms(spec.Search)
	hits := make([]hit[T], 0, len(collection.records))

	for _, stored := range collection.records {
		matched, err := collection.matches(stored.item, spec.Where)
		if err != nil {
			return nil, 0, err
		}
		if !matched {
			continue
		}

		entry := hit[T]{item: stored.item}
		if len(terms) > 0 {
			entry.score = stored.index.Score(terms)
			if entry.score.Matches == 0 {
				continue
			}
		}
		hits = append(hits, entry)
	}

	byRelevance := spec.ByRelevance && len(terms) > 0
	slices.SortFunc(hits, func(a, b hit[T]) int {
		if byRelevance {
			if a.score.Relevance != b.score.Relevance {
				if a.score.Relevance > b.score.Relevance {
					return -1
				}
				return 1
			}
			if a.score.Matches != b.score.Matches {
				return b.score.Matches - a.score.Matches
			}
		}
		return collection.compare(a.item, b.item, spec.Sort)
	})

	from, to := spec.Window(len(hits))
	items := make([]T, 0, to-from)
	for _, entry := range hits[from:to] {
		items = append(items, collection.schema.Clone(entry.item))
	}

	return items, len(hits), nil
}

// Count returns the number of records matching the predicate.
func (collection *Collection[T]) Count(where query.Predicate) (int, error) {
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	total := 0
	for _, stored := range collection.records {
		matched, err := collection.matches(stored.item, where)
		if err != nil {
			return 0, err
		}
		if matched {
			total++
		}
	}
	return total, nil
}

type bucket struct {
	group   aggregate.Group
	sum     float64
	summed  bool
	avgSum  float64
	avgSeen int
}

/*
GroupBy computes grouped statistics.

Description: Records whose group field is null or empty are skipped. Members
are projected sorted and bounded by MemberLimit. Averages ignore nulls; a
group with no non-null value has no average.
*/
func (collection *Collection[T]) GroupBy(request aggregate.GroupRequest) ([]aggregate.Group, error) {
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	keyOf, err := collection.accessor(request.Field)
	if err != nil {
		return nil, err
	}

	optional := func(field string) (Accessor[T], error) {
		if field == "" {
			return nil, nil
		}
		return collection.accessor(field)
	}

	memberOf, err := optional(request.Members)
	if err != nil {
		return nil, err
	}
	sumOf, err := optional(request.Sum)
	if err != nil {
		return nil, err
	}
	avgOf, err := optional(request.Avg)
	if err != nil {
		return nil, err
	}

	buckets := make(map[any]*bucket)
	for _, stored := range collection.records {
		matched, err := collection.matches(stored.item, request.Where)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}

		key := query.Normalize(keyOf(stored.item))
		if query.IsEmpty(key) {
			continue
		}

		current, ok := buckets[key]
		if !ok {
			current = &bucket{group: aggregate.Group{Key: key}}
			buckets[key] = current
		}
		current.group.Count++

		if memberOf != nil {
			if member, ok := query.Normalize(memberOf(stored.item)).(string); ok {
				current.group.Members = append(current.group.Members, member)
			}
		}
		if sumOf != nil {
			if value, ok := query.Float(sumOf(stored.item)); ok {
				current.sum += value
				current.summed = true
			}
		}
		if avgOf != nil {
			if value, ok := query.Float(avgOf(stored.item)); ok {
				current.avgSum += value
				current.avgSeen++
			}
		}
	}

	groups := make([]aggregate.Group, 0, len(buckets))
	for _, current := range buckets {
		group := current.group
		if group.Members != nil {
			slices.Sort(group.Members)
			if request.MemberLimit > 0 && len(group.Members) > request.MemberLimit {
				group.Members = group.Members[:request.MemberLimit]
			}
		}
		if current.summed {
			sum := current.sum
			group.Sum = &sum
		}
		if current.avgSeen > 0 {
			avg := current.avgSum / float64(current.avgSeen)
			group.Avg = &avg
		}
		groups = append(groups, group)
	}

	aggregate.Sort(groups, request.Order)
	return aggregate.Truncate(groups, request.Limit), nil
}

// # Internals

func (collection *Collection[T]) put(item T) {
	stored := collection.schema.Clone(item)
	entry := &record[T]{item: stored}
	if collection.schema.Text != nil {
		entry.index = search.NewIndex(collection.schema.Text(stored)...)
	}
	collection.records[collection.schema.ID(stored)] = entry
}

// checkUnique must run under the write lock. self is skipped.
func (collection *Collection[T]) checkUnique(item T, self string) error {
	for _, unique := range collection.schema.Unique {
		key := unique.Key(item)
		if key == "" {
			continue
		}

		for id, stored := range collection.records {
			if id == self || unique.Key(stored.item) != key {
				continue
			}

			message := fmt.Sprintf("%s with this %s already exists", collection.schema.Resource, unique.Name)
			if unique.Message != nil {
				message = unique.Message(item)
			}
			return apperr.DuplicateKey(message)
		}
	}
	return nil
}

func (collection *Collection[T]) accessor(field string) (Accessor[T], error) {
	accessor, ok := collection.schema.Fields[field]
	if !ok {
		return nil, apperr.Internal(fmt.Errorf("memstore: %s has no field %q", collection.schema.Resource, field))
	}
	return accessor, nil
}

func (collection *Collection[T]) matches(item T, where query.Predicate) (bool, error) {
	for _, condition := range where {
		accessor, err := collection.accessor(condition.Field)
		if err != nil {
			return false, err
		}
		if !query.Match(condition, accessor(item)) {
			return false, nil
		}
	}
	return true, nil
}

func (collection *Collection[T]) checkSort(keys []query.SortKey) error {
	for _, key := range keys {
		if _, err := collection.accessor(key.Field); err != nil {
			return err
		}
	}
	return nil
}

func (collection *Collection[T]) compare(a, b T, keys []query.SortKey) int {
	for _, key := range keys {
		accessor := collection.schema.Fields[key.Field]
		result := query.Compare(accessor(a), accessor(b))
		if key.Desc {
			result = -result
		}
		if result != 0 {
			return result
		}
	}
	return 0
}
