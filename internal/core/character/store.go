// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
)

// # Character Data Access

// Repository defines the data access contract for characters.
type Repository interface {

	/*
		List returns one page of characters and the number matching the filter.

		Parameters:
		  - context: context.Context
		  - spec: query.Spec

		Returns:
		  - []*Character: the window
		  - int: total ignoring the window
		  - error: Database retrieval failures
	*/
	List(context context.Context, spec query.Spec) ([]*Character, int, error)

	/*
		FindByID returns the character with the given ID.

		Returns:
		  - *Character: Hydrated entity
		  - error: apperr.NotFound when absent
	*/
	FindByID(context context.Context, id string) (*Character, error)

	/*
		Create persists a new character.

		Returns:
		  - error: apperr.DuplicateKey on a name clash
	*/
	Create(context context.Context, character *Character) error

	/*
		Update persists every field except the episode list, which is owned
		by the relation helpers below.

		Returns:
		  - error: apperr.NotFound or apperr.DuplicateKey
	*/
	Update(context context.Context, character *Character) error

	// Delete removes a character and reports whether it existed.
	Delete(context context.Context, id string) (bool, error)

	// Count returns the number of characters matching the predicate.
	Count(context context.Context, where query.Predicate) (int, error)

	// GroupBy computes one grouping statistic.
	GroupBy(context context.Context, request aggregate.GroupRequest) ([]aggregate.Group, error)

	/*
		AddEpisodes appends the ids not already present, in one store operation.

		Parameters:
		  - context: context.Context
		  - id: string
		  - episodeIDs: []string (deduplicated, already resolved)
		  - now: time.Time (the new updated_at)

		Returns:
		  - *Character: the updated entity
		  - int: how many ids were actually appended
		  - error: apperr.NotFound when absent
	*/
	AddEpisodes(context context.Context, id string, episodeIDs []string, now time.Time) (*Character, int, error)

	// RemoveEpisode pulls one episode id; a missing id is a no-op on the list.
	RemoveEpisode(context context.Context, id, episodeID string, now time.Time) (*Character, error)

	// SetPopularity overwrites the popularity score.
	SetPopularity(context context.Context, id string, score float64, now time.Time) (*Character, error)

	// DetachEpisode pulls an episode id from every character and returns how many changed.
	DetachEpisode(context context.Context, episodeID string, now time.Time) (int, error)

	// Summaries resolves the given ids; unknown ids are simply absent from the map.
	Summaries(context context.Context, ids []string) (map[string]catalog.CharacterRef, error)
}
