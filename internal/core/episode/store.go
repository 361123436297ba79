// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package episode

import (
	"context"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
)

// # Episode Data Access

// Repository defines the data access contract for episodes.
type Repository interface {

	/*
		List returns one page of episodes and the number matching the filter.

		Parameters:
		  - context: context.Context
		  - spec: query.Spec

		Returns:
		  - []*Episode: the window
		  - int: total ignoring the window
		  - error: Database retrieval failures
	*/
	List(context context.Context, spec query.Spec) ([]*Episode, int, error)

	// FindByID returns the episode with the given ID or apperr.NotFound.
	FindByID(context context.Context, id string) (*Episode, error)

	/*
		Create persists a new episode.

		Returns:
		  - error: apperr.DuplicateKey when (season, episode_number) is taken
	*/
	Create(context context.Context, episode *Episode) error

	// Update persists every editable field; views and ratings are left as stored.
	Update(context context.Context, episode *Episode) error

	// Delete removes an episode and reports whether it existed.
	Delete(context context.Context, id string) (bool, error)

	// Count returns the number of episodes matching the predicate.
	Count(context context.Context, where query.Predicate) (int, error)

	// GroupBy computes one grouping statistic.
	GroupBy(context context.Context, request aggregate.GroupRequest) ([]aggregate.Group, error)

	// IncrementViews adds delta to the view counter; unknown ids are ignored.
	IncrementViews(context context.Context, id string, delta int64) error

	/*
		SetRatings overwrites the scores present in the patch, in one store operation.

		Parameters:
		  - context: context.Context
		  - id: string
		  - ratings: Ratings (nil scores are kept)
		  - now: time.Time

		Returns:
		  - *Episode: the updated entity
		  - error: apperr.NotFound when absent
	*/
	SetRatings(context context.Context, id string, ratings Ratings, now time.Time) (*Episode, error)

	// RemoveMainCharacter pulls a character id from every cast and returns how many episodes changed.
	RemoveMainCharacter(context context.Context, characterID string, now time.Time) (int, error)

	// ExistingIDs returns the subset of ids that resolve, in input order.
	ExistingIDs(context context.Context, ids []string) ([]string, error)

	// Summaries resolves the given ids; unknown ids are absent from the map.
	Summaries(context context.Context, ids []string) (map[string]catalog.EpisodeRef, error)
}
