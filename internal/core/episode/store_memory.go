// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package episode

import (
	"context"
	"slices"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/memstore"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
)

// memoryRepository implements [Repository] over a [memstore.Collection].
type memoryRepository struct {
	episodes *memstore.Collection[Episode]
}

// NewMemoryRepository constructs an empty in-process episode store.
func NewMemoryRepository() Repository {
	return &memoryRepository{episodes: memstore.New(memorySchema)}
}

func (repository *memoryRepository) List(_ context.Context, spec query.Spec) ([]*Episode, int, error) {
	items, total, err := repository.episodes.Find(spec)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*Episode, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, total, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*Episode, error) {
	episode, err := repository.episodes.Get(id)
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

func (repository *memoryRepository) Create(_ context.Context, episode *Episode) error {
	episode.normalize()
	return repository.episodes.Insert(*episode)
}

func (repository *memoryRepository) Update(_ context.Context, episode *Episode) error {
	updated, err := repository.episodes.Mutate(episode.ID, func(stored *Episode) error {
		views, ratings, createdAt := stored.Views, stored.Ratings, stored.CreatedAt

		*stored = episode.clone()
		stored.Views = views
		stored.Ratings = ratings
		stored.CreatedAt = createdAt
		stored.normalize()
		return nil
	})
	if err != nil {
		return err
	}
	*episode = updated
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) (bool, error) {
	return repository.episodes.Delete(id), nil
}

func (repository *memoryRepository) Count(_ context.Context, where query.Predicate) (int, error) {
	return repository.episodes.Count(where)
}

func (repository *memoryRepository) GroupBy(_ context.Context, request aggregate.GroupRequest) ([]aggregate.Group, error) {
	return repository.episodes.GroupBy(request)
}

func (repository *memoryRepository) IncrementViews(_ context.Context, id string, delta int64) error {
	_, err := repository.episodes.Mutate(id, func(stored *Episode) error {
		stored.Views += delta
		return nil
	})

	// The episode may have been deleted between the read and the flush
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return nil
	}
	return err
}

func (repository *memoryRepository) SetRatings(_ context.Context, id string, ratings Ratings, now time.Time) (*Episode, error) {
	updated, err := repository.episodes.Mutate(id, func(stored *Episode) error {
		stored.Ratings.Merge(ratings)
		stored.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (repository *memoryRepository) RemoveMainCharacter(_ context.Context, characterID string, now time.Time) (int, error) {
	return repository.episodes.MutateWhere(query.Predicate{query.Has(FieldMainCharacters, characterID)}, func(stored *Episode) bool {
		stored.MainCharacters = slices.DeleteFunc(stored.MainCharacters, func(candidate string) bool { return candidate == characterID })
		stored.UpdatedAt = now
		return true
	})
}

func (repository *memoryRepository) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	return repository.episodes.Existing(ids), nil
}

func (repository *memoryRepository) Summaries(_ context.Context, ids []string) (map[string]catalog.EpisodeRef, error) {
	found := make(map[string]catalog.EpisodeRef, len(ids))
	for _, episode := range repository.episodes.Lookup(ids) {
		found[episode.ID] = episode.Ref()
	}
	return found, nil
}
