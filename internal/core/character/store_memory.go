// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"slices"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/internal/platform/memstore"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
)

// memoryRepository implements [Repository] over a [memstore.Collection].
type memoryRepository struct {
	characters *memstore.Collection[Character]
}

// NewMemoryRepository constructs an empty in-process character store.
func NewMemoryRepository() Repository {
	return &memoryRepository{characters: memstore.New(memorySchema)}
}

func (repository *memoryRepository) List(_ context.Context, spec query.Spec) ([]*Character, int, error) {
	items, total, err := repository.characters.Find(spec)
	if err != nil {
		return nil, 0, err
	}
	return pointers(items), total, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*Character, error) {
	character, err := repository.characters.Get(id)
	if err != nil {
		return nil, err
	}
	return &character, nil
}

func (repository *memoryRepository) Create(_ context.Context, character *Character) error {
	character.normalize()
	return repository.characters.Insert(*character)
}

func (repository *memoryRepository) Update(_ context.Context, character *Character) error {
	updated, err := repository.characters.Mutate(character.ID, func(stored *Character) error {
		episodes := stored.Episodes
		createdAt := stored.CreatedAt

		*stored = character.clone()
		stored.Episodes = episodes
		stored.CreatedAt = createdAt
		stored.normalize()
		return nil
	})
	if err != nil {
		return err
	}
	*character = updated
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) (bool, error) {
	return repository.characters.Delete(id), nil
}

func (repository *memoryRepository) Count(_ context.Context, where query.Predicate) (int, error) {
	return repository.characters.Count(where)
}

func (repository *memoryRepository) GroupBy(_ context.Context, request aggregate.GroupRequest) ([]aggregate.Group, error) {
	return repository.characters.GroupBy(request)
}

func (repository *memoryRepository) AddEpisodes(_ context.Context, id string, episodeIDs []string, now time.Time) (*Character, int, error) {
	added := 0
	updated, err := repository.characters.Mutate(id, func(stored *Character) error {
		for _, episodeID := range episodeIDs {
			if !slices.Contains(stored.Episodes, episodeID) {
				stored.Episodes = append(stored.Episodes, episodeID)
				added++
			}
		}
		stored.EpisodeCount = len(stored.Episodes)
		stored.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &updated, added, nil
}

func (repository *memoryRepository) RemoveEpisode(_ context.Context, id, episodeID string, now time.Time) (*Character, error) {
	updated, err := repository.characters.Mutate(id, func(stored *Character) error {
		stored.Episodes = slices.DeleteFunc(stored.Episodes, func(candidate string) bool { return candidate == episodeID })
		stored.EpisodeCount = len(stored.Episodes)
		stored.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (repository *memoryRepository) SetPopularity(_ context.Context, id string, score float64, now time.Time) (*Character, error) {
	updated, err := repository.characters.Mutate(id, func(stored *Character) error {
		stored.PopularityScore = score
		stored.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (repository *memoryRepository) DetachEpisode(_ context.Context, episodeID string, now time.Time) (int, error) {
	return repository.characters.MutateWhere(query.Predicate{query.Has(FieldEpisodes, episodeID)}, func(stored *Character) bool {
		stored.Episodes = slices.DeleteFunc(stored.Episodes, func(candidate string) bool { return candidate == episodeID })
		stored.EpisodeCount = len(stored.Episodes)
		stored.UpdatedAt = now
		return true
	})
}

func (repository *memoryRepository) Summaries(_ context.Context, ids []string) (map[string]catalog.CharacterRef, error) {
	found := make(map[string]catalog.CharacterRef, len(ids))
	for _, character := range repository.characters.Lookup(ids) {
		found[character.ID] = character.Ref()
	}
	return found, nil
}

func pointers(items []Character) []*Character {
	out := make([]*Character, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
