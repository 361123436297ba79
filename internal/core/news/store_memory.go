// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package news

import (
	"context"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/memstore"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
)

type memoryRepository struct {
	articles *memstore.Collection[News]
}

// NewMemoryRepository constructs an empty in-process article store.
func NewMemoryRepository() Repository {
	return &memoryRepository{articles: memstore.New(memorySchema)}
}

func (repository *memoryRepository) List(_ context.Context, spec query.Spec) ([]*News, int, error) {
	items, total, err := repository.articles.Find(spec)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*News, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, total, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*News, error) {
	news, err := repository.articles.Get(id)
	if err != nil {
		return nil, err
	}
	return &news, nil
}

func (repository *memoryRepository) FindBySlug(_ context.Context, slug string) (*News, error) {
	items, _, err := repository.articles.Find(query.Spec{Where: query.Predicate{query.Eq(FieldSlug, slug)}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.NotFound(resource)
	}
	return &items[0], nil
}

func (repository *memoryRepository) Create(_ context.Context, news *News) error {
	news.normalize()
	return repository.articles.Insert(*news)
}

func (repository *memoryRepository) Update(_ context.Context, news *News) error {
	updated, err := repository.articles.Mutate(news.ID, func(stored *News) error {
		author, authorName := stored.Author, stored.AuthorName
		views, likes, createdAt := stored.Views, stored.Likes, stored.CreatedAt

		*stored = news.clone()
		stored.Author, stored.AuthorName = author, authorName
		stored.Views, stored.Likes, stored.CreatedAt = views, likes, createdAt
		stored.normalize()
		return nil
	})
	if err != nil {
		return err
	}
	*news = updated
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) (bool, error) {
	return repository.articles.Delete(id), nil
}

func (repository *memoryRepository) Count(_ context.Context, where query.Predicate) (int, error) {
	return repository.articles.Count(where)
}

func (repository *memoryRepository) GroupBy(_ context.Context, request aggregate.GroupRequest) ([]aggregate.Group, error) {
	return repository.articles.GroupBy(request)
}

func (repository *memoryRepository) IncrementViews(_ context.Context, id string, delta int64) error {
	_, err := repository.articles.Mutate(id, func(stored *News) error {
		stored.Views += delta
		return nil
	})
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return nil
	}
	return err
}

func (repository *memoryRepository) IncrementLikes(_ context.Context, id string) (int64, error) {
	updated, err := repository.articles.Mutate(id, func(stored *News) error {
		stored.Likes++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated.Likes, nil
}
