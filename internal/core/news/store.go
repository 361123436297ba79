// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package news

import (
	"context"

	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
)

// Repository defines the data access contract for articles.
type Repository interface {
	List(context context.Context, spec query.Spec) ([]*News, int, error)
	FindByID(context context.Context, id string) (*News, error)

	// FindBySlug returns the article carrying the slug or apperr.NotFound.
	FindBySlug(context context.Context, slug string) (*News, error)

	/*
		Create persists a new article.

		Returns:
		  - error: apperr.DuplicateKey when the slug is taken
	*/
	Create(context context.Context, news *News) error

	// Update persists every editable field; the author and both counters are left as stored.
	Update(context context.Context, news *News) error

	Delete(context context.Context, id string) (bool, error)
	Count(context context.Context, where query.Predicate) (int, error)
	GroupBy(context context.Context, request aggregate.GroupRequest) ([]aggregate.Group, error)

	// IncrementViews adds delta to the view counter; unknown ids are ignored.
	IncrementViews(context context.Context, id string, delta int64) error

	// IncrementLikes adds one like and returns the new total, or apperr.NotFound.
	IncrementLikes(context context.Context, id string) (int64, error)
}
