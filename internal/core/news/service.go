// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package news

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/internal/platform/validate"
	"github.com/taibuivan/springfield/internal/platform/views"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/slice"
	"github.com/taibuivan/springfield/pkg/slug"
	"github.com/taibuivan/springfield/pkg/uuid"
)

// fallbackSlug is used when a title has no slug-able character.
const fallbackSlug = "news"

// # Dependencies

// EpisodeDirectory resolves related episodes.
type EpisodeDirectory interface {
	Summaries(context context.Context, ids []string) (map[string]catalog.EpisodeRef, error)
}

// CharacterDirectory resolves related characters.
type CharacterDirectory interface {
	Summaries(context context.Context, ids []string) (map[string]catalog.CharacterRef, error)
}

// AuthorDirectory provides the display name snapshotted on new articles.
type AuthorDirectory interface {
	AuthorName(context context.Context, userID string) (string, error)
}

// Detail is the full read model of an article.
type Detail struct {
	*News
	EpisodeDetails   []catalog.EpisodeRef   `json:"episode_details"`
	CharacterDetails []catalog.CharacterRef `json:"character_details"`
}

// # Service

// Service implements the editorial use cases.
type Service struct {
	repo       Repository
	episodes   EpisodeDirectory
	characters CharacterDirectory
	authors    AuthorDirectory
	recorder   views.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a news [Service].
func NewService(
	repo Repository,
	episodes EpisodeDirectory,
	characters CharacterDirectory,
	authors AuthorDirectory,
	recorder views.Recorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		episodes:   episodes,
		characters: characters,
		authors:    authors,
		recorder:   recorder,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

/*
List returns one page of articles.

Parameters:
  - context: context.Context
  - spec: query.Spec (built from [Definition])
  - public: bool (restricts the result to published articles whatever the filter says)
*/
func (service *Service) List(context context.Context, spec query.Spec, public bool) ([]*News, int, error) {
	if public {
		spec.Where = publishedOnly(spec.Where)
	}
	return service.repo.List(context, spec)
}

// Featured returns the latest featured articles that are published.
func (service *Service) Featured(context context.Context) ([]*News, error) {
	articles, _, err := service.repo.List(context, query.Spec{
		Where: query.Predicate{query.Eq(FieldIsFeatured, true), query.Eq(FieldStatus, string(StatusPublished))},
		Sort:  Definition.Sorted(FieldPublishedAt, true),
		Limit: constants.NewsFeaturedLimit,
	})
	return articles, err
}

/*
Get returns one article addressed by id or slug and counts the view.

Description: Public callers only see published articles; anything else is
reported as missing.

Returns:
  - *Detail: the article with related episodes and characters inlined
  - error: NotFound
*/
func (service *Service) Get(context context.Context, idOrSlug string, public bool) (*Detail, error) {
	news, err := service.find(context, idOrSlug)
	if err != nil {
		return nil, err
	}
	if public && !news.IsPublished() {
		return nil, apperr.NotFound(resource)
	}

	service.recorder.Record(context, news.ID)
	news.Views++

	episodes, err := service.episodes.Summaries(context, catalog.Head(news.RelatedEpisodes, constants.NewsRelationLimit))
	if err != nil {
		return nil, err
	}

	characters, err := service.characters.Summaries(context, catalog.Head(news.RelatedCharacters, constants.NewsRelationLimit))
	if err != nil {
		return nil, err
	}

	return &Detail{
		News:             news,
		EpisodeDetails:   catalog.Resolve(news.RelatedEpisodes, constants.NewsRelationLimit, episodes, catalog.MissingEpisode),
		CharacterDetails: catalog.Resolve(news.RelatedCharacters, constants.NewsRelationLimit, characters, catalog.MissingCharacter),
	}, nil
}

/*
Create validates and stores a new article written by authorID.

Description: The author name is copied from the user at this point and never
follows later renames. The slug is derived from the title; when it is taken
the creation time in milliseconds is appended and the insert retried once.

Returns:
  - *News: the stored entity
  - error: ValidationError, NotFound (unknown author) or DuplicateKey
*/
func (service *Service) Create(context context.Context, authorID string, input *News) (*News, error) {
	news := input.clone()
	news.ID = uuid.New()
	news.Author = authorID
	news.Views, news.Likes = 0, 0
	news.RelatedEpisodes = slice.Unique(news.RelatedEpisodes)
	news.RelatedCharacters = slice.Unique(news.RelatedCharacters)
	news.normalize()
	trim(&news)

	if err := validateNews(&news); err != nil {
		return nil, err
	}

	authorName, err := service.authors.AuthorName(context, authorID)
	if err != nil {
		return nil, err
	}
	news.AuthorName = authorName

	now := service.now()
	news.Slug = Slugify(news.Title)
	news.CreatedAt = now
	stampPublication(&news, now)
	service.touch(&news, now)

	err = service.repo.Create(context, &news)
	if apperr.HasCode(err, apperr.CodeDuplicateKey) {
		news.Slug = uniquified(news.Slug, now)
		err = service.repo.Create(context, &news)
	}
	if err != nil {
		return nil, err
	}

	service.logger.Info("news_created",
		slog.String("news_id", news.ID),
		slog.String("slug", news.Slug),
		slog.String("author", authorID),
	)
	return &news, nil
}

// Update applies a partial update; a new title regenerates the slug.
func (service *Service) Update(context context.Context, id string, patch Patch) (*News, error) {
	news, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	previousTitle := news.Title
	patch.Apply(news)
	news.RelatedEpisodes = slice.Unique(news.RelatedEpisodes)
	news.RelatedCharacters = slice.Unique(news.RelatedCharacters)
	news.normalize()
	trim(news)

	if err := validateNews(news); err != nil {
		return nil, err
	}

	now := service.now()
	renamed := news.Title != previousTitle
	if renamed {
		news.Slug = Slugify(news.Title)
	}
	stampPublication(news, now)
	service.touch(news, now)

	err = service.repo.Update(context, news)
	if renamed && apperr.HasCode(err, apperr.CodeDuplicateKey) {
		news.Slug = uniquified(news.Slug, now)
		err = service.repo.Update(context, news)
	}
	if err != nil {
		return nil, err
	}

	service.logger.Info("news_updated", slog.String("news_id", id), slog.String("slug", news.Slug))
	return news, nil
}

// Delete removes an article.
func (service *Service) Delete(context context.Context, id string) error {
	deleted, err := service.repo.Delete(context, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound(resource)
	}

	service.logger.Warn("news_deleted", slog.String("news_id", id))
	return nil
}

// Like adds one like to a published article and returns the new total.
func (service *Service) Like(context context.Context, id string) (int64, error) {
	news, err := service.repo.FindByID(context, id)
	if err != nil {
		return 0, err
	}
	if !news.IsPublished() {
		return 0, apperr.NotFound(resource)
	}
	return service.repo.IncrementLikes(context, id)
}

// # Slugs

// Slugify derives the base slug of a title.
func Slugify(title string) string {
	if base := slug.From(title); base != "" {
		return base
	}
	return fallbackSlug
}

// uniquified suffixes base with the creation millis, trimming base so the
// result stays within [slug.MaxLength].
func uniquified(base string, now time.Time) string {
	suffix := fmt.Sprintf("-%d", now.UnixMilli())
	if keep := slug.MaxLength - len(suffix); len(base) > keep {
		base = strings.TrimRight(base[:keep], "-")
	}
	return base + suffix
}

// # Helpers

func (service *Service) touch(news *News, now time.Time) {
	news.UpdatedAt = now
}

func (service *Service) find(context context.Context, idOrSlug string) (*News, error) {
	if id, ok := uuid.Canonical(idOrSlug); ok {
		return service.repo.FindByID(context, id)
	}
	return service.repo.FindBySlug(context, strings.ToLower(idOrSlug))
}

// stampPublication dates an article the first time it is published.
func stampPublication(news *News, now time.Time) {
	if news.IsPublished() && news.PublishedAt == nil {
		published := now
		news.PublishedAt = &published
	}
}

// publishedOnly replaces any status filter with "published".
func publishedOnly(where query.Predicate) query.Predicate {
	kept := slice.Filter(where, func(condition query.Condition) bool { return condition.Field != FieldStatus })
	return query.Predicate(kept).And(query.Eq(FieldStatus, string(StatusPublished)))
}

func trim(news *News) {
	news.Title = strings.TrimSpace(news.Title)
	news.Excerpt = strings.TrimSpace(news.Excerpt)
}

func validateNews(news *News) error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, news.Title).MaxLen(FieldTitle, news.Title, 200)
	validator.MaxLen(FieldExcerpt, news.Excerpt, 200)
	validator.Required(FieldContent, news.Content)
	validator.Required(FieldAuthor, news.Author)
	validator.OneOf(FieldCategory, string(news.Category), Categories...)
	validator.OneOf(FieldStatus, string(news.Status), Statuses...)
	validator.URL(FieldImageURL, news.ImageURL)
	validator.URL(FieldThumbnailURL, news.ThumbnailURL)
	for _, image := range news.Gallery {
		validator.URL(FieldGallery, image)
	}
	if news.Source != nil {
		validator.URL(FieldSource, news.Source.URL)
	}

	for _, id := range news.RelatedEpisodes {
		validator.UUID(FieldRelatedEpisodes, id)
	}
	for _, id := range news.RelatedCharacters {
		validator.UUID(FieldRelatedCharacters, id)
	}

	return validator.Err()
}
