// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package episode

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/internal/platform/validate"
	"github.com/taibuivan/springfield/internal/platform/views"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/slice"
	"github.com/taibuivan/springfield/pkg/uuid"
)

// # Dependencies

// CharacterDirectory is the part of the character domain episodes rely on.
type CharacterDirectory interface {
	// Summaries resolves character ids to their embedded projection.
	Summaries(context context.Context, ids []string) (map[string]catalog.CharacterRef, error)

	// DetachEpisode pulls an episode id from every character.
	DetachEpisode(context context.Context, episodeID string, now time.Time) (int, error)
}

// # Projections

// Listing is an episode with its main characters inlined.
type Listing struct {
	*Episode
	CharacterDetails []catalog.CharacterRef `json:"character_details"`
}

// SeasonSummary is one row of the season index.
type SeasonSummary struct {
	Season       int `json:"season"`
	EpisodeCount int `json:"episode_count"`
}

// SeasonListing is the full episode list of one season.
type SeasonListing struct {
	Season   int       `json:"season"`
	Count    int       `json:"count"`
	Episodes []Listing `json:"episodes"`
}

// # Service

// Service implements the episode use cases.
type Service struct {
	repo       Repository
	characters CharacterDirectory
	recorder   views.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs an episode [Service].
func NewService(repo Repository, characters CharacterDirectory, recorder views.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		characters: characters,
		recorder:   recorder,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List returns one page of episodes with their main characters inlined.
func (service *Service) List(context context.Context, spec query.Spec) ([]Listing, int, error) {
	episodes, total, err := service.repo.List(context, spec)
	if err != nil {
		return nil, 0, err
	}

	listings, err := service.inline(context, episodes)
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

/*
Get returns the detail view of one episode and counts the view.

Description: The view is recorded best effort after the read; the returned
counter already includes it.
*/
func (service *Service) Get(context context.Context, id string) (*Listing, error) {
	episode, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	service.recorder.Record(context, id)
	episode.Views++

	listings, err := service.inline(context, []*Episode{episode})
	if err != nil {
		return nil, err
	}
	return &listings[0], nil
}

// Seasons lists every season with its episode count, in season order.
func (service *Service) Seasons(context context.Context) ([]SeasonSummary, error) {
	groups, err := service.repo.GroupBy(context, aggregate.GroupRequest{
		Field: FieldSeason,
		Order: aggregate.OrderKeyAsc,
	})
	if err != nil {
		return nil, err
	}

	seasons := make([]SeasonSummary, 0, len(groups))
	for _, group := range groups {
		season, _ := query.Float(group.Key)
		seasons = append(seasons, SeasonSummary{Season: int(season), EpisodeCount: group.Count})
	}
	return seasons, nil
}

// BySeason returns every episode of a season in episode order.
func (service *Service) BySeason(context context.Context, season int) (*SeasonListing, error) {
	if season < 1 {
		return nil, validate.RequiredError(FieldSeason, "Invalid season number")
	}

	episodes, _, err := service.repo.List(context, query.Spec{
		Where: query.Predicate{query.Eq(FieldSeason, season)},
		Sort:  Definition.Sorted(FieldEpisodeNumber, false),
	})
	if err != nil {
		return nil, err
	}

	listings, err := service.inline(context, episodes)
	if err != nil {
		return nil, err
	}
	return &SeasonListing{Season: season, Count: len(listings), Episodes: listings}, nil
}

/*
Create validates and stores a new episode.

Returns:
  - *Episode: the stored entity
  - error: ValidationError or DuplicateKey when the season already has this number
*/
func (service *Service) Create(context context.Context, input *Episode) (*Episode, error) {
	episode := input.clone()
	episode.ID = uuid.New()
	episode.Views = 0
	episode.MainCharacters = slice.Unique(episode.MainCharacters)
	episode.normalize()
	trim(&episode)

	if err := validateEpisode(&episode); err != nil {
		return nil, err
	}

	now := service.now()
	episode.CreatedAt = now
	service.touch(&episode, now)

	if err := service.repo.Create(context, &episode); err != nil {
		return nil, err
	}

	service.logger.Info("episode_created",
		slog.String("episode_id", episode.ID),
		slog.String("code", episode.Code()),
	)
	return &episode, nil
}

// Update applies a partial update and re-validates the merged record.
func (service *Service) Update(context context.Context, id string, patch Patch) (*Episode, error) {
	episode, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(episode)
	episode.MainCharacters = slice.Unique(episode.MainCharacters)
	episode.normalize()
	trim(episode)

	if err := validateEpisode(episode); err != nil {
		return nil, err
	}

	service.touch(episode, service.now())
	if err := service.repo.Update(context, episode); err != nil {
		return nil, err
	}

	service.logger.Info("episode_updated", slog.String("episode_id", id))
	return episode, nil
}

// Delete removes an episode and pulls it from every character.
func (service *Service) Delete(context context.Context, id string) error {
	deleted, err := service.repo.Delete(context, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound(resource)
	}

	detached, err := service.characters.DetachEpisode(context, id, service.now())
	if err != nil {
		service.logger.Error("episode_detach_failed", slog.String("episode_id", id), slog.Any("error", err))
		return err
	}

	service.logger.Warn("episode_deleted", slog.String("episode_id", id), slog.Int("characters_updated", detached))
	return nil
}

// SetRatings overwrites the scores present in the patch; each must lie in [0, 10].
func (service *Service) SetRatings(context context.Context, id string, ratings Ratings) (*Ratings, error) {
	if err := validateRatings(&validate.Validator{}, ratings).Err(); err != nil {
		return nil, err
	}

	episode, err := service.repo.SetRatings(context, id, ratings, service.now())
	if err != nil {
		return nil, err
	}

	service.logger.Info("episode_ratings_set", slog.String("episode_id", id))
	return &episode.Ratings, nil
}

// # Character Directory

// ExistingIDs returns the subset of ids that resolve to an episode.
func (service *Service) ExistingIDs(context context.Context, ids []string) ([]string, error) {
	return service.repo.ExistingIDs(context, ids)
}

// Summaries resolves episode ids to their embedded projection.
func (service *Service) Summaries(context context.Context, ids []string) (map[string]catalog.EpisodeRef, error) {
	return service.repo.Summaries(context, ids)
}

/*
Appearances pages through the given episodes in broadcast order.

Parameters:
  - context: context.Context
  - ids: []string (the episodes of one character)
  - season: int (zero means every season)
  - page, limit: int

Returns:
  - []catalog.EpisodeRef: the window
  - int: total ignoring the window
  - error: store failures
*/
func (service *Service) Appearances(context context.Context, ids []string, season, page, limit int) ([]catalog.EpisodeRef, int, error) {
	if len(ids) == 0 {
		return []catalog.EpisodeRef{}, 0, nil
	}

	where := query.Predicate{query.In(FieldID, slice.Map(ids, func(id string) any { return id })...)}
	if season > 0 {
		where = where.And(query.Eq(FieldSeason, season))
	}

	episodes, total, err := service.repo.List(context, query.Spec{
		Where: where,
		Sort:  Definition.Sorted(FieldSeason, false),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return nil, 0, err
	}

	refs := make([]catalog.EpisodeRef, 0, len(episodes))
	for _, episode := range episodes {
		refs = append(refs, episode.Ref())
	}
	return refs, total, nil
}

// RemoveMainCharacter severs a character id from every episode cast.
func (service *Service) RemoveMainCharacter(context context.Context, characterID string) (int, error) {
	return service.repo.RemoveMainCharacter(context, characterID, service.now())
}

// # Helpers

// touch stamps the modification time; every mutating operation goes through it.
func (service *Service) touch(episode *Episode, now time.Time) {
	episode.UpdatedAt = now
}

// inline resolves the main characters of a page with a single lookup.
func (service *Service) inline(context context.Context, episodes []*Episode) ([]Listing, error) {
	var wanted []string
	for _, episode := range episodes {
		wanted = append(wanted, catalog.Head(episode.MainCharacters, constants.EpisodeCharacterLimit)...)
	}

	found, err := service.characters.Summaries(context, slice.Unique(wanted))
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, len(episodes))
	for _, episode := range episodes {
		listings = append(listings, Listing{
			Episode:          episode,
			CharacterDetails: catalog.Resolve(episode.MainCharacters, constants.EpisodeCharacterLimit, found, catalog.MissingCharacter),
		})
	}
	return listings, nil
}

func trim(episode *Episode) {
	episode.Title = strings.TrimSpace(episode.Title)
	episode.TitleFR = strings.TrimSpace(episode.TitleFR)
	episode.Summary = strings.TrimSpace(episode.Summary)
}

func validateEpisode(episode *Episode) error {
	validator := &validate.Validator{}

	validator.Custom(FieldSeason, episode.Season < 1, "Must be at least 1")
	validator.Custom(FieldEpisodeNumber, episode.EpisodeNumber < 1, "Must be at least 1")
	validator.Required(FieldTitle, episode.Title).MaxLen(FieldTitle, episode.Title, 200)
	validator.MaxLen(FieldTitleFR, episode.TitleFR, 200)
	validator.Required(FieldSummary, episode.Summary)
	validator.Custom(FieldAirDate, episode.AirDate.IsZero(), "This field is required")
	validator.Custom(FieldDuration, episode.Duration < 1, "Must be a positive number of minutes")
	validator.URL(FieldImageURL, episode.ImageURL)
	validator.URL(FieldThumbnailURL, episode.ThumbnailURL)
	validator.URL(FieldVideoURL, episode.VideoURL)

	for _, id := range episode.MainCharacters {
		validator.UUID(FieldMainCharacters, id)
	}

	return validateRatings(validator, episode.Ratings).Err()
}

func validateRatings(validator *validate.Validator, ratings Ratings) *validate.Validator {
	scores := []struct {
		field string
		score *float64
	}{
		{FieldRatingIMDB, ratings.IMDB},
		{FieldRatingAudience, ratings.Audience},
		{FieldRatingCritics, ratings.Critics},
	}
	for _, entry := range scores {
		if entry.score != nil {
			validator.FloatRange(entry.field, *entry.score, 0, 10)
		}
	}
	return validator
}
