// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/internal/platform/validate"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/slice"
	"github.com/taibuivan/springfield/pkg/uuid"
)

// # Dependencies

// EpisodeDirectory is the part of the episode domain characters rely on.
type EpisodeDirectory interface {
	// ExistingIDs returns the subset of ids that resolve to an episode.
	ExistingIDs(context context.Context, ids []string) ([]string, error)

	// Summaries resolves episode ids to their embedded projection.
	Summaries(context context.Context, ids []string) (map[string]catalog.EpisodeRef, error)

	// Appearances pages through the given episodes in broadcast order,
	// optionally restricted to one season (zero means all).
	Appearances(context context.Context, ids []string, season, page, limit int) ([]catalog.EpisodeRef, int, error)

	// RemoveMainCharacter severs a character id from every episode.
	RemoveMainCharacter(context context.Context, characterID string) (int, error)
}

// # Projections

// ResolvedRelative is a relative with its linked character resolved.
type ResolvedRelative struct {
	Relative
	Character *catalog.CharacterRef `json:"character,omitempty"`
}

// Listing is one row of a character list.
type Listing struct {
	*Character
	EpisodeDetails []catalog.EpisodeRef `json:"episode_details"`
}

// Detail is the full read model of a character.
type Detail struct {
	*Character
	EpisodeDetails  []catalog.EpisodeRef `json:"episode_details"`
	RelativeDetails []ResolvedRelative   `json:"relative_details"`
}

// # Service

// Service implements the character use cases.
type Service struct {
	repo     Repository
	episodes EpisodeDirectory
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a character [Service].
func NewService(repo Repository, episodes EpisodeDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		episodes: episodes,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

/*
List returns one page of characters, each with its first episodes inlined.

Parameters:
  - context: context.Context
  - spec: query.Spec (built from [Definition])

Returns:
  - []Listing: the window
  - int: total ignoring the window
  - error: store failures
*/
func (service *Service) List(context context.Context, spec query.Spec) ([]Listing, int, error) {
	characters, total, err := service.repo.List(context, spec)
	if err != nil {
		return nil, 0, err
	}

	var wanted []string
	for _, character := range characters {
		wanted = append(wanted, catalog.Head(character.Episodes, constants.CharacterEpisodePreview)...)
	}

	found, err := service.episodes.Summaries(context, slice.Unique(wanted))
	if err != nil {
		return nil, 0, err
	}

	listings := make([]Listing, 0, len(characters))
	for _, character := range characters {
		listings = append(listings, Listing{
			Character:      character,
			EpisodeDetails: catalog.Resolve(character.Episodes, constants.CharacterEpisodePreview, found, catalog.MissingEpisode),
		})
	}
	return listings, total, nil
}

// Get returns the detail view of one character.
func (service *Service) Get(context context.Context, id string) (*Detail, error) {
	character, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	found, err := service.episodes.Summaries(context, catalog.Head(character.Episodes, constants.CharacterEpisodePreview))
	if err != nil {
		return nil, err
	}

	relatives, err := service.resolveRelatives(context, character.Relatives)
	if err != nil {
		return nil, err
	}

	return &Detail{
		Character:       character,
		EpisodeDetails:  catalog.Resolve(character.Episodes, constants.CharacterEpisodePreview, found, catalog.MissingEpisode),
		RelativeDetails: relatives,
	}, nil
}

/*
Create validates and stores a new character.

Description: The episode list is deduplicated and every id must resolve,
otherwise nothing is written and InvalidReference lists the unknown ids.

Returns:
  - *Character: the stored entity
  - error: ValidationError, InvalidReference or DuplicateKey
*/
func (service *Service) Create(context context.Context, input *Character) (*Character, error) {
	character := input.clone()
	character.ID = uuid.New()
	character.Episodes = slice.Unique(character.Episodes)
	character.normalize()
	trim(&character)

	if err := validateCharacter(&character); err != nil {
		return nil, err
	}

	if err := service.checkEpisodes(context, character.Episodes); err != nil {
		return nil, err
	}

	now := service.now()
	character.CreatedAt = now
	service.touch(&character, now)

	if err := service.repo.Create(context, &character); err != nil {
		return nil, err
	}

	service.logger.Info("character_created",
		slog.String("character_id", character.ID),
		slog.String("name", character.Name),
	)
	return &character, nil
}

/*
Update applies a partial update.

Description: Only the fields present in the patch change; the merged record
is re-validated before anything is written.
*/
func (service *Service) Update(context context.Context, id string, patch Patch) (*Character, error) {
	character, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(character)
	character.normalize()
	trim(character)

	if err := validateCharacter(character); err != nil {
		return nil, err
	}

	service.touch(character, service.now())
	if err := service.repo.Update(context, character); err != nil {
		return nil, err
	}

	service.logger.Info("character_updated", slog.String("character_id", id))
	return character, nil
}

/*
Delete removes a character and severs it from every episode cast.

Description: Relatives of other characters and news references are weak and
left untouched; they resolve to placeholders on read.
*/
func (service *Service) Delete(context context.Context, id string) error {
	deleted, err := service.repo.Delete(context, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound(resource)
	}

	severed, err := service.episodes.RemoveMainCharacter(context, id)
	if err != nil {
		service.logger.Error("character_sever_failed", slog.String("character_id", id), slog.Any("error", err))
		return err
	}

	service.logger.Warn("character_deleted", slog.String("character_id", id), slog.Int("episodes_updated", severed))
	return nil
}

// Major lists the major characters, most popular first.
func (service *Service) Major(context context.Context) ([]*Character, error) {
	characters, _, err := service.repo.List(context, query.Spec{
		Where: query.Predicate{query.Eq(FieldIsMajor, true)},
		Sort:  Definition.Sorted(FieldPopularity, true),
	})
	return characters, err
}

// # Helpers

// touch stamps the modification time; every mutating operation goes through it.
func (service *Service) touch(character *Character, now time.Time) {
	character.UpdatedAt = now
}

func (service *Service) checkEpisodes(context context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	existing, err := service.episodes.ExistingIDs(context, ids)
	if err != nil {
		return err
	}

	if missing := slice.Difference(ids, existing); len(missing) > 0 {
		return apperr.InvalidReference(FieldEpisodes, missing)
	}
	return nil
}

func (service *Service) resolveRelatives(context context.Context, relatives []Relative) ([]ResolvedRelative, error) {
	var ids []string
	for _, relative := range relatives {
		if relative.CharacterID != "" {
			ids = append(ids, relative.CharacterID)
		}
	}

	found, err := service.repo.Summaries(context, slice.Unique(ids))
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedRelative, 0, len(relatives))
	for _, relative := range relatives {
		entry := ResolvedRelative{Relative: relative}
		if relative.CharacterID != "" {
			ref, ok := found[relative.CharacterID]
			if !ok {
				ref = catalog.MissingCharacter(relative.CharacterID)
			}
			entry.Character = &ref
		}
		resolved = append(resolved, entry)
	}
	return resolved, nil
}

func trim(character *Character) {
	character.Name = strings.TrimSpace(character.Name)
	character.NameFR = strings.TrimSpace(character.NameFR)
	character.Family = strings.TrimSpace(character.Family)
	character.Job = strings.TrimSpace(character.Job)
}

func validateCharacter(character *Character) error {
	validator := &validate.Validator{}

	validator.Required(FieldName, character.Name).MaxLen(FieldName, character.Name, 100)
	validator.MaxLen(FieldNameFR, character.NameFR, 100)
	validator.Required(FieldDescription, character.Description)
	validator.URL(FieldImageURL, character.ImageURL)
	validator.URL(FieldThumbnailURL, character.ThumbnailURL)
	for _, image := range character.Gallery {
		validator.URL(FieldGallery, image)
	}

	if character.Age != nil {
		validator.Range(FieldAge, *character.Age, 0, 150)
	}

	validator.OneOf(FieldStatus, string(character.Status), Statuses...)
	validator.FloatRange(FieldPopularity, character.PopularityScore, 0, 100)

	for _, relative := range character.Relatives {
		validator.Required(FieldRelatives, relative.Name)
		if relative.CharacterID != "" {
			validator.UUID(FieldRelatives, relative.CharacterID)
		}
	}

	return validator.Err()
}
