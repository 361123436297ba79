// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"log/slog"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/internal/platform/validate"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/slice"
)

// # Episode Relations

/*
Associate links episodes to a character.

Description: The input is deduplicated and must resolve entirely, otherwise
the call fails with InvalidReference and nothing is written. Ids already
linked are skipped, so associating the same list twice is a no-op the
second time.

Parameters:
  - context: context.Context
  - id: string (character)
  - episodeIDs: []string

Returns:
  - *Character: the updated entity
  - int: number of episodes actually added
  - error: NotFound, ValidationError or InvalidReference
*/
func (service *Service) Associate(context context.Context, id string, episodeIDs []string) (*Character, int, error) {
	if _, err := service.repo.FindByID(context, id); err != nil {
		return nil, 0, err
	}

	ids := slice.Unique(episodeIDs)
	if len(ids) == 0 {
		return nil, 0, validate.RequiredError(FieldEpisodeIDs, "At least one episode id is required")
	}

	if err := service.checkEpisodes(context, ids); err != nil {
		return nil, 0, err
	}

	character, added, err := service.repo.AddEpisodes(context, id, ids, service.now())
	if err != nil {
		return nil, 0, err
	}

	service.logger.Info("character_episodes_associated",
		slog.String("character_id", id),
		slog.Int("added", added),
		slog.Int("episode_count", character.EpisodeCount),
	)
	return character, added, nil
}

// Disassociate unlinks one episode. Unlinking an absent id leaves the count unchanged.
func (service *Service) Disassociate(context context.Context, id, episodeID string) (*Character, error) {
	character, err := service.repo.RemoveEpisode(context, id, episodeID, service.now())
	if err != nil {
		return nil, err
	}

	service.logger.Info("character_episode_disassociated",
		slog.String("character_id", id),
		slog.String("episode_id", episodeID),
	)
	return character, nil
}

// SetPopularity overwrites the popularity score, which must lie in [0, 100].
func (service *Service) SetPopularity(context context.Context, id string, score float64) (*Character, error) {
	validator := &validate.Validator{}
	if err := validator.FloatRange(FieldPopularity, score, 0, 100).Err(); err != nil {
		return nil, err
	}

	character, err := service.repo.SetPopularity(context, id, score, service.now())
	if err != nil {
		return nil, err
	}

	service.logger.Info("character_popularity_set", slog.String("character_id", id), slog.Float64("score", score))
	return character, nil
}

// # Relation Reads

// Appearances is the paged episode list of one character.
type Appearances struct {
	Character catalog.CharacterRef `json:"character"`
	Episodes  []catalog.EpisodeRef `json:"episodes"`
	Total     int                  `json:"-"`
}

// Episodes pages through the episodes a character appears in, in broadcast order.
func (service *Service) Episodes(context context.Context, id string, season, page, limit int) (*Appearances, error) {
	character, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	episodes, total, err := service.episodes.Appearances(context, character.Episodes, season, page, limit)
	if err != nil {
		return nil, err
	}

	return &Appearances{Character: character.Ref(), Episodes: episodes, Total: total}, nil
}

// Kin groups the known relations of a character.
type Kin struct {
	Family          string                 `json:"family,omitempty"`
	DirectRelatives []ResolvedRelative     `json:"direct_relatives"`
	FamilyMembers   []catalog.CharacterRef `json:"family_members"`
}

// Relatives returns the declared relatives plus every other member of the same family.
func (service *Service) Relatives(context context.Context, id string) (*Kin, error) {
	character, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	direct, err := service.resolveRelatives(context, character.Relatives)
	if err != nil {
		return nil, err
	}

	kin := &Kin{Family: character.Family, DirectRelatives: direct, FamilyMembers: []catalog.CharacterRef{}}
	if character.Family == "" {
		return kin, nil
	}

	members, _, err := service.repo.List(context, query.Spec{
		Where: query.Predicate{query.Eq(FieldFamily, character.Family)},
		Sort:  Definition.Sorted(FieldName, false),
	})
	if err != nil {
		return nil, err
	}

	for _, member := range members {
		if member.ID != character.ID {
			kin.FamilyMembers = append(kin.FamilyMembers, member.Ref())
		}
	}
	return kin, nil
}
