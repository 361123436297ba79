// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog holds the read-only projections shared between the catalog
kinds.

Characters, episodes and news reference each other by id only. When a
response inlines a referenced entity it uses one of the reference types
below; a reference whose target no longer exists is rendered as a
placeholder with Missing set.
*/
package catalog

import "time"

// # Reference Projections

// EpisodeRef is the summary of an episode inlined in another entity.
type EpisodeRef struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	TitleFR       string     `json:"title_fr,omitempty"`
	Season        int        `json:"season,omitempty"`
	EpisodeNumber int        `json:"episode_number,omitempty"`
	AirDate       *time.Time `json:"air_date,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	Missing       bool       `json:"missing,omitempty"`
}

// CharacterRef is the summary of a character inlined in another entity.
type CharacterRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NameFR   string `json:"name_fr,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Job      string `json:"job,omitempty"`
	Family   string `json:"family,omitempty"`
	Status   string `json:"status,omitempty"`
	Missing  bool   `json:"missing,omitempty"`
}

// UnknownName labels a placeholder whose target was deleted.
const UnknownName = "unknown"

// MissingEpisode builds the placeholder for an unresolved episode id.
func MissingEpisode(id string) EpisodeRef {
	return EpisodeRef{ID: id, Title: UnknownName, Missing: true}
}

// MissingCharacter builds the placeholder for an unresolved character id.
func MissingCharacter(id string) CharacterRef {
	return CharacterRef{ID: id, Name: UnknownName, Missing: true}
}

// # Resolution

/*
Resolve orders looked-up summaries along the requested ids.

Description: ids are truncated to limit (zero keeps them all). Every id absent
from found is replaced by the placeholder built by missing. Duplicated ids are
kept as requested.
*/
func Resolve[T any](ids []string, limit int, found map[string]T, missing func(string) T) []T {
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if ref, ok := found[id]; ok {
			out = append(out, ref)
			continue
		}
		out = append(out, missing(id))
	}
	return out
}

// Head returns at most limit ids, for bounded lookups.
func Head(ids []string, limit int) []string {
	if limit > 0 && len(ids) > limit {
		return ids[:limit]
	}
	return ids
}
