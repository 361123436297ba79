// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package character manages the residents of Springfield.

A Character owns the list of episodes it appears in and keeps a denormalized
episode count next to it. Relatives point at other characters weakly: a
relative whose character was deleted resolves to a placeholder on read.

# Layout

  - character.go: entities, enums and field names
  - query.go: list parameters and the per-backend field catalogs
  - store*.go: the [Repository] contract and its memory/Postgres backends
  - service*.go: validation, relations and projections
  - http.go: the /characters routes
*/
package character

import (
	"slices"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
)

// # Enums

// Status is the narrative life state of a character.
type Status string

const (
	StatusAlive   Status = "alive"
	StatusDead    Status = "dead"
	StatusUnknown Status = "unknown"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusAlive, StatusDead, StatusUnknown:
		return true
	}
	return false
}

// Statuses lists every accepted status value.
var Statuses = []string{string(StatusAlive), string(StatusDead), string(StatusUnknown)}

// # Embedded Documents

// Relative links a character to a family member or acquaintance.
// CharacterID is optional and non-owning.
type Relative struct {
	CharacterID  string `json:"character_id,omitempty"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
}

// VoiceActor credits the voice of a character per dub.
type VoiceActor struct {
	English string `json:"english,omitempty"`
	French  string `json:"french,omitempty"`
}

// FirstAppearance records where a character was introduced.
type FirstAppearance struct {
	Episode       string     `json:"episode,omitempty"`
	Season        int        `json:"season,omitempty"`
	EpisodeNumber int        `json:"episode_number,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
}

// Trivia is a sourced fun fact.
type Trivia struct {
	Fact   string `json:"fact"`
	Source string `json:"source,omitempty"`
}

// Quote is a memorable line and where it was said.
type Quote struct {
	Quote   string `json:"quote"`
	Episode string `json:"episode,omitempty"`
	Context string `json:"context,omitempty"`
}

// # Domain Entities

// Character is a stored Springfield resident.
type Character struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	NameFR          string          `json:"name_fr,omitempty"`
	Description     string          `json:"description"`
	Biography       string          `json:"biography,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	ThumbnailURL    string          `json:"thumbnail_url,omitempty"`
	Gallery         []string        `json:"gallery"`
	Episodes        []string        `json:"episodes"`
	EpisodeCount    int             `json:"episode_count"`
	Family          string          `json:"family,omitempty"`
	Relatives       []Relative      `json:"relatives"`
	Job             string          `json:"job,omitempty"`
	Workplace       string          `json:"workplace,omitempty"`
	Age             *int            `json:"age,omitempty"`
	BirthDate       *time.Time      `json:"birth_date,omitempty"`
	Address         string          `json:"address,omitempty"`
	Personality     []string        `json:"personality"`
	Hobbies         []string        `json:"hobbies"`
	Catchphrases    []string        `json:"catchphrases"`
	VoiceActor      VoiceActor      `json:"voice_actor"`
	FirstAppearance FirstAppearance `json:"first_appearance"`
	IsMajor         bool            `json:"is_major"`
	IsRecurring     bool            `json:"is_recurring"`
	Status          Status          `json:"status"`
	PopularityScore float64         `json:"popularity_score"`
	Tags            []string        `json:"tags"`
	Trivia          []Trivia        `json:"trivia"`
	Quotes          []Quote         `json:"quotes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// normalize fills defaults and replaces nil lists so both backends and the
// JSON output see the same shape.
func (character *Character) normalize() {
	if character.Status == "" {
		character.Status = StatusAlive
	}
	character.Gallery = nonNil(character.Gallery)
	character.Episodes = nonNil(character.Episodes)
	character.Relatives = nonNil(character.Relatives)
	character.Personality = nonNil(character.Personality)
	character.Hobbies = nonNil(character.Hobbies)
	character.Catchphrases = nonNil(character.Catchphrases)
	character.Tags = nonNil(character.Tags)
	character.Trivia = nonNil(character.Trivia)
	character.Quotes = nonNil(character.Quotes)
	character.EpisodeCount = len(character.Episodes)
}

// clone deep-copies the character.
func (character Character) clone() Character {
	character.Gallery = slices.Clone(character.Gallery)
	character.Episodes = slices.Clone(character.Episodes)
	character.Relatives = slices.Clone(character.Relatives)
	character.Personality = slices.Clone(character.Personality)
	character.Hobbies = slices.Clone(character.Hobbies)
	character.Catchphrases = slices.Clone(character.Catchphrases)
	character.Tags = slices.Clone(character.Tags)
	character.Trivia = slices.Clone(character.Trivia)
	character.Quotes = slices.Clone(character.Quotes)
	if character.Age != nil {
		age := *character.Age
		character.Age = &age
	}
	return character
}

// Ref projects the character for embedding into other entities.
func (character *Character) Ref() catalog.CharacterRef {
	return catalog.CharacterRef{
		ID:       character.ID,
		Name:     character.Name,
		NameFR:   character.NameFR,
		ImageURL: character.ImageURL,
		Job:      character.Job,
		Family:   character.Family,
		Status:   string(character.Status),
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// # Patch

// Patch carries a partial update. Nil fields are left untouched; the episode
// list is managed through the relation endpoints only.
type Patch struct {
	Name            *string          `json:"name"`
	NameFR          *string          `json:"name_fr"`
	Description     *string          `json:"description"`
	Biography       *string          `json:"biography"`
	ImageURL        *string          `json:"image_url"`
	ThumbnailURL    *string          `json:"thumbnail_url"`
	Gallery         *[]string        `json:"gallery"`
	Family          *string          `json:"family"`
	Relatives       *[]Relative      `json:"relatives"`
	Job             *string          `json:"job"`
	Workplace       *string          `json:"workplace"`
	Age             *int             `json:"age"`
	BirthDate       *time.Time       `json:"birth_date"`
	Address         *string          `json:"address"`
	Personality     *[]string        `json:"personality"`
	Hobbies         *[]string        `json:"hobbies"`
	Catchphrases    *[]string        `json:"catchphrases"`
	VoiceActor      *VoiceActor      `json:"voice_actor"`
	FirstAppearance *FirstAppearance `json:"first_appearance"`
	IsMajor         *bool            `json:"is_major"`
	IsRecurring     *bool            `json:"is_recurring"`
	Status          *Status          `json:"status"`
	PopularityScore *float64         `json:"popularity_score"`
	Tags            *[]string        `json:"tags"`
	Trivia          *[]Trivia        `json:"trivia"`
	Quotes          *[]Quote         `json:"quotes"`
}

// Apply copies the set fields onto the character.
func (patch Patch) Apply(character *Character) {
	set(&character.Name, patch.Name)
	set(&character.NameFR, patch.NameFR)
	set(&character.Description, patch.Description)
	set(&character.Biography, patch.Biography)
	set(&character.ImageURL, patch.ImageURL)
	set(&character.ThumbnailURL, patch.ThumbnailURL)
	set(&character.Gallery, patch.Gallery)
	set(&character.Family, patch.Family)
	set(&character.Relatives, patch.Relatives)
	set(&character.Job, patch.Job)
	set(&character.Workplace, patch.Workplace)
	set(&character.Address, patch.Address)
	set(&character.Personality, patch.Personality)
	set(&character.Hobbies, patch.Hobbies)
	set(&character.Catchphrases, patch.Catchphrases)
	set(&character.VoiceActor, patch.VoiceActor)
	set(&character.FirstAppearance, patch.FirstAppearance)
	set(&character.IsMajor, patch.IsMajor)
	set(&character.IsRecurring, patch.IsRecurring)
	set(&character.Status, patch.Status)
	set(&character.PopularityScore, patch.PopularityScore)
	set(&character.Tags, patch.Tags)
	set(&character.Trivia, patch.Trivia)
	set(&character.Quotes, patch.Quotes)

	if patch.Age != nil {
		character.Age = patch.Age
	}
	if patch.BirthDate != nil {
		character.BirthDate = patch.BirthDate
	}
}

func set[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

// # Field Identifiers

// Field names shared by validation, queries and both store backends.
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldNameFR       = "name_fr"
	FieldDescription  = "description"
	FieldImageURL     = "image_url"
	FieldThumbnailURL = "thumbnail_url"
	FieldGallery      = "gallery"
	FieldEpisodes     = "episodes"
	FieldEpisodeCount = "episode_count"
	FieldFamily       = "family"
	FieldRelatives    = "relatives"
	FieldJob          = "job"
	FieldAge          = "age"
	FieldIsMajor      = "is_major"
	FieldIsRecurring  = "is_recurring"
	FieldStatus       = "status"
	FieldPopularity   = "popularity_score"
	FieldTags         = "tags"
	FieldCreatedAt    = "created_at"
	FieldUpdatedAt    = "updated_at"
	FieldEpisodeIDs   = "episode_ids"
)
