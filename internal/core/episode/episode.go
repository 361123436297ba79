// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package episode manages the broadcast catalog.

Episodes are identified by their (season, episode number) pair, carry a weak
list of main characters and a best-effort view counter. Ratings from the
three sources are stored side by side and can be set independently.
*/
package episode

import (
	"fmt"
	"slices"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
)

// DefaultDuration is the running time, in minutes, of a regular episode.
const DefaultDuration = 22

// # Embedded Documents

// Trivia is a categorized fun fact.
type Trivia struct {
	Fact     string `json:"fact"`
	Category string `json:"category,omitempty"`
}

// GuestStar credits a guest voice.
type GuestStar struct {
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Voice     string `json:"voice,omitempty"`
}

// CulturalReference explains a parody or nod.
type CulturalReference struct {
	Reference   string `json:"reference"`
	Explanation string `json:"explanation,omitempty"`
}

// Quote is a memorable line of the episode.
type Quote struct {
	Character string `json:"character,omitempty"`
	Quote     string `json:"quote"`
	Context   string `json:"context,omitempty"`
}

// Ratings holds the 0-10 scores per source. A nil score is unrated.
type Ratings struct {
	IMDB     *float64 `json:"imdb,omitempty"`
	Audience *float64 `json:"audience,omitempty"`
	Critics  *float64 `json:"critics,omitempty"`
}

// Merge overwrites the scores set in patch.
func (ratings *Ratings) Merge(patch Ratings) {
	if patch.IMDB != nil {
		ratings.IMDB = patch.IMDB
	}
	if patch.Audience != nil {
		ratings.Audience = patch.Audience
	}
	if patch.Critics != nil {
		ratings.Critics = patch.Critics
	}
}

// # Domain Entities

// Episode is a stored broadcast.
type Episode struct {
	ID                 string              `json:"id"`
	Season             int                 `json:"season"`
	EpisodeNumber      int                 `json:"episode_number"`
	Title              string              `json:"title"`
	TitleFR            string              `json:"title_fr,omitempty"`
	Summary            string              `json:"summary"`
	Plot               string              `json:"plot,omitempty"`
	MainCharacters     []string            `json:"main_characters"`
	AirDate            time.Time           `json:"air_date"`
	Duration           int                 `json:"duration"`
	ImageURL           string              `json:"image_url,omitempty"`
	ThumbnailURL       string              `json:"thumbnail_url,omitempty"`
	VideoURL           string              `json:"video_url,omitempty"`
	Trivia             []Trivia            `json:"trivia"`
	GuestStars         []GuestStar         `json:"guest_stars"`
	CulturalReferences []CulturalReference `json:"cultural_references"`
	Quotes             []Quote             `json:"quotes"`
	Ratings            Ratings             `json:"ratings"`
	Views              int64               `json:"views"`
	Tags               []string            `json:"tags"`
	IsSpecial          bool                `json:"is_special"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// Code renders the production-style code, e.g. "S03E12".
func (episode *Episode) Code() string {
	return fmt.Sprintf("S%02dE%02d", episode.Season, episode.EpisodeNumber)
}

// Ref projects the episode for embedding into other entities.
func (episode *Episode) Ref() catalog.EpisodeRef {
	airDate := episode.AirDate
	return catalog.EpisodeRef{
		ID:            episode.ID,
		Title:         episode.Title,
		TitleFR:       episode.TitleFR,
		Season:        episode.Season,
		EpisodeNumber: episode.EpisodeNumber,
		AirDate:       &airDate,
		ImageURL:      episode.ImageURL,
	}
}

func (episode *Episode) normalize() {
	if episode.Duration == 0 {
		episode.Duration = DefaultDuration
	}
	episode.MainCharacters = nonNil(episode.MainCharacters)
	episode.Trivia = nonNil(episode.Trivia)
	episode.GuestStars = nonNil(episode.GuestStars)
	episode.CulturalReferences = nonNil(episode.CulturalReferences)
	episode.Quotes = nonNil(episode.Quotes)
	episode.Tags = nonNil(episode.Tags)
}

func (episode Episode) clone() Episode {
	episode.MainCharacters = slices.Clone(episode.MainCharacters)
	episode.Trivia = slices.Clone(episode.Trivia)
	episode.GuestStars = slices.Clone(episode.GuestStars)
	episode.CulturalReferences = slices.Clone(episode.CulturalReferences)
	episode.Quotes = slices.Clone(episode.Quotes)
	episode.Tags = slices.Clone(episode.Tags)
	return episode
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// # Patch

// Patch carries a partial update; nil fields are left untouched. Views are
// never patched and ratings go through their own endpoint.
type Patch struct {
	Season             *int                 `json:"season"`
	EpisodeNumber      *int                 `json:"episode_number"`
	Title              *string              `json:"title"`
	TitleFR            *string              `json:"title_fr"`
	Summary            *string              `json:"summary"`
	Plot               *string              `json:"plot"`
	MainCharacters     *[]string            `json:"main_characters"`
	AirDate            *time.Time           `json:"air_date"`
	Duration           *int                 `json:"duration"`
	ImageURL           *string              `json:"image_url"`
	ThumbnailURL       *string              `json:"thumbnail_url"`
	VideoURL           *string              `json:"video_url"`
	Trivia             *[]Trivia            `json:"trivia"`
	GuestStars         *[]GuestStar         `json:"guest_stars"`
	CulturalReferences *[]CulturalReference `json:"cultural_references"`
	Quotes             *[]Quote             `json:"quotes"`
	Tags               *[]string            `json:"tags"`
	IsSpecial          *bool                `json:"is_special"`
}

// Apply copies the set fields onto the episode.
func (patch Patch) Apply(episode *Episode) {
	set(&episode.Season, patch.Season)
	set(&episode.EpisodeNumber, patch.EpisodeNumber)
	set(&episode.Title, patch.Title)
	set(&episode.TitleFR, patch.TitleFR)
	set(&episode.Summary, patch.Summary)
	set(&episode.Plot, patch.Plot)
	set(&episode.MainCharacters, patch.MainCharacters)
	set(&episode.AirDate, patch.AirDate)
	set(&episode.Duration, patch.Duration)
	set(&episode.ImageURL, patch.ImageURL)
	set(&episode.ThumbnailURL, patch.ThumbnailURL)
	set(&episode.VideoURL, patch.VideoURL)
	set(&episode.Trivia, patch.Trivia)
	set(&episode.GuestStars, patch.GuestStars)
	set(&episode.CulturalReferences, patch.CulturalReferences)
	set(&episode.Quotes, patch.Quotes)
	set(&episode.Tags, patch.Tags)
	set(&episode.IsSpecial, patch.IsSpecial)
}

func set[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

// # Field Identifiers

// Field names shared by validation, queries and both store backends.
const (
	FieldID             = "id"
	FieldSeason         = "season"
	FieldEpisodeNumber  = "episode_number"
	FieldTitle          = "title"
	FieldTitleFR        = "title_fr"
	FieldSummary        = "summary"
	FieldMainCharacters = "main_characters"
	FieldAirDate        = "air_date"
	FieldAirYear        = "air_year"
	FieldDuration       = "duration"
	FieldImageURL       = "image_url"
	FieldThumbnailURL   = "thumbnail_url"
	FieldVideoURL       = "video_url"
	FieldRatingIMDB     = "ratings.imdb"
	FieldRatingAudience = "ratings.audience"
	FieldRatingCritics  = "ratings.critics"
	FieldViews          = "views"
	FieldTags           = "tags"
	FieldIsSpecial      = "is_special"
	FieldCreatedAt      = "created_at"
	FieldUpdatedAt      = "updated_at"
)
