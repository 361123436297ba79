// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package news manages the editorial articles.

Articles are addressed by id or by a unique slug derived from the title. The
author is a user id plus a name snapshot taken at creation. Related episodes
and characters are weak references resolved on read.
*/
package news

import (
	"slices"
	"time"
)

// # Enumerations

// Category classifies an article.
type Category string

const (
	CategoryNews      Category = "actualite"
	CategoryRumor     Category = "rumeur"
	CategoryReview    Category = "critique"
	CategoryInterview Category = "interview"
	CategoryAnalysis  Category = "analyse"
	CategoryEvent     Category = "evenement"
)

// Categories lists the accepted categories.
var Categories = []string{
	string(CategoryNews), string(CategoryRumor), string(CategoryReview),
	string(CategoryInterview), string(CategoryAnalysis), string(CategoryEvent),
}

// Status is the publication state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Statuses lists the accepted publication states.
var Statuses = []string{string(StatusDraft), string(StatusPublished), string(StatusArchived)}

// Source credits where the story comes from.
type Source struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// # Domain Entities

// News is a stored article.
type News struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Excerpt           string     `json:"excerpt,omitempty"`
	Content           string     `json:"content"`
	Author            string     `json:"author"`
	AuthorName        string     `json:"author_name"`
	Category          Category   `json:"category"`
	Tags              []string   `json:"tags"`
	ImageURL          string     `json:"image_url,omitempty"`
	ThumbnailURL      string     `json:"thumbnail_url,omitempty"`
	Gallery           []string   `json:"gallery"`
	Source            *Source    `json:"source,omitempty"`
	RelatedEpisodes   []string   `json:"related_episodes"`
	RelatedCharacters []string   `json:"related_characters"`
	Status            Status     `json:"status"`
	IsFeatured        bool       `json:"is_featured"`
	IsPinned          bool       `json:"is_pinned"`
	Views             int64      `json:"views"`
	Likes             int64      `json:"likes"`
	PublishedAt       *time.Time `json:"published_at,omitempty"`
	ScheduledFor      *time.Time `json:"scheduled_for,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// IsPublished reports whether the article is publicly visible.
func (news *News) IsPublished() bool {
	return news.Status == StatusPublished
}

func (news *News) normalize() {
	if news.Category == "" {
		news.Category = CategoryNews
	}
	if news.Status == "" {
		news.Status = StatusDraft
	}
	news.Tags = nonNil(news.Tags)
	news.Gallery = nonNil(news.Gallery)
	news.RelatedEpisodes = nonNil(news.RelatedEpisodes)
	news.RelatedCharacters = nonNil(news.RelatedCharacters)
}

func (news News) clone() News {
	news.Tags = slices.Clone(news.Tags)
	news.Gallery = slices.Clone(news.Gallery)
	news.RelatedEpisodes = slices.Clone(news.RelatedEpisodes)
	news.RelatedCharacters = slices.Clone(news.RelatedCharacters)
	if news.Source != nil {
		source := *news.Source
		news.Source = &source
	}
	if news.PublishedAt != nil {
		publishedAt := *news.PublishedAt
		news.PublishedAt = &publishedAt
	}
	if news.ScheduledFor != nil {
		scheduledFor := *news.ScheduledFor
		news.ScheduledFor = &scheduledFor
	}
	return news
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// # Patch

// Patch carries a partial update. The author and the counters never change.
type Patch struct {
	Title             *string    `json:"title"`
	Excerpt           *string    `json:"excerpt"`
	Content           *string    `json:"content"`
	Category          *Category  `json:"category"`
	Tags              *[]string  `json:"tags"`
	ImageURL          *string    `json:"image_url"`
	ThumbnailURL      *string    `json:"thumbnail_url"`
	Gallery           *[]string  `json:"gallery"`
	Source            *Source    `json:"source"`
	RelatedEpisodes   *[]string  `json:"related_episodes"`
	RelatedCharacters *[]string  `json:"related_characters"`
	Status            *Status    `json:"status"`
	IsFeatured        *bool      `json:"is_featured"`
	IsPinned          *bool      `json:"is_pinned"`
	PublishedAt       *time.Time `json:"published_at"`
	ScheduledFor      *time.Time `json:"scheduled_for"`
}

// Apply copies the set fields onto the article.
func (patch Patch) Apply(news *News) {
	set(&news.Title, patch.Title)
	set(&news.Excerpt, patch.Excerpt)
	set(&news.Content, patch.Content)
	set(&news.Category, patch.Category)
	set(&news.Tags, patch.Tags)
	set(&news.ImageURL, patch.ImageURL)
	set(&news.ThumbnailURL, patch.ThumbnailURL)
	set(&news.Gallery, patch.Gallery)
	set(&news.RelatedEpisodes, patch.RelatedEpisodes)
	set(&news.RelatedCharacters, patch.RelatedCharacters)
	set(&news.Status, patch.Status)
	set(&news.IsFeatured, patch.IsFeatured)
	set(&news.IsPinned, patch.IsPinned)

	if patch.Source != nil {
		source := *patch.Source
		news.Source = &source
	}
	if patch.PublishedAt != nil {
		news.PublishedAt = patch.PublishedAt
	}
	if patch.ScheduledFor != nil {
		news.ScheduledFor = patch.ScheduledFor
	}
}

func set[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

// # Field Identifiers

const (
	FieldID                = "id"
	FieldTitle             = "title"
	FieldSlug              = "slug"
	FieldExcerpt           = "excerpt"
	FieldContent           = "content"
	FieldAuthor            = "author"
	FieldAuthorName        = "author_name"
	FieldCategory          = "category"
	FieldTags              = "tags"
	FieldImageURL          = "image_url"
	FieldThumbnailURL      = "thumbnail_url"
	FieldGallery           = "gallery"
	FieldSource            = "source"
	FieldRelatedEpisodes   = "related_episodes"
	FieldRelatedCharacters = "related_characters"
	FieldStatus            = "status"
	FieldIsFeatured        = "is_featured"
	FieldIsPinned          = "is_pinned"
	FieldViews             = "views"
	FieldLikes             = "likes"
	FieldPublishedAt       = "published_at"
	FieldCreatedAt         = "created_at"
	FieldUpdatedAt         = "updated_at"
)
