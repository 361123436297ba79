// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package news

import (
	"github.com/taibuivan/springfield/internal/platform/database/schema"
	"github.com/taibuivan/springfield/internal/platform/memstore"
	"github.com/taibuivan/springfield/internal/platform/postgres"
	"github.com/taibuivan/springfield/pkg/query"
)

// Definition is the closed parameter table of GET /news.
var Definition = query.Definition{
	Params: map[string]query.Contributor{
		"category":   query.Enum(FieldCategory, Categories...),
		"status":     query.Enum(FieldStatus, Statuses...),
		"tag":        query.Contains(FieldTags),
		"isFeatured": query.Bool(FieldIsFeatured),
		"isPinned":   query.Bool(FieldIsPinned),
	},
	SortFields: map[string]string{
		"publishedAt": FieldPublishedAt,
		"createdAt":   FieldCreatedAt,
		"title":       FieldTitle,
		"views":       FieldViews,
		"likes":       FieldLikes,
	},
	DefaultSort: FieldPublishedAt,
	DefaultDesc: true,
	Identity:    []string{FieldID},
}

var memorySchema = memstore.Schema[News]{
	Resource: "News",
	ID:       func(n News) string { return n.ID },
	Fields: map[string]memstore.Accessor[News]{
		FieldID:                func(n News) any { return n.ID },
		FieldTitle:             func(n News) any { return n.Title },
		FieldSlug:              func(n News) any { return n.Slug },
		FieldAuthor:            func(n News) any { return n.Author },
		FieldCategory:          func(n News) any { return string(n.Category) },
		FieldTags:              func(n News) any { return n.Tags },
		FieldRelatedEpisodes:   func(n News) any { return n.RelatedEpisodes },
		FieldRelatedCharacters: func(n News) any { return n.RelatedCharacters },
		FieldStatus:            func(n News) any { return string(n.Status) },
		FieldIsFeatured:        func(n News) any { return n.IsFeatured },
		FieldIsPinned:          func(n News) any { return n.IsPinned },
		FieldViews:             func(n News) any { return n.Views },
		FieldLikes:             func(n News) any { return n.Likes },
		FieldPublishedAt:       func(n News) any { return n.PublishedAt },
		FieldCreatedAt:         func(n News) any { return n.CreatedAt },
		FieldUpdatedAt:         func(n News) any { return n.UpdatedAt },
	},
	Text: func(n News) []string { return []string{n.Title, n.Excerpt, n.Content} },
	Unique: []memstore.UniqueKey[News]{
		{
			Name:    "slug",
			Key:     func(n News) string { return n.Slug },
			Message: func(n News) string { return "An article with slug " + n.Slug + " already exists" },
		},
	},
	Clone: News.clone,
}

var table = schema.CatalogNews

var columns = postgres.Columns{
	FieldID:                {Expr: table.ID, Kind: postgres.KindText},
	FieldTitle:             {Expr: table.Title, Kind: postgres.KindText},
	FieldSlug:              {Expr: table.Slug, Kind: postgres.KindText},
	FieldAuthor:            {Expr: table.Author, Kind: postgres.KindText},
	FieldCategory:          {Expr: table.Category, Kind: postgres.KindText},
	FieldTags:              {Expr: table.Tags, Kind: postgres.KindList},
	FieldRelatedEpisodes:   {Expr: table.RelatedEpisodes, Kind: postgres.KindList},
	FieldRelatedCharacters: {Expr: table.RelatedCharacters, Kind: postgres.KindList},
	FieldStatus:            {Expr: table.Status, Kind: postgres.KindText},
	FieldIsFeatured:        {Expr: table.IsFeatured, Kind: postgres.KindBool},
	FieldIsPinned:          {Expr: table.IsPinned, Kind: postgres.KindBool},
	FieldViews:             {Expr: table.Views, Kind: postgres.KindNumber},
	FieldLikes:             {Expr: table.Likes, Kind: postgres.KindNumber},
	FieldPublishedAt:       {Expr: table.PublishedAt, Kind: postgres.KindTime},
	FieldCreatedAt:         {Expr: table.CreatedAt, Kind: postgres.KindTime},
	FieldUpdatedAt:         {Expr: table.UpdatedAt, Kind: postgres.KindTime},
}

var textIndex = postgres.TextIndex{Vector: table.SearchVector, Document: table.SearchText}
