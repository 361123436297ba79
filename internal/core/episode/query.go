// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package episode

import (
	"fmt"

	"github.com/taibuivan/springfield/internal/platform/database/schema"
	"github.com/taibuivan/springfield/internal/platform/memstore"
	"github.com/taibuivan/springfield/internal/platform/postgres"
	"github.com/taibuivan/springfield/pkg/query"
)

// # List Parameters

// Definition is the closed parameter table of GET /episodes.
var Definition = query.Definition{
	Params: map[string]query.Contributor{
		"season":    query.Int(FieldSeason),
		"isSpecial": query.Bool(FieldIsSpecial),
		"minRating": query.MinNumber(FieldRatingIMDB),
		"year":      query.Int(FieldAirYear),
		"character": query.Contains(FieldMainCharacters),
	},
	SortFields: map[string]string{
		"season":        FieldSeason,
		"episodeNumber": FieldEpisodeNumber,
		"title":         FieldTitle,
		"airDate":       FieldAirDate,
		"views":         FieldViews,
		"rating":        FieldRatingIMDB,
		"duration":      FieldDuration,
		"createdAt":     FieldCreatedAt,
	},
	DefaultSort: FieldSeason,
	Identity:    []string{FieldSeason, FieldEpisodeNumber, FieldID},
}

// # Memory Catalog

var memorySchema = memstore.Schema[Episode]{
	Resource: "Episode",
	ID:       func(e Episode) string { return e.ID },
	Fields: map[string]memstore.Accessor[Episode]{
		FieldID:             func(e Episode) any { return e.ID },
		FieldSeason:         func(e Episode) any { return e.Season },
		FieldEpisodeNumber:  func(e Episode) any { return e.EpisodeNumber },
		FieldTitle:          func(e Episode) any { return e.Title },
		FieldMainCharacters: func(e Episode) any { return e.MainCharacters },
		FieldAirDate:        func(e Episode) any { return e.AirDate },
		FieldAirYear:        func(e Episode) any { return e.AirDate.Year() },
		FieldDuration:       func(e Episode) any { return e.Duration },
		FieldRatingIMDB:     func(e Episode) any { return e.Ratings.IMDB },
		FieldRatingAudience: func(e Episode) any { return e.Ratings.Audience },
		FieldRatingCritics:  func(e Episode) any { return e.Ratings.Critics },
		FieldViews:          func(e Episode) any { return e.Views },
		FieldTags:           func(e Episode) any { return e.Tags },
		FieldIsSpecial:      func(e Episode) any { return e.IsSpecial },
		FieldCreatedAt:      func(e Episode) any { return e.CreatedAt },
		FieldUpdatedAt:      func(e Episode) any { return e.UpdatedAt },
	},
	Text: func(e Episode) []string { return []string{e.Title, e.TitleFR, e.Summary} },
	Unique: []memstore.UniqueKey[Episode]{
		{
			Name:    "season_episode",
			Key:     func(e Episode) string { return fmt.Sprintf("%d/%d", e.Season, e.EpisodeNumber) },
			Message: func(e Episode) string { return "Episode " + e.Code() + " already exists" },
		},
	},
	Clone: Episode.clone,
}

// # Postgres Catalog

var table = schema.CatalogEpisode

var columns = postgres.Columns{
	FieldID:             {Expr: table.ID, Kind: postgres.KindText},
	FieldSeason:         {Expr: table.Season, Kind: postgres.KindNumber},
	FieldEpisodeNumber:  {Expr: table.EpisodeNumber, Kind: postgres.KindNumber},
	FieldTitle:          {Expr: table.Title, Kind: postgres.KindText},
	FieldMainCharacters: {Expr: table.MainCharacters, Kind: postgres.KindList},
	FieldAirDate:        {Expr: table.AirDate, Kind: postgres.KindTime},
	FieldAirYear:        {Expr: fmt.Sprintf("EXTRACT(YEAR FROM %s)::int", table.AirDate), Kind: postgres.KindNumber},
	FieldDuration:       {Expr: table.Duration, Kind: postgres.KindNumber},
	FieldRatingIMDB:     {Expr: table.RatingIMDB, Kind: postgres.KindNumber},
	FieldRatingAudience: {Expr: table.RatingAudience, Kind: postgres.KindNumber},
	FieldRatingCritics:  {Expr: table.RatingCritics, Kind: postgres.KindNumber},
	FieldViews:          {Expr: table.Views, Kind: postgres.KindNumber},
	FieldTags:           {Expr: table.Tags, Kind: postgres.KindList},
	FieldIsSpecial:      {Expr: table.IsSpecial, Kind: postgres.KindBool},
	FieldCreatedAt:      {Expr: table.CreatedAt, Kind: postgres.KindTime},
	FieldUpdatedAt:      {Expr: table.UpdatedAt, Kind: postgres.KindTime},
}

var textIndex = postgres.TextIndex{Vector: table.SearchVector, Document: table.SearchText}
