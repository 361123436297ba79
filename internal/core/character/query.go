// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"github.com/taibuivan/springfield/internal/platform/database/schema"
	"github.com/taibuivan/springfield/internal/platform/memstore"
	"github.com/taibuivan/springfield/internal/platform/postgres"
	"github.com/taibuivan/springfield/pkg/query"
)

// # List Parameters

// Definition is the closed parameter table of GET /characters.
var Definition = query.Definition{
	Params: map[string]query.Contributor{
		"isMajor":       query.Bool(FieldIsMajor),
		"isRecurring":   query.Bool(FieldIsRecurring),
		"family":        query.Fold(FieldFamily),
		"job":           query.Fold(FieldJob),
		"status":        query.Enum(FieldStatus, Statuses...),
		"minPopularity": query.MinNumber(FieldPopularity),
		"ageRange":      query.IntRange(FieldAge),
		"hasEpisodes":   query.Presence(FieldEpisodes),
	},
	SortFields: map[string]string{
		"name":            FieldName,
		"nameFr":          FieldNameFR,
		"age":             FieldAge,
		"family":          FieldFamily,
		"popularity":      FieldPopularity,
		"popularityScore": FieldPopularity,
		"episodeCount":    FieldEpisodeCount,
		"createdAt":       FieldCreatedAt,
		"updatedAt":       FieldUpdatedAt,
	},
	DefaultSort: FieldName,
	Identity:    []string{FieldName, FieldID},
}

// advancedDefinition backs /characters/search/advanced. It accepts the list
// filters plus "query" as an alias of "search".
var advancedDefinition = query.Definition{
	Params:      Definition.Params,
	SortFields:  map[string]string{},
	DefaultSort: FieldPopularity,
	DefaultDesc: true,
	Identity:    []string{FieldName, FieldID},
}

// # Memory Catalog

var memorySchema = memstore.Schema[Character]{
	Resource: "Character",
	ID:       func(c Character) string { return c.ID },
	Fields: map[string]memstore.Accessor[Character]{
		FieldID:           func(c Character) any { return c.ID },
		FieldName:         func(c Character) any { return c.Name },
		FieldNameFR:       func(c Character) any { return c.NameFR },
		FieldFamily:       func(c Character) any { return c.Family },
		FieldJob:          func(c Character) any { return c.Job },
		FieldAge:          func(c Character) any { return c.Age },
		FieldIsMajor:      func(c Character) any { return c.IsMajor },
		FieldIsRecurring:  func(c Character) any { return c.IsRecurring },
		FieldStatus:       func(c Character) any { return string(c.Status) },
		FieldPopularity:   func(c Character) any { return c.PopularityScore },
		FieldEpisodes:     func(c Character) any { return c.Episodes },
		FieldEpisodeCount: func(c Character) any { return c.EpisodeCount },
		FieldTags:         func(c Character) any { return c.Tags },
		FieldCreatedAt:    func(c Character) any { return c.CreatedAt },
		FieldUpdatedAt:    func(c Character) any { return c.UpdatedAt },
	},
	Text: func(c Character) []string { return []string{c.Name, c.NameFR, c.Description} },
	Unique: []memstore.UniqueKey[Character]{
		{
			Name:    FieldName,
			Key:     func(c Character) string { return c.Name },
			Message: func(c Character) string { return "A character named " + c.Name + " already exists" },
		},
		{
			Name:    FieldNameFR,
			Key:     func(c Character) string { return c.NameFR },
			Message: func(c Character) string { return "A character named " + c.NameFR + " already exists" },
		},
	},
	Clone: Character.clone,
}

// # Postgres Catalog

var table = schema.CatalogCharacter

var columns = postgres.Columns{
	FieldID:           {Expr: table.ID, Kind: postgres.KindText},
	FieldName:         {Expr: table.Name, Kind: postgres.KindText},
	FieldNameFR:       {Expr: table.NameFR, Kind: postgres.KindText},
	FieldFamily:       {Expr: table.Family, Kind: postgres.KindText},
	FieldJob:          {Expr: table.Job, Kind: postgres.KindText},
	FieldAge:          {Expr: table.Age, Kind: postgres.KindNumber},
	FieldIsMajor:      {Expr: table.IsMajor, Kind: postgres.KindBool},
	FieldIsRecurring:  {Expr: table.IsRecurring, Kind: postgres.KindBool},
	FieldStatus:       {Expr: table.Status, Kind: postgres.KindText},
	FieldPopularity:   {Expr: table.PopularityScore, Kind: postgres.KindNumber},
	FieldEpisodes:     {Expr: table.Episodes, Kind: postgres.KindList},
	FieldEpisodeCount: {Expr: table.EpisodeCount, Kind: postgres.KindNumber},
	FieldTags:         {Expr: table.Tags, Kind: postgres.KindList},
	FieldCreatedAt:    {Expr: table.CreatedAt, Kind: postgres.KindTime},
	FieldUpdatedAt:    {Expr: table.UpdatedAt, Kind: postgres.KindTime},
}

var textIndex = postgres.TextIndex{Vector: table.SearchVector, Document: table.SearchText}
