// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names the tables and columns of the Postgres backend.

Repositories build their SQL from these definitions instead of string
literals, so a column rename is a one-line change here plus a migration.
*/
package schema

// CatalogCharacterTable represents the 'catalog.characters' table
type CatalogCharacterTable struct {
	Table           string
	ID              string
	Name            string
	NameFR          string
	Description     string
	Biography       string
	ImageURL        string
	ThumbnailURL    string
	Gallery         string
	Episodes        string
	EpisodeCount    string
	Family          string
	Relatives       string
	Job             string
	Workplace       string
	Age             string
	BirthDate       string
	Address         string
	Personality     string
	Hobbies         string
	Catchphrases    string
	VoiceActor      string
	FirstAppearance string
	IsMajor         string
	IsRecurring     string
	Status          string
	PopularityScore string
	Tags            string
	Trivia          string
	Quotes          string
	SearchText      string
	SearchVector    string
	CreatedAt       string
	UpdatedAt       string
}

// CatalogCharacter is the schema definition for catalog.characters
var CatalogCharacter = CatalogCharacterTable{
	Table:           "catalog.characters",
	ID:              "id",
	Name:            "name",
	NameFR:          "namefr",
	Description:     "description",
	Biography:       "biography",
	ImageURL:        "imageurl",
	ThumbnailURL:    "thumbnailurl",
	Gallery:         "gallery",
	Episodes:        "episodes",
	EpisodeCount:    "episodecount",
	Family:          "family",
	Relatives:       "relatives",
	Job:             "job",
	Workplace:       "workplace",
	Age:             "age",
	BirthDate:       "birthdate",
	Address:         "address",
	Personality:     "personality",
	Hobbies:         "hobbies",
	Catchphrases:    "catchphrases",
	VoiceActor:      "voiceactor",
	FirstAppearance: "firstappearance",
	IsMajor:         "ismajor",
	IsRecurring:     "isrecurring",
	Status:          "status",
	PopularityScore: "popularityscore",
	Tags:            "tags",
	Trivia:          "trivia",
	Quotes:          "quotes",
	SearchText:      "searchtext",
	SearchVector:    "searchvector",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// Columns returns the readable columns in scan order
func (t CatalogCharacterTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.NameFR, t.Description, t.Biography, t.ImageURL,
		t.ThumbnailURL, t.Gallery, t.Episodes, t.EpisodeCount, t.Family,
		t.Relatives, t.Job, t.Workplace, t.Age, t.BirthDate, t.Address,
		t.Personality, t.Hobbies, t.Catchphrases, t.VoiceActor,
		t.FirstAppearance, t.IsMajor, t.IsRecurring, t.Status,
		t.PopularityScore, t.Tags, t.Trivia, t.Quotes, t.CreatedAt, t.UpdatedAt,
	}
}
