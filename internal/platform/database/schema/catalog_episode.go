// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogEpisodeTable represents the 'catalog.episodes' table
type CatalogEpisodeTable struct {
	Table              string
	ID                 string
	Season             string
	EpisodeNumber      string
	Title              string
	TitleFR            string
	Summary            string
	Plot               string
	MainCharacters     string
	AirDate            string
	Duration           string
	ImageURL           string
	ThumbnailURL       string
	VideoURL           string
	Trivia             string
	GuestStars         string
	CulturalReferences string
	Quotes             string
	RatingIMDB         string
	RatingAudience     string
	RatingCritics      string
	Views              string
	Tags               string
	IsSpecial          string
	SearchText         string
	SearchVector       string
	CreatedAt          string
	UpdatedAt          string
}

// CatalogEpisode is the schema definition for catalog.episodes
var CatalogEpisode = CatalogEpisodeTable{
	Table:              "catalog.episodes",
	ID:                 "id",
	Season:             "season",
	EpisodeNumber:      "episodenumber",
	Title:              "title",
	TitleFR:            "titlefr",
	Summary:            "summary",
	Plot:               "plot",
	MainCharacters:     "maincharacters",
	AirDate:            "airdate",
	Duration:           "duration",
	ImageURL:           "imageurl",
	ThumbnailURL:       "thumbnailurl",
	VideoURL:           "videourl",
	Trivia:             "trivia",
	GuestStars:         "gueststars",
	CulturalReferences: "culturalreferences",
	Quotes:             "quotes",
	RatingIMDB:         "ratingimdb",
	RatingAudience:     "ratingaudience",
	RatingCritics:      "ratingcritics",
	Views:              "views",
	Tags:               "tags",
	IsSpecial:          "isspecial",
	SearchText:         "searchtext",
	SearchVector:       "searchvector",
	CreatedAt:          "createdat",
	UpdatedAt:          "updatedat",
}

// Columns returns the readable columns in scan order
func (t CatalogEpisodeTable) Columns() []string {
	return []string{
		t.ID, t.Season, t.EpisodeNumber, t.Title, t.TitleFR, t.Summary, t.Plot,
		t.MainCharacters, t.AirDate, t.Duration, t.ImageURL, t.ThumbnailURL,
		t.VideoURL, t.Trivia, t.GuestStars, t.CulturalReferences, t.Quotes,
		t.RatingIMDB, t.RatingAudience, t.RatingCritics, t.Views, t.Tags,
		t.IsSpecial, t.CreatedAt, t.UpdatedAt,
	}
}
