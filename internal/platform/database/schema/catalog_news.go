// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CatalogNewsTable represents the 'catalog.news' table
type CatalogNewsTable struct {
	Table             string
	ID                string
	Title             string
	Slug              string
	Excerpt           string
	Content           string
	Author            string
	AuthorName        string
	Category          string
	Tags              string
	ImageURL          string
	ThumbnailURL      string
	Gallery           string
	Source            string
	RelatedEpisodes   string
	RelatedCharacters string
	Status            string
	IsFeatured        string
	IsPinned          string
	Views             string
	Likes             string
	PublishedAt       string
	ScheduledFor      string
	SearchText        string
	SearchVector      string
	CreatedAt         string
	UpdatedAt         string
}

// CatalogNews is the schema definition for catalog.news
var CatalogNews = CatalogNewsTable{
	Table:             "catalog.news",
	ID:                "id",
	Title:             "title",
	Slug:              "slug",
	Excerpt:           "excerpt",
	Content:           "content",
	Author:            "author",
	AuthorName:        "authorname",
	Category:          "category",
	Tags:              "tags",
	ImageURL:          "imageurl",
	ThumbnailURL:      "thumbnailurl",
	Gallery:           "gallery",
	Source:            "source",
	RelatedEpisodes:   "relatedepisodes",
	RelatedCharacters: "relatedcharacters",
	Status:            "status",
	IsFeatured:        "isfeatured",
	IsPinned:          "ispinned",
	Views:             "views",
	Likes:             "likes",
	PublishedAt:       "publishedat",
	ScheduledFor:      "scheduledfor",
	SearchText:        "searchtext",
	SearchVector:      "searchvector",
	CreatedAt:         "createdat",
	UpdatedAt:         "updatedat",
}

// Columns returns the readable columns in scan order
func (t CatalogNewsTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.Excerpt, t.Content, t.Author, t.AuthorName,
		t.Category, t.Tags, t.ImageURL, t.ThumbnailURL, t.Gallery, t.Source,
		t.RelatedEpisodes, t.RelatedCharacters, t.Status, t.IsFeatured,
		t.IsPinned, t.Views, t.Likes, t.PublishedAt, t.ScheduledFor,
		t.CreatedAt, t.UpdatedAt,
	}
}
