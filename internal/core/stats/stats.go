// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package stats computes the read-only dashboards of the catalog.

Every report is a fan-out of independent store reads joined with an errgroup.
Any failing read fails the whole report with a single Internal error, and
concurrent requests for the same report share one computation.
*/
package stats

import (
	"context"

	"github.com/taibuivan/springfield/internal/core/character"
	"github.com/taibuivan/springfield/internal/core/episode"
	"github.com/taibuivan/springfield/internal/core/news"
	"github.com/taibuivan/springfield/internal/users/auth"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
)

// # Store Contracts

// EpisodeStore is the read side of the episode repository.
type EpisodeStore interface {
	List(context context.Context, spec query.Spec) ([]*episode.Episode, int, error)
	Count(context context.Context, where query.Predicate) (int, error)
	GroupBy(context context.Context, request aggregate.GroupRequest) ([]aggregate.Group, error)
}

// CharacterStore is the read side of the character repository.
type CharacterStore interface {
	List(context context.Context, spec query.Spec) ([]*character.Character, int, error)
	Count(context context.Context, where query.Predicate) (int, error)
	GroupBy(context context.Context, request aggregate.GroupRequest) ([]aggregate.Group, error)
}

// NewsStore is the read side of the news repository.
type NewsStore interface {
	List(context context.Context, spec query.Spec) ([]*news.News, int, error)
	Count(context context.Context, where query.Predicate) (int, error)
}

// UserStore is the read side of the user repository.
type UserStore interface {
	List(context context.Context, spec query.Spec) ([]*auth.User, int, error)
	Count(context context.Context, where query.Predicate) (int, error)
}

// # Reports

// Overview is the public headline figures.
type Overview struct {
	Episodes struct {
		Total   int `json:"total"`
		Seasons int `json:"seasons"`
	} `json:"episodes"`
	Characters struct {
		Total int `json:"total"`
		Major int `json:"major"`
	} `json:"characters"`
	News struct {
		Published int `json:"published"`
	} `json:"news"`
	Users struct {
		Active int `json:"active"`
	} `json:"users"`
}

// SeasonStats aggregates one season.
type SeasonStats struct {
	Season     int      `json:"season"`
	Episodes   int      `json:"episodes"`
	AvgRating  *float64 `json:"avg_rating"`
	TotalViews int64    `json:"total_views"`
}

// YearCount is the number of episodes first aired in a year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// EpisodeReport details the episode catalog.
type EpisodeReport struct {
	BySeason   []SeasonStats      `json:"by_season"`
	MostViewed []*episode.Episode `json:"most_viewed"`
	Recent     []*episode.Episode `json:"recent"`
	ByYear     []YearCount        `json:"by_year"`
}

// FamilyStats is one family with its members.
type FamilyStats struct {
	Family  string   `json:"family"`
	Count   int      `json:"count"`
	Major   int      `json:"major_members"`
	Members []string `json:"members"`
}

// JobCount is the number of characters holding a job.
type JobCount struct {
	Job   string `json:"job"`
	Count int    `json:"count"`
}

// CharacterReport details the character population.
type CharacterReport struct {
	Families           []FamilyStats          `json:"families"`
	MostPopular        []*character.Character `json:"most_popular"`
	TopJobs            []JobCount             `json:"top_jobs"`
	MostAppearances    []*character.Character `json:"most_appearances"`
	StatusDistribution map[string]int         `json:"status_distribution"`
	Recurring          int                    `json:"recurring"`
}

// AdminReport is the back-office dashboard.
type AdminReport struct {
	Users struct {
		Total         int `json:"total"`
		Active        int `json:"active"`
		Admins        int `json:"admins"`
		RecentSignups int `json:"recent_signups"`
	} `json:"users"`
	Content struct {
		Published int `json:"published"`
		Drafts    int `json:"drafts"`
		Featured  int `json:"featured"`
	} `json:"content"`
	RecentActivity struct {
		Episodes   []*episode.Episode     `json:"episodes"`
		Characters []*character.Character `json:"characters"`
		News       []*news.News           `json:"news"`
		Users      []*auth.User           `json:"users"`
	} `json:"recent_activity"`
	PopularContent struct {
		MostViewedEpisodes []*episode.Episode `json:"most_viewed_episodes"`
		MostViewedNews     []*news.News       `json:"most_viewed_news"`
		MostLikedNews      []*news.News       `json:"most_liked_news"`
	} `json:"popular_content"`
}
