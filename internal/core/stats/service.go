// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stats

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/springfield/internal/core/character"
	"github.com/taibuivan/springfield/internal/core/episode"
	"github.com/taibuivan/springfield/internal/core/news"
	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/internal/users/auth"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
)

const (
	mostViewedLimit  = 10
	recentLimit      = 5
	popularLimit     = 10
	topJobsLimit     = 10
	appearancesLimit = 15
	activityLimit    = 5
	signupWindow     = 7 * 24 * time.Hour
	reportOverview   = "overview"
	reportEpisodes   = "episodes"
	reportCharacters = "characters"
	reportAdmin      = "admin"
)

// Service computes the statistics reports.
type Service struct {
	episodes   EpisodeStore
	characters CharacterStore
	news       NewsStore
	users      UserStore
	logger     *slog.Logger
	flight     singleflight.Group
	now        func() time.Time
}

// NewService constructs a stats [Service].
func NewService(episodes EpisodeStore, characters CharacterStore, news NewsStore, users UserStore, logger *slog.Logger) *Service {
	return &Service{
		episodes:   episodes,
		characters: characters,
		news:       news,
		users:      users,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

/*
coalesce runs build once per report name for all concurrent callers.

Description: The shared computation is detached from the first caller's
cancellation so that one aborted request does not fail the others. Errors
are reported as a single Internal failure.
*/
func coalesce[T any](service *Service, ctx context.Context, name string, build func(context.Context) (*T, error)) (*T, error) {
	value, err, shared := service.flight.Do(name, func() (any, error) {
		return build(context.WithoutCancel(ctx))
	})
	if err != nil {
		service.logger.Error("stats_report_failed", slog.String("report", name), slog.Any("error", err))
		return nil, apperr.Internal(err)
	}
	if shared {
		service.logger.Debug("stats_report_shared", slog.String("report", name))
	}
	return value.(*T), nil
}

// # Overview

// Overview returns the public headline figures.
func (service *Service) Overview(ctx context.Context) (*Overview, error) {
	return coalesce(service, ctx, reportOverview, service.buildOverview)
}

func (service *Service) buildOverview(ctx context.Context) (*Overview, error) {
	overview := &Overview{}
	group, groupContext := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		overview.Episodes.Total, err = service.episodes.Count(groupContext, nil)
		return err
	})
	group.Go(func() error {
		seasons, err := service.episodes.GroupBy(groupContext, aggregate.GroupRequest{Field: episode.FieldSeason})
		overview.Episodes.Seasons = len(seasons)
		return err
	})
	group.Go(func() (err error) {
		overview.Characters.Total, err = service.characters.Count(groupContext, nil)
		return err
	})
	group.Go(func() (err error) {
		overview.Characters.Major, err = service.characters.Count(groupContext, query.Predicate{query.Eq(character.FieldIsMajor, true)})
		return err
	})
	group.Go(func() (err error) {
		overview.News.Published, err = service.news.Count(groupContext, query.Predicate{query.Eq(news.FieldStatus, string(news.StatusPublished))})
		return err
	})
	group.Go(func() (err error) {
		overview.Users.Active, err = service.users.Count(groupContext, query.Predicate{query.Eq(auth.FieldIsActive, true)})
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

// # Episodes

// Episodes returns the episode report.
func (service *Service) Episodes(ctx context.Context) (*EpisodeReport, error) {
	return coalesce(service, ctx, reportEpisodes, service.buildEpisodes)
}

func (service *Service) buildEpisodes(ctx context.Context) (*EpisodeReport, error) {
	report := &EpisodeReport{}
	group, groupContext := errgroup.WithContext(ctx)

	group.Go(func() error {
		seasons, err := service.episodes.GroupBy(groupContext, aggregate.GroupRequest{
			Field: episode.FieldSeason,
			Sum:   episode.FieldViews,
			Avg:   episode.FieldRatingIMDB,
			Order: aggregate.OrderKeyAsc,
		})
		report.BySeason = make([]SeasonStats, 0, len(seasons))
		for _, season := range seasons {
			number, _ := query.Float(season.Key)
			stats := SeasonStats{Season: int(number), Episodes: season.Count, AvgRating: season.Avg}
			if season.Sum != nil {
				stats.TotalViews = int64(*season.Sum)
			}
			report.BySeason = append(report.BySeason, stats)
		}
		return err
	})

	group.Go(func() (err error) {
		report.MostViewed, _, err = service.episodes.List(groupContext, query.Spec{
			Sort:  episode.Definition.Sorted(episode.FieldViews, true),
			Page:  1,
			Limit: mostViewedLimit,
		})
		return err
	})

	group.Go(func() (err error) {
		report.Recent, _, err = service.episodes.List(groupContext, query.Spec{
			Sort:  episode.Definition.Sorted(episode.FieldAirDate, true),
			Page:  1,
			Limit: recentLimit,
		})
		return err
	})

	group.Go(func() error {
		years, err := service.episodes.GroupBy(groupContext, aggregate.GroupRequest{
			Field: episode.FieldAirYear,
			Order: aggregate.OrderKeyAsc,
		})
		report.ByYear = make([]YearCount, 0, len(years))
		for _, year := range years {
			number, _ := query.Float(year.Key)
			report.ByYear = append(report.ByYear, YearCount{Year: int(number), Count: year.Count})
		}
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// # Characters

// Characters returns the character report.
func (service *Service) Characters(ctx context.Context) (*CharacterReport, error) {
	return coalesce(service, ctx, reportCharacters, service.buildCharacters)
}

func (service *Service) buildCharacters(ctx context.Context) (*CharacterReport, error) {
	report := &CharacterReport{}
	group, groupContext := errgroup.WithContext(ctx)

	group.Go(func() error {
		families, err := service.characters.GroupBy(groupContext, aggregate.GroupRequest{
			Field:       character.FieldFamily,
			Members:     character.FieldName,
			MemberLimit: constants.GroupMemberPreview,
			Sum:         character.FieldIsMajor,
		})
		report.Families = make([]FamilyStats, 0, len(families))
		for _, family := range families {
			name, _ := family.Key.(string)
			stats := FamilyStats{Family: name, Count: family.Count, Members: family.Members}
			if family.Sum != nil {
				stats.Major = int(*family.Sum)
			}
			report.Families = append(report.Families, stats)
		}
		return err
	})

	group.Go(func() (err error) {
		report.MostPopular, _, err = service.characters.List(groupContext, query.Spec{
			Sort: []query.SortKey{
				{Field: character.FieldPopularity, Desc: true},
				{Field: character.FieldEpisodeCount, Desc: true},
				{Field: character.FieldName},
				{Field: character.FieldID},
			},
			Page:  1,
			Limit: popularLimit,
		})
		return err
	})

	group.Go(func() error {
		jobs, err := service.characters.GroupBy(groupContext, aggregate.GroupRequest{Field: character.FieldJob, Limit: topJobsLimit})
		report.TopJobs = make([]JobCount, 0, len(jobs))
		for _, job := range jobs {
			name, _ := job.Key.(string)
			report.TopJobs = append(report.TopJobs, JobCount{Job: name, Count: job.Count})
		}
		return err
	})

	group.Go(func() (err error) {
		report.MostAppearances, _, err = service.characters.List(groupContext, query.Spec{
			Sort:  character.Definition.Sorted(character.FieldEpisodeCount, true),
			Page:  1,
			Limit: appearancesLimit,
		})
		return err
	})

	group.Go(func() error {
		statuses, err := service.characters.GroupBy(groupContext, aggregate.GroupRequest{Field: character.FieldStatus})
		report.StatusDistribution = aggregate.Keyed(statuses)
		return err
	})

	group.Go(func() (err error) {
		report.Recurring, err = service.characters.Count(groupContext, query.Predicate{query.Eq(character.FieldIsRecurring, true)})
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// # Admin

// Admin returns the back-office dashboard.
func (service *Service) Admin(ctx context.Context) (*AdminReport, error) {
	return coalesce(service, ctx, reportAdmin, service.buildAdmin)
}

func (service *Service) buildAdmin(ctx context.Context) (*AdminReport, error) {
	report := &AdminReport{}
	since := service.now().Add(-signupWindow)
	group, groupContext := errgroup.WithContext(ctx)

	counts := []struct {
		target *int
		count  func(context.Context) (int, error)
	}{
		{&report.Users.Total, func(ctx context.Context) (int, error) { return service.users.Count(ctx, nil) }},
		{&report.Users.Active, service.countUsers(query.Eq(auth.FieldIsActive, true))},
		{&report.Users.Admins, service.countUsers(query.Eq(auth.FieldIsAdmin, true))},
		{&report.Users.RecentSignups, service.countUsers(query.Gte(auth.FieldCreatedAt, since))},
		{&report.Content.Published, service.countNews(query.Eq(news.FieldStatus, string(news.StatusPublished)))},
		{&report.Content.Drafts, service.countNews(query.Eq(news.FieldStatus, string(news.StatusDraft)))},
		{&report.Content.Featured, service.countNews(query.Eq(news.FieldIsFeatured, true))},
	}
	for _, entry := range counts {
		group.Go(func() (err error) {
			*entry.target, err = entry.count(groupContext)
			return err
		})
	}

	latest := func(field string) []query.SortKey {
		return []query.SortKey{{Field: field, Desc: true}, {Field: "id"}}
	}

	group.Go(func() (err error) {
		report.RecentActivity.Episodes, _, err = service.episodes.List(groupContext, query.Spec{Sort: latest(episode.FieldCreatedAt), Page: 1, Limit: activityLimit})
		return err
	})
	group.Go(func() (err error) {
		report.RecentActivity.Characters, _, err = service.characters.List(groupContext, query.Spec{Sort: latest(character.FieldCreatedAt), Page: 1, Limit: activityLimit})
		return err
	})
	group.Go(func() (err error) {
		report.RecentActivity.News, _, err = service.news.List(groupContext, query.Spec{Sort: latest(news.FieldCreatedAt), Page: 1, Limit: activityLimit})
		return err
	})
	group.Go(func() (err error) {
		report.RecentActivity.Users, _, err = service.users.List(groupContext, query.Spec{Sort: latest(auth.FieldCreatedAt), Page: 1, Limit: activityLimit})
		return err
	})

	group.Go(func() (err error) {
		report.PopularContent.MostViewedEpisodes, _, err = service.episodes.List(groupContext, query.Spec{Sort: latest(episode.FieldViews), Page: 1, Limit: activityLimit})
		return err
	})
	group.Go(func() (err error) {
		report.PopularContent.MostViewedNews, _, err = service.news.List(groupContext, query.Spec{Sort: latest(news.FieldViews), Page: 1, Limit: activityLimit})
		return err
	})
	group.Go(func() (err error) {
		report.PopularContent.MostLikedNews, _, err = service.news.List(groupContext, query.Spec{Sort: latest(news.FieldLikes), Page: 1, Limit: activityLimit})
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (service *Service) countUsers(condition query.Condition) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		return service.users.Count(ctx, query.Predicate{condition})
	}
}

func (service *Service) countNews(condition query.Condition) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		return service.news.Count(ctx, query.Predicate{condition})
	}
}
