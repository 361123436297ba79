// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package episode_test

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/core/character"
	"github.com/taibuivan/springfield/internal/core/episode"
	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/views"
	"github.com/taibuivan/springfield/pkg/pointer"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/uuid"
)

// # Fixtures

type fixture struct {
	service    *episode.Service
	repo       episode.Repository
	characters character.Repository
	ids        map[string]string
}

func airDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := episode.NewMemoryRepository()
	characters := character.NewMemoryRepository()
	service := episode.NewService(repo, characters, views.NewDirect("episode", repo, logger), logger)

	f := &fixture{service: service, repo: repo, characters: characters, ids: map[string]string{}}
	for _, e := range []episode.Episode{
		{Season: 1, EpisodeNumber: 1, Title: "Simpsons Roasting on an Open Fire", Summary: "Christmas", AirDate: airDate(1989, time.December, 17), Ratings: episode.Ratings{IMDB: pointer.To(8.1)}},
		{Season: 1, EpisodeNumber: 2, Title: "Bart the Genius", Summary: "IQ test", AirDate: airDate(1990, time.January, 14), Ratings: episode.Ratings{IMDB: pointer.To(7.6)}},
		{Season: 2, EpisodeNumber: 1, Title: "Bart Gets an F", Summary: "Exam", AirDate: airDate(1990, time.October, 11), Ratings: episode.Ratings{IMDB: pointer.To(8.2)}},
		{Season: 2, EpisodeNumber: 3, Title: "Treehouse of Horror", Summary: "Halloween", AirDate: airDate(1990, time.October, 25), IsSpecial: true},
	} {
		created, err := service.Create(context.Background(), &e)
		require.NoError(t, err)
		f.ids[created.Title] = created.ID
	}
	return f
}

func titles(listings []episode.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, listing := range listings {
		out = append(out, listing.Title)
	}
	return out
}

// # Lifecycle

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	aired := airDate(1991, time.March, 7)

	tests := []struct {
		name  string
		input episode.Episode
		code  string
	}{
		{"season_zero", episode.Episode{Season: 0, EpisodeNumber: 1, Title: "x", Summary: "x", AirDate: aired}, apperr.CodeValidation},
		{"missing_title", episode.Episode{Season: 3, EpisodeNumber: 1, Summary: "x", AirDate: aired}, apperr.CodeValidation},
		{"missing_air_date", episode.Episode{Season: 3, EpisodeNumber: 1, Title: "x", Summary: "x"}, apperr.CodeValidation},
		{"rating_out_of_range", episode.Episode{Season: 3, EpisodeNumber: 1, Title: "x", Summary: "x", AirDate: aired, Ratings: episode.Ratings{Critics: pointer.To(11.0)}}, apperr.CodeValidation},
		{"duplicate_code", episode.Episode{Season: 1, EpisodeNumber: 2, Title: "Again", Summary: "x", AirDate: aired}, apperr.CodeDuplicateKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), &tt.input)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}

	total, err := f.repo.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Create(context.Background(), &episode.Episode{
		Season: 3, EpisodeNumber: 1, Title: " Stark Raving Dad ", Summary: "Leon", AirDate: airDate(1991, time.September, 19), Views: 999,
	})
	require.NoError(t, err)

	assert.Equal(t, "Stark Raving Dad", created.Title)
	assert.Equal(t, episode.DefaultDuration, created.Duration)
	assert.Zero(t, created.Views)
	assert.Equal(t, "S03E01", created.Code())
}

func TestUpdate_KeepsCounters(t *testing.T) {
	f := newFixture(t)
	id := f.ids["Bart the Genius"]

	_, err := f.service.Get(context.Background(), id)
	require.NoError(t, err)

	updated, err := f.service.Update(context.Background(), id, episode.Patch{Plot: pointer.To("Bart swaps tests")})
	require.NoError(t, err)
	assert.Equal(t, "Bart swaps tests", updated.Plot)
	assert.Equal(t, int64(1), updated.Views)
	assert.Equal(t, 7.6, *updated.Ratings.IMDB)

	_, err = f.service.Update(context.Background(), id, episode.Patch{EpisodeNumber: pointer.To(1)})
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateKey))
}

/*
Deleting an episode pulls it from every character; the characters keep their
other episodes and the denormalized count follows.
*/
func TestDelete_DetachesFromCharacters(t *testing.T) {
	f := newFixture(t)
	pilot, genius := f.ids["Simpsons Roasting on an Open Fire"], f.ids["Bart the Genius"]

	bart := &character.Character{ID: uuid.New(), Name: "Bart Simpson", Description: "Prankster", Episodes: []string{pilot, genius}}
	require.NoError(t, f.characters.Create(context.Background(), bart))

	require.NoError(t, f.service.Delete(context.Background(), pilot))

	stored, err := f.characters.FindByID(context.Background(), bart.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{genius}, stored.Episodes)
	assert.Equal(t, 1, stored.EpisodeCount)

	err = f.service.Delete(context.Background(), pilot)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestRemoveMainCharacter(t *testing.T) {
	f := newFixture(t)
	homer, marge := uuid.New(), uuid.New()

	for _, title := range []string{"Bart the Genius", "Bart Gets an F"} {
		_, err := f.service.Update(context.Background(), f.ids[title], episode.Patch{MainCharacters: &[]string{homer, marge}})
		require.NoError(t, err)
	}

	changed, err := f.service.RemoveMainCharacter(context.Background(), homer)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	stored, err := f.repo.FindByID(context.Background(), f.ids["Bart Gets an F"])
	require.NoError(t, err)
	assert.Equal(t, []string{marge}, stored.MainCharacters)
}

// # Counters

func TestGet_CountsViews(t *testing.T) {
	f := newFixture(t)
	id := f.ids["Bart Gets an F"]

	first, err := f.service.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Views)

	second, err := f.service.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Views)

	_, err = f.service.Get(context.Background(), uuid.New())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestSetRatings(t *testing.T) {
	f := newFixture(t)
	id := f.ids["Simpsons Roasting on an Open Fire"]

	tests := []struct {
		name  string
		patch episode.Ratings
		valid bool
	}{
		{"audience_only", episode.Ratings{Audience: pointer.To(9.0)}, true},
		{"bounds", episode.Ratings{IMDB: pointer.To(0.0), Critics: pointer.To(10.0)}, true},
		{"above_ten", episode.Ratings{IMDB: pointer.To(10.5)}, false},
		{"negative", episode.Ratings{Critics: pointer.To(-1.0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := f.repo.FindByID(context.Background(), id)
			require.NoError(t, err)

			ratings, err := f.service.SetRatings(context.Background(), id, tt.patch)
			if !tt.valid {
				assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
				after, err := f.repo.FindByID(context.Background(), id)
				require.NoError(t, err)
				assert.Equal(t, before.Ratings, after.Ratings)
				return
			}

			require.NoError(t, err)
			expected := before.Ratings
			expected.Merge(tt.patch)
			assert.Equal(t, expected, *ratings)
		})
	}
}

// # Reads

func TestList_Filters(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		values   url.Values
		expected []string
	}{
		{"season", url.Values{"season": {"2"}}, []string{"Bart Gets an F", "Treehouse of Horror"}},
		{"special", url.Values{"isSpecial": {"true"}}, []string{"Treehouse of Horror"}},
		{"min_rating", url.Values{"minRating": {"8"}}, []string{"Simpsons Roasting on an Open Fire", "Bart Gets an F"}},
		{"air_year", url.Values{"year": {"1990"}}, []string{"Bart the Genius", "Bart Gets an F", "Treehouse of Horror"}},
		{"rating_desc", url.Values{"sortBy": {"rating"}, "sortOrder": {"desc"}, "limit": {"2"}}, []string{"Bart Gets an F", "Simpsons Roasting on an Open Fire"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings, _, err := f.service.List(context.Background(), episode.Definition.Build(tt.values))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, titles(listings))
		})
	}
}

func TestSeasons(t *testing.T) {
	f := newFixture(t)

	seasons, err := f.service.Seasons(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []episode.SeasonSummary{{Season: 1, EpisodeCount: 2}, {Season: 2, EpisodeCount: 2}}, seasons)
}

func TestBySeason(t *testing.T) {
	f := newFixture(t)

	listing, err := f.service.BySeason(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, listing.Count)
	assert.Equal(t, []string{"Bart Gets an F", "Treehouse of Horror"}, titles(listing.Episodes))

	_, err = f.service.BySeason(context.Background(), 0)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestGet_InlinesMainCharacters(t *testing.T) {
	f := newFixture(t)
	id := f.ids["Bart the Genius"]

	bart := &character.Character{ID: uuid.New(), Name: "Bart Simpson", Description: "Prankster"}
	require.NoError(t, f.characters.Create(context.Background(), bart))
	gone := uuid.New()

	_, err := f.service.Update(context.Background(), id, episode.Patch{MainCharacters: &[]string{bart.ID, gone}})
	require.NoError(t, err)

	detail, err := f.service.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, detail.CharacterDetails, 2)
	assert.Equal(t, "Bart Simpson", detail.CharacterDetails[0].Name)
	assert.True(t, detail.CharacterDetails[1].Missing)
}

func TestAppearances(t *testing.T) {
	f := newFixture(t)
	ids := []string{f.ids["Bart Gets an F"], f.ids["Simpsons Roasting on an Open Fire"], f.ids["Bart the Genius"]}

	refs, total, err := f.service.Appearances(context.Background(), ids, 0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, refs, 2)
	assert.Equal(t, "Simpsons Roasting on an Open Fire", refs[0].Title)
	assert.Equal(t, "Bart the Genius", refs[1].Title)

	refs, total, err = f.service.Appearances(context.Background(), ids, 2, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Bart Gets an F", refs[0].Title)

	existing, err := f.service.ExistingIDs(context.Background(), append([]string{uuid.New()}, ids...))
	require.NoError(t, err)
	assert.Equal(t, ids, existing)
}

func TestList_PagesAreStable(t *testing.T) {
	f := newFixture(t)

	all, _, err := f.service.List(context.Background(), query.Spec{Sort: episode.Definition.Sorted(episode.FieldSeason, false)})
	require.NoError(t, err)

	first, _, err := f.service.List(context.Background(), episode.Definition.Build(url.Values{"limit": {"2"}}))
	require.NoError(t, err)
	second, total, err := f.service.List(context.Background(), episode.Definition.Build(url.Values{"limit": {"2"}, "page": {"2"}}))
	require.NoError(t, err)

	assert.Equal(t, 4, total)
	assert.Equal(t, titles(all), append(titles(first), titles(second)...))
}
