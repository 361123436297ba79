// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/internal/core/character"
	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/pkg/pointer"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/uuid"
)

// # Fixtures

type fakeEpisodes struct {
	mu       sync.Mutex
	episodes map[string]catalog.EpisodeRef
	severed  []string
}

func newFakeEpisodes(refs ...catalog.EpisodeRef) *fakeEpisodes {
	directory := &fakeEpisodes{episodes: make(map[string]catalog.EpisodeRef)}
	for _, ref := range refs {
		directory.episodes[ref.ID] = ref
	}
	return directory
}

func (directory *fakeEpisodes) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	var existing []string
	for _, id := range ids {
		if _, ok := directory.episodes[id]; ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

func (directory *fakeEpisodes) Summaries(_ context.Context, ids []string) (map[string]catalog.EpisodeRef, error) {
	found := make(map[string]catalog.EpisodeRef)
	for _, id := range ids {
		if ref, ok := directory.episodes[id]; ok {
			found[id] = ref
		}
	}
	return found, nil
}

func (directory *fakeEpisodes) Appearances(_ context.Context, ids []string, season, _, _ int) ([]catalog.EpisodeRef, int, error) {
	var refs []catalog.EpisodeRef
	for _, id := range ids {
		if ref, ok := directory.episodes[id]; ok && (season == 0 || ref.Season == season) {
			refs = append(refs, ref)
		}
	}
	return refs, len(refs), nil
}

func (directory *fakeEpisodes) RemoveMainCharacter(_ context.Context, characterID string) (int, error) {
	directory.mu.Lock()
	defer directory.mu.Unlock()
	directory.severed = append(directory.severed, characterID)
	return 1, nil
}

func episode(season, number int, title string) catalog.EpisodeRef {
	return catalog.EpisodeRef{ID: uuid.New(), Title: title, Season: season, EpisodeNumber: number}
}

type fixture struct {
	service  *character.Service
	episodes *fakeEpisodes
	pilot    catalog.EpisodeRef
	second   catalog.EpisodeRef
	ids      map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	pilot := episode(1, 1, "Simpsons Roasting on an Open Fire")
	second := episode(1, 2, "Bart the Genius")
	episodes := newFakeEpisodes(pilot, second)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := character.NewService(character.NewMemoryRepository(), episodes, logger)

	f := &fixture{service: service, episodes: episodes, pilot: pilot, second: second, ids: map[string]string{}}
	for _, c := range []character.Character{
		{Name: "Homer Simpson", Description: "Safety inspector", Family: "Simpson", IsMajor: true, PopularityScore: 95, Job: "Safety Inspector"},
		{Name: "Marge Simpson", Description: "Homemaker", Family: "Simpson", IsMajor: true, PopularityScore: 90},
		{Name: "Bart Simpson", Description: "Prankster", Family: "Simpson", Age: pointer.To(10), IsMajor: true, PopularityScore: 93},
		{Name: "Lisa Simpson", Description: "Saxophonist", Family: "Simpson", Age: pointer.To(8), IsMajor: true, PopularityScore: 88},
		{Name: "Ned Flanders", Description: "Neighbor", Family: "Flanders", Age: pointer.To(60), PopularityScore: 70, Job: "Leftorium owner"},
		{Name: "Rod Flanders", Description: "Son of Ned", Family: "Flanders", Age: pointer.To(4), PopularityScore: 20},
		{Name: "Moe Szyslak", Description: "Bartender", Age: pointer.To(45), PopularityScore: 60, Job: "Bartender"},
	} {
		created, err := service.Create(context.Background(), &c)
		require.NoError(t, err)
		f.ids[c.Name] = created.ID
	}
	return f
}

func names(characters []*character.Character) []string {
	out := make([]string, 0, len(characters))
	for _, c := range characters {
		out = append(out, c.Name)
	}
	return out
}

// # Lifecycle

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input character.Character
		code  string
	}{
		{"missing_name", character.Character{Description: "x"}, apperr.CodeValidation},
		{"missing_description", character.Character{Name: "Apu"}, apperr.CodeValidation},
		{"age_out_of_range", character.Character{Name: "Abe", Description: "x", Age: pointer.To(151)}, apperr.CodeValidation},
		{"unknown_status", character.Character{Name: "Abe", Description: "x", Status: "zombie"}, apperr.CodeValidation},
		{"duplicate_name", character.Character{Name: "Homer Simpson", Description: "clone"}, apperr.CodeDuplicateKey},
		{"unknown_episode", character.Character{Name: "Abe", Description: "x", Episodes: []string{uuid.New()}}, apperr.CodeInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), &tt.input)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}

	// Nothing rejected above was written
	_, total, err := f.service.List(context.Background(), query.Spec{})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t)

	created, err := f.service.Create(context.Background(), &character.Character{
		Name:        "  Apu Nahasapeemapetilon ",
		Description: "Kwik-E-Mart clerk",
		Episodes:    []string{f.pilot.ID, f.pilot.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "Apu Nahasapeemapetilon", created.Name)
	assert.Equal(t, character.StatusAlive, created.Status)
	assert.Equal(t, []string{f.pilot.ID}, created.Episodes)
	assert.Equal(t, 1, created.EpisodeCount)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestUpdate_Partial(t *testing.T) {
	f := newFixture(t)
	id := f.ids["Moe Szyslak"]

	updated, err := f.service.Update(context.Background(), id, character.Patch{Job: pointer.To("Tavern owner")})
	require.NoError(t, err)
	assert.Equal(t, "Tavern owner", updated.Job)
	assert.Equal(t, "Bartender", updated.Description)

	_, err = f.service.Update(context.Background(), id, character.Patch{Name: pointer.To("Ned Flanders")})
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateKey))

	_, err = f.service.Update(context.Background(), uuid.New(), character.Patch{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestDelete_SeversEpisodes(t *testing.T) {
	f := newFixture(t)
	id := f.ids["Rod Flanders"]

	require.NoError(t, f.service.Delete(context.Background(), id))
	assert.Equal(t, []string{id}, f.episodes.severed)

	err := f.service.Delete(context.Background(), id)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

// # Relations

/*
TestAssociate_Idempotent checks episode_count tracks the list through
repeated associations and removals.
*/
func TestAssociate_Idempotent(t *testing.T) {
	f := newFixture(t)
	id := f.ids["Bart Simpson"]
	both := []string{f.pilot.ID, f.second.ID}

	updated, added, err := f.service.Associate(context.Background(), id, both)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, updated.EpisodeCount)

	updated, added, err = f.service.Associate(context.Background(), id, both)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 2, updated.EpisodeCount)
	assert.Equal(t, both, updated.Episodes)

	updated, err = f.service.Disassociate(context.Background(), id, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, updated.EpisodeCount, "removing an absent id never decrements")

	updated, err = f.service.Disassociate(context.Background(), id, f.pilot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.EpisodeCount)
	assert.Len(t, updated.Episodes, updated.EpisodeCount)
}

func TestAssociate_RejectsUnknownEpisodes(t *testing.T) {
	f := newFixture(t)
	id := f.ids["Lisa Simpson"]
	unknown := uuid.New()

	_, _, err := f.service.Associate(context.Background(), id, []string{f.pilot.ID, unknown})
	require.True(t, apperr.HasCode(err, apperr.CodeInvalidReference))
	require.Len(t, apperr.As(err).Details, 1)
	assert.Contains(t, apperr.As(err).Details[0].Message, unknown)

	detail, err := f.service.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, detail.Episodes, "a rejected association writes nothing")

	_, _, err = f.service.Associate(context.Background(), id, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, _, err = f.service.Associate(context.Background(), uuid.New(), []string{f.pilot.ID})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestAssociate_Concurrent(t *testing.T) {
	f := newFixture(t)
	id := f.ids["Homer Simpson"]

	var wait sync.WaitGroup
	for _, episodeID := range []string{f.pilot.ID, f.second.ID, f.pilot.ID, f.second.ID} {
		wait.Add(1)
		go func() {
			defer wait.Done()
			_, _, _ = f.service.Associate(context.Background(), id, []string{episodeID})
		}()
	}
	wait.Wait()

	detail, err := f.service.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.EpisodeCount)
	assert.ElementsMatch(t, []string{f.pilot.ID, f.second.ID}, detail.Episodes)
}

func TestSetPopularity(t *testing.T) {
	f := newFixture(t)
	id := f.ids["Ned Flanders"]

	tests := []struct {
		name  string
		score float64
		valid bool
	}{
		{"lower_bound", 0, true},
		{"upper_bound", 100, true},
		{"above_range", 150, false},
		{"negative", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := f.service.Get(context.Background(), id)
			require.NoError(t, err)

			updated, err := f.service.SetPopularity(context.Background(), id, tt.score)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.score, updated.PopularityScore)
				return
			}

			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			after, err := f.service.Get(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, before.PopularityScore, after.PopularityScore)
		})
	}
}

func TestGet_ResolvesRelativesAndEpisodes(t *testing.T) {
	f := newFixture(t)
	orphan := uuid.New()

	created, err := f.service.Create(context.Background(), &character.Character{
		Name:        "Maggie Simpson",
		Description: "Baby",
		Family:      "Simpson",
		Episodes:    []string{f.second.ID},
		Relatives: []character.Relative{
			{CharacterID: f.ids["Marge Simpson"], Name: "Marge", Relationship: "mother"},
			{CharacterID: orphan, Name: "Ghost", Relationship: "cousin"},
			{Name: "Jacqueline Bouvier", Relationship: "grandmother"},
		},
	})
	require.NoError(t, err)

	detail, err := f.service.Get(context.Background(), created.ID)
	require.NoError(t, err)

	require.Len(t, detail.EpisodeDetails, 1)
	assert.Equal(t, "Bart the Genius", detail.EpisodeDetails[0].Title)

	require.Len(t, detail.RelativeDetails, 3)
	assert.Equal(t, "Marge Simpson", detail.RelativeDetails[0].Character.Name)
	assert.True(t, detail.RelativeDetails[1].Character.Missing)
	assert.Equal(t, catalog.UnknownName, detail.RelativeDetails[1].Character.Name)
	assert.Nil(t, detail.RelativeDetails[2].Character)

	kin, err := f.service.Relatives(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Simpson", kin.Family)
	assert.Len(t, kin.FamilyMembers, 4, "the character itself is excluded")
}

// # Queries

func TestList_AgeRange(t *testing.T) {
	f := newFixture(t)

	spec := character.Definition.Build(url.Values{"ageRange": {"5-12"}})
	listings, total, err := f.service.List(context.Background(), spec)
	require.NoError(t, err)

	var got []string
	for _, listing := range listings {
		got = append(got, listing.Name)
	}
	assert.Equal(t, []string{"Bart Simpson", "Lisa Simpson"}, got)
	assert.Equal(t, 2, total)
}

func TestList_PagesAreDisjoint(t *testing.T) {
	f := newFixture(t)
	for i := range 20 {
		_, err := f.service.Create(context.Background(), &character.Character{
			Name:        "Extra " + string(rune('A'+i)),
			Description: "Background character",
		})
		require.NoError(t, err)
	}

	page := func(n string) []string {
		listings, _, err := f.service.List(context.Background(), character.Definition.Build(url.Values{"page": {n}, "limit": {"10"}}))
		require.NoError(t, err)
		var out []string
		for _, listing := range listings {
			out = append(out, listing.ID)
		}
		return out
	}

	first, second := page("1"), page("2")
	require.Len(t, first, 10)
	require.Len(t, second, 10)
	for _, id := range second {
		assert.False(t, slices.Contains(first, id))
	}

	all, _, err := f.service.List(context.Background(), character.Definition.Build(url.Values{"limit": {"100"}}))
	require.NoError(t, err)
	var expected []string
	for _, listing := range all[:20] {
		expected = append(expected, listing.ID)
	}
	assert.Equal(t, expected, append(first, second...))
}

func TestFamilies(t *testing.T) {
	f := newFixture(t)

	families, err := f.service.Families(context.Background())
	require.NoError(t, err)

	require.Len(t, families, 2, "characters without a family are not grouped")
	assert.Equal(t, "Simpson", families[0].Family)
	assert.Equal(t, 4, families[0].Count)
	assert.Equal(t, 4, families[0].MajorMembers)
	assert.Equal(t, "Bart Simpson", families[0].Members[0].Name)
	assert.Equal(t, "Flanders", families[1].Family)
	assert.Equal(t, 0, families[1].MajorMembers)
}

func TestFamilies_BoundsMembers(t *testing.T) {
	f := newFixture(t)
	for i := range constants.GroupMemberPreview + 5 {
		_, err := f.service.Create(context.Background(), &character.Character{
			Name:        fmt.Sprintf("Clone %02d", i),
			Description: "Spare Homer",
			Family:      "Clones",
		})
		require.NoError(t, err)
	}

	families, err := f.service.Families(context.Background())
	require.NoError(t, err)

	require.Equal(t, "Clones", families[0].Family)
	assert.Equal(t, constants.GroupMemberPreview+5, families[0].Count)
	require.Len(t, families[0].Members, constants.GroupMemberPreview)
	assert.Equal(t, "Clone 00", families[0].Members[0].Name)
	assert.Equal(t, "Clone 09", families[0].Members[constants.GroupMemberPreview-1].Name)
}

func TestJobs(t *testing.T) {
	f := newFixture(t)
	for i := range constants.GroupMemberPreview + 2 {
		_, err := f.service.Create(context.Background(), &character.Character{
			Name:        fmt.Sprintf("Clerk %02d", i),
			Description: "Kwik-E-Mart shift",
			Job:         "Clerk",
			IsMajor:     i == 0,
		})
		require.NoError(t, err)
	}

	jobs, err := f.service.Jobs(context.Background())
	require.NoError(t, err)

	require.Equal(t, "Clerk", jobs[0].Job)
	assert.Equal(t, constants.GroupMemberPreview+2, jobs[0].Count)
	require.Len(t, jobs[0].Characters, constants.GroupMemberPreview)
	assert.Equal(t, "Clerk 00", jobs[0].Characters[0].Name)
	assert.True(t, jobs[0].Characters[0].IsMajor)
	assert.Equal(t, "Clerk", jobs[0].Characters[0].Job)

	var moe character.JobCount
	for _, job := range jobs {
		if job.Job == "Bartender" {
			moe = job
		}
	}
	require.Len(t, moe.Characters, 1)
	assert.Equal(t, f.ids["Moe Szyslak"], moe.Characters[0].ID)
}

func TestAdvancedSearch(t *testing.T) {
	f := newFixture(t)

	results, count, err := f.service.Search(context.Background(), character.AdvancedSpec(url.Values{
		"query":   {"simpson"},
		"isMajor": {"true"},
	}))
	require.NoError(t, err)

	assert.Equal(t, 4, count)
	assert.Equal(t, []string{"Homer Simpson", "Bart Simpson", "Marge Simpson", "Lisa Simpson"}, names(results))
}

func TestOverview(t *testing.T) {
	f := newFixture(t)

	overview, err := f.service.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, overview.Total)
	assert.Equal(t, 4, overview.Major)
	assert.Equal(t, 3, overview.NonMajor)
	assert.Equal(t, "Simpson", overview.TopFamilies[0].Family)
	assert.Len(t, overview.TopJobs, 3)
	assert.Equal(t, map[string]int{"alive": 7}, overview.StatusDistribution)
}

func TestMajor(t *testing.T) {
	f := newFixture(t)

	major, err := f.service.Major(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Homer Simpson", "Bart Simpson", "Marge Simpson", "Lisa Simpson"}, names(major))
}
