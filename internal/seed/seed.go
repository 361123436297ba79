// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package seed loads the embedded starter dataset.

Everything goes through the domain services, so the seeded data obeys the
same validation, slug and counter rules as data created over the API. Cross
references are written by name (characters, users) or by episode code
("S01E01") and resolved while loading.
*/
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/taibuivan/springfield/internal/core/character"
	"github.com/taibuivan/springfield/internal/core/episode"
	"github.com/taibuivan/springfield/internal/core/news"
	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/sec"
	"github.com/taibuivan/springfield/internal/platform/views"
	"github.com/taibuivan/springfield/internal/users/auth"
	"github.com/taibuivan/springfield/pkg/pointer"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/uuid"
)

//go:embed dataset.toml
var embedded []byte

// # Dataset

// Dataset mirrors dataset.toml.
type Dataset struct {
	Users      []User      `toml:"users"`
	Characters []Character `toml:"characters"`
	Episodes   []Episode   `toml:"episodes"`
	News       []Article   `toml:"news"`
}

type User struct {
	Email      string `toml:"email"`
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	FirstName  string `toml:"first_name"`
	LastName   string `toml:"last_name"`
	IsAdmin    bool   `toml:"is_admin"`
	IsVerified bool   `toml:"is_verified"`
}

type Relative struct {
	Name         string `toml:"name"`
	Relationship string `toml:"relationship"`
}

type Character struct {
	Name         string     `toml:"name"`
	NameFR       string     `toml:"name_fr"`
	Description  string     `toml:"description"`
	Family       string     `toml:"family"`
	Job          string     `toml:"job"`
	Workplace    string     `toml:"workplace"`
	Age          *int       `toml:"age"`
	IsMajor      bool       `toml:"is_major"`
	IsRecurring  bool       `toml:"is_recurring"`
	Popularity   float64    `toml:"popularity"`
	Catchphrases []string   `toml:"catchphrases"`
	VoiceEnglish string     `toml:"voice_en"`
	VoiceFrench  string     `toml:"voice_fr"`
	Relatives    []Relative `toml:"relatives"`
}

type Episode struct {
	Season     int      `toml:"season"`
	Number     int      `toml:"episode"`
	Title      string   `toml:"title"`
	TitleFR    string   `toml:"title_fr"`
	Summary    string   `toml:"summary"`
	AirDate    string   `toml:"air_date"`
	Views      int64    `toml:"views"`
	IMDB       *float64 `toml:"imdb"`
	Tags       []string `toml:"tags"`
	IsSpecial  bool     `toml:"is_special"`
	Characters []string `toml:"characters"`
}

type Article struct {
	Title             string   `toml:"title"`
	Excerpt           string   `toml:"excerpt"`
	Content           string   `toml:"content"`
	Author            string   `toml:"author"`
	Category          string   `toml:"category"`
	Status            string   `toml:"status"`
	IsFeatured        bool     `toml:"is_featured"`
	Tags              []string `toml:"tags"`
	DaysAgo           int      `toml:"days_ago"`
	Views             int64    `toml:"views"`
	RelatedCharacters []string `toml:"related_characters"`
	RelatedEpisodes   []string `toml:"related_episodes"`
}

// Load decodes the embedded dataset.
func Load() (*Dataset, error) {
	var dataset Dataset
	if _, err := toml.Decode(string(embedded), &dataset); err != nil {
		return nil, fmt.Errorf("seed: decode dataset: %w", err)
	}
	return &dataset, nil
}

// # Seeder

// Targets are the stores and services the dataset is written through.
type Targets struct {
	Users        auth.UserRepository
	Characters   *character.Service
	Episodes     *episode.Service
	News         *news.Service
	EpisodeViews views.Sink
	NewsViews    views.Sink
}

// Summary counts what a run created.
type Summary struct {
	Users      int  `json:"users"`
	Characters int  `json:"characters"`
	Episodes   int  `json:"episodes"`
	News       int  `json:"news"`
	Skipped    bool `json:"skipped"`
}

// Seeder writes a [Dataset] into empty stores.
type Seeder struct {
	targets Targets
	logger  *slog.Logger
	now     func() time.Time
}

// NewSeeder constructs a [Seeder].
func NewSeeder(targets Targets, logger *slog.Logger) *Seeder {
	return &Seeder{targets: targets, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

/*
Run loads the dataset unless the catalog already holds characters.

Description: Episodes are created first, then characters with their
appearances, then relatives and episode casts once every name has an id, and
finally the news. Users that already exist are kept.

Returns:
  - Summary: what was created
  - error: the first failure; earlier writes are kept
*/
func (seeder *Seeder) Run(context context.Context, dataset *Dataset) (Summary, error) {
	var summary Summary

	_, existing, err := seeder.targets.Characters.List(context, query.Spec{Page: 1, Limit: 1})
	if err != nil {
		return summary, err
	}
	if existing > 0 {
		seeder.logger.Info("seed_skipped", slog.Int("characters", existing))
		summary.Skipped = true
		return summary, nil
	}

	users, err := seeder.users(context, dataset.Users, &summary)
	if err != nil {
		return summary, err
	}

	episodes, err := seeder.episodes(context, dataset.Episodes, &summary)
	if err != nil {
		return summary, err
	}

	characters, err := seeder.characters(context, dataset, episodes, &summary)
	if err != nil {
		return summary, err
	}

	if err := seeder.casts(context, dataset.Episodes, episodes, characters); err != nil {
		return summary, err
	}

	if err := seeder.news(context, dataset.News, users, episodes, characters, &summary); err != nil {
		return summary, err
	}

	seeder.logger.Info("seed_completed",
		slog.Int("users", summary.Users),
		slog.Int("characters", summary.Characters),
		slog.Int("episodes", summary.Episodes),
		slog.Int("news", summary.News),
	)
	return summary, nil
}

// users returns username -> id for every dataset user, new or existing.
func (seeder *Seeder) users(context context.Context, entries []User, summary *Summary) (map[string]string, error) {
	ids := make(map[string]string, len(entries))
	for _, entry := range entries {
		if existing, err := seeder.targets.Users.FindByUsername(context, entry.Username); err == nil {
			ids[entry.Username] = existing.ID
			continue
		} else if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, err
		}

		hash, err := sec.HashPassword(entry.Password)
		if err != nil {
			return nil, fmt.Errorf("seed: hash password for %s: %w", entry.Username, err)
		}

		now := seeder.now()
		user := &auth.User{
			ID:           uuid.New(),
			Email:        entry.Email,
			Username:     entry.Username,
			PasswordHash: hash,
			FirstName:    entry.FirstName,
			LastName:     entry.LastName,
			IsActive:     true,
			IsAdmin:      entry.IsAdmin,
			IsVerified:   entry.IsVerified,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := seeder.targets.Users.Create(context, user); err != nil {
			return nil, fmt.Errorf("seed: user %s: %w", entry.Username, err)
		}
		ids[entry.Username] = user.ID
		summary.Users++
	}
	return ids, nil
}

// episodes returns code -> id.
func (seeder *Seeder) episodes(context context.Context, entries []Episode, summary *Summary) (map[string]string, error) {
	ids := make(map[string]string, len(entries))
	for _, entry := range entries {
		airDate, err := time.Parse(time.DateOnly, entry.AirDate)
		if err != nil {
			return nil, fmt.Errorf("seed: episode %q air date: %w", entry.Title, err)
		}

		created, err := seeder.targets.Episodes.Create(context, &episode.Episode{
			Season:        entry.Season,
			EpisodeNumber: entry.Number,
			Title:         entry.Title,
			TitleFR:       entry.TitleFR,
			Summary:       entry.Summary,
			AirDate:       airDate,
			Ratings:       episode.Ratings{IMDB: entry.IMDB},
			Tags:          entry.Tags,
			IsSpecial:     entry.IsSpecial,
		})
		if err != nil {
			return nil, fmt.Errorf("seed: episode %q: %w", entry.Title, err)
		}

		if entry.Views > 0 {
			if err := seeder.targets.EpisodeViews.IncrementViews(context, created.ID, entry.Views); err != nil {
				return nil, err
			}
		}
		ids[created.Code()] = created.ID
		summary.Episodes++
	}
	return ids, nil
}

// characters returns name -> id.
func (seeder *Seeder) characters(context context.Context, dataset *Dataset, episodes map[string]string, summary *Summary) (map[string]string, error) {
	ids := make(map[string]string, len(dataset.Characters))
	for _, entry := range dataset.Characters {
		var appearances []string
		for _, ep := range dataset.Episodes {
			for _, name := range ep.Characters {
				if name == entry.Name {
					appearances = append(appearances, episodes[code(ep.Season, ep.Number)])
				}
			}
		}

		created, err := seeder.targets.Characters.Create(context, &character.Character{
			Name:            entry.Name,
			NameFR:          entry.NameFR,
			Description:     entry.Description,
			Family:          entry.Family,
			Job:             entry.Job,
			Workplace:       entry.Workplace,
			Age:             entry.Age,
			IsMajor:         entry.IsMajor,
			IsRecurring:     entry.IsRecurring,
			PopularityScore: entry.Popularity,
			Catchphrases:    entry.Catchphrases,
			VoiceActor:      character.VoiceActor{English: entry.VoiceEnglish, French: entry.VoiceFrench},
			Episodes:        appearances,
		})
		if err != nil {
			return nil, fmt.Errorf("seed: character %q: %w", entry.Name, err)
		}
		ids[entry.Name] = created.ID
		summary.Characters++
	}

	// Relatives need every id, including characters declared later
	for _, entry := range dataset.Characters {
		if len(entry.Relatives) == 0 {
			continue
		}

		relatives := make([]character.Relative, 0, len(entry.Relatives))
		for _, relative := range entry.Relatives {
			relatives = append(relatives, character.Relative{
				CharacterID:  ids[relative.Name],
				Name:         relative.Name,
				Relationship: relative.Relationship,
			})
		}

		if _, err := seeder.targets.Characters.Update(context, ids[entry.Name], character.Patch{Relatives: &relatives}); err != nil {
			return nil, fmt.Errorf("seed: relatives of %q: %w", entry.Name, err)
		}
	}
	return ids, nil
}

// casts sets the main characters of every episode.
func (seeder *Seeder) casts(context context.Context, entries []Episode, episodes, characters map[string]string) error {
	for _, entry := range entries {
		cast := resolve(entry.Characters, characters)
		if len(cast) == 0 {
			continue
		}
		if _, err := seeder.targets.Episodes.Update(context, episodes[code(entry.Season, entry.Number)], episode.Patch{MainCharacters: &cast}); err != nil {
			return fmt.Errorf("seed: cast of %q: %w", entry.Title, err)
		}
	}
	return nil
}

func (seeder *Seeder) news(context context.Context, entries []Article, users, episodes, characters map[string]string, summary *Summary) error {
	for _, entry := range entries {
		author, ok := users[entry.Author]
		if !ok {
			return fmt.Errorf("seed: news %q: unknown author %q", entry.Title, entry.Author)
		}

		article := &news.News{
			Title:             entry.Title,
			Excerpt:           entry.Excerpt,
			Content:           entry.Content,
			Category:          news.Category(entry.Category),
			Status:            news.Status(entry.Status),
			IsFeatured:        entry.IsFeatured,
			Tags:              entry.Tags,
			RelatedEpisodes:   resolve(entry.RelatedEpisodes, episodes),
			RelatedCharacters: resolve(entry.RelatedCharacters, characters),
		}
		if article.Status == news.StatusPublished {
			article.PublishedAt = pointer.To(seeder.now().AddDate(0, 0, -entry.DaysAgo))
		}

		created, err := seeder.targets.News.Create(context, author, article)
		if err != nil {
			return fmt.Errorf("seed: news %q: %w", entry.Title, err)
		}

		if entry.Views > 0 {
			if err := seeder.targets.NewsViews.IncrementViews(context, created.ID, entry.Views); err != nil {
				return err
			}
		}
		summary.News++
	}
	return nil
}

func code(season, number int) string {
	return (&episode.Episode{Season: season, EpisodeNumber: number}).Code()
}

// resolve maps names to ids, dropping names the dataset does not define.
func resolve(names []string, ids map[string]string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if id, ok := ids[name]; ok {
			out = append(out, id)
		}
	}
	return out
}
