// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package episode

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/internal/platform/dberr"
	"github.com/taibuivan/springfield/internal/platform/postgres"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/search"
	"github.com/taibuivan/springfield/pkg/slice"
)

const resource = "Episode"

// # PostgreSQL Repository

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository constructs a PostgreSQL backed episode store.
func NewPostgresRepository(db postgres.Querier) Repository {
	return &postgresRepository{db: db}
}

var selectColumns = strings.Join(table.Columns(), ", ")

type row interface {
	Scan(dest ...any) error
}

func scanEpisode(source row, extra ...any) (*Episode, error) {
	episode := &Episode{}
	targets := []any{
		&episode.ID,
		&episode.Season,
		&episode.EpisodeNumber,
		&episode.Title,
		&episode.TitleFR,
		&episode.Summary,
		&episode.Plot,
		&episode.MainCharacters,
		&episode.AirDate,
		&episode.Duration,
		&episode.ImageURL,
		&episode.ThumbnailURL,
		&episode.VideoURL,
		&episode.Trivia,
		&episode.GuestStars,
		&episode.CulturalReferences,
		&episode.Quotes,
		&episode.Ratings.IMDB,
		&episode.Ratings.Audience,
		&episode.Ratings.Critics,
		&episode.Views,
		&episode.Tags,
		&episode.IsSpecial,
		&episode.CreatedAt,
		&episode.UpdatedAt,
	}

	if err := source.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}
	episode.normalize()
	return episode, nil
}

// List returns a filtered, paginated slice of episodes and the total count.
func (repository *postgresRepository) List(context context.Context, spec query.Spec) ([]*Episode, int, error) {
	args := &postgres.Args{}
	compiled, err := columns.Compile(spec, textIndex, args)
	if err != nil {
		return nil, 0, err
	}

	sql := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		%s
		%s
		%s
	`, selectColumns, table.Table, compiled.Where, compiled.OrderBy, compiled.Window)

	rows, err := repository.db.Query(context, sql, args.Values()...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource, "list episodes")
	}
	defer rows.Close()

	var episodes []*Episode
	var total int64
	for rows.Next() {
		episode, err := scanEpisode(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resource, "scan episode")
		}
		episodes = append(episodes, episode)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource, "list episodes")
	}

	if len(episodes) == 0 && spec.Skip() > 0 {
		args := &postgres.Args{}
		compiled, err := columns.Compile(query.Spec{Where: spec.Where, Search: spec.Search}, textIndex, args)
		if err != nil {
			return nil, 0, err
		}

		sql := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table.Table, compiled.Where)
		if err := repository.db.QueryRow(context, sql, args.Values()...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, resource, "count episodes")
		}
	}
	return episodes, int(total), nil
}

func (repository *postgresRepository) FindByID(context context.Context, id string) (*Episode, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, table.Table, table.ID)

	episode, err := scanEpisode(repository.db.QueryRow(context, sql, id))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "find episode")
	}
	return episode, nil
}

func (repository *postgresRepository) Create(context context.Context, episode *Episode) error {
	episode.normalize()

	sql := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26
		)
	`,
		table.Table,
		table.ID, table.Season, table.EpisodeNumber, table.Title, table.TitleFR,
		table.Summary, table.Plot, table.MainCharacters, table.AirDate, table.Duration,
		table.ImageURL, table.ThumbnailURL, table.VideoURL, table.Trivia, table.GuestStars,
		table.CulturalReferences, table.Quotes, table.RatingIMDB, table.RatingAudience, table.RatingCritics,
		table.Views, table.Tags, table.IsSpecial, table.SearchText, table.CreatedAt,
		table.UpdatedAt,
	)

	_, err := repository.db.Exec(context, sql,
		episode.ID, episode.Season, episode.EpisodeNumber, episode.Title, episode.TitleFR,
		episode.Summary, episode.Plot, episode.MainCharacters, episode.AirDate, episode.Duration,
		episode.ImageURL, episode.ThumbnailURL, episode.VideoURL, episode.Trivia, episode.GuestStars,
		episode.CulturalReferences, episode.Quotes, episode.Ratings.IMDB, episode.Ratings.Audience, episode.Ratings.Critics,
		episode.Views, episode.Tags, episode.IsSpecial, searchDocument(episode), episode.CreatedAt,
		episode.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resource, "insert episode")
	}
	return nil
}

func (repository *postgresRepository) Update(context context.Context, episode *Episode) error {
	episode.normalize()

	sql := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = $10, %s = $11, %s = $12, %s = $13, %s = $14, %s = $15,
			%s = $16, %s = $17, %s = $18, %s = $19, %s = $20, %s = $21
		WHERE %s = $1
		RETURNING %s
	`,
		table.Table,
		table.Season, table.EpisodeNumber, table.Title, table.TitleFR, table.Summary,
		table.Plot, table.MainCharacters, table.AirDate, table.Duration, table.ImageURL,
		table.ThumbnailURL, table.VideoURL, table.Trivia, table.GuestStars, table.CulturalReferences,
		table.Quotes, table.Tags, table.IsSpecial, table.SearchText, table.UpdatedAt,
		table.ID,
		selectColumns,
	)

	updated, err := scanEpisode(repository.db.QueryRow(context, sql,
		episode.ID,
		episode.Season, episode.EpisodeNumber, episode.Title, episode.TitleFR, episode.Summary,
		episode.Plot, episode.MainCharacters, episode.AirDate, episode.Duration, episode.ImageURL,
		episode.ThumbnailURL, episode.VideoURL, episode.Trivia, episode.GuestStars, episode.CulturalReferences,
		episode.Quotes, episode.Tags, episode.IsSpecial, searchDocument(episode), episode.UpdatedAt,
	))
	if err != nil {
		return dberr.Wrap(err, resource, "update episode")
	}

	*episode = *updated
	return nil
}

func (repository *postgresRepository) Delete(context context.Context, id string) (bool, error) {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.db.Exec(context, sql, id)
	if err != nil {
		return false, dberr.Wrap(err, resource, "delete episode")
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *postgresRepository) Count(context context.Context, where query.Predicate) (int, error) {
	return columns.Count(context, repository.db, table.Table, where)
}

func (repository *postgresRepository) GroupBy(context context.Context, request aggregate.GroupRequest) ([]aggregate.Group, error) {
	return columns.GroupBy(context, repository.db, table.Table, request)
}

// # Counters

func (repository *postgresRepository) IncrementViews(context context.Context, id string, delta int64) error {
	sql := fmt.Sprintf(`UPDATE %s SET %s = %s + $2 WHERE %s = $1`, table.Table, table.Views, table.Views, table.ID)

	if _, err := repository.db.Exec(context, sql, id, delta); err != nil {
		return dberr.Wrap(err, resource, "increment episode views")
	}
	return nil
}

// SetRatings keeps the stored score of every source absent from the patch.
func (repository *postgresRepository) SetRatings(context context.Context, id string, ratings Ratings, now time.Time) (*Episode, error) {
	sql := fmt.Sprintf(`
		UPDATE %s SET
			%s = COALESCE($2, %s),
			%s = COALESCE($3, %s),
			%s = COALESCE($4, %s),
			%s = $5
		WHERE %s = $1
		RETURNING %s
	`,
		table.Table,
		table.RatingIMDB, table.RatingIMDB,
		table.RatingAudience, table.RatingAudience,
		table.RatingCritics, table.RatingCritics,
		table.UpdatedAt,
		table.ID,
		selectColumns,
	)

	episode, err := scanEpisode(repository.db.QueryRow(context, sql, id, ratings.IMDB, ratings.Audience, ratings.Critics, now))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "set episode ratings")
	}
	return episode, nil
}

// # Relation Helpers

func (repository *postgresRepository) RemoveMainCharacter(context context.Context, characterID string, now time.Time) (int, error) {
	sql := fmt.Sprintf(`
		UPDATE %s SET %s = array_remove(%s, $1), %s = $2
		WHERE $1 = ANY(%s)
	`, table.Table, table.MainCharacters, table.MainCharacters, table.UpdatedAt, table.MainCharacters)

	tag, err := repository.db.Exec(context, sql, characterID, now)
	if err != nil {
		return 0, dberr.Wrap(err, resource, "remove main character")
	}
	return int(tag.RowsAffected()), nil
}

func (repository *postgresRepository) ExistingIDs(context context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ANY($1)`, table.ID, table.Table, table.ID)

	rows, err := repository.db.Query(context, sql, ids)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "existing episodes")
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, resource, "scan episode id")
		}
		found = append(found, id)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resource, "existing episodes")
	}

	return slice.Filter(ids, func(id string) bool { return slices.Contains(found, id) }), nil
}

func (repository *postgresRepository) Summaries(context context.Context, ids []string) (map[string]catalog.EpisodeRef, error) {
	found := make(map[string]catalog.EpisodeRef, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	sql := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1)
	`, table.ID, table.Title, table.TitleFR, table.Season, table.EpisodeNumber, table.AirDate, table.ImageURL,
		table.Table, table.ID)

	rows, err := repository.db.Query(context, sql, ids)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "episode summaries")
	}
	defer rows.Close()

	for rows.Next() {
		var ref catalog.EpisodeRef
		if err := rows.Scan(&ref.ID, &ref.Title, &ref.TitleFR, &ref.Season, &ref.EpisodeNumber, &ref.AirDate, &ref.ImageURL); err != nil {
			return nil, dberr.Wrap(err, resource, "scan episode summary")
		}
		found[ref.ID] = ref
	}
	return found, rows.Err()
}

func searchDocument(episode *Episode) string {
	return search.Document(episode.Title, episode.TitleFR, episode.Summary)
}
