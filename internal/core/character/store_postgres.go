// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/springfield/internal/core/catalog"
	"github.com/taibuivan/springfield/internal/platform/dberr"
	"github.com/taibuivan/springfield/internal/platform/postgres"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/search"
)

const resource = "Character"

// # PostgreSQL Repository

// postgresRepository implements [Repository] using pgx.
type postgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository constructs a PostgreSQL backed character store.
func NewPostgresRepository(db postgres.Querier) Repository {
	return &postgresRepository{db: db}
}

// selectColumns is the projection every read scans through [scanCharacter].
var selectColumns = strings.Join(table.Columns(), ", ")

// row is satisfied by both pgx.Row and pgx.Rows.
type row interface {
	Scan(dest ...any) error
}

func scanCharacter(source row, extra ...any) (*Character, error) {
	character := &Character{}
	targets := []any{
		&character.ID,
		&character.Name,
		&character.NameFR,
		&character.Description,
		&character.Biography,
		&character.ImageURL,
		&character.ThumbnailURL,
		&character.Gallery,
		&character.Episodes,
		&character.EpisodeCount,
		&character.Family,
		&character.Relatives,
		&character.Job,
		&character.Workplace,
		&character.Age,
		&character.BirthDate,
		&character.Address,
		&character.Personality,
		&character.Hobbies,
		&character.Catchphrases,
		&character.VoiceActor,
		&character.FirstAppearance,
		&character.IsMajor,
		&character.IsRecurring,
		&character.Status,
		&character.PopularityScore,
		&character.Tags,
		&character.Trivia,
		&character.Quotes,
		&character.CreatedAt,
		&character.UpdatedAt,
	}

	if err := source.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}
	character.normalize()
	return character, nil
}

/*
List returns a filtered, paginated slice of characters and the total count.

Description: The total comes from COUNT(*) OVER() on the same statement. A
page past the end returns no row to carry it, so the count is then queried
on its own.
*/
func (repository *postgresRepository) List(context context.Context, spec query.Spec) ([]*Character, int, error) {
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
		return nil, 0, dberr.Wrap(err, resource, "list characters")
	}
	defer rows.Close()

	var characters []*Character
	var total int64
	for rows.Next() {
		character, err := scanCharacter(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resource, "scan character")
		}
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource, "list characters")
	}

	if len(characters) == 0 && spec.Skip() > 0 {
		count, err := repository.countSpec(context, spec)
		return characters, count, err
	}
	return characters, int(total), nil
}

// countSpec counts the rows a spec matches, text search included.
func (repository *postgresRepository) countSpec(context context.Context, spec query.Spec) (int, error) {
	args := &postgres.Args{}
	compiled, err := columns.Compile(query.Spec{Where: spec.Where, Search: spec.Search}, textIndex, args)
	if err != nil {
		return 0, err
	}

	var total int64
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table.Table, compiled.Where)
	if err := repository.db.QueryRow(context, sql, args.Values()...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, resource, "count characters")
	}
	return int(total), nil
}

func (repository *postgresRepository) FindByID(context context.Context, id string) (*Character, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, table.Table, table.ID)

	character, err := scanCharacter(repository.db.QueryRow(context, sql, id))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "find character")
	}
	return character, nil
}

/*
Create inserts a character.

Description: The episode count is a generated column and the tsvector is
generated from searchtext, which is written here with the same tokenizer the
memory backend uses.
*/
func (repository *postgresRepository) Create(context context.Context, character *Character) error {
	character.normalize()

	sql := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31
		)
	`,
		table.Table,
		table.ID, table.Name, table.NameFR, table.Description, table.Biography,
		table.ImageURL, table.ThumbnailURL, table.Gallery, table.Episodes, table.Family,
		table.Relatives, table.Job, table.Workplace, table.Age, table.BirthDate,
		table.Address, table.Personality, table.Hobbies, table.Catchphrases, table.VoiceActor,
		table.FirstAppearance, table.IsMajor, table.IsRecurring, table.Status, table.PopularityScore,
		table.Tags, table.Trivia, table.Quotes, table.SearchText, table.CreatedAt, table.UpdatedAt,
	)

	_, err := repository.db.Exec(context, sql,
		character.ID, character.Name, character.NameFR, character.Description, character.Biography,
		character.ImageURL, character.ThumbnailURL, character.Gallery, character.Episodes, character.Family,
		character.Relatives, character.Job, character.Workplace, character.Age, character.BirthDate,
		character.Address, character.Personality, character.Hobbies, character.Catchphrases, character.VoiceActor,
		character.FirstAppearance, character.IsMajor, character.IsRecurring, character.Status, character.PopularityScore,
		character.Tags, character.Trivia, character.Quotes, searchDocument(character), character.CreatedAt, character.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resource, "insert character")
	}

	return nil
}

func (repository *postgresRepository) Update(context context.Context, character *Character) error {
	character.normalize()

	sql := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9,
			%s = $10, %s = $11, %s = $12, %s = $13, %s = $14, %s = $15, %s = $16,
			%s = $17, %s = $18, %s = $19, %s = $20, %s = $21, %s = $22, %s = $23,
			%s = $24, %s = $25, %s = $26, %s = $27, %s = $28, %s = $29
		WHERE %s = $1
		RETURNING %s
	`,
		table.Table,
		table.Name, table.NameFR, table.Description, table.Biography, table.ImageURL,
		table.ThumbnailURL, table.Gallery, table.Family, table.Relatives, table.Job,
		table.Workplace, table.Age, table.BirthDate, table.Address, table.Personality,
		table.Hobbies, table.Catchphrases, table.VoiceActor, table.FirstAppearance, table.IsMajor,
		table.IsRecurring, table.Status, table.PopularityScore, table.Tags, table.Trivia,
		table.Quotes, table.SearchText,
		table.UpdatedAt,
		table.ID,
		selectColumns,
	)

	updated, err := scanCharacter(repository.db.QueryRow(context, sql,
		character.ID,
		character.Name, character.NameFR, character.Description, character.Biography, character.ImageURL,
		character.ThumbnailURL, character.Gallery, character.Family, character.Relatives, character.Job,
		character.Workplace, character.Age, character.BirthDate, character.Address, character.Personality,
		character.Hobbies, character.Catchphrases, character.VoiceActor, character.FirstAppearance, character.IsMajor,
		character.IsRecurring, character.Status, character.PopularityScore, character.Tags, character.Trivia,
		character.Quotes, searchDocument(character),
		character.UpdatedAt,
	))
	if err != nil {
		return dberr.Wrap(err, resource, "update character")
	}

	*character = *updated
	return nil
}

func (repository *postgresRepository) Delete(context context.Context, id string) (bool, error) {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.db.Exec(context, sql, id)
	if err != nil {
		return false, dberr.Wrap(err, resource, "delete character")
	}
	return tag.RowsAffected() > 0, nil
}

func (repository *postgresRepository) Count(context context.Context, where query.Predicate) (int, error) {
	return columns.Count(context, repository.db, table.Table, where)
}

func (repository *postgresRepository) GroupBy(context context.Context, request aggregate.GroupRequest) ([]aggregate.Group, error) {
	return columns.GroupBy(context, repository.db, table.Table, request)
}

// # Relation Helpers

/*
AddEpisodes appends the unseen ids in a single statement.

Description: The CTE locks the row, keeps the input order of the ids that are
not yet present and returns how many were appended. The episode count follows
from the generated column.
*/
func (repository *postgresRepository) AddEpisodes(context context.Context, id string, episodeIDs []string, now time.Time) (*Character, int, error) {
	sql := fmt.Sprintf(`
		WITH current AS (
			SELECT %s AS episodes FROM %s WHERE %s = $1 FOR UPDATE
		), additions AS (
			SELECT ARRAY(
				SELECT candidate
				FROM unnest($2::text[]) WITH ORDINALITY AS input(candidate, position)
				WHERE NOT candidate = ANY((SELECT episodes FROM current))
				ORDER BY position
			) AS ids
		)
		UPDATE %s SET %s = %s.%s || additions.ids, %s = $3
		FROM additions
		WHERE %s.%s = $1
		RETURNING %s, cardinality(additions.ids)
	`,
		table.Episodes, table.Table, table.ID,
		table.Table, table.Episodes, table.Table, table.Episodes, table.UpdatedAt,
		table.Table, table.ID,
		qualified(),
	)

	var added int32
	character, err := scanCharacter(repository.db.QueryRow(context, sql, id, episodeIDs, now), &added)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource, "add character episodes")
	}
	return character, int(added), nil
}

func (repository *postgresRepository) RemoveEpisode(context context.Context, id, episodeID string, now time.Time) (*Character, error) {
	sql := fmt.Sprintf(`
		UPDATE %s SET %s = array_remove(%s, $2), %s = $3
		WHERE %s = $1
		RETURNING %s
	`, table.Table, table.Episodes, table.Episodes, table.UpdatedAt, table.ID, selectColumns)

	character, err := scanCharacter(repository.db.QueryRow(context, sql, id, episodeID, now))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "remove character episode")
	}
	return character, nil
}

func (repository *postgresRepository) SetPopularity(context context.Context, id string, score float64, now time.Time) (*Character, error) {
	sql := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3
		WHERE %s = $1
		RETURNING %s
	`, table.Table, table.PopularityScore, table.UpdatedAt, table.ID, selectColumns)

	character, err := scanCharacter(repository.db.QueryRow(context, sql, id, score, now))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "set character popularity")
	}
	return character, nil
}

func (repository *postgresRepository) DetachEpisode(context context.Context, episodeID string, now time.Time) (int, error) {
	sql := fmt.Sprintf(`
		UPDATE %s SET %s = array_remove(%s, $1), %s = $2
		WHERE $1 = ANY(%s)
	`, table.Table, table.Episodes, table.Episodes, table.UpdatedAt, table.Episodes)

	tag, err := repository.db.Exec(context, sql, episodeID, now)
	if err != nil {
		return 0, dberr.Wrap(err, resource, "detach episode")
	}
	return int(tag.RowsAffected()), nil
}

func (repository *postgresRepository) Summaries(context context.Context, ids []string) (map[string]catalog.CharacterRef, error) {
	found := make(map[string]catalog.CharacterRef, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	sql := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1)
	`, table.ID, table.Name, table.NameFR, table.ImageURL, table.Job, table.Family, table.Status,
		table.Table, table.ID)

	rows, err := repository.db.Query(context, sql, ids)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "character summaries")
	}
	defer rows.Close()

	for rows.Next() {
		var ref catalog.CharacterRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.NameFR, &ref.ImageURL, &ref.Job, &ref.Family, &ref.Status); err != nil {
			return nil, dberr.Wrap(err, resource, "scan character summary")
		}
		found[ref.ID] = ref
	}
	return found, rows.Err()
}

// qualified prefixes every projected column with the table name, for
// statements whose FROM clause brings other relations into scope.
func qualified() string {
	names := table.Columns()
	for i, name := range names {
		names[i] = table.Table + "." + name
	}
	return strings.Join(names, ", ")
}

func searchDocument(character *Character) string {
	return search.Document(character.Name, character.NameFR, character.Description)
}
