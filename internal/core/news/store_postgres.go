// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/springfield/internal/platform/dberr"
	"github.com/taibuivan/springfield/internal/platform/postgres"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/search"
)

const resource = "News"

// # PostgreSQL Repository

type postgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository constructs a PostgreSQL backed article store.
func NewPostgresRepository(db postgres.Querier) Repository {
	return &postgresRepository{db: db}
}

var selectColumns = strings.Join(table.Columns(), ", ")

type row interface {
	Scan(dest ...any) error
}

func scanNews(source row, extra ...any) (*News, error) {
	news := &News{}
	targets := []any{
		&news.ID,
		&news.Title,
		&news.Slug,
		&news.Excerpt,
		&news.Content,
		&news.Author,
		&news.AuthorName,
		&news.Category,
		&news.Tags,
		&news.ImageURL,
		&news.ThumbnailURL,
		&news.Gallery,
		&news.Source,
		&news.RelatedEpisodes,
		&news.RelatedCharacters,
		&news.Status,
		&news.IsFeatured,
		&news.IsPinned,
		&news.Views,
		&news.Likes,
		&news.PublishedAt,
		&news.ScheduledFor,
		&news.CreatedAt,
		&news.UpdatedAt,
	}

	if err := source.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}
	news.normalize()
	return news, nil
}

func (repository *postgresRepository) List(context context.Context, spec query.Spec) ([]*News, int, error) {
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
		return nil, 0, dberr.Wrap(err, resource, "list news")
	}
	defer rows.Close()

	var articles []*News
	var total int64
	for rows.Next() {
		news, err := scanNews(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resource, "scan news")
		}
		articles = append(articles, news)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource, "list news")
	}

	// Past the last page no row carries the window count
	if len(articles) == 0 && spec.Skip() > 0 {
		args := &postgres.Args{}
		compiled, err := columns.Compile(query.Spec{Where: spec.Where, Search: spec.Search}, textIndex, args)
		if err != nil {
			return nil, 0, err
		}

		sql := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table.Table, compiled.Where)
		if err := repository.db.QueryRow(context, sql, args.Values()...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, resource, "count news")
		}
	}
	return articles, int(total), nil
}

func (repository *postgresRepository) FindByID(context context.Context, id string) (*News, error) {
	return repository.findBy(context, table.ID, id)
}

func (repository *postgresRepository) FindBySlug(context context.Context, slug string) (*News, error) {
	return repository.findBy(context, table.Slug, slug)
}

func (repository *postgresRepository) findBy(context context.Context, column, value string) (*News, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, table.Table, column)

	news, err := scanNews(repository.db.QueryRow(context, sql, value))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "find news")
	}
	return news, nil
}

func (repository *postgresRepository) Create(context context.Context, news *News) error {
	news.normalize()

	sql := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
			%s, %s, %s, %s, %s
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25
		)
	`,
		table.Table,
		table.ID, table.Title, table.Slug, table.Excerpt, table.Content,
		table.Author, table.AuthorName, table.Category, table.Tags, table.ImageURL,
		table.ThumbnailURL, table.Gallery, table.Source, table.RelatedEpisodes, table.RelatedCharacters,
		table.Status, table.IsFeatured, table.IsPinned, table.Views, table.Likes,
		table.PublishedAt, table.ScheduledFor, table.SearchText, table.CreatedAt, table.UpdatedAt,
	)

	_, err := repository.db.Exec(context, sql,
		news.ID, news.Title, news.Slug, news.Excerpt, news.Content,
		news.Author, news.AuthorName, news.Category, news.Tags, news.ImageURL,
		news.ThumbnailURL, news.Gallery, news.Source, news.RelatedEpisodes, news.RelatedCharacters,
		news.Status, news.IsFeatured, news.IsPinned, news.Views, news.Likes,
		news.PublishedAt, news.ScheduledFor, searchDocument(news), news.CreatedAt, news.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, resource, "insert news")
	}
	return nil
}

func (repository *postgresRepository) Update(context context.Context, news *News) error {
	news.normalize()

	sql := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = $9, %s = $10, %s = $11, %s = $12, %s = $13, %s = $14, %s = $15,
			%s = $16, %s = $17, %s = $18, %s = $19, %s = $20
		WHERE %s = $1
		RETURNING %s
	`,
		table.Table,
		table.Title, table.Slug, table.Excerpt, table.Content, table.Category,
		table.Tags, table.ImageURL, table.ThumbnailURL, table.Gallery, table.Source,
		table.RelatedEpisodes, table.RelatedCharacters, table.Status, table.IsFeatured, table.IsPinned,
		table.PublishedAt, table.ScheduledFor, table.SearchText, table.UpdatedAt,
		table.ID,
		selectColumns,
	)

	updated, err := scanNews(repository.db.QueryRow(context, sql,
		news.ID,
		news.Title, news.Slug, news.Excerpt, news.Content, news.Category,
		news.Tags, news.ImageURL, news.ThumbnailURL, news.Gallery, news.Source,
		news.RelatedEpisodes, news.RelatedCharacters, news.Status, news.IsFeatured, news.IsPinned,
		news.PublishedAt, news.ScheduledFor, searchDocument(news), news.UpdatedAt,
	))
	if err != nil {
		return dberr.Wrap(err, resource, "update news")
	}

	*news = *updated
	return nil
}

func (repository *postgresRepository) Delete(context context.Context, id string) (bool, error) {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.db.Exec(context, sql, id)
	if err != nil {
		return false, dberr.Wrap(err, resource, "delete news")
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
		return dberr.Wrap(err, resource, "increment news views")
	}
	return nil
}

func (repository *postgresRepository) IncrementLikes(context context.Context, id string) (int64, error) {
	sql := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1 RETURNING %s`,
		table.Table, table.Likes, table.Likes, table.ID, table.Likes)

	var likes int64
	if err := repository.db.QueryRow(context, sql, id).Scan(&likes); err != nil {
		return 0, dberr.Wrap(err, resource, "like news")
	}
	return likes, nil
}

func searchDocument(news *News) string {
	return search.Document(news.Title, news.Excerpt, news.Content)
}
