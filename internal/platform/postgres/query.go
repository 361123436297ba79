// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/pkg/aggregate"
	"github.com/taibuivan/springfield/pkg/query"
	"github.com/taibuivan/springfield/pkg/search"
)

// Querier is the subset of [pgxpool.Pool] the repositories use.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// # Column Catalog

// Kind is the SQL shape of a column, which decides how conditions compile.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindBool
	KindTime
	KindList
)

// Column maps a logical field onto an SQL expression.
type Column struct {
	Expr string
	Kind Kind
}

// Columns is the per-table field catalog.
type Columns map[string]Column

// TextIndex names the columns backing the full-text search of a table.
type TextIndex struct {
	// Vector is the generated tsvector column.
	Vector string

	// Document is the space-separated token column it is generated from.
	Document string
}

// # Argument Builder

// Args accumulates positional parameters.
type Args struct {
	values []any
}

// Add appends a value and returns its placeholder.
func (args *Args) Add(value any) string {
	args.values = append(args.values, value)
	return fmt.Sprintf("$%d", len(args.values))
}

// Values returns the accumulated parameters.
func (args *Args) Values() []any {
	return args.values
}

// # Compilation

// Compiled holds the SQL fragments of a [query.Spec].
type Compiled struct {
	// Where is a full "WHERE ..." clause, or "".
	Where string

	// OrderBy is a full "ORDER BY ..." clause, or "".
	OrderBy string

	// Window is the "LIMIT ... OFFSET ..." clause, or "".
	Window string
}

/*
Compile translates a spec into parameterized SQL fragments.

Description: Conditions are joined with AND. When the query carries a search,
rows must match the text index; with ByRelevance they are ranked by the share
of document tokens matching a query term, then by the number of distinct
terms matched, then by the sort keys. Ascending keys put nulls first and
descending keys put them last, mirroring the memory backend.

Parameters:
  - spec: query.Spec
  - text: TextIndex (zero value when the table has none)
  - args: *Args (receives the parameters)

Returns:
  - Compiled: the fragments
  - error: Internal when a field is not in the catalog
*/
func (columns Columns) Compile(spec query.Spec, text TextIndex, args *Args) (Compiled, error) {
	var compiled Compiled

	clauses, err := columns.conditions(spec.Where, args)
	if err != nil {
		return compiled, err
	}

	var order []string
	if terms := search.Terms(spec.Search); len(terms) > 0 && text.Vector != "" {
		tsquery := args.Add(strings.Join(terms, " | "))
		clauses = append(clauses, fmt.Sprintf("%s @@ to_tsquery('simple', %s)", text.Vector, tsquery))

		if spec.ByRelevance {
			termArray := args.Add(terms)
			tokens := fmt.Sprintf("string_to_array(%s, ' ')", text.Document)
			order = append(order,
				fmt.Sprintf("(SELECT count(*) FROM unnest(%s) AS token WHERE token = ANY(%s))::float8 / GREATEST(cardinality(%s), 1) DESC", tokens, termArray, tokens),
				fmt.Sprintf("(SELECT count(DISTINCT token) FROM unnest(%s) AS token WHERE token = ANY(%s)) DESC", tokens, termArray),
			)
		}
	}

	if len(clauses) > 0 {
		compiled.Where = "WHERE " + strings.Join(clauses, " AND ")
	}

	for _, key := range spec.Sort {
		column, err := columns.column(key.Field)
		if err != nil {
			return compiled, err
		}
		order = append(order, orderTerm(column, key.Desc))
	}

	if len(order) > 0 {
		compiled.OrderBy = "ORDER BY " + strings.Join(order, ", ")
	}

	if spec.Limit > 0 {
		compiled.Window = fmt.Sprintf("LIMIT %s OFFSET %s", args.Add(spec.Limit), args.Add(spec.Skip()))
	}

	return compiled, nil
}

// Where compiles a bare predicate into a "WHERE ..." clause, or "".
func (columns Columns) Where(where query.Predicate, args *Args) (string, error) {
	clauses, err := columns.conditions(where, args)
	if err != nil || len(clauses) == 0 {
		return "", err
	}
	return "WHERE " + strings.Join(clauses, " AND "), nil
}

func (columns Columns) conditions(where query.Predicate, args *Args) ([]string, error) {
	clauses := make([]string, 0, len(where))
	for _, condition := range where {
		clause, err := columns.condition(condition, args)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

func (columns Columns) condition(condition query.Condition, args *Args) (string, error) {
	column, err := columns.column(condition.Field)
	if err != nil {
		return "", err
	}

	switch condition.Op {
	case query.OpEq:
		return fmt.Sprintf("%s = %s", column.Expr, args.Add(condition.Value)), nil

	case query.OpContainsFold:
		needle, _ := condition.Value.(string)
		return fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, column.Expr, args.Add("%"+escapeLike(needle)+"%")), nil

	case query.OpIn:
		values, _ := condition.Value.([]any)
		return fmt.Sprintf("%s = ANY(%s)", column.Expr, args.Add(typedList(values))), nil

	case query.OpGte:
		return fmt.Sprintf("%s >= %s", column.Expr, args.Add(condition.Value)), nil

	case query.OpLte:
		return fmt.Sprintf("%s <= %s", column.Expr, args.Add(condition.Value)), nil

	case query.OpHas:
		return fmt.Sprintf("%s = ANY(%s)", args.Add(condition.Value), column.Expr), nil

	case query.OpNonEmpty:
		return nonEmpty(column), nil

	case query.OpEmpty:
		return "NOT (" + nonEmpty(column) + ")", nil
	}

	return "", apperr.Internal(fmt.Errorf("postgres: unsupported operator %q", condition.Op))
}

func (columns Columns) column(field string) (Column, error) {
	column, ok := columns[field]
	if !ok {
		return Column{}, apperr.Internal(fmt.Errorf("postgres: unknown field %q", field))
	}
	return column, nil
}

func nonEmpty(column Column) string {
	switch column.Kind {
	case KindList:
		return fmt.Sprintf("COALESCE(cardinality(%s), 0) > 0", column.Expr)
	case KindText:
		return fmt.Sprintf("COALESCE(%s, '') <> ''", column.Expr)
	default:
		return fmt.Sprintf("%s IS NOT NULL", column.Expr)
	}
}

func orderTerm(column Column, desc bool) string {
	expr := column.Expr
	if column.Kind == KindText {
		expr += ` COLLATE "C"`
	}
	if desc {
		return expr + " DESC NULLS LAST"
	}
	return expr + " ASC NULLS FIRST"
}

// typedList narrows []any so pgx can encode it as a Postgres array.
func typedList(values []any) any {
	texts := make([]string, 0, len(values))
	for _, value := range values {
		text, ok := value.(string)
		if !ok {
			return values
		}
		texts = append(texts, text)
	}
	return texts
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

// # Aggregation

/*
GroupBy runs a grouping query over a table.

Description: Null and empty keys are excluded. The member projection is
sorted and sliced to MemberLimit inside the aggregate; boolean Sum/Avg
fields count as 0/1.
*/
func (columns Columns) GroupBy(context context.Context, db Querier, table string, request aggregate.GroupRequest) ([]aggregate.Group, error) {
	args := &Args{}

	key, err := columns.column(request.Field)
	if err != nil {
		return nil, err
	}

	clauses, err := columns.conditions(request.Where, args)
	if err != nil {
		return nil, err
	}
	clauses = append(clauses, nonEmpty(key))

	members := "NULL::text[]"
	if request.Members != "" {
		member, err := columns.column(request.Members)
		if err != nil {
			return nil, err
		}
		members = fmt.Sprintf(`array_agg(%s ORDER BY %s COLLATE "C") FILTER (WHERE %s IS NOT NULL)`, member.Expr, member.Expr, member.Expr)
		if request.MemberLimit > 0 {
			members = fmt.Sprintf("(%s)[1:%d]", members, request.MemberLimit)
		}
	}

	numeric := func(field, function string) (string, error) {
		if field == "" {
			return "NULL::float8", nil
		}
		column, err := columns.column(field)
		if err != nil {
			return "", err
		}
		expr := column.Expr
		if column.Kind == KindBool {
			expr += "::int"
		}
		return fmt.Sprintf("%s(%s)::float8", function, expr), nil
	}

	sum, err := numeric(request.Sum, "SUM")
	if err != nil {
		return nil, err
	}
	avg, err := numeric(request.Avg, "AVG")
	if err != nil {
		return nil, err
	}

	order := `2 DESC, 1 ASC`
	if request.Order == aggregate.OrderKeyAsc {
		order = `1 ASC`
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(`
		SELECT %s AS groupkey, COUNT(*), %s, %s, %s
		FROM %s
		WHERE %s
		GROUP BY 1
		ORDER BY %s
	`, groupKey(key), members, sum, avg, table, strings.Join(clauses, " AND "), order))

	if request.Limit > 0 {
		builder.WriteString(" LIMIT " + args.Add(request.Limit))
	}

	rows, err := db.Query(context, builder.String(), args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("postgres: group by %s: %w", request.Field, err)
	}
	defer rows.Close()

	var groups []aggregate.Group
	for rows.Next() {
		var group aggregate.Group
		var count int64
		if err := rows.Scan(&group.Key, &count, &group.Members, &group.Sum, &group.Avg); err != nil {
			return nil, fmt.Errorf("postgres: scan group: %w", err)
		}
		group.Count = int(count)
		group.Key = widen(group.Key)
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

func groupKey(column Column) string {
	if column.Kind == KindText {
		return column.Expr + ` COLLATE "C"`
	}
	return column.Expr
}

// widen maps driver integer types onto int, the type memory accessors use.
func widen(value any) any {
	switch typed := value.(type) {
	case int16:
		return int(typed)
	case int32:
		return int(typed)
	case int64:
		return int(typed)
	}
	return value
}

// # Counting

// Count returns the number of rows matching the predicate.
func (columns Columns) Count(context context.Context, db Querier, table string, where query.Predicate) (int, error) {
	args := &Args{}

	clause, err := columns.Where(where, args)
	if err != nil {
		return 0, err
	}

	var total int64
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", table, clause)
	if err := db.QueryRow(context, sql, args.Values()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: count %s: %w", table, err)
	}
	return int(total), nil
}
