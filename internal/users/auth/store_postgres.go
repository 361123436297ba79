// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/database/schema"
	"github.com/taibuivan/springfield/internal/platform/dberr"
	"github.com/taibuivan/springfield/internal/platform/postgres"
	"github.com/taibuivan/springfield/pkg/query"
)

const resource = "User"

var (
	table = schema.UsersAccount

	columns = postgres.Columns{
		FieldID:        {Expr: table.ID, Kind: postgres.KindText},
		FieldEmail:     {Expr: "lower(" + table.Email + ")", Kind: postgres.KindText},
		FieldUsername:  {Expr: "lower(" + table.Username + ")", Kind: postgres.KindText},
		FieldIsActive:  {Expr: table.IsActive, Kind: postgres.KindBool},
		FieldIsAdmin:   {Expr: table.IsAdmin, Kind: postgres.KindBool},
		FieldLastLogin: {Expr: table.LastLoginAt, Kind: postgres.KindTime},
		FieldCreatedAt: {Expr: table.CreatedAt, Kind: postgres.KindTime},
	}

	selectColumns = strings.Join(table.Columns(), ", ")
)

// # User Repository

// postgresUserRepository implements [UserRepository] over users.accounts.
type postgresUserRepository struct {
	db postgres.Querier
}

// NewPostgresUserRepository constructs a PostgreSQL backed user store.
func NewPostgresUserRepository(db postgres.Querier) UserRepository {
	return &postgresUserRepository{db: db}
}

type row interface {
	Scan(dest ...any) error
}

func scanUser(source row, extra ...any) (*User, error) {
	user := &User{}
	targets := []any{
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.IsActive,
		&user.IsAdmin,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLogin,
	}
	if err := source.Scan(append(targets, extra...)...); err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *postgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, table.ID, id)
}

/*
FindByEmail retrieves a user by email address.

Description: The match is case-insensitive and served by the unique index on
lower(email).

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *postgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, "lower("+table.Email+")", strings.ToLower(email))
}

func (repository *postgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, "lower("+table.Username+")", strings.ToLower(username))
}

func (repository *postgresUserRepository) findBy(context context.Context, column, value string) (*User, error) {
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, table.Table, column)

	user, err := scanUser(repository.db.QueryRow(context, sql, value))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "find user")
	}
	return user, nil
}

// Create inserts a new account; unique violations surface as DuplicateKey.
func (repository *postgresUserRepository) Create(context context.Context, user *User) error {
	insertable := table.Insertable()
	sql := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		table.Table, strings.Join(insertable, ", "), schema.Placeholders(len(insertable)))

	_, err := repository.db.Exec(context, sql,
		user.ID, user.Email, user.Username, user.PasswordHash, user.FirstName, user.LastName,
		user.Bio, user.IsActive, user.IsAdmin, user.IsVerified, user.CreatedAt, user.UpdatedAt,
	)
	if err == nil {
		return nil
	}

	switch {
	case dberr.IsUniqueViolation(err, "uq_accounts_email"):
		return apperr.DuplicateKey("Email is already registered")
	case dberr.IsUniqueViolation(err, "uq_accounts_username"):
		return apperr.DuplicateKey("Username is already taken")
	}
	return dberr.Wrap(err, resource, "insert user")
}

func (repository *postgresUserRepository) Update(context context.Context, user *User) error {
	sql := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
		RETURNING %s
	`,
		table.Table,
		table.FirstName, table.LastName, table.Bio, table.UpdatedAt,
		table.ID,
		selectColumns,
	)

	updated, err := scanUser(repository.db.QueryRow(context, sql,
		user.ID, user.FirstName, user.LastName, user.Bio, user.UpdatedAt,
	))
	if err != nil {
		return dberr.Wrap(err, resource, "update user")
	}
	*user = *updated
	return nil
}

func (repository *postgresUserRepository) TouchLastLogin(context context.Context, id string, now time.Time) error {
	sql := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, table.Table, table.LastLoginAt, table.ID)

	tag, err := repository.db.Exec(context, sql, id, now)
	if err != nil {
		return dberr.Wrap(err, resource, "touch last login")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

func (repository *postgresUserRepository) List(context context.Context, spec query.Spec) ([]*User, int, error) {
	args := &postgres.Args{}
	compiled, err := columns.Compile(query.Spec{Where: spec.Where, Sort: spec.Sort, Page: spec.Page, Limit: spec.Limit}, postgres.TextIndex{}, args)
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
		return nil, 0, dberr.Wrap(err, resource, "list users")
	}
	defer rows.Close()

	var users []*User
	var total int64
	for rows.Next() {
		user, err := scanUser(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resource, "scan user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource, "list users")
	}

	if len(users) == 0 && spec.Skip() > 0 {
		count, err := repository.Count(context, spec.Where)
		return users, count, err
	}
	return users, int(total), nil
}

func (repository *postgresUserRepository) Count(context context.Context, where query.Predicate) (int, error) {
	return columns.Count(context, repository.db, table.Table, where)
}
