// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/springfield/pkg/query"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	// FindByEmail matches the email case-insensitively.
	FindByEmail(context context.Context, email string) (*User, error)

	// FindByUsername matches the username case-insensitively.
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Returns:
		  - error: apperr.DuplicateKey when the email or the username is taken
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists the profile fields (names and bio).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Update(context context.Context, user *User) error

	// TouchLastLogin records a successful authentication.
	TouchLastLogin(context context.Context, id string, now time.Time) error

	// List returns one page of accounts, for the admin statistics.
	List(context context.Context, spec query.Spec) ([]*User, int, error)

	// Count returns the number of accounts matching the predicate.
	Count(context context.Context, where query.Predicate) (int, error)
}
