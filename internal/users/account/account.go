// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles self-service profile management.

# Architecture

  - Domain: This package depends on the auth package for the User entity.
  - Storage: Any [auth.UserRepository] satisfies [AccountRepository].
*/
package account

import (
	"context"

	"github.com/taibuivan/springfield/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	// Update modifies the mutable profile fields of an existing user.
	Update(context context.Context, user *auth.User) error
}

// # Payloads

// ProfilePatch is the partial update accepted by PATCH /account/me. Absent
// fields keep their stored value.
type ProfilePatch struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// Apply copies the present fields onto user.
func (patch ProfilePatch) Apply(user *auth.User) {
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
}
