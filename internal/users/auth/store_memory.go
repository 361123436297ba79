// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/memstore"
	"github.com/taibuivan/springfield/pkg/query"
)

var memorySchema = memstore.Schema[User]{
	Resource: "User",
	ID:       func(u User) string { return u.ID },
	Fields: map[string]memstore.Accessor[User]{
		FieldID:        func(u User) any { return u.ID },
		FieldEmail:     func(u User) any { return strings.ToLower(u.Email) },
		FieldUsername:  func(u User) any { return strings.ToLower(u.Username) },
		FieldIsActive:  func(u User) any { return u.IsActive },
		FieldIsAdmin:   func(u User) any { return u.IsAdmin },
		FieldLastLogin: func(u User) any { return u.LastLogin },
		FieldCreatedAt: func(u User) any { return u.CreatedAt },
	},
	Text: func(u User) []string { return []string{u.Username, u.FirstName, u.LastName} },
	Unique: []memstore.UniqueKey[User]{
		{
			Name:    "email",
			Key:     func(u User) string { return strings.ToLower(u.Email) },
			Message: func(User) string { return "Email is already registered" },
		},
		{
			Name:    "username",
			Key:     func(u User) string { return strings.ToLower(u.Username) },
			Message: func(User) string { return "Username is already taken" },
		},
	},
	Clone: User.clone,
}

type memoryUserRepository struct {
	users *memstore.Collection[User]
}

// NewMemoryUserRepository constructs an empty in-process user store.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: memstore.New(memorySchema)}
}

func (repository *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	user, err := repository.users.Get(id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (repository *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	return repository.findBy(FieldEmail, email)
}

func (repository *memoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	return repository.findBy(FieldUsername, username)
}

func (repository *memoryUserRepository) findBy(field, value string) (*User, error) {
	items, _, err := repository.users.Find(query.Spec{
		Where: query.Predicate{query.Eq(field, strings.ToLower(value))},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.NotFound("User")
	}
	return &items[0], nil
}

func (repository *memoryUserRepository) Create(_ context.Context, user *User) error {
	return repository.users.Insert(*user)
}

func (repository *memoryUserRepository) Update(_ context.Context, user *User) error {
	updated, err := repository.users.Mutate(user.ID, func(stored *User) error {
		stored.FirstName = user.FirstName
		stored.LastName = user.LastName
		stored.Bio = user.Bio
		stored.UpdatedAt = user.UpdatedAt
		return nil
	})
	if err != nil {
		return err
	}
	*user = updated
	return nil
}

func (repository *memoryUserRepository) TouchLastLogin(_ context.Context, id string, now time.Time) error {
	_, err := repository.users.Mutate(id, func(stored *User) error {
		stored.LastLogin = &now
		return nil
	})
	return err
}

func (repository *memoryUserRepository) List(_ context.Context, spec query.Spec) ([]*User, int, error) {
	items, total, err := repository.users.Find(spec)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*User, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, total, nil
}

func (repository *memoryUserRepository) Count(_ context.Context, where query.Predicate) (int, error) {
	return repository.users.Count(where)
}
