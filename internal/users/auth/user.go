// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity layer.

It owns the User entity, both user stores and the register / login / me use
cases. Access tokens are RS256 JWTs issued by [sec.TokenService]; there is no
server-side session.
*/
package auth

import (
	"strings"
	"time"

	"github.com/taibuivan/springfield/internal/platform/sec"
)

// # Domain Entities

// User is a registered member of the site.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	IsActive     bool       `json:"is_active"`
	IsAdmin      bool       `json:"is_admin"`
	IsVerified   bool       `json:"is_verified"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Role maps the admin flag onto the authorization hierarchy.
func (user *User) Role() sec.UserRole {
	return sec.RoleFor(user.IsAdmin)
}

// DisplayName is the full name when known, the username otherwise.
func (user *User) DisplayName() string {
	if full := strings.TrimSpace(user.FirstName + " " + user.LastName); full != "" {
		return full
	}
	return user.Username
}

func (user User) clone() User {
	if user.LastLogin != nil {
		lastLogin := *user.LastLogin
		user.LastLogin = &lastLogin
	}
	return user
}

// # Field Identifiers

const (
	FieldID          = "id"
	FieldEmail       = "email"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldBio         = "bio"
	FieldIsActive    = "is_active"
	FieldIsAdmin     = "is_admin"
	FieldLogin       = "login"
	FieldLastLogin   = "last_login"
	FieldCreatedAt   = "created_at"
	FieldAccessToken = "access_token"
)
