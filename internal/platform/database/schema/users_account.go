// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import (
	"strconv"
	"strings"
)

// UsersAccountTable represents the 'users.accounts' table
type UsersAccountTable struct {
	Table string

	ID           string
	Email        string
	Username     string
	PasswordHash string

	// Profile, the only columns a user may edit
	FirstName string
	LastName  string
	Bio       string

	IsActive    string
	IsAdmin     string
	IsVerified  string
	LastLoginAt string
	CreatedAt   string
	UpdatedAt   string
}

// UsersAccount is the schema definition for users.accounts
var UsersAccount = UsersAccountTable{
	Table:        "users.accounts",
	ID:           "id",
	Email:        "email",
	Username:     "username",
	PasswordHash: "passwordhash",
	FirstName:    "firstname",
	LastName:     "lastname",
	Bio:          "bio",
	IsActive:     "isactive",
	IsAdmin:      "isadmin",
	IsVerified:   "isverified",
	LastLoginAt:  "lastloginat",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Insertable lists the columns written on registration. LastLoginAt stays
// NULL until the first login.
func (t UsersAccountTable) Insertable() []string {
	return []string{
		t.ID, t.Email, t.Username, t.PasswordHash, t.FirstName, t.LastName, t.Bio,
		t.IsActive, t.IsAdmin, t.IsVerified, t.CreatedAt, t.UpdatedAt,
	}
}

// Columns lists every column in scan order.
func (t UsersAccountTable) Columns() []string {
	return append(t.Insertable(), t.LastLoginAt)
}

// Placeholders returns "$1, $2, ..., $n".
func Placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		marks[i] = "$" + strconv.Itoa(i+1)
	}
	return strings.Join(marks, ", ")
}
