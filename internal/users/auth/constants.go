// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Constraints

const (
	// UsernameMinLength and UsernameMaxLength bound the public handle.
	UsernameMinLength = 3
	UsernameMaxLength = 30

	// PasswordMinLength is the shortest accepted password.
	PasswordMinLength = 6

	// NameMaxLength bounds first and last names.
	NameMaxLength = 50

	// BioMaxLength bounds the profile biography.
	BioMaxLength = 500
)
