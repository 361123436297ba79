// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Roles

// UserRole is the access level carried in a token. An account has exactly
// one: administrators curate the catalog, members only like and comment.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// ranks orders the roles; an unknown role ranks below every known one.
var ranks = map[UserRole]int{
	RoleMember: 1,
	RoleAdmin:  2,
}

// RoleFor maps the stored admin flag onto a role.
func RoleFor(isAdmin bool) UserRole {
	if isAdmin {
		return RoleAdmin
	}
	return RoleMember
}

// AtLeast reports whether r grants everything target grants.
func (r UserRole) AtLeast(target UserRole) bool {
	return ranks[r] >= ranks[target] && ranks[r] > 0
}

// Has reports whether the token holder holds role or a higher one.
func (claims *AuthClaims) Has(role UserRole) bool {
	return claims != nil && UserRole(claims.Role).AtLeast(role)
}
