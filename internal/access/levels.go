// Package access maps viewer roles onto document access levels and
// announcement audiences.
package access

import (
	"riverbend/portal/internal/constants"
)

// levelsByRank lists access levels in privilege order; a role of rank n
// sees the first n+1 entries.
var levelsByRank = []constants.AccessLevel{
	constants.AccessPublic,
	constants.AccessVolunteer,
	constants.AccessBoard,
	constants.AccessAdmin,
}

// AllowedLevels returns the ordered set of document levels a role may see.
// RolePublic (no session) sees only public documents.
func AllowedLevels(role constants.Role) []constants.AccessLevel {
	n := role.Rank() + 1
	out := make([]constants.AccessLevel, n)
	copy(out, levelsByRank[:n])
	return out
}

// CanView reports whether role may see a document labelled level.
func CanView(role constants.Role, level constants.AccessLevel) bool {
	for _, l := range AllowedLevels(role) {
		if l == level {
			return true
		}
	}
	return false
}

// CanAssign reports whether role may upload a document at level. Uploaders
// cannot label a document above their own visibility.
func CanAssign(role constants.Role, level constants.AccessLevel) bool {
	return role.AtLeast(constants.RoleBoardMember) && CanView(role, level)
}
