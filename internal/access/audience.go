package access

import (
	"time"

	"riverbend/portal/internal/constants"
)

// Audiences returns the announcement audiences a role belongs to.
func Audiences(role constants.Role) []constants.Audience {
	switch role {
	case constants.RoleAdmin:
		return []constants.Audience{constants.AudienceAll, constants.AudienceVolunteers, constants.AudienceBoard}
	case constants.RoleBoardMember:
		return []constants.Audience{constants.AudienceAll, constants.AudienceBoard}
	case constants.RoleVolunteer:
		return []constants.Audience{constants.AudienceAll, constants.AudienceVolunteers}
	default:
		return []constants.Audience{constants.AudienceAll}
	}
}

// IsPublished reports whether publishedAt marks a live announcement at now.
func IsPublished(publishedAt *time.Time, now time.Time) bool {
	return publishedAt != nil && !publishedAt.After(now)
}

// AnnouncementVisible is the non-authoring visibility rule: published and
// addressed to one of the viewer's audiences.
func AnnouncementVisible(role constants.Role, audience constants.Audience, publishedAt *time.Time, now time.Time) bool {
	if !IsPublished(publishedAt, now) {
		return false
	}
	for _, a := range Audiences(role) {
		if a == audience {
			return true
		}
	}
	return false
}
