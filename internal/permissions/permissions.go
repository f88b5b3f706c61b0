// Package permissions implements the authorization predicates used across
// the API. The predicates are stateless: each one is a pure function of the
// acting user and, for object-level checks, the owner of the target object.
package permissions

import "github.com/VanZep/FeedbackBook/internal/models"

// IsPrivileged reports whether the user holds admin-equivalence: the admin
// role, the staff flag or the superuser flag.
func IsPrivileged(u *models.User) bool {
	if u == nil {
		return false
	}
	return u.Role == models.RoleAdmin || u.IsStaff || u.IsSuperuser
}

// IsModerator reports whether the user holds the moderator role.
func IsModerator(u *models.User) bool {
	return u != nil && u.Role == models.RoleModerator
}

// CanModify reports whether actor may mutate or delete an object owned by
// authorID. Authors, moderators and admin-equivalent users qualify.
func CanModify(actor *models.User, authorID string) bool {
	if actor == nil {
		return false
	}
	return actor.ID == authorID || IsModerator(actor) || IsPrivileged(actor)
}
