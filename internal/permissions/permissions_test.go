package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VanZep/FeedbackBook/internal/models"
)

func TestIsPrivileged(t *testing.T) {
	assert.False(t, IsPrivileged(nil))
	assert.False(t, IsPrivileged(&models.User{Role: models.RoleUser}))
	assert.False(t, IsPrivileged(&models.User{Role: models.RoleModerator}))
	assert.True(t, IsPrivileged(&models.User{Role: models.RoleAdmin}))
	assert.True(t, IsPrivileged(&models.User{Role: models.RoleUser, IsStaff: true}))
	assert.True(t, IsPrivileged(&models.User{Role: models.RoleUser, IsSuperuser: true}))
}

func TestCanModify(t *testing.T) {
	author := &models.User{ID: "u1", Role: models.RoleUser}
	other := &models.User{ID: "u2", Role: models.RoleUser}
	moderator := &models.User{ID: "u3", Role: models.RoleModerator}
	admin := &models.User{ID: "u4", Role: models.RoleAdmin}
	staff := &models.User{ID: "u5", Role: models.RoleUser, IsStaff: true}

	assert.True(t, CanModify(author, "u1"))
	assert.False(t, CanModify(other, "u1"))
	assert.True(t, CanModify(moderator, "u1"))
	assert.True(t, CanModify(admin, "u1"))
	assert.True(t, CanModify(staff, "u1"))
	assert.False(t, CanModify(nil, "u1"))
}
