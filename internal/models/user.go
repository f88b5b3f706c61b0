package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Staff and superuser flags grant admin-level access regardless
// of role, so permission checks must go through permissions.IsPrivileged.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID               string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username         string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email            string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName        *string   `gorm:"size:150" json:"first_name,omitempty"`
	LastName         *string   `gorm:"size:150" json:"last_name,omitempty"`
	Bio              *string   `gorm:"type:text" json:"bio,omitempty"`
	Role             string    `gorm:"size:150;default:'user';not null" json:"role"`
	IsStaff          bool      `gorm:"default:false;not null" json:"-"`
	IsSuperuser      bool      `gorm:"default:false;not null" json:"-"`
	ConfirmationCode string    `gorm:"column:confirmation_code;size:150" json:"-"` // bcrypt hash, never serialized
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// ValidRole reports whether role is one of the supported role values.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
