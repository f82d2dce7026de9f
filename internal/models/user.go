package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleAdmin            = "admin"
	RoleVerifier         = "verifier"
	RoleProjectDeveloper = "project_developer"
	RoleUser             = "user"
)

// ValidRole reports whether role belongs to the enumerated role set.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleVerifier, RoleProjectDeveloper, RoleUser:
		return true
	}
	return false
}

// User represents a registry user account.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string         `gorm:"size:255" json:"-"` // Hashed password, empty for LDAP users
	Email     string         `gorm:"uniqueIndex;size:255" json:"email"`
	FullName  string         `gorm:"size:200" json:"full_name"`
	Role      string         `gorm:"size:50;default:user" json:"role"`       // admin, verifier, project_developer, user
	AuthType  string         `gorm:"size:20;default:local" json:"auth_type"` // local, ldap
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
