package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole enumerates the two portal roles.
type UserRole string

const (
	// RoleSuperAdmin has cross-school visibility and print authority.
	RoleSuperAdmin UserRole = "super_admin"
	// RoleSchoolAdmin manages the students of exactly one school.
	RoleSchoolAdmin UserRole = "school_admin"
)

// ParseUserRole converts a stored or claimed role into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	switch role := UserRole(strings.ToLower(strings.TrimSpace(value))); role {
	case RoleSuperAdmin, RoleSchoolAdmin:
		return role, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	_, err := ParseUserRole(string(r))
	return err == nil
}

// User is a portal account. School admins own exactly one school.
type User struct {
	ID           string    `gorm:"size:36;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Role         UserRole  `gorm:"size:32;not null;index" json:"role"`
	SchoolID     *string   `gorm:"size:36;index" json:"school_id"`
	IsFirstLogin bool      `gorm:"not null;default:true" json:"is_first_login"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns the identifier and default role.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleSchoolAdmin
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}
