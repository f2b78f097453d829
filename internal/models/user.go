package models

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type User struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"type:varchar(255);not null" json:"-"`
	Role            Role      `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	IsActive        bool      `gorm:"not null" json:"is_active"`
	ProfileImageURL *string   `gorm:"type:varchar(1024)" json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	CreatedTasks []Task           `gorm:"foreignKey:CreatorID" json:"-"`
	Assignments  []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
