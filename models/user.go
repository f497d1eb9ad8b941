package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RolePartner = "partner"
	RoleAdmin   = "admin"
)

// User represents a login account in the system (partner staff or admin).
// Username matches the 'sub' claim of the bearer token issued by the auth layer.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	Name      string         `gorm:"not null" json:"name"`
	Role      string         `gorm:"not null;default:'partner'" json:"role"` // "partner" or "admin"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
