package model

import "time"

// Role is the closed set of access levels a user can hold. There is no
// hierarchy: system_manager does not satisfy an admin check or vice versa.
type Role string

const (
	RoleUser          Role = "user"
	RoleAdmin         Role = "admin"
	RoleSystemManager Role = "system_manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSystemManager:
		return true
	}
	return false
}

// User represents a registered account.
type User struct {
	UserID    uint      `json:"user_id" gorm:"column:user_id;primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never exposed in JSON
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Role      Role      `json:"role" gorm:"size:50;default:'user'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the original schema's table name.
func (User) TableName() string { return "User" }
