package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleMember grants standard user access.
	RoleMember Role = "member"
)

// UserStatus represents the user's account status.
type UserStatus string

const (
	// UserStatusActive indicates the user can log in and use the system.
	UserStatusActive UserStatus = "active"
	// UserStatusDisabled indicates the user has been locked out.
	UserStatusDisabled UserStatus = "disabled"
)

// User represents an authenticated user account in the system.
type User struct {
	Entity
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	IsRoot       bool       `json:"is_root"`
	Role         Role       `json:"role"`             // admin or member
	Status       UserStatus `json:"status,omitempty"` // active or disabled (empty = active for backward compat)
	DisplayName  string     `json:"display_name"`
	LastLoginAt  time.Time  `json:"last_login_at"`
}

// IsAdmin returns true if the user has administrative privileges.
// Root users are automatically admins, regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.IsRoot || u.Role == RoleAdmin
}

// IsActive returns true if the user can log in and use the system.
// Empty status is treated as active for backward compatibility with existing users.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

// Name returns the best available name to display for the user.
// Prefers DisplayName, falls back to email.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
