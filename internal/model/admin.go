package model

import "time"

// AdminRole is the wire-level role enumeration for console identities.
type AdminRole string

const (
	RoleAdmin     AdminRole = "admin"
	RoleModerator AdminRole = "moderator"
)

// Valid reports whether r is one of the two known roles.
func (r AdminRole) Valid() bool {
	return r == RoleAdmin || r == RoleModerator
}

// Admin represents a console identity (administrator or moderator).
type Admin struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	FullName     string    `json:"full_name"`
	Phone        *string   `json:"phone,omitempty"`
	Role         AdminRole `json:"role"`
	Active       bool      `json:"active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminPatch carries the fields of a partial admin update. Nil means unchanged.
type AdminPatch struct {
	Login    *string    `json:"login" binding:"omitempty,min=3,max=64"`
	FullName *string    `json:"full_name" binding:"omitempty,min=2,max=120"`
	Phone    *string    `json:"phone" binding:"omitempty,max=32"`
	Role     *AdminRole `json:"role" binding:"omitempty,admin_role"`
	Active   *bool      `json:"active"`
	Password *string    `json:"password" binding:"omitempty,min=6,max=128"`
}

// Empty reports whether the patch changes nothing.
func (p AdminPatch) Empty() bool {
	return p.Login == nil && p.FullName == nil && p.Phone == nil &&
		p.Role == nil && p.Active == nil && p.Password == nil
}

// LoginRequest is the payload for console authentication.
type LoginRequest struct {
	Login    string `json:"login" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	Admin     Admin     `json:"admin"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateAdminRequest is the payload for creating a console identity.
type CreateAdminRequest struct {
	Login    string    `json:"login" binding:"required,min=3,max=64"`
	FullName string    `json:"full_name" binding:"required,min=2,max=120"`
	Phone    *string   `json:"phone" binding:"omitempty,max=32"`
	Role     AdminRole `json:"role" binding:"required,admin_role"`
	Password string    `json:"password" binding:"required,min=6,max=128"`
	Active   *bool     `json:"active"`
}
