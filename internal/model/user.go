package model

import "time"

// UserAccount is an end-user record owned by the hosted identity service.
type UserAccount struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	Provider     string         `json:"provider"`
	Metadata     map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	LastSignInAt *time.Time     `json:"last_sign_in_at,omitempty"`
}

// MetaString returns the metadata value under key if it is a non-empty string.
func (a UserAccount) MetaString(key string) string {
	if a.Metadata == nil {
		return ""
	}
	s, _ := a.Metadata[key].(string)
	return s
}

// UserProfile is the application-side row keyed by the identity account id.
type UserProfile struct {
	ID        string    `json:"id"`
	FullName  *string   `json:"full_name,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Role      *string   `json:"role,omitempty"`
	Status    *string   `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Default values used when neither the profile nor the account metadata has one.
const (
	DefaultUserRole     = "user"
	DefaultUserStatus   = "active"
	DefaultUserProvider = "email"
)

// User is the merged view of an account and its profile.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	AvatarURL    string     `json:"avatar_url,omitempty"`
	Provider     string     `json:"provider"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	HasAccount   bool       `json:"has_account"`
	HasProfile   bool       `json:"has_profile"`
}

// UpdateUserMetadataRequest replaces selected metadata keys on the identity account.
type UpdateUserMetadataRequest struct {
	Metadata map[string]any `json:"metadata" binding:"required"`
}
