package identity

import (
	"time"

	"github.com/medconsole/admin-backend/internal/model"
)

// remoteUser is a user as returned by the identity service admin API.
type remoteUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	AppMetadata  appMetadata    `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	LastSignInAt *time.Time     `json:"last_sign_in_at"`
}

type appMetadata struct {
	Provider string `json:"provider"`
}

type listUsersResponse struct {
	Users []remoteUser `json:"users"`
}

type updateUserRequest struct {
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u remoteUser) toAccount() model.UserAccount {
	return model.UserAccount{
		ID:           u.ID,
		Email:        u.Email,
		Phone:        u.Phone,
		Provider:     u.AppMetadata.Provider,
		Metadata:     u.UserMetadata,
		CreatedAt:    u.CreatedAt,
		LastSignInAt: u.LastSignInAt,
	}
}
