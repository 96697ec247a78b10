// Package gateway declares the remote data surfaces the console depends on:
// table stores in the database of record and the identity-admin directory.
// Postgres, REST and in-memory demo adapters all satisfy these interfaces.
package gateway

import (
	"context"
	"errors"

	"github.com/medconsole/admin-backend/internal/model"
)

// AdminStore is the simple_admins table.
type AdminStore interface {
	// List returns every identity ordered by creation time.
	List(ctx context.Context) ([]model.Admin, error)
	GetByID(ctx context.Context, id string) (*model.Admin, error)
	// GetByLogin matches login exactly and case-sensitively.
	GetByLogin(ctx context.Context, login string) (*model.Admin, error)
	// Create inserts a and fills ID and timestamps. A taken login is a Conflict.
	Create(ctx context.Context, a *model.Admin) error
	// Update replaces every mutable column of the row with id a.ID.
	Update(ctx context.Context, a *model.Admin) error
	Delete(ctx context.Context, id string) error
}

// ProfileStore is the profiles table.
type ProfileStore interface {
	List(ctx context.Context) ([]model.UserProfile, error)
	Delete(ctx context.Context, id string) error
}

// ConsultationStore is the consultation_requests table.
type ConsultationStore interface {
	// List returns every request, newest first.
	List(ctx context.Context) ([]model.Consultation, error)
	Create(ctx context.Context, c *model.Consultation) error
	UpdateStatus(ctx context.Context, id string, status model.ConsultationStatus) error
	Delete(ctx context.Context, id string) error
}

// IdentityDirectory is the identity service's user administration API.
type IdentityDirectory interface {
	ListUsers(ctx context.Context) ([]model.UserAccount, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateUserMetadata(ctx context.Context, id string, fields map[string]any) (*model.UserAccount, error)
}

// ActivityStore is the admin_activity table.
type ActivityStore interface {
	Insert(ctx context.Context, a *model.Activity) error
	ListRecent(ctx context.Context, limit int) ([]model.Activity, error)
}

// Causes wrapped by adapters inside apperr.Error values.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateLogin = errors.New("login already taken")
)
