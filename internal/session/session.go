// Package session keeps one server-side login record per admin. The signed
// token handed to the client carries the record's JTI, so replacing or
// clearing the record revokes the token.
package session

import (
	"context"
	"time"
)

// Session is the server-side half of a login.
type Session struct {
	AdminID  string    `json:"admin_id"`
	JTI      string    `json:"jti"`
	IssuedAt time.Time `json:"issued_at"`
}

// Store persists sessions. Read returns (nil, nil) when no session exists.
type Store interface {
	Save(ctx context.Context, s Session) error
	Read(ctx context.Context, adminID string) (*Session, error)
	Clear(ctx context.Context, adminID string) error
}
