package service

import "github.com/medconsole/admin-backend/internal/apperr"

// Authentication errors.
var (
	ErrCredentialsNotFound = apperr.New(apperr.KindNotFound, "credentials not found or inactive")
	ErrWrongPassword       = apperr.New(apperr.KindUnauthorized, "wrong password")
	ErrInvalidToken        = apperr.New(apperr.KindUnauthorized, "invalid or malformed token")
	ErrSessionExpired      = apperr.New(apperr.KindUnauthorized, "session expired, please log in again")
	ErrSessionRevoked      = apperr.New(apperr.KindUnauthorized, "session is no longer active")
)

// Authorization and invariant errors.
var (
	ErrAdminRoleRequired = apperr.New(apperr.KindUnauthorized, "this action requires the admin role")
	ErrNotOwnRecord      = apperr.New(apperr.KindUnauthorized, "moderators may only change their own name, phone and password")
	ErrSelfDelete        = apperr.New(apperr.KindUnauthorized, "you cannot delete your own identity")
	ErrLastAdmin         = apperr.New(apperr.KindConflict, "at least one active admin must remain")
	ErrLoginTaken        = apperr.New(apperr.KindConflict, "login already taken")
)

// Input errors.
var (
	ErrInvalidRole   = apperr.New(apperr.KindInvalid, "role must be admin or moderator")
	ErrInvalidStatus = apperr.New(apperr.KindInvalid, "status must be pending, contacted, completed or cancelled")
	ErrEmptyMetadata = apperr.New(apperr.KindInvalid, "metadata must contain at least one field")
)
