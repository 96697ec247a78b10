package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/response"
	"github.com/medconsole/admin-backend/internal/service"
)

// ContextKeyIdentity is the Gin context key for the authenticated identity.
const ContextKeyIdentity = "identity"

// IdentityResolver resolves a bearer token to a live identity.
type IdentityResolver interface {
	CurrentIdentity(ctx context.Context, token string) (*model.Admin, error)
}

// RequireAdminSession validates the bearer token against the server-side
// session and stores the identity in the context.
func RequireAdminSession(auth IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		admin, err := auth.CurrentIdentity(c.Request.Context(), tokenStr)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrSessionExpired):
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenExpired)
			return
		case errors.Is(err, service.ErrSessionRevoked):
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		case errors.Is(err, service.ErrInvalidToken):
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		default:
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextKeyIdentity, admin)
		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from the Gin context.
func GetIdentity(c *gin.Context) *model.Admin {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil
	}
	admin, ok := val.(*model.Admin)
	if !ok {
		return nil
	}
	return admin
}
