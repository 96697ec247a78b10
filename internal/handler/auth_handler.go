package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/response"
	"github.com/medconsole/admin-backend/internal/service"
	"github.com/medconsole/admin-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// POST /api/v1/auth/login
// Validates login + password, opens a session and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCredentialsNotFound):
			response.Fail(c, http.StatusUnauthorized, response.ErrUnknownLogin)
		case errors.Is(err, service.ErrWrongPassword):
			response.Fail(c, http.StatusUnauthorized, response.ErrWrongPassword)
		default:
			response.Error(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}

// Logout godoc
// POST /api/v1/auth/logout
// Ends the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), admin); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the currently authenticated identity.
func (h *AuthHandler) Me(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, gin.H{"admin": admin})
}
