package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/response"
	"github.com/medconsole/admin-backend/internal/service"
	"github.com/medconsole/admin-backend/internal/validator"
)

var userCategories = []string{"provider", "role", "status"}

// UserHandler handles end-user management endpoints.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers godoc
// GET /api/v1/admin/users?q=&provider=&role=&status=
// Accounts and profiles merged by id. Warnings list sources that failed to load.
func (h *UserHandler) ListUsers(c *gin.Context) {
	res, err := h.userService.List(c.Request.Context(), listQuery(c, userCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// UpdateUserMetadata godoc
// PATCH /api/v1/admin/users/:id/metadata
// Merges fields into the account metadata; a null value removes a key.
func (h *UserHandler) UpdateUserMetadata(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.UpdateUserMetadataRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.userService.UpdateMetadata(c.Request.Context(), admin, id, req.Metadata, listQuery(c, userCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// DeleteUser godoc
// DELETE /api/v1/admin/users/:id
// Removes the identity account and the profile row.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.userService.Delete(c.Request.Context(), admin, id, listQuery(c, userCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
