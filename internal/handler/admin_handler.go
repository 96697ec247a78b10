package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/response"
	"github.com/medconsole/admin-backend/internal/service"
	"github.com/medconsole/admin-backend/internal/validator"
)

var adminCategories = []string{"role", "active"}

// AdminHandler handles identity management endpoints.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListAdmins godoc
// GET /api/v1/admin/admins?q=&role=&active=
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	res, err := h.adminService.List(c.Request.Context(), listQuery(c, adminCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// CreateAdmin godoc
// POST /api/v1/admin/admins
// Returns the created identity and the refreshed list.
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}

	var req model.CreateAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, res, err := h.adminService.Create(c.Request.Context(), admin, req, listQuery(c, adminCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"admin": created, "list": res})
}

// UpdateAdmin godoc
// PATCH /api/v1/admin/admins/:id
func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var patch model.AdminPatch
	if fields := validator.Bind(c, &patch); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.adminService.Update(c.Request.Context(), admin, id, patch, listQuery(c, adminCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// DeleteAdmin godoc
// DELETE /api/v1/admin/admins/:id
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.adminService.Delete(c.Request.Context(), admin, id, listQuery(c, adminCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
