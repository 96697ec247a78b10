package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medconsole/admin-backend/internal/model"
	"github.com/medconsole/admin-backend/internal/response"
	"github.com/medconsole/admin-backend/internal/service"
	"github.com/medconsole/admin-backend/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var consultationCategories = []string{"status", "disease_type"}

// ConsultationHandler handles consultation request endpoints.
type ConsultationHandler struct {
	consultationService *service.ConsultationService
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(consultationService *service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{consultationService: consultationService}
}

// ListConsultations godoc
// GET /api/v1/admin/consultations?q=&status=&disease_type=
func (h *ConsultationHandler) ListConsultations(c *gin.Context) {
	res, err := h.consultationService.List(c.Request.Context(), listQuery(c, consultationCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ExportConsultations godoc
// GET /api/v1/admin/consultations/export?q=&status=&disease_type=
// Downloads the filtered list as an XLSX workbook.
func (h *ConsultationHandler) ExportConsultations(c *gin.Context) {
	data, err := h.consultationService.Export(c.Request.Context(), listQuery(c, consultationCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("consultations-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// UpdateStatus godoc
// PATCH /api/v1/admin/consultations/:id/status
func (h *ConsultationHandler) UpdateStatus(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req model.UpdateConsultationStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.consultationService.UpdateStatus(c.Request.Context(), admin, id, req.Status, listQuery(c, consultationCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// DeleteConsultation godoc
// DELETE /api/v1/admin/consultations/:id
func (h *ConsultationHandler) DeleteConsultation(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	res, err := h.consultationService.Delete(c.Request.Context(), admin, id, listQuery(c, consultationCategories...))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// SubmitConsultation godoc
// POST /api/v1/public/consultations
// Intake form on the public site. No authentication.
func (h *ConsultationHandler) SubmitConsultation(c *gin.Context) {
	var req model.SubmitConsultationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.consultationService.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"id": created.ID, "status": created.Status})
}
