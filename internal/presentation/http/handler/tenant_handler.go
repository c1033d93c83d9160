package handler

import (
	"github.com/dukani/erp-api/internal/application/service"
	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// TenantHandler handles company profile HTTP requests
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Get handles retrieving the company profile
func (h *TenantHandler) Get(c *gin.Context) {
	tenant, err := h.tenantService.GetCurrent(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company retrieved successfully", tenant)
}

// Update handles updating the company name or settings
func (h *TenantHandler) Update(c *gin.Context) {
	var req struct {
		Name     *string                `json:"name"`
		Settings *entity.TenantSettings `json:"settings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), &service.UpdateTenantInput{
		Name:     req.Name,
		Settings: req.Settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Company updated successfully", tenant)
}
