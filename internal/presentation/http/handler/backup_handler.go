package handler

import (
	"fmt"
	"time"

	"github.com/dukani/erp-api/internal/application/service"
	"github.com/dukani/erp-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// BackupHandler handles backup export and restore HTTP requests
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new backup handler
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Export handles downloading the tenant's backup document
func (h *BackupHandler) Export(c *gin.Context) {
	doc, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("backup_%s.json", time.Now().UTC().Format("20060102T150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(200, doc)
}

// Restore handles uploading a backup document and replacing the tenant's
// data with it
func (h *BackupHandler) Restore(c *gin.Context) {
	var doc service.BackupDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.BadRequest(c, "Invalid backup document")
		return
	}

	if err := h.backupService.Restore(c.Request.Context(), &doc); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Backup restored successfully", nil)
}
