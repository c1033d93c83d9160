package handler

import (
	"time"

	"github.com/dukani/erp-api/internal/application/service"
	"github.com/dukani/erp-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles summary and reconciliation HTTP requests
type ReportHandler struct {
	ledgerService *service.LedgerService
}

// NewReportHandler creates a new report handler
func NewReportHandler(ledgerService *service.LedgerService) *ReportHandler {
	return &ReportHandler{ledgerService: ledgerService}
}

// Summary handles the transaction summary over an optional date range
func (h *ReportHandler) Summary(c *gin.Context) {
	var from, to time.Time
	if s := c.Query("from"); s != "" {
		parsed, ok := parseDate(s)
		if !ok {
			response.BadRequest(c, "Invalid from date")
			return
		}
		from = parsed
	}
	if s := c.Query("to"); s != "" {
		parsed, ok := parseDate(s)
		if !ok {
			response.BadRequest(c, "Invalid to date")
			return
		}
		to = parsed
	}

	summary, err := h.ledgerService.GetSummary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Summary retrieved successfully", summary)
}

// Reconcile checks stored balances and stock against the logs
func (h *ReportHandler) Reconcile(c *gin.Context) {
	report, err := h.ledgerService.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Reconciliation completed", report)
}
