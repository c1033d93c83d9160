package handler

import (
	"time"

	"github.com/dukani/erp-api/internal/application/service"
	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/dukani/erp-api/internal/domain/repository"
	"github.com/dukani/erp-api/internal/presentation/http/dto/request"
	"github.com/dukani/erp-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionHandler handles ledger transaction HTTP requests
type TransactionHandler struct {
	ledgerService *service.LedgerService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(ledgerService *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// List handles listing transactions
func (h *TransactionHandler) List(c *gin.Context) {
	params := &repository.TransactionFilterParams{
		Pagination: pageParams(c),
	}
	if t := c.Query("type"); t != "" {
		txnType := enum.TransactionType(t)
		if !txnType.IsValid() {
			response.BadRequest(c, "Unknown transaction type")
			return
		}
		params.Type = &txnType
	}
	if cid := c.Query("customer_id"); cid != "" {
		customerID, err := uuid.Parse(cid)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &customerID
	}
	if from, ok := parseDate(c.Query("from")); ok {
		params.DateFrom = &from
	}
	if to, ok := parseDate(c.Query("to")); ok {
		params.DateTo = &to
	}

	result, err := h.ledgerService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// Get handles retrieving a transaction
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}

// Create handles recording a transaction
func (h *TransactionHandler) Create(c *gin.Context) {
	var req request.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		response.BadRequest(c, "Invalid date")
		return
	}

	input := &service.RecordTransactionInput{
		Type:        enum.TransactionType(req.Type),
		CustomerID:  customerID,
		Date:        date,
		TotalAmount: toCents(req.TotalAmount),
		TaxAmount:   toCents(req.TaxAmount),
		Notes:       req.Notes,
	}
	if req.SettledPaymentID != nil {
		paymentID, err := uuid.Parse(*req.SettledPaymentID)
		if err != nil {
			response.BadRequest(c, "Invalid settled payment ID")
			return
		}
		input.SettledPaymentID = &paymentID
	}
	input.Items, err = toItemInputs(req.Items)
	if err != nil {
		response.BadRequest(c, "Invalid product ID in items")
		return
	}

	txn, err := h.ledgerService.RecordCreate(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction recorded successfully", txn)
}

// Update handles editing a transaction
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req request.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload")
		return
	}

	input := &service.UpdateTransactionInput{Notes: req.Notes}
	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &customerID
	}
	if req.Date != nil {
		date, ok := parseDate(*req.Date)
		if !ok {
			response.BadRequest(c, "Invalid date")
			return
		}
		input.Date = &date
	}
	if req.TotalAmount != nil {
		cents := toCents(*req.TotalAmount)
		input.TotalAmount = &cents
	}
	if req.TaxAmount != nil {
		cents := toCents(*req.TaxAmount)
		input.TaxAmount = &cents
	}
	if req.Items != nil {
		input.Items, err = toItemInputs(req.Items)
		if err != nil {
			response.BadRequest(c, "Invalid product ID in items")
			return
		}
	}

	txn, err := h.ledgerService.RecordUpdate(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction updated successfully", txn)
}

// Delete handles deleting a transaction
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.ledgerService.RecordDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func toItemInputs(items []request.TransactionItemRequest) ([]service.TransactionItemInput, error) {
	inputs := make([]service.TransactionItemInput, 0, len(items))
	for _, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, service.TransactionItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: toCents(item.UnitPrice),
		})
	}
	return inputs, nil
}

// parseDate accepts date-only and RFC3339 timestamps.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
