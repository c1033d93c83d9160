package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/dukani/erp-api/internal/domain/repository"
	infraRepo "github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/dukani/erp-api/pkg/apperror"
	"github.com/dukani/erp-api/pkg/pagination"
	"github.com/dukani/erp-api/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BackupNotifier is poked after every committed ledger mutation so the
// auto-backup worker can schedule a snapshot. Implementations must not
// block; a notification is fire-and-forget.
type BackupNotifier interface {
	Notify(tenantID uuid.UUID)
}

// LedgerService is the single write path for transactions. Every mutation
// runs in one database transaction covering the record, its stock
// movements, the inventory projection and the customer balance.
type LedgerService struct {
	transactionRepo repository.TransactionRepository
	customerRepo    repository.CustomerRepository
	productRepo     repository.ProductRepository
	seqRepo         repository.SequenceRepository
	tenantRepo      repository.TenantRepository
	inventory       *InventoryService
	txManager       repository.TxManager
	notifier        BackupNotifier
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	transactionRepo repository.TransactionRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	seqRepo repository.SequenceRepository,
	tenantRepo repository.TenantRepository,
	inventory *InventoryService,
	txManager repository.TxManager,
	notifier BackupNotifier,
) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		seqRepo:         seqRepo,
		tenantRepo:      tenantRepo,
		inventory:       inventory,
		txManager:       txManager,
		notifier:        notifier,
	}
}

// TransactionItemInput is one line of a transaction input. The line total
// is computed server-side from quantity and unit price.
type TransactionItemInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice int64 // cents
}

// RecordTransactionInput represents the create transaction input
type RecordTransactionInput struct {
	Type             enum.TransactionType
	CustomerID       uuid.UUID
	Date             time.Time
	Items            []TransactionItemInput
	TotalAmount      int64 // cents
	TaxAmount        int64 // cents
	Notes            *string
	SettledPaymentID *uuid.UUID
}

// RecordCreate validates and stores a new transaction, applying its stock
// and balance effects in the same database transaction.
func (s *LedgerService) RecordCreate(ctx context.Context, input *RecordTransactionInput) (*entity.Transaction, error) {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	txn := &entity.Transaction{
		TenantID:         tenantID,
		CustomerID:       customer.ID,
		Type:             input.Type,
		Date:             input.Date,
		TotalAmount:      input.TotalAmount,
		TaxAmount:        input.TaxAmount,
		Notes:            input.Notes,
		SettledPaymentID: input.SettledPaymentID,
		Items:            items,
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		invoiceNo, err := s.nextInvoiceNo(ctx)
		if err != nil {
			return err
		}
		txn.InvoiceNo = invoiceNo

		if err := s.transactionRepo.Create(ctx, txn); err != nil {
			return err
		}
		if input.SettledPaymentID != nil {
			if err := s.markPaymentSettled(ctx, *input.SettledPaymentID, txn.ID); err != nil {
				return err
			}
		}
		if err := s.inventory.ProcessTransactionInventory(ctx, txn); err != nil {
			return err
		}
		return s.applyBalanceDelta(ctx, customer.ID, txn.BalanceEffect())
	})
	if err != nil {
		return nil, apperror.GetAppError(err)
	}

	s.notifyBackup(tenantID)
	return s.GetTransaction(ctx, txn.ID)
}

// UpdateTransactionInput represents the update transaction input. Nil
// fields keep the stored value; items, when present, replace the set.
type UpdateTransactionInput struct {
	CustomerID  *uuid.UUID
	Date        *time.Time
	Items       []TransactionItemInput
	TotalAmount *int64
	TaxAmount   *int64
	Notes       *string
}

// RecordUpdate edits a transaction. Its end state matches deleting the old
// record and creating the new one: stock and balance effects of the old
// version are reversed before the new version's effects land, all in one
// database transaction.
func (s *LedgerService) RecordUpdate(ctx context.Context, id uuid.UUID, input *UpdateTransactionInput) (*entity.Transaction, error) {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	newCustomerID := txn.CustomerID
	if input.CustomerID != nil {
		newCustomerID = *input.CustomerID
	}
	if input.CustomerID != nil && *input.CustomerID != txn.CustomerID {
		customer, err := s.customerRepo.GetByID(ctx, newCustomerID)
		if err != nil {
			return nil, apperror.NewStorageError(err)
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	// The merged new state obeys the same rules as a fresh create.
	if txn.Type.AffectsInventory() {
		if input.Items != nil {
			if len(input.Items) == 0 {
				return nil, apperror.NewValidationError(apperror.FieldError{Field: "items", Message: "At least one item is required"})
			}
			for _, item := range input.Items {
				if item.Quantity.Sign() <= 0 {
					return nil, apperror.NewValidationError(apperror.FieldError{Field: "items", Message: "Quantity must be positive"})
				}
				if item.UnitPrice < 0 {
					return nil, apperror.NewValidationError(apperror.FieldError{Field: "items", Message: "Unit price cannot be negative"})
				}
			}
		}
	} else if len(input.Items) > 0 {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "items", Message: "Payments cannot carry items"})
	}

	var newItems []entity.TransactionItem
	if input.Items != nil {
		newItems, err = s.buildItems(ctx, input.Items)
		if err != nil {
			return nil, err
		}
	}

	newTotal := txn.TotalAmount
	if input.TotalAmount != nil {
		newTotal = *input.TotalAmount
	}
	newTax := txn.TaxAmount
	if input.TaxAmount != nil {
		newTax = *input.TaxAmount
	}
	if newTotal < 0 || newTax < 0 {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "total_amount", Message: "Amounts cannot be negative"})
	}
	if txn.Type.AffectsInventory() {
		check := txn.Items
		if input.Items != nil {
			check = newItems
		}
		var itemsTotal int64
		for _, item := range check {
			itemsTotal += item.LineTotal
		}
		if itemsTotal+newTax != newTotal {
			return nil, apperror.NewValidationError(apperror.FieldError{
				Field: "total_amount", Message: "Total must equal item totals plus tax",
			})
		}
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		// Reverse the old version completely before applying the new one.
		if err := s.inventory.CancelTransactionInventory(ctx, txn); err != nil {
			return err
		}
		if err := s.applyBalanceDelta(ctx, txn.CustomerID, -txn.BalanceEffect()); err != nil {
			return err
		}

		txn.CustomerID = newCustomerID
		if input.Date != nil {
			txn.Date = *input.Date
		}
		txn.TotalAmount = newTotal
		txn.TaxAmount = newTax
		if input.Notes != nil {
			txn.Notes = input.Notes
		}
		if input.Items != nil {
			if err := s.transactionRepo.ReplaceItems(ctx, txn.ID, newItems); err != nil {
				return err
			}
			txn.Items = newItems
		}
		if err := s.transactionRepo.Update(ctx, txn); err != nil {
			return err
		}

		if err := s.inventory.ProcessTransactionInventory(ctx, txn); err != nil {
			return err
		}
		return s.applyBalanceDelta(ctx, txn.CustomerID, txn.BalanceEffect())
	})
	if err != nil {
		return nil, apperror.GetAppError(err)
	}

	s.notifyBackup(tenantID)
	return s.GetTransaction(ctx, txn.ID)
}

// RecordDelete removes a transaction, reversing its balance and stock
// effects in the same database transaction. A payment mark left on a
// settled payment is cleared so the payment becomes usable again.
func (s *LedgerService) RecordDelete(ctx context.Context, id uuid.UUID) error {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return err
	}

	txn, err := s.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.inventory.CancelTransactionInventory(ctx, txn); err != nil {
			return err
		}
		if err := s.applyBalanceDelta(ctx, txn.CustomerID, -txn.BalanceEffect()); err != nil {
			return err
		}
		if txn.SettledPaymentID != nil {
			if err := s.clearPaymentSettled(ctx, *txn.SettledPaymentID); err != nil {
				return err
			}
		}
		return s.transactionRepo.Delete(ctx, txn.ID)
	})
	if err != nil {
		return apperror.GetAppError(err)
	}

	s.notifyBackup(tenantID)
	return nil
}

// GetTransaction retrieves a transaction with its items
func (s *LedgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListTransactions lists transactions with filtering and pagination
func (s *LedgerService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}
	txns, total, err := s.transactionRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return pagination.NewPaginatedResult(txns, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// Summary aggregates stored transactions over a date range. Amounts are in
// cents internally and rendered as currency units.
type Summary struct {
	TotalSales     int64 `json:"-"`
	TotalPurchases int64 `json:"-"`
	TotalPayments  int64 `json:"-"`
	Profit         int64 `json:"-"`
	SalesCount     int   `json:"sales_count"`
	PurchaseCount  int   `json:"purchase_count"`
	PaymentCount   int   `json:"payment_count"`
}

// MarshalJSON exposes money fields in decimal currency units.
func (s Summary) MarshalJSON() ([]byte, error) {
	type Alias Summary
	return json.Marshal(&struct {
		Alias
		TotalSales     float64 `json:"total_sales"`
		TotalPurchases float64 `json:"total_purchases"`
		TotalPayments  float64 `json:"total_payments"`
		Profit         float64 `json:"profit"`
	}{
		Alias:          Alias(s),
		TotalSales:     float64(s.TotalSales) / 100,
		TotalPurchases: float64(s.TotalPurchases) / 100,
		TotalPayments:  float64(s.TotalPayments) / 100,
		Profit:         float64(s.Profit) / 100,
	})
}

// GetSummary folds every stored transaction in [from, to] into totals. The
// fold is the definition: it always matches a from-scratch recomputation
// because it is one.
func (s *LedgerService) GetSummary(ctx context.Context, from, to time.Time) (*Summary, error) {
	txns, err := s.transactionRepo.ListInRange(ctx, from, to)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}

	summary := &Summary{}
	for _, txn := range txns {
		switch {
		case txn.Type == enum.TransactionTypeSales:
			summary.TotalSales += txn.TotalAmount
			summary.SalesCount++
		case txn.Type == enum.TransactionTypePurchase:
			summary.TotalPurchases += txn.TotalAmount
			summary.PurchaseCount++
		case txn.Type.IsPayment():
			summary.TotalPayments += txn.TotalAmount
			summary.PaymentCount++
		}
	}
	summary.Profit = summary.TotalSales - summary.TotalPurchases
	return summary, nil
}

// BalanceDrift reports a customer whose stored outstanding balance differs
// from the balance replayed from the transaction log. Amounts in cents.
type BalanceDrift struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Stored     int64     `json:"stored"`
	Computed   int64     `json:"computed"`
}

// StockDrift reports a product whose inventory projection differs from the
// sum of its movement log.
type StockDrift struct {
	ProductID uuid.UUID       `json:"product_id"`
	Stored    decimal.Decimal `json:"stored"`
	Computed  decimal.Decimal `json:"computed"`
}

// ReconcileReport is the outcome of a reconciliation pass. Empty slices
// mean the projections agree with the logs.
type ReconcileReport struct {
	Balances []BalanceDrift `json:"balances"`
	Stock    []StockDrift   `json:"stock"`
}

// Reconcile replays the transaction log against stored customer balances
// and the movement log against stored stock levels, reporting drift.
// Projections are not corrected here; drift indicates a bug or manual
// interference and deserves inspection before repair.
func (s *LedgerService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{
		Balances: []BalanceDrift{},
		Stock:    []StockDrift{},
	}

	// Replay balances in insertion order; clamping makes the fold
	// order-sensitive, and insertion order is the order effects were
	// originally applied.
	txns, err := s.transactionRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	computed := make(map[uuid.UUID]int64)
	for _, txn := range txns {
		balance := computed[txn.CustomerID] + txn.BalanceEffect()
		if balance < 0 {
			balance = 0
		}
		computed[txn.CustomerID] = balance
	}

	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	for _, customer := range customers {
		if customer.OutstandingBalance != computed[customer.ID] {
			report.Balances = append(report.Balances, BalanceDrift{
				CustomerID: customer.ID,
				Stored:     customer.OutstandingBalance,
				Computed:   computed[customer.ID],
			})
		}
	}

	movements, err := s.inventory.inventoryRepo.ListAllMovements(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	stockComputed := make(map[uuid.UUID]decimal.Decimal)
	for _, m := range movements {
		stockComputed[m.ProductID] = stockComputed[m.ProductID].Add(m.Delta)
	}

	records, err := s.inventory.inventoryRepo.ListRecords(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	for _, record := range records {
		if !record.CurrentStock.Equal(stockComputed[record.ProductID]) {
			report.Stock = append(report.Stock, StockDrift{
				ProductID: record.ProductID,
				Stored:    record.CurrentStock,
				Computed:  stockComputed[record.ProductID],
			})
		}
	}

	return report, nil
}

func (s *LedgerService) validate(input *RecordTransactionInput) error {
	if !input.Type.IsValid() {
		return apperror.NewValidationError(apperror.FieldError{Field: "type", Message: "Unknown transaction type"})
	}
	if input.Date.IsZero() {
		return apperror.NewValidationError(apperror.FieldError{Field: "date", Message: "Date is required"})
	}
	if input.TotalAmount < 0 || input.TaxAmount < 0 {
		return apperror.NewValidationError(apperror.FieldError{Field: "total_amount", Message: "Amounts cannot be negative"})
	}

	if input.Type.AffectsInventory() {
		if len(input.Items) == 0 {
			return apperror.NewValidationError(apperror.FieldError{Field: "items", Message: "At least one item is required"})
		}
		var itemsTotal int64
		for i, item := range input.Items {
			if item.Quantity.Sign() <= 0 {
				return apperror.NewValidationError(apperror.FieldError{Field: "items", Message: "Quantity must be positive"})
			}
			if item.UnitPrice < 0 {
				return apperror.NewValidationError(apperror.FieldError{Field: "items", Message: "Unit price cannot be negative"})
			}
			itemsTotal += lineTotal(input.Items[i])
		}
		if itemsTotal+input.TaxAmount != input.TotalAmount {
			return apperror.NewValidationError(apperror.FieldError{
				Field: "total_amount", Message: "Total must equal item totals plus tax",
			})
		}
	} else if len(input.Items) > 0 {
		return apperror.NewValidationError(apperror.FieldError{Field: "items", Message: "Payments cannot carry items"})
	}
	return nil
}

// buildItems resolves products and snapshots their name and unit onto the
// item rows so later catalogue edits do not rewrite history.
func (s *LedgerService) buildItems(ctx context.Context, inputs []TransactionItemInput) ([]entity.TransactionItem, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	byID := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]entity.TransactionItem, 0, len(inputs))
	for _, in := range inputs {
		product, ok := byID[in.ProductID]
		if !ok {
			return nil, apperror.NewNotFoundError("Product")
		}
		items = append(items, entity.TransactionItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Unit:        product.Unit,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			LineTotal:   lineTotal(in),
		})
	}
	return items, nil
}

func (s *LedgerService) nextInvoiceNo(ctx context.Context) (string, error) {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return "", err
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	prefix := "INV-"
	if tenant != nil && tenant.Settings.InvoicePrefix != "" {
		prefix = tenant.Settings.InvoicePrefix
	}
	n, err := s.seqRepo.Next(ctx, entity.SequenceKindInvoice)
	if err != nil {
		return "", err
	}
	return utils.FormatDocumentNo(prefix, n), nil
}

func (s *LedgerService) applyBalanceDelta(ctx context.Context, customerID uuid.UUID, delta int64) error {
	if delta == 0 {
		return nil
	}
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	customer.ApplyBalanceDelta(delta)
	return s.customerRepo.Update(ctx, customer)
}

func (s *LedgerService) markPaymentSettled(ctx context.Context, paymentID, byID uuid.UUID) error {
	payment, err := s.transactionRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return apperror.NewNotFoundError("Payment")
	}
	if !payment.Type.IsPayment() {
		return apperror.NewBadRequestError("Referenced transaction is not a payment")
	}
	if payment.SettledByID != nil {
		return apperror.NewConflictError("Payment is already settled")
	}
	payment.SettledByID = &byID
	return s.transactionRepo.Update(ctx, payment)
}

func (s *LedgerService) clearPaymentSettled(ctx context.Context, paymentID uuid.UUID) error {
	payment, err := s.transactionRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return nil
	}
	payment.SettledByID = nil
	return s.transactionRepo.Update(ctx, payment)
}

func (s *LedgerService) notifyBackup(tenantID uuid.UUID) {
	if s.notifier != nil {
		s.notifier.Notify(tenantID)
	}
}

// lineTotal computes a line's price in cents: quantity times unit price,
// rounded half-up to the nearest cent.
func lineTotal(in TransactionItemInput) int64 {
	return in.Quantity.Mul(decimal.NewFromInt(in.UnitPrice)).Round(0).IntPart()
}
