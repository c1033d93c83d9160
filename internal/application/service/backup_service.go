package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/dukani/erp-api/internal/domain/repository"
	infraRepo "github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/dukani/erp-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BackupFormatVersion identifies the document layout. Restore accepts this
// version and older ones, migrating old documents on the way in.
const BackupFormatVersion = 2

// BackupCustomer is a customer row in a backup document. Optional fields
// are pointers so restore can tell "absent in an old document" from an
// explicit value.
type BackupCustomer struct {
	ID                 uuid.UUID `json:"id"`
	Number             int64     `json:"number"`
	Name               string    `json:"name"`
	Category           string    `json:"category,omitempty"`
	Email              *string   `json:"email,omitempty"`
	Phone              *string   `json:"phone,omitempty"`
	TaxPin             *string   `json:"taxPin,omitempty"`
	Address            *string   `json:"address,omitempty"`
	OutstandingBalance int64     `json:"outstandingBalance"`
	IsActive           *bool     `json:"isActive,omitempty"`
}

// BackupProduct is a product row in a backup document.
type BackupProduct struct {
	ID           uuid.UUID `json:"id"`
	Number       int64     `json:"number"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Unit         string    `json:"unit,omitempty"`
	SellingPrice int64     `json:"sellingPrice"`
	Provenance   *string   `json:"provenance,omitempty"`
	IsActive     *bool     `json:"isActive,omitempty"`
}

// BackupPrice is a negotiated price row in a backup document.
type BackupPrice struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	ProductID  uuid.UUID `json:"productId"`
	UnitPrice  int64     `json:"unitPrice"`
}

// BackupTransactionItem is one transaction line in a backup document.
type BackupTransactionItem struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   int64           `json:"unitPrice"`
	LineTotal   int64           `json:"lineTotal"`
}

// BackupTransaction is a transaction row in a backup document.
type BackupTransaction struct {
	ID               uuid.UUID               `json:"id"`
	CustomerID       uuid.UUID               `json:"customerId"`
	Type             string                  `json:"type"`
	Date             time.Time               `json:"date"`
	InvoiceNo        string                  `json:"invoiceNo"`
	TotalAmount      int64                   `json:"totalAmount"`
	TaxAmount        int64                   `json:"taxAmount"`
	SettledPaymentID *uuid.UUID              `json:"settledPaymentId,omitempty"`
	SettledByID      *uuid.UUID              `json:"settledById,omitempty"`
	Notes            *string                 `json:"notes,omitempty"`
	Items            []BackupTransactionItem `json:"items"`
}

// BackupCompany is the tenant profile in a backup document.
type BackupCompany struct {
	Name     string                 `json:"name"`
	Settings *entity.TenantSettings `json:"settings,omitempty"`
}

// BackupMetadata describes when and by what the document was produced.
type BackupMetadata struct {
	BackupDate   time.Time `json:"backupDate"`
	Version      int       `json:"version"`
	TotalRecords int       `json:"totalRecords"`
	AppVersion   string    `json:"appVersion"`
}

// BackupDocument is the complete exported state of one tenant, sufficient
// to rebuild it from nothing.
type BackupDocument struct {
	Customers             []BackupCustomer    `json:"customers"`
	Products              []BackupProduct     `json:"products"`
	Transactions          []BackupTransaction `json:"transactions"`
	CustomerProductPrices []BackupPrice       `json:"customerProductPrices"`
	Company               BackupCompany       `json:"company"`
	NextIDs               map[string]int64    `json:"nextIds"`
	Metadata              BackupMetadata      `json:"metadata"`
}

// BackupService exports a tenant's state as a single JSON document and
// restores from one by wholesale replacement.
type BackupService struct {
	customerRepo    repository.CustomerRepository
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	priceRepo       repository.PriceRepository
	tenantRepo      repository.TenantRepository
	seqRepo         repository.SequenceRepository
	backupRepo      repository.BackupRepository
	inventory       *InventoryService
	txManager       repository.TxManager
	appVersion      string
}

// NewBackupService creates a new backup service
func NewBackupService(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	transactionRepo repository.TransactionRepository,
	priceRepo repository.PriceRepository,
	tenantRepo repository.TenantRepository,
	seqRepo repository.SequenceRepository,
	backupRepo repository.BackupRepository,
	inventory *InventoryService,
	txManager repository.TxManager,
	appVersion string,
) *BackupService {
	return &BackupService{
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
		tenantRepo:      tenantRepo,
		seqRepo:         seqRepo,
		backupRepo:      backupRepo,
		inventory:       inventory,
		txManager:       txManager,
		appVersion:      appVersion,
	}
}

// Export produces a backup document for the tenant in the context.
func (s *BackupService) Export(ctx context.Context) (*BackupDocument, error) {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}

	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	transactions, err := s.transactionRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	prices, err := s.priceRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	nextIDs, err := s.seqRepo.Snapshot(ctx)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}

	doc := &BackupDocument{
		Customers:             make([]BackupCustomer, 0, len(customers)),
		Products:              make([]BackupProduct, 0, len(products)),
		Transactions:          make([]BackupTransaction, 0, len(transactions)),
		CustomerProductPrices: make([]BackupPrice, 0, len(prices)),
		Company: BackupCompany{
			Name:     tenant.Name,
			Settings: &tenant.Settings,
		},
		NextIDs: nextIDs,
	}

	for _, c := range customers {
		active := c.IsActive
		doc.Customers = append(doc.Customers, BackupCustomer{
			ID:                 c.ID,
			Number:             c.Number,
			Name:               c.Name,
			Category:           string(c.Category),
			Email:              c.Email,
			Phone:              c.Phone,
			TaxPin:             c.TaxPin,
			Address:            c.Address,
			OutstandingBalance: c.OutstandingBalance,
			IsActive:           &active,
		})
	}
	for _, p := range products {
		active := p.IsActive
		doc.Products = append(doc.Products, BackupProduct{
			ID:           p.ID,
			Number:       p.Number,
			Name:         p.Name,
			Code:         p.Code,
			Unit:         p.Unit,
			SellingPrice: p.SellingPrice,
			Provenance:   p.Provenance,
			IsActive:     &active,
		})
	}
	for _, t := range transactions {
		bt := BackupTransaction{
			ID:               t.ID,
			CustomerID:       t.CustomerID,
			Type:             string(t.Type),
			Date:             t.Date,
			InvoiceNo:        t.InvoiceNo,
			TotalAmount:      t.TotalAmount,
			TaxAmount:        t.TaxAmount,
			SettledPaymentID: t.SettledPaymentID,
			SettledByID:      t.SettledByID,
			Notes:            t.Notes,
			Items:            make([]BackupTransactionItem, 0, len(t.Items)),
		}
		for _, item := range t.Items {
			bt.Items = append(bt.Items, BackupTransactionItem{
				ID:          item.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Unit:        item.Unit,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				LineTotal:   item.LineTotal,
			})
		}
		doc.Transactions = append(doc.Transactions, bt)
	}
	for _, p := range prices {
		doc.CustomerProductPrices = append(doc.CustomerProductPrices, BackupPrice{
			ID:         p.ID,
			CustomerID: p.CustomerID,
			ProductID:  p.ProductID,
			UnitPrice:  p.UnitPrice,
		})
	}

	doc.Metadata = BackupMetadata{
		BackupDate:   time.Now().UTC(),
		Version:      BackupFormatVersion,
		TotalRecords: len(doc.Customers) + len(doc.Products) + len(doc.Transactions) + len(doc.CustomerProductPrices),
		AppVersion:   s.appVersion,
	}
	return doc, nil
}

// ExportToFile writes the tenant's backup document to a timestamped file
// under dir, returning the file path.
func (s *BackupService) ExportToFile(ctx context.Context, dir string) (string, error) {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return "", err
	}

	doc, err := s.Export(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", apperror.NewStorageError(err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperror.NewStorageError(err)
	}
	name := fmt.Sprintf("backup_%s_%s.json", tenantID, time.Now().UTC().Format("20060102T150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperror.NewStorageError(err)
	}
	return path, nil
}

// Restore replaces the tenant's entire data set with the document's
// contents in one database transaction. Old documents are migrated on the
// way in: missing active flags default to true, missing product units to
// the default unit, and inventory is rebuilt from the transactions.
func (s *BackupService) Restore(ctx context.Context, doc *BackupDocument) error {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return err
	}
	if err := s.validateDocument(doc); err != nil {
		return err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.backupRepo.Wipe(ctx); err != nil {
			return err
		}

		for _, bc := range doc.Customers {
			customer := &entity.Customer{
				ID:                 bc.ID,
				TenantID:           tenantID,
				Number:             bc.Number,
				Name:               bc.Name,
				Category:           migrateCategory(bc.Category),
				Email:              bc.Email,
				Phone:              bc.Phone,
				TaxPin:             bc.TaxPin,
				Address:            bc.Address,
				OutstandingBalance: bc.OutstandingBalance,
				IsActive:           migrateActive(bc.IsActive),
			}
			if err := s.customerRepo.Create(ctx, customer); err != nil {
				return err
			}
		}

		for _, bp := range doc.Products {
			unit := bp.Unit
			if unit == "" {
				unit = entity.DefaultProductUnit
			}
			product := &entity.Product{
				ID:           bp.ID,
				TenantID:     tenantID,
				Number:       bp.Number,
				Name:         bp.Name,
				Code:         bp.Code,
				Unit:         unit,
				SellingPrice: bp.SellingPrice,
				Provenance:   bp.Provenance,
				IsActive:     migrateActive(bp.IsActive),
			}
			if err := s.productRepo.Create(ctx, product); err != nil {
				return err
			}
		}

		for _, bp := range doc.CustomerProductPrices {
			price := &entity.CustomerProductPrice{
				ID:         bp.ID,
				TenantID:   tenantID,
				CustomerID: bp.CustomerID,
				ProductID:  bp.ProductID,
				UnitPrice:  bp.UnitPrice,
			}
			if err := s.priceRepo.Upsert(ctx, price); err != nil {
				return err
			}
		}

		for _, bt := range doc.Transactions {
			txn := &entity.Transaction{
				ID:               bt.ID,
				TenantID:         tenantID,
				CustomerID:       bt.CustomerID,
				Type:             enum.TransactionType(bt.Type),
				Date:             bt.Date,
				InvoiceNo:        bt.InvoiceNo,
				TotalAmount:      bt.TotalAmount,
				TaxAmount:        bt.TaxAmount,
				SettledPaymentID: bt.SettledPaymentID,
				SettledByID:      bt.SettledByID,
				Notes:            bt.Notes,
				Items:            make([]entity.TransactionItem, 0, len(bt.Items)),
			}
			for _, item := range bt.Items {
				unit := item.Unit
				if unit == "" {
					unit = entity.DefaultProductUnit
				}
				txn.Items = append(txn.Items, entity.TransactionItem{
					ID:          item.ID,
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Unit:        unit,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
					LineTotal:   item.LineTotal,
				})
			}
			if err := s.transactionRepo.Create(ctx, txn); err != nil {
				return err
			}
		}

		// The document carries no movement log; rebuild inventory by
		// replaying the restored transactions.
		for _, bt := range doc.Transactions {
			txnType := enum.TransactionType(bt.Type)
			if !txnType.AffectsInventory() {
				continue
			}
			sign := decimal.NewFromInt(int64(txnType.StockSign()))
			for _, item := range bt.Items {
				delta := item.Quantity.Mul(sign)
				movement := &entity.StockMovement{
					TenantID:      tenantID,
					ProductID:     item.ProductID,
					TransactionID: bt.ID,
					Delta:         delta,
					Reason:        enum.MovementReasonRestore,
				}
				if err := s.inventory.inventoryRepo.AppendMovement(ctx, movement); err != nil {
					return err
				}
				if err := s.inventory.inventoryRepo.ApplyDelta(ctx, item.ProductID, delta); err != nil {
					return err
				}
			}
		}

		if err := s.seqRepo.Restore(ctx, s.migrateNextIDs(doc)); err != nil {
			return err
		}

		if doc.Company.Name != "" || doc.Company.Settings != nil {
			tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
			if err != nil {
				return err
			}
			if tenant != nil {
				if doc.Company.Name != "" {
					tenant.Name = doc.Company.Name
				}
				if doc.Company.Settings != nil {
					tenant.Settings = *doc.Company.Settings
				}
				if err := s.tenantRepo.Update(ctx, tenant); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return apperror.GetAppError(err)
	}
	return nil
}

func (s *BackupService) validateDocument(doc *BackupDocument) error {
	if doc == nil {
		return apperror.NewBadRequestError("Backup document is empty")
	}
	if doc.Metadata.Version > BackupFormatVersion {
		return apperror.NewBadRequestError("Backup document is from a newer version")
	}
	customers := make(map[uuid.UUID]bool, len(doc.Customers))
	for _, c := range doc.Customers {
		if c.ID == uuid.Nil || c.Name == "" {
			return apperror.NewBadRequestError("Backup document has an invalid customer")
		}
		customers[c.ID] = true
	}
	products := make(map[uuid.UUID]bool, len(doc.Products))
	for _, p := range doc.Products {
		if p.ID == uuid.Nil || p.Name == "" || p.Code == "" {
			return apperror.NewBadRequestError("Backup document has an invalid product")
		}
		products[p.ID] = true
	}
	for _, t := range doc.Transactions {
		if t.ID == uuid.Nil || !enum.TransactionType(t.Type).IsValid() {
			return apperror.NewBadRequestError("Backup document has an invalid transaction")
		}
		if !customers[t.CustomerID] {
			return apperror.NewBadRequestError("Backup transaction references an unknown customer")
		}
		for _, item := range t.Items {
			if !products[item.ProductID] {
				return apperror.NewBadRequestError("Backup transaction references an unknown product")
			}
		}
	}
	return nil
}

// migrateNextIDs fills counters missing from old documents so numbering
// never regresses below what the restored rows already use.
func (s *BackupService) migrateNextIDs(doc *BackupDocument) map[string]int64 {
	next := make(map[string]int64, 3)
	for kind, n := range doc.NextIDs {
		next[kind] = n
	}

	ensure := func(kind string, floor int64) {
		if next[kind] < floor {
			next[kind] = floor
		}
	}
	var maxCustomer, maxProduct int64
	for _, c := range doc.Customers {
		if c.Number > maxCustomer {
			maxCustomer = c.Number
		}
	}
	for _, p := range doc.Products {
		if p.Number > maxProduct {
			maxProduct = p.Number
		}
	}
	ensure(entity.SequenceKindCustomer, maxCustomer+1)
	ensure(entity.SequenceKindProduct, maxProduct+1)
	ensure(entity.SequenceKindInvoice, int64(len(doc.Transactions))+1)
	return next
}

func migrateActive(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

func migrateCategory(v string) enum.CustomerCategory {
	category := enum.CustomerCategory(v)
	if !category.IsValid() {
		return enum.CustomerCategoryCustomer
	}
	return category
}
