package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/dukani/erp-api/internal/domain/repository"
	"github.com/dukani/erp-api/internal/infrastructure/database"
	infraRepo "github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

type testEnv struct {
	ctx    context.Context
	db     *gorm.DB
	tenant *entity.Tenant

	customers *CustomerService
	products  *ProductService
	inventory *InventoryService
	ledger    *LedgerService
	backups   *BackupService

	customerRepo    repository.CustomerRepository
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	inventoryRepo   repository.InventoryRepository
	tenantRepo      repository.TenantRepository
	seqRepo         repository.SequenceRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	txManager := infraRepo.NewTxManager(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	priceRepo := infraRepo.NewPriceRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	transactionRepo := infraRepo.NewTransactionRepository(db)
	inventoryRepo := infraRepo.NewInventoryRepository(db)
	tenantRepo := infraRepo.NewTenantRepository(db)
	seqRepo := infraRepo.NewSequenceRepository(db)
	backupRepo := infraRepo.NewBackupRepository(db)

	tenant := &entity.Tenant{
		Name:     "Acme Traders",
		Slug:     "acme-traders-" + uuid.NewString()[:8],
		Settings: entity.DefaultTenantSettings(),
	}
	require.NoError(t, tenantRepo.Create(context.Background(), tenant))
	ctx := infraRepo.WithTenant(context.Background(), tenant.ID)

	inventory := NewInventoryService(inventoryRepo, productRepo)
	backups := NewBackupService(
		customerRepo, productRepo, transactionRepo, priceRepo,
		tenantRepo, seqRepo, backupRepo, inventory, txManager, "test",
	)

	return &testEnv{
		ctx:    ctx,
		db:     db,
		tenant: tenant,

		customers: NewCustomerService(customerRepo, priceRepo, seqRepo, txManager),
		products:  NewProductService(productRepo, inventoryRepo, seqRepo, txManager),
		inventory: inventory,
		ledger: NewLedgerService(
			transactionRepo, customerRepo, productRepo, seqRepo,
			tenantRepo, inventory, txManager, nil,
		),
		backups: backups,

		customerRepo:    customerRepo,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		inventoryRepo:   inventoryRepo,
		tenantRepo:      tenantRepo,
		seqRepo:         seqRepo,
	}
}

func (e *testEnv) createCustomer(t *testing.T, name string) *entity.Customer {
	t.Helper()
	customer, err := e.customers.CreateCustomer(e.ctx, &CreateCustomerInput{Name: name})
	require.NoError(t, err)
	return customer
}

func (e *testEnv) createProduct(t *testing.T, name, code string, price int64) *entity.Product {
	t.Helper()
	product, err := e.products.CreateProduct(e.ctx, &CreateProductInput{
		Name:         name,
		Code:         code,
		SellingPrice: price,
	})
	require.NoError(t, err)
	return product
}

// recordSimple records a single-item sales or purchase transaction.
func (e *testEnv) recordSimple(t *testing.T, txnType enum.TransactionType, customerID, productID uuid.UUID, qty int64, unitPrice int64) *entity.Transaction {
	t.Helper()
	quantity := decimal.NewFromInt(qty)
	txn, err := e.ledger.RecordCreate(e.ctx, &RecordTransactionInput{
		Type:        txnType,
		CustomerID:  customerID,
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: qty * unitPrice,
		Items: []TransactionItemInput{
			{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice},
		},
	})
	require.NoError(t, err)
	return txn
}

// recordPayment records an itemless payment transaction.
func (e *testEnv) recordPayment(t *testing.T, customerID uuid.UUID, amount int64) *entity.Transaction {
	t.Helper()
	txn, err := e.ledger.RecordCreate(e.ctx, &RecordTransactionInput{
		Type:        enum.TransactionTypePayment,
		CustomerID:  customerID,
		Date:        time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		TotalAmount: amount,
	})
	require.NoError(t, err)
	return txn
}

func (e *testEnv) balance(t *testing.T, customerID uuid.UUID) int64 {
	t.Helper()
	customer, err := e.customerRepo.GetByID(e.ctx, customerID)
	require.NoError(t, err)
	require.NotNil(t, customer)
	return customer.OutstandingBalance
}

func (e *testEnv) stock(t *testing.T, productID uuid.UUID) decimal.Decimal {
	t.Helper()
	stock, err := e.inventory.GetStock(e.ctx, productID)
	require.NoError(t, err)
	return stock
}
