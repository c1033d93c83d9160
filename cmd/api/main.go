package main

import (
	"log"
	"os"

	"github.com/dukani/erp-api/internal/application/backup"
	"github.com/dukani/erp-api/internal/application/service"
	"github.com/dukani/erp-api/internal/config"
	"github.com/dukani/erp-api/internal/infrastructure/database"
	"github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/dukani/erp-api/internal/presentation/http/handler"
	"github.com/dukani/erp-api/internal/presentation/http/routes"
	"github.com/dukani/erp-api/pkg/logger"
	"github.com/dukani/erp-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.App.Name,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	backupRepo := repository.NewBackupRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, tenantRepo, txManager, jwtManager)
	tenantService := service.NewTenantService(tenantRepo)
	customerService := service.NewCustomerService(customerRepo, priceRepo, sequenceRepo, txManager)
	productService := service.NewProductService(productRepo, inventoryRepo, sequenceRepo, txManager)
	inventoryService := service.NewInventoryService(inventoryRepo, productRepo)
	backupService := service.NewBackupService(
		customerRepo, productRepo, transactionRepo, priceRepo,
		tenantRepo, sequenceRepo, backupRepo, inventoryService,
		txManager, cfg.App.Version,
	)

	// The scheduler coalesces ledger mutations into at most one backup
	// export per quiet period.
	var notifier service.BackupNotifier
	var scheduler *backup.Scheduler
	if cfg.Backup.AutoEnabled {
		scheduler = backup.NewScheduler(backupService, appLogger, cfg.Backup.Path, cfg.Backup.QuietPeriod)
		defer scheduler.Close()
		notifier = scheduler
	}

	ledgerService := service.NewLedgerService(
		transactionRepo, customerRepo, productRepo, sequenceRepo,
		tenantRepo, inventoryService, txManager, notifier,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Tenant:      handler.NewTenantHandler(tenantService),
		Customer:    handler.NewCustomerHandler(customerService),
		Product:     handler.NewProductHandler(productService),
		Transaction: handler.NewTransactionHandler(ledgerService),
		Inventory:   handler.NewInventoryHandler(inventoryService),
		Report:      handler.NewReportHandler(ledgerService),
		Backup:      handler.NewBackupHandler(backupService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Log:             appLogger,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	log.Printf("Starting %s on port %s", cfg.App.Name, port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
