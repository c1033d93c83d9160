package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dukani/erp-api/internal/application/service"
	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/infrastructure/database"
	infraRepo "github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/dukani/erp-api/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newBackupService(t *testing.T) (*service.BackupService, *entity.Tenant) {
	t.Helper()

	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	tenantRepo := infraRepo.NewTenantRepository(db)
	tenant := &entity.Tenant{
		Name:     "Acme Traders",
		Slug:     "acme-traders-" + uuid.NewString()[:8],
		Settings: entity.DefaultTenantSettings(),
	}
	require.NoError(t, tenantRepo.Create(context.Background(), tenant))

	customerRepo := infraRepo.NewCustomerRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	inventoryRepo := infraRepo.NewInventoryRepository(db)
	inventory := service.NewInventoryService(inventoryRepo, productRepo)

	backups := service.NewBackupService(
		customerRepo, productRepo,
		infraRepo.NewTransactionRepository(db), infraRepo.NewPriceRepository(db),
		tenantRepo, infraRepo.NewSequenceRepository(db), infraRepo.NewBackupRepository(db),
		inventory, infraRepo.NewTxManager(db), "test",
	)
	return backups, tenant
}

func backupFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "backup_*.json"))
	require.NoError(t, err)
	return matches
}

func TestSchedulerCoalescesBursts(t *testing.T) {
	backups, tenant := newBackupService(t)
	dir := t.TempDir()

	scheduler := NewScheduler(backups, logger.Nop(), dir, 50*time.Millisecond)
	defer scheduler.Close()

	for i := 0; i < 10; i++ {
		scheduler.Notify(tenant.ID)
	}

	require.Eventually(t, func() bool {
		return len(backupFiles(t, dir)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Give a stray second export time to land if one was scheduled.
	time.Sleep(150 * time.Millisecond)
	files := backupFiles(t, dir)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Acme Traders")
}

func TestSchedulerSeparateBurstsSeparateExports(t *testing.T) {
	backups, tenant := newBackupService(t)
	dir := t.TempDir()

	scheduler := NewScheduler(backups, logger.Nop(), dir, 20*time.Millisecond)
	defer scheduler.Close()

	scheduler.Notify(tenant.ID)
	require.Eventually(t, func() bool {
		return len(backupFiles(t, dir)) == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Exported filenames carry a second-resolution timestamp; step past it
	// so the second export gets its own name.
	time.Sleep(1100 * time.Millisecond)

	scheduler.Notify(tenant.ID)
	require.Eventually(t, func() bool {
		return len(backupFiles(t, dir)) == 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSchedulerClose(t *testing.T) {
	backups, tenant := newBackupService(t)
	dir := t.TempDir()

	scheduler := NewScheduler(backups, logger.Nop(), dir, time.Hour)
	scheduler.Notify(tenant.ID)
	scheduler.Close()

	assert.Empty(t, backupFiles(t, dir))

	// Notify after Close is a no-op.
	scheduler.Notify(tenant.ID)
	assert.Empty(t, backupFiles(t, dir))
}

func TestSchedulerIgnoresNilTenant(t *testing.T) {
	backups, _ := newBackupService(t)
	dir := t.TempDir()

	scheduler := NewScheduler(backups, logger.Nop(), dir, 10*time.Millisecond)
	defer scheduler.Close()

	scheduler.Notify(uuid.Nil)
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, backupFiles(t, dir))
}
