// Package backup runs the debounced auto-backup worker. Ledger mutations
// notify it; it coalesces bursts into at most one export per quiet period
// and never blocks or fails the operation that triggered it.
package backup

import (
	"context"
	"sync"
	"time"

	"github.com/dukani/erp-api/internal/application/service"
	infraRepo "github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/dukani/erp-api/pkg/logger"
	"github.com/google/uuid"
)

// Scheduler debounces backup requests per tenant. Each Notify resets the
// tenant's timer; the export runs only after the quiet period passes with
// no further mutations.
type Scheduler struct {
	backups     *service.BackupService
	log         *logger.Logger
	dir         string
	quietPeriod time.Duration

	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
	closed bool
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler writing exports under dir.
func NewScheduler(backups *service.BackupService, log *logger.Logger, dir string, quietPeriod time.Duration) *Scheduler {
	return &Scheduler{
		backups:     backups,
		log:         log,
		dir:         dir,
		quietPeriod: quietPeriod,
		timers:      make(map[uuid.UUID]*time.Timer),
	}
}

// Notify schedules a backup for the tenant after the quiet period. Calls
// during the quiet period push the deadline out; a burst of mutations
// produces one export.
func (s *Scheduler) Notify(tenantID uuid.UUID) {
	if tenantID == uuid.Nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if timer, ok := s.timers[tenantID]; ok {
		timer.Reset(s.quietPeriod)
		return
	}
	s.wg.Add(1)
	s.timers[tenantID] = time.AfterFunc(s.quietPeriod, func() {
		defer s.wg.Done()
		s.mu.Lock()
		delete(s.timers, tenantID)
		s.mu.Unlock()
		s.run(tenantID)
	})
}

// Close stops pending timers and waits for in-flight exports to finish.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	for tenantID, timer := range s.timers {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, tenantID)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) run(tenantID uuid.UUID) {
	ctx := infraRepo.WithTenant(context.Background(), tenantID)
	ctx = s.log.WithField(ctx, "tenant_id", tenantID.String())

	path, err := s.backups.ExportToFile(ctx, s.dir)
	if err != nil {
		// Auto-backup is best effort; the mutation that triggered it has
		// already committed.
		s.log.Error(ctx, "auto backup failed", err)
		return
	}
	s.log.Info(s.log.WithField(ctx, "path", path), "auto backup written")
}
