package repository

import (
	"context"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

// SequenceRepository hands out per-tenant monotonic counters.
type SequenceRepository interface {
	// Next returns the current counter value for kind and advances it.
	Next(ctx context.Context, kind string) (int64, error)
	// Snapshot returns every counter's next value, keyed by kind.
	Snapshot(ctx context.Context) (map[string]int64, error)
	// Restore replaces the tenant's counters with the given next values.
	Restore(ctx context.Context, next map[string]int64) error
}

// IdempotencyRepository stores processed request keys.
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context) error
}
