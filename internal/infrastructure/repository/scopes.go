package repository

import (
	"context"

	"github.com/dukani/erp-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

// TenantIDKey is the context key for the active tenant id.
const TenantIDKey ctxKey = "tenant_id"

// WithTenant returns a context carrying the active tenant id. This is the
// only way a tenant namespace is selected; there is no ambient default.
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// GetTenantID extracts the tenant id from the context.
func GetTenantID(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok && tenantID != uuid.Nil
}

// RequireTenant extracts the tenant id or fails with the fatal precondition
// error. Repositories and services must never fall back to a default.
func RequireTenant(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := GetTenantID(ctx)
	if !ok {
		return uuid.Nil, apperror.ErrTenantRequired
	}
	return tenantID, nil
}

// TenantScope filters a query to the tenant in the context. If the context
// has no tenant the query matches nothing; failing closed here prevents
// accidental cross-tenant reads even if a caller forgot RequireTenant.
func TenantScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		tenantID, ok := GetTenantID(ctx)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}
