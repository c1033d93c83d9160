package service

import (
	"context"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/domain/repository"
	infraRepo "github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/dukani/erp-api/pkg/apperror"
)

// TenantService handles company profile and settings operations
type TenantService struct {
	tenantRepo repository.TenantRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo}
}

// GetCurrent returns the tenant resolved from the request context.
func (s *TenantService) GetCurrent(ctx context.Context) (*entity.Tenant, error) {
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
	return tenant, nil
}

// UpdateTenantInput represents the company profile update input
type UpdateTenantInput struct {
	Name     *string
	Settings *entity.TenantSettings
}

// Update modifies the company name or settings document.
func (s *TenantService) Update(ctx context.Context, input *UpdateTenantInput) (*entity.Tenant, error) {
	tenant, err := s.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewValidationError(apperror.FieldError{Field: "name", Message: "Name is required"})
		}
		tenant.Name = *input.Name
	}
	if input.Settings != nil {
		tenant.Settings = *input.Settings
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return tenant, nil
}
