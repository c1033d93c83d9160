package service

import (
	"context"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/domain/repository"
	infraRepo "github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/dukani/erp-api/pkg/apperror"
	"github.com/dukani/erp-api/pkg/pagination"
	"github.com/google/uuid"
)

// ProductService handles product catalogue operations
type ProductService struct {
	productRepo   repository.ProductRepository
	inventoryRepo repository.InventoryRepository
	seqRepo       repository.SequenceRepository
	txManager     repository.TxManager
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	inventoryRepo repository.InventoryRepository,
	seqRepo repository.SequenceRepository,
	txManager repository.TxManager,
) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		seqRepo:       seqRepo,
		txManager:     txManager,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name         string
	Code         string
	Unit         string
	SellingPrice int64
	Provenance   *string
}

// CreateProduct creates a new product. The code must be unique within the
// tenant; stock starts tracked only once the first movement lands.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if input.Code == "" {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "code", Message: "Code is required"})
	}
	if input.SellingPrice < 0 {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "selling_price", Message: "Price cannot be negative"})
	}
	if input.Unit == "" {
		input.Unit = entity.DefaultProductUnit
	}

	existing, err := s.productRepo.GetByCode(ctx, input.Code)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code already in use")
	}

	product := &entity.Product{
		TenantID:     tenantID,
		Name:         input.Name,
		Code:         input.Code,
		Unit:         input.Unit,
		SellingPrice: input.SellingPrice,
		Provenance:   input.Provenance,
		IsActive:     true,
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		number, err := s.seqRepo.Next(ctx, entity.SequenceKindProduct)
		if err != nil {
			return err
		}
		product.Number = number
		return s.productRepo.Create(ctx, product)
	})
	if err != nil {
		return nil, apperror.GetAppError(err)
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name         *string
	Code         *string
	Unit         *string
	SellingPrice *int64
	Provenance   *string
	IsActive     *bool
}

// UpdateProduct modifies an existing product. Item snapshots on past
// transactions keep their original name and unit.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewValidationError(apperror.FieldError{Field: "name", Message: "Name is required"})
		}
		product.Name = *input.Name
	}
	if input.Code != nil && *input.Code != product.Code {
		if *input.Code == "" {
			return nil, apperror.NewValidationError(apperror.FieldError{Field: "code", Message: "Code is required"})
		}
		existing, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, apperror.NewStorageError(err)
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Product code already in use")
		}
		product.Code = *input.Code
	}
	if input.Unit != nil && *input.Unit != "" {
		product.Unit = *input.Unit
	}
	if input.SellingPrice != nil {
		if *input.SellingPrice < 0 {
			return nil, apperror.NewValidationError(apperror.FieldError{Field: "selling_price", Message: "Price cannot be negative"})
		}
		product.SellingPrice = *input.SellingPrice
	}
	if input.Provenance != nil {
		product.Provenance = input.Provenance
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return product, nil
}

// DeleteProduct removes a product together with its inventory record and
// movement history, as one unit. Transaction item snapshots survive.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.inventoryRepo.DeleteByProduct(ctx, product.ID); err != nil {
			return err
		}
		return s.productRepo.Delete(ctx, product.ID)
	})
	if err != nil {
		return apperror.GetAppError(err)
	}
	return nil
}

// ListProducts lists products with filtering and pagination
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return pagination.NewPaginatedResult(products, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}
