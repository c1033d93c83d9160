package service

import (
	"context"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/domain/enum"
	"github.com/dukani/erp-api/internal/domain/repository"
	infraRepo "github.com/dukani/erp-api/internal/infrastructure/repository"
	"github.com/dukani/erp-api/pkg/apperror"
	"github.com/dukani/erp-api/pkg/pagination"
	"github.com/google/uuid"
)

// CustomerService handles customer and supplier operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	priceRepo    repository.PriceRepository
	seqRepo      repository.SequenceRepository
	txManager    repository.TxManager
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	priceRepo repository.PriceRepository,
	seqRepo repository.SequenceRepository,
	txManager repository.TxManager,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		priceRepo:    priceRepo,
		seqRepo:      seqRepo,
		txManager:    txManager,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name     string
	Category enum.CustomerCategory
	Email    *string
	Phone    *string
	TaxPin   *string
	Address  *string
}

// CreateCustomer creates a new customer or supplier with a fresh number
// from the tenant's counter.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if input.Category == "" {
		input.Category = enum.CustomerCategoryCustomer
	}
	if !input.Category.IsValid() {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "category", Message: "Unknown category"})
	}

	customer := &entity.Customer{
		TenantID: tenantID,
		Name:     input.Name,
		Category: input.Category,
		Email:    input.Email,
		Phone:    input.Phone,
		TaxPin:   input.TaxPin,
		Address:  input.Address,
		IsActive: true,
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		number, err := s.seqRepo.Next(ctx, entity.SequenceKindCustomer)
		if err != nil {
			return err
		}
		customer.Number = number
		return s.customerRepo.Create(ctx, customer)
	})
	if err != nil {
		return nil, apperror.GetAppError(err)
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomerInput represents the update customer input. Nil fields are
// left unchanged; the outstanding balance is never writable here.
type UpdateCustomerInput struct {
	Name     *string
	Category *enum.CustomerCategory
	Email    *string
	Phone    *string
	TaxPin   *string
	Address  *string
	IsActive *bool
}

// UpdateCustomer modifies an existing customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewValidationError(apperror.FieldError{Field: "name", Message: "Name is required"})
		}
		customer.Name = *input.Name
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, apperror.NewValidationError(apperror.FieldError{Field: "category", Message: "Unknown category"})
		}
		customer.Category = *input.Category
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.TaxPin != nil {
		customer.TaxPin = input.TaxPin
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer. Deletion is blocked while any ledger
// transaction still references the customer; those must be deleted first so
// balances and history stay consistent.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.customerRepo.CountTransactions(ctx, customer.ID)
	if err != nil {
		return apperror.NewStorageError(err)
	}
	if count > 0 {
		return apperror.NewConflictError("Customer has transactions and cannot be deleted")
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		prices, err := s.priceRepo.ListByCustomer(ctx, customer.ID)
		if err != nil {
			return err
		}
		for _, price := range prices {
			if err := s.priceRepo.Delete(ctx, price.ID); err != nil {
				return err
			}
		}
		return s.customerRepo.Delete(ctx, customer.ID)
	})
	if err != nil {
		return apperror.GetAppError(err)
	}
	return nil
}

// ListCustomers lists customers with filtering and pagination
func (s *CustomerService) ListCustomers(ctx context.Context, params *repository.CustomerFilterParams) (*pagination.PaginatedResult[entity.Customer], error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{}
	}
	customers, total, err := s.customerRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return pagination.NewPaginatedResult(customers, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// SetPrice records a negotiated unit price for a customer and product.
func (s *CustomerService) SetPrice(ctx context.Context, customerID, productID uuid.UUID, unitPrice int64) (*entity.CustomerProductPrice, error) {
	tenantID, err := infraRepo.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if unitPrice < 0 {
		return nil, apperror.NewValidationError(apperror.FieldError{Field: "unit_price", Message: "Price cannot be negative"})
	}
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	price := &entity.CustomerProductPrice{
		TenantID:   tenantID,
		CustomerID: customerID,
		ProductID:  productID,
		UnitPrice:  unitPrice,
	}
	if err := s.priceRepo.Upsert(ctx, price); err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return price, nil
}

// ListPrices returns a customer's negotiated prices.
func (s *CustomerService) ListPrices(ctx context.Context, customerID uuid.UUID) ([]entity.CustomerProductPrice, error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	prices, err := s.priceRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return prices, nil
}
