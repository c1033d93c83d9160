package repository

import (
	"context"
	"errors"

	"github.com/dukani/erp-api/internal/domain/entity"
	domainRepo "github.com/dukani/erp-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Scopes(TenantScope(ctx)).Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *domainRepo.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := conn(ctx, r.db).Model(&entity.Customer{}).Scopes(TenantScope(ctx))

	if params.Category != nil {
		query = query.Where("category = ?", *params.Category)
	}
	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if params.Search != "" {
		// LOWER + LIKE instead of ILIKE so the query behaves identically
		// on postgres and the sqlite test driver.
		pattern := "%" + params.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(COALESCE(email, '')) LIKE LOWER(?) OR LOWER(COALESCE(phone, '')) LIKE LOWER(?) OR LOWER(COALESCE(tax_pin, '')) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

func (r *customerRepository) ListAll(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).Order("created_at ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepository) CountTransactions(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Transaction{}).Scopes(TenantScope(ctx)).
		Where("customer_id = ?", id).
		Count(&count).Error
	return count, err
}

type priceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new customer product price repository
func NewPriceRepository(db *gorm.DB) domainRepo.PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) Upsert(ctx context.Context, price *entity.CustomerProductPrice) error {
	existing, err := r.GetForCustomerProduct(ctx, price.CustomerID, price.ProductID)
	if err != nil {
		return err
	}
	if existing != nil {
		existing.UnitPrice = price.UnitPrice
		*price = *existing
		return conn(ctx, r.db).Save(existing).Error
	}
	return conn(ctx, r.db).Create(price).Error
}

func (r *priceRepository) GetForCustomerProduct(ctx context.Context, customerID, productID uuid.UUID) (*entity.CustomerProductPrice, error) {
	var price entity.CustomerProductPrice
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		First(&price, "customer_id = ? AND product_id = ?", customerID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &price, err
}

func (r *priceRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CustomerProductPrice, error) {
	var prices []entity.CustomerProductPrice
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).
		Where("customer_id = ?", customerID).
		Find(&prices).Error
	return prices, err
}

func (r *priceRepository) ListAll(ctx context.Context) ([]entity.CustomerProductPrice, error) {
	var prices []entity.CustomerProductPrice
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).Find(&prices).Error
	return prices, err
}

func (r *priceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Scopes(TenantScope(ctx)).Delete(&entity.CustomerProductPrice{}, "id = ?", id).Error
}
