package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dukani/erp-api/internal/domain/entity"
	domainRepo "github.com/dukani/erp-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) domainRepo.TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *entity.Tenant) error {
	return conn(ctx, r.db).Create(tenant).Error
}

func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	var tenant entity.Tenant
	err := conn(ctx, r.db).First(&tenant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tenant, err
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	var tenant entity.Tenant
	err := conn(ctx, r.db).First(&tenant, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tenant, err
}

func (r *tenantRepository) Update(ctx context.Context, tenant *entity.Tenant) error {
	return conn(ctx, r.db).Save(tenant).Error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return conn(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := conn(ctx, r.db).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := conn(ctx, r.db).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return conn(ctx, r.db).Save(user).Error
}

type sequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository(db *gorm.DB) domainRepo.SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) Next(ctx context.Context, kind string) (int64, error) {
	tenantID, err := RequireTenant(ctx)
	if err != nil {
		return 0, err
	}
	db := conn(ctx, r.db)

	var seq entity.Sequence
	findErr := db.Scopes(TenantScope(ctx)).First(&seq, "kind = ?", kind).Error
	if errors.Is(findErr, gorm.ErrRecordNotFound) {
		seq = entity.Sequence{TenantID: tenantID, Kind: kind, Next: 2}
		if err := db.Create(&seq).Error; err != nil {
			return 0, err
		}
		return 1, nil
	}
	if findErr != nil {
		return 0, findErr
	}

	n := seq.Next
	seq.Next = n + 1
	if err := db.Save(&seq).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *sequenceRepository) Snapshot(ctx context.Context) (map[string]int64, error) {
	var seqs []entity.Sequence
	if err := conn(ctx, r.db).Scopes(TenantScope(ctx)).Find(&seqs).Error; err != nil {
		return nil, err
	}
	next := make(map[string]int64, len(seqs))
	for _, s := range seqs {
		next[s.Kind] = s.Next
	}
	return next, nil
}

func (r *sequenceRepository) Restore(ctx context.Context, next map[string]int64) error {
	tenantID, err := RequireTenant(ctx)
	if err != nil {
		return err
	}
	db := conn(ctx, r.db)

	if err := db.Scopes(TenantScope(ctx)).Where("1 = 1").Delete(&entity.Sequence{}).Error; err != nil {
		return err
	}
	for kind, n := range next {
		seq := entity.Sequence{TenantID: tenantID, Kind: kind, Next: n}
		if err := db.Create(&seq).Error; err != nil {
			return err
		}
	}
	return nil
}

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := conn(ctx, r.db).First(&ikey, "key = ? AND user_id = ?", key, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return conn(ctx, r.db).Create(ikey).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	return conn(ctx, r.db).Where("expires_at < ?", time.Now()).Delete(&entity.IdempotencyKey{}).Error
}
