package service

import (
	"context"

	"github.com/dukani/erp-api/internal/domain/entity"
	"github.com/dukani/erp-api/internal/domain/repository"
	"github.com/dukani/erp-api/pkg/apperror"
	"github.com/dukani/erp-api/pkg/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token refresh
type AuthService struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	txManager  repository.TxManager
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	txManager repository.TxManager,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		txManager:  txManager,
		jwtManager: jwtManager,
	}
}

// RegisterInput represents the registration input
type RegisterInput struct {
	CompanyName string
	FirstName   string
	LastName    string
	Email       string
	Password    string
}

// AuthResult bundles the authenticated user with issued tokens.
type AuthResult struct {
	User         *entity.User   `json:"user"`
	Tenant       *entity.Tenant `json:"tenant"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
}

// Register creates a tenant for the company and its first user account.
// Both rows commit together.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}

	tenant := &entity.Tenant{
		Name:     input.CompanyName,
		Slug:     utils.Slugify(input.CompanyName),
		Settings: entity.DefaultTenantSettings(),
	}
	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  string(hashed),
		IsActive:  true,
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if slugTaken, err := s.tenantRepo.GetBySlug(ctx, tenant.Slug); err != nil {
			return err
		} else if slugTaken != nil {
			return apperror.NewConflictError("Company name already in use")
		}
		if err := s.tenantRepo.Create(ctx, tenant); err != nil {
			return err
		}
		user.TenantID = tenant.ID
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, apperror.GetAppError(err)
	}

	return s.issueTokens(user, tenant)
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	tenant, err := s.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if tenant == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(user, tenant)
}

// Refresh exchanges a valid refresh token for a fresh token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if user == nil || !user.IsActive {
		return nil, apperror.ErrInvalidToken
	}

	tenant, err := s.tenantRepo.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if tenant == nil {
		return nil, apperror.ErrInvalidToken
	}

	return s.issueTokens(user, tenant)
}

// CurrentUser loads the authenticated user's profile.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *entity.User, tenant *entity.Tenant) (*AuthResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, tenant.ID, user.Email)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperror.NewStorageError(err)
	}
	return &AuthResult{
		User:         user,
		Tenant:       tenant,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
