package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/config"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/jwt"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthService handles login, token refresh and logout. Refresh tokens are
// stored hashed and rotated on every refresh: a presented token is revoked
// before its replacement is issued.
type AuthService struct {
	employeeRepo repositories.EmployeeRepository
	tokenRepo    repositories.RefreshTokenRepository
	jwtConfig    config.JWTConfig
	log          *logrus.Entry
}

// NewAuthService creates a new auth service
func NewAuthService(employeeRepo repositories.EmployeeRepository, tokenRepo repositories.RefreshTokenRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		tokenRepo:    tokenRepo,
		jwtConfig:    jwtConfig,
		log:          logrus.WithField("service", "auth"),
	}
}

// LoginInput holds login request data
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair holds the issued tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // access token lifetime in seconds
}

// LoginResponse bundles tokens with the authenticated employee
type LoginResponse struct {
	Tokens   *TokenPair               `json:"tokens"`
	Employee *models.EmployeeResponse `json:"employee"`
}

// Login authenticates an employee by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResponse, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	employee, err := s.employeeRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !employee.IsActive {
		return nil, domain.ErrEmployeeInactive
	}
	if !password.Verify(input.Password, employee.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, employee)
	if err != nil {
		return nil, err
	}

	s.log.WithField("employee_id", employee.ID).Info("employee logged in")

	return &LoginResponse{
		Tokens:   tokens,
		Employee: employee.ToResponse(),
	}, nil
}

// Refresh rotates a refresh token: validates it, revokes it, and issues a
// fresh pair. A revoked or expired token is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.jwtConfig.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	stored, err := s.tokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenRevoked
		}
		return nil, err
	}
	if stored.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	employee, err := s.employeeRepo.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	if !employee.IsActive {
		return nil, domain.ErrEmployeeInactive
	}

	// rotate: old token dies before the new one is born
	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, employee)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// LogoutAll revokes every refresh token the employee holds
func (s *AuthService) LogoutAll(ctx context.Context, employeeID uint) error {
	s.log.WithField("employee_id", employeeID).Info("revoking all sessions")
	return s.tokenRepo.RevokeAllByEmployeeID(ctx, employeeID)
}

// Me returns the authenticated employee's profile
func (s *AuthService) Me(ctx context.Context, employeeID uint) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

// issueTokens generates an access/refresh pair and stores the refresh
// token's hash
func (s *AuthService) issueTokens(ctx context.Context, employee *models.Employee) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		employee.ID,
		employee.Email,
		employee.FullName(),
		string(employee.Role),
		s.jwtConfig.Secret,
		s.jwtConfig.AccessTokenMins,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		employee.ID,
		uuid.NewString(),
		s.jwtConfig.RefreshSecret,
		s.jwtConfig.RefreshTokenDays,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.tokenRepo.Create(ctx, &models.RefreshToken{
		EmployeeID: employee.ID,
		TokenHash:  password.HashToken(refreshToken),
		ExpiresAt:  jwt.GetExpiryTime(s.jwtConfig.RefreshTokenDays),
	}); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwtConfig.AccessTokenMins * 60,
	}, nil
}
