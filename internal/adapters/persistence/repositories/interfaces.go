package repositories

import (
	"context"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
)

// EmployeeRepository defines employee repository interface
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uint) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Employee, int64, error)
	ListSubordinates(ctx context.Context, managerID uint) ([]*models.Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]*models.Employee, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByEmployeeID(ctx context.Context, employeeID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}
