package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/password"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EmployeeService handles the employee directory: profiles, the reporting
// hierarchy, and HR-only account management.
type EmployeeService struct {
	employeeRepo repositories.EmployeeRepository
	log          *logrus.Entry
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repositories.EmployeeRepository) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		log:          logrus.WithField("service", "employee"),
	}
}

// CreateEmployeeInput holds new-employee request data
type CreateEmployeeInput struct {
	FirstName          string `json:"first_name" validate:"required,max=100"`
	LastName           string `json:"last_name" validate:"required,max=100"`
	Department         string `json:"department" validate:"required,max=100"`
	Position           string `json:"position" validate:"max=100"`
	Country            string `json:"country" validate:"max=100"`
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"required,min=8"`
	Role               string `json:"role" validate:"required,oneof=Staff Manager HR"`
	ReportingManagerID *uint  `json:"reporting_manager"`
}

// GetByID returns one employee's profile
func (s *EmployeeService) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee, nil
}

// ListSubordinates returns the employees reporting directly to the actor.
// Only managers and HR have subordinates to list.
func (s *EmployeeService) ListSubordinates(ctx context.Context, actor Actor) ([]*models.Employee, error) {
	if !actor.Role.CanApprove() {
		return nil, domain.ErrAuthorization
	}
	return s.employeeRepo.ListSubordinates(ctx, actor.ID)
}

// ListColleagues returns the actor's peers: employees sharing the actor's
// reporting manager, or the actor's department when they have no manager.
// The actor themself is excluded.
func (s *EmployeeService) ListColleagues(ctx context.Context, actor Actor) ([]*models.Employee, error) {
	self, err := s.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	var peers []*models.Employee
	if self.ReportingManagerID != nil {
		peers, err = s.employeeRepo.ListSubordinates(ctx, *self.ReportingManagerID)
	} else {
		peers, err = s.employeeRepo.ListByDepartment(ctx, self.Department)
	}
	if err != nil {
		return nil, err
	}

	colleagues := make([]*models.Employee, 0, len(peers))
	for _, peer := range peers {
		if peer.ID != actor.ID {
			colleagues = append(colleagues, peer)
		}
	}
	return colleagues, nil
}

// Create registers a new employee account. HR only.
func (s *EmployeeService) Create(ctx context.Context, actor Actor, input *CreateEmployeeInput) (*models.Employee, error) {
	if actor.Role != domain.RoleHR {
		return nil, domain.ErrAuthorization
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	exists, err := s.employeeRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}

	if input.ReportingManagerID != nil {
		manager, err := s.employeeRepo.GetByID(ctx, *input.ReportingManagerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: reporting manager not found", domain.ErrValidation)
			}
			return nil, err
		}
		if !manager.Role.CanApprove() {
			return nil, fmt.Errorf("%w: reporting manager must hold the Manager or HR role", domain.ErrValidation)
		}
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	employee := &models.Employee{
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Department:         input.Department,
		Position:           input.Position,
		Country:            input.Country,
		Email:              input.Email,
		Password:           hashed,
		Role:               domain.Role(input.Role),
		ReportingManagerID: input.ReportingManagerID,
		IsActive:           true,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"employee_id": employee.ID,
		"created_by":  actor.ID,
	}).Info("employee created")

	return employee, nil
}

// Delete removes an employee account. Direct reports keep working: their
// reporting manager reference is nulled, never cascaded. HR only.
func (s *EmployeeService) Delete(ctx context.Context, actor Actor, id uint) error {
	if actor.Role != domain.RoleHR {
		return domain.ErrAuthorization
	}
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrValidation)
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.employeeRepo.Delete(ctx, id)
}
