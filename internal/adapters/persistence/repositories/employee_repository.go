package repositories

import (
	"context"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// employeeRepository implements EmployeeRepository interface
type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

// Create creates a new employee
func (r *employeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

// GetByID gets an employee by ID with the reporting manager preloaded
func (r *employeeRepository) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Preload("ReportingManager").
		First(&employee, id).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// GetByEmail gets an employee by email
func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// Update updates an employee
func (r *employeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// Delete soft deletes an employee. Dependents keep working: the
// reporting_manager reference is nulled, never cascaded.
func (r *employeeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Employee{}).
			Where("reporting_manager_id = ?", id).
			Update("reporting_manager_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Employee{}, id).Error
	})
}

// List lists employees with pagination
func (r *employeeRepository) List(ctx context.Context, offset, limit int) ([]*models.Employee, int64, error) {
	var employees []*models.Employee
	var total int64

	r.db.WithContext(ctx).Model(&models.Employee{}).Count(&total)

	err := r.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Offset(offset).
		Limit(limit).
		Find(&employees).Error

	return employees, total, err
}

// ListSubordinates lists employees reporting to the given manager
func (r *employeeRepository) ListSubordinates(ctx context.Context, managerID uint) ([]*models.Employee, error) {
	var employees []*models.Employee
	err := r.db.WithContext(ctx).
		Where("reporting_manager_id = ?", managerID).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}

// ListByDepartment lists employees in a department
func (r *employeeRepository) ListByDepartment(ctx context.Context, department string) ([]*models.Employee, error) {
	var employees []*models.Employee
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}

// ExistsByEmail checks whether an employee with the email exists
func (r *employeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}
