package repositories

import (
	"context"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"

	"gorm.io/gorm"
)

// ApplicationRepository handles application data access
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ApplicationRepository) WithTx(tx *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: tx}
}

// Create creates a new application
func (r *ApplicationRepository) Create(ctx context.Context, application *models.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

// GetByID gets an application by ID with relations
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var application models.Application
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("VerifyBy").
		First(&application, id).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// GetChain gets every member of a linked application chain (the root row
// plus all rows pointing at it), ordered by start date then id.
func (r *ApplicationRepository) GetChain(ctx context.Context, rootID uint) ([]*models.Application, error) {
	var applications []*models.Application
	err := r.db.WithContext(ctx).
		Where("application_id = ? OR linked_application_id = ?", rootID, rootID).
		Order("start_date ASC, application_id ASC").
		Find(&applications).Error
	return applications, err
}

// ApplicationFilter holds list predicates
type ApplicationFilter struct {
	EmployeeID *uint
	Statuses   []domain.Status
	From       *time.Time
	To         *time.Time
}

// List lists applications matching the filter, ordered by start_date
// ascending with ties broken by application_id ascending so pagination is
// deterministic.
func (r *ApplicationRepository) List(ctx context.Context, filter *ApplicationFilter, offset, limit int) ([]*models.Application, int64, error) {
	var applications []*models.Application
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Application{})
	if filter != nil {
		if filter.EmployeeID != nil {
			query = query.Where("created_by_id = ?", *filter.EmployeeID)
		}
		if len(filter.Statuses) > 0 {
			query = query.Where("status IN ?", filter.Statuses)
		}
		if filter.From != nil {
			query = query.Where("end_date >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("start_date <= ?", *filter.To)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("CreatedBy").
		Preload("VerifyBy").
		Order("start_date ASC, application_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&applications).Error

	return applications, total, err
}

// ListForConflict fetches the employee's Pending and Approved applications
// whose stored timestamps coarsely overlap the candidate window. Exact
// slot-level comparison happens in the service layer.
func (r *ApplicationRepository) ListForConflict(ctx context.Context, employeeID uint, windowStart, windowEnd time.Time, excludeIDs []uint) ([]*models.Application, error) {
	var applications []*models.Application
	query := r.db.WithContext(ctx).
		Where("created_by_id = ?", employeeID).
		Where("status IN ?", []domain.Status{domain.StatusPending, domain.StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", windowEnd, windowStart)
	if len(excludeIDs) > 0 {
		query = query.Where("application_id NOT IN ?", excludeIDs)
	}
	err := query.Order("start_date ASC, application_id ASC").Find(&applications).Error
	return applications, err
}

// ListPendingByApprover lists Pending applications whose requestor reports
// to the given manager, oldest first.
func (r *ApplicationRepository) ListPendingByApprover(ctx context.Context, managerID uint, offset, limit int) ([]*models.Application, int64, error) {
	var applications []*models.Application
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Application{}).
		Joins("JOIN employees ON employees.id = applications.created_by_id").
		Where("employees.reporting_manager_id = ?", managerID).
		Where("applications.status = ?", domain.StatusPending)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Preload("CreatedBy").
		Order("applications.start_date ASC, applications.application_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&applications).Error

	return applications, total, err
}

// ListPendingOlderThan lists Pending applications created before the cutoff
// (stale-approval reminder job).
func (r *ApplicationRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Application, error) {
	var applications []*models.Application
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("status = ?", domain.StatusPending).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&applications).Error
	return applications, err
}

// UpdateFields updates requestor-owned fields of an application
func (r *ApplicationRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("application_id = ?", id).
		Updates(updates).Error
}

// TransitionStatus performs a guarded status update: the row is only
// touched while it still holds the expected source status. The returned
// count is zero when a concurrent writer won the race, which callers must
// treat as a stale-state failure.
func (r *ApplicationRepository) TransitionStatus(ctx context.Context, id uint, from domain.Status, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("application_id = ? AND status = ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// CountPendingByDepartment counts Pending applications grouped by the
// requestor's department
func (r *ApplicationRepository) CountPendingByDepartment(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Department string
		Total      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Joins("JOIN employees ON employees.id = applications.created_by_id").
		Where("applications.status = ?", domain.StatusPending).
		Select("employees.department AS department, COUNT(*) AS total").
		Group("employees.department").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Department] = r.Total
	}
	return counts, nil
}

// CountByStatus counts applications grouped by status
func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	type row struct {
		Status domain.Status
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
