package repositories

import (
	"context"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ScheduleRepository handles schedule data access
type ScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ScheduleRepository) WithTx(tx *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: tx}
}

// Create creates a new schedule entry
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

// GetByApplicationID gets the schedule entry materialized from an
// application, if any
func (r *ScheduleRepository) GetByApplicationID(ctx context.Context, applicationID uint) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListByEmployee lists an employee's schedule entries intersecting the
// optional date range
func (r *ScheduleRepository) ListByEmployee(ctx context.Context, employeeID uint, from, to *time.Time) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	query := r.db.WithContext(ctx).Where("created_by_id = ?", employeeID)
	if from != nil {
		query = query.Where("end_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("start_date <= ?", *to)
	}
	err := query.Order("start_date ASC, schedule_id ASC").Find(&schedules).Error
	return schedules, err
}

// ListByManager lists schedule entries of every employee reporting to the
// given manager
func (r *ScheduleRepository) ListByManager(ctx context.Context, managerID uint, from, to *time.Time) ([]*models.Schedule, error) {
	var schedules []*models.Schedule
	query := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = schedules.created_by_id").
		Where("employees.reporting_manager_id = ?", managerID)
	if from != nil {
		query = query.Where("schedules.end_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("schedules.start_date <= ?", *to)
	}
	err := query.
		Preload("CreatedBy").
		Order("schedules.start_date ASC, schedules.schedule_id ASC").
		Find(&schedules).Error
	return schedules, err
}

// DeleteByApplicationIDs removes schedule entries tied to the given
// applications (withdraw-approved retraction)
func (r *ScheduleRepository) DeleteByApplicationIDs(ctx context.Context, applicationIDs []uint) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("application_id IN ?", applicationIDs).
		Delete(&models.Schedule{}).Error
}

// CountPerDay counts approved WFH headcount per calendar date between the
// bounds, for the statistics overview
func (r *ScheduleRepository) CountPerDay(ctx context.Context, from, to time.Time) (map[string]int64, error) {
	var schedules []*models.Schedule
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, s := range schedules {
		for d := s.StartDate; !d.After(s.EndDate); d = d.AddDate(0, 0, 1) {
			day := d.Format("2006-01-02")
			if day >= from.Format("2006-01-02") && day <= to.Format("2006-01-02") {
				counts[day]++
			}
		}
	}
	return counts, nil
}
