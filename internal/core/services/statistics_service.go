package services

import (
	"context"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
)

// StatisticsService aggregates application and schedule figures for the HR
// overview dashboard.
type StatisticsService struct {
	appRepo      *repositories.ApplicationRepository
	scheduleRepo *repositories.ScheduleRepository
	employeeRepo repositories.EmployeeRepository
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(
	appRepo *repositories.ApplicationRepository,
	scheduleRepo *repositories.ScheduleRepository,
	employeeRepo repositories.EmployeeRepository,
) *StatisticsService {
	return &StatisticsService{
		appRepo:      appRepo,
		scheduleRepo: scheduleRepo,
		employeeRepo: employeeRepo,
	}
}

// OverviewResponse holds the HR dashboard figures
type OverviewResponse struct {
	ApplicationsByStatus map[string]int64 `json:"applications_by_status"`
	PendingByDepartment  map[string]int64 `json:"pending_by_department"`
	WFHHeadcountPerDay   map[string]int64 `json:"wfh_headcount_per_day"`
	TotalEmployees       int64            `json:"total_employees"`
}

// Overview returns application counts by status, the Pending backlog per
// department, the WFH headcount for the next seven days, and the employee
// total. HR only.
func (s *StatisticsService) Overview(ctx context.Context, actor Actor) (*OverviewResponse, error) {
	if actor.Role != domain.RoleHR {
		return nil, domain.ErrAuthorization
	}

	byStatus, err := s.appRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	statusCounts := make(map[string]int64, len(byStatus))
	for status, count := range byStatus {
		statusCounts[string(status)] = count
	}

	byDepartment, err := s.appRepo.CountPendingByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, 6)
	perDay, err := s.scheduleRepo.CountPerDay(ctx, from, to)
	if err != nil {
		return nil, err
	}

	_, total, err := s.employeeRepo.List(ctx, 0, 1)
	if err != nil {
		return nil, err
	}

	return &OverviewResponse{
		ApplicationsByStatus: statusCounts,
		PendingByDepartment:  byDepartment,
		WFHHeadcountPerDay:   perDay,
		TotalEmployees:       total,
	}, nil
}
