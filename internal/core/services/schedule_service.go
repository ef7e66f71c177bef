package services

import (
	"context"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
)

// ScheduleService reads confirmed WFH schedules. Schedules are only ever
// written by the application lifecycle (approval materializes them,
// withdrawal retracts them), so this service is read-only.
type ScheduleService struct {
	scheduleRepo *repositories.ScheduleRepository
}

// NewScheduleService creates a new schedule service
func NewScheduleService(scheduleRepo *repositories.ScheduleRepository) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo}
}

// parseRange parses optional from/to date strings into bounds
func parseRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != "" {
		f, err := parseDate(fromStr)
		if err != nil {
			return nil, nil, err
		}
		from = &f
	}
	if toStr != "" {
		t, err := parseDate(toStr)
		if err != nil {
			return nil, nil, err
		}
		end := t.Add(24*time.Hour - time.Second)
		to = &end
	}
	return from, to, nil
}

// ListOwn returns the actor's confirmed WFH days in the optional range
func (s *ScheduleService) ListOwn(ctx context.Context, actor Actor, fromStr, toStr string) ([]*models.Schedule, error) {
	from, to, err := parseRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	return s.scheduleRepo.ListByEmployee(ctx, actor.ID, from, to)
}

// ListTeam returns the confirmed WFH days of the actor's direct reports.
// Manager and HR only.
func (s *ScheduleService) ListTeam(ctx context.Context, actor Actor, fromStr, toStr string) ([]*models.Schedule, error) {
	if !actor.Role.CanApprove() {
		return nil, domain.ErrAuthorization
	}
	from, to, err := parseRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	return s.scheduleRepo.ListByManager(ctx, actor.ID, from, to)
}
