package services

import (
	"context"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// stalePendingAge is how long an application may sit Pending before its
// approver gets a daily reminder
const stalePendingAge = 3 * 24 * time.Hour

// CronService runs the scheduled maintenance jobs: stale-approval reminders
// every morning and refresh-token cleanup overnight.
type CronService struct {
	cron          *cron.Cron
	appRepo       *repositories.ApplicationRepository
	employeeRepo  repositories.EmployeeRepository
	tokenRepo     repositories.RefreshTokenRepository
	notifications *NotificationService
	log           *logrus.Entry
}

// NewCronService creates a new cron service
func NewCronService(
	appRepo *repositories.ApplicationRepository,
	employeeRepo repositories.EmployeeRepository,
	tokenRepo repositories.RefreshTokenRepository,
	notifications *NotificationService,
) *CronService {
	return &CronService{
		cron:          cron.New(),
		appRepo:       appRepo,
		employeeRepo:  employeeRepo,
		tokenRepo:     tokenRepo,
		notifications: notifications,
		log:           logrus.WithField("service", "cron"),
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc("0 9 * * *", s.remindStalePending); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 2 * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("cron jobs started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("cron jobs stopped")
}

// remindStalePending nudges approvers about applications that have sat
// Pending for too long. One reminder per application per run.
func (s *CronService) remindStalePending() {
	ctx := context.Background()
	cutoff := time.Now().Add(-stalePendingAge)

	apps, err := s.appRepo.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		s.log.WithError(err).Error("failed to list stale pending applications")
		return
	}

	reminded := 0
	for _, app := range apps {
		requestor, err := s.employeeRepo.GetByID(ctx, app.CreatedByID)
		if err != nil {
			s.log.WithError(err).WithField("application_id", app.ID).
				Warn("failed to load requestor for reminder")
			continue
		}
		if requestor.ReportingManagerID == nil {
			continue
		}

		appID := app.ID
		s.notifications.Notify(ctx, domain.EventCreated, app.CreatedByID, *requestor.ReportingManagerID, &appID,
			requestor.FullName()+"'s WFH application for "+app.StartDate.Format(dateLayout)+" is still awaiting your decision")
		reminded++
	}

	s.log.WithFields(logrus.Fields{
		"stale":    len(apps),
		"reminded": reminded,
	}).Info("stale pending reminder job finished")
}

// purgeExpiredTokens deletes expired and revoked refresh tokens
func (s *CronService) purgeExpiredTokens() {
	deleted, err := s.tokenRepo.DeleteExpired(context.Background())
	if err != nil {
		s.log.WithError(err).Error("failed to purge refresh tokens")
		return
	}
	s.log.WithField("deleted", deleted).Info("refresh token purge finished")
}
