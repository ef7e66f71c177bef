package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/pagination"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ApplicationService owns the WFH application lifecycle: creation with
// recurrence and conflict checking, the status state machine, and the
// schedule entries derived from approvals. Every mutation takes an Actor so
// authorization is decided here, not in handlers.
type ApplicationService struct {
	db            *gorm.DB
	appRepo       *repositories.ApplicationRepository
	scheduleRepo  *repositories.ScheduleRepository
	employeeRepo  repositories.EmployeeRepository
	blacklists    *BlacklistService
	notifications *NotificationService
	files         *FileService
	log           *logrus.Entry
}

// NewApplicationService creates a new application service
func NewApplicationService(
	db *gorm.DB,
	appRepo *repositories.ApplicationRepository,
	scheduleRepo *repositories.ScheduleRepository,
	employeeRepo repositories.EmployeeRepository,
	blacklists *BlacklistService,
	notifications *NotificationService,
	files *FileService,
) *ApplicationService {
	return &ApplicationService{
		db:            db,
		appRepo:       appRepo,
		scheduleRepo:  scheduleRepo,
		employeeRepo:  employeeRepo,
		blacklists:    blacklists,
		notifications: notifications,
		files:         files,
		log:           logrus.WithField("service", "application"),
	}
}

// CreateApplicationInput holds new-application request data
type CreateApplicationInput struct {
	StartDate        string       `json:"start_date" validate:"required"`
	TimeSlot         string       `json:"time_slot" validate:"required"`
	ApplicationType  string       `json:"application_type" validate:"required"`
	Recurrence       string       `json:"recurrence" validate:"omitempty,oneof=weekly monthly"`
	RecurrenceEnd    string       `json:"recurrence_end" validate:"required_with=Recurrence"`
	RequestorRemarks string       `json:"requestor_remarks" validate:"max=1000"`
	Files            []FileUpload `json:"-"`
}

// UpdateApplicationInput holds editable fields of a pending application.
// Nil fields keep their current value.
type UpdateApplicationInput struct {
	StartDate        *string `json:"start_date"`
	TimeSlot         *string `json:"time_slot"`
	RequestorRemarks *string `json:"requestor_remarks" validate:"omitempty,max=1000"`
}

// Create validates, conflict-checks and persists a new application. A
// recurring request is materialized as a chain: the first occurrence is the
// root row and every later occurrence links back to it. The whole chain is
// written in one transaction.
func (s *ApplicationService) Create(ctx context.Context, actor Actor, input *CreateApplicationInput) ([]*models.Application, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	startDate, err := parseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	slot, err := domain.ParseTimeSlot(input.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	appType, err := domain.ParseApplicationType(input.ApplicationType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if input.Recurrence != RecurrenceNone && appType != domain.TypeRegular {
		return nil, fmt.Errorf("%w: recurrence is only valid for Regular applications", domain.ErrValidation)
	}

	today := time.Now().Truncate(24 * time.Hour)
	if startDate.Before(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)) {
		return nil, fmt.Errorf("%w: start date cannot be in the past", domain.ErrValidation)
	}

	var recurrenceEnd time.Time
	if input.Recurrence != RecurrenceNone {
		recurrenceEnd, err = parseDate(input.RecurrenceEnd)
		if err != nil {
			return nil, err
		}
	}

	occurrences, err := expandOccurrences(startDate, input.Recurrence, recurrenceEnd)
	if err != nil {
		return nil, err
	}

	// pin the slot's clock window onto every occurrence date
	windows := make([][2]time.Time, len(occurrences))
	for i, occ := range occurrences {
		start, end := domain.SlotTimes(occ, slot)
		windows[i] = [2]time.Time{start, end}
	}

	for _, w := range windows {
		if err := s.blacklists.CheckBlocked(ctx, w[0], w[1]); err != nil {
			return nil, err
		}
	}
	if err := s.checkConflicts(ctx, actor.ID, windows, nil); err != nil {
		return nil, err
	}

	chain := make([]*models.Application, 0, len(windows))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.appRepo.WithTx(tx)

		root := &models.Application{
			StartDate:        windows[0][0],
			EndDate:          windows[0][1],
			ApplicationType:  appType,
			Status:           domain.StatusPending,
			CreatedByID:      actor.ID,
			RequestorRemarks: input.RequestorRemarks,
		}
		if err := repo.Create(ctx, root); err != nil {
			return err
		}
		chain = append(chain, root)

		for _, w := range windows[1:] {
			child := &models.Application{
				StartDate:           w[0],
				EndDate:             w[1],
				ApplicationType:     appType,
				Status:              domain.StatusPending,
				CreatedByID:         actor.ID,
				LinkedApplicationID: &root.ID,
				RequestorRemarks:    input.RequestorRemarks,
			}
			if err := repo.Create(ctx, child); err != nil {
				return err
			}
			chain = append(chain, child)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(input.Files) > 0 {
		files, err := s.files.Attach(ctx, models.FileEntityApplication, chain[0].ID, input.Files)
		if err != nil {
			s.log.WithError(err).WithField("application_id", chain[0].ID).
				Warn("failed to attach files to application")
		} else {
			chain[0].Files = files
		}
	}

	s.notifyManager(ctx, actor.ID, domain.EventCreated, chain[0].ID,
		"submitted a new WFH application for "+chain[0].StartDate.Format(dateLayout))

	s.log.WithFields(logrus.Fields{
		"application_id": chain[0].ID,
		"employee_id":    actor.ID,
		"occurrences":    len(chain),
	}).Info("application created")

	return chain, nil
}

// checkConflicts rejects the candidate windows when any of them collides
// with an existing Pending or Approved application of the same employee.
// Collision means a shared calendar date with non-disjoint time slots.
func (s *ApplicationService) checkConflicts(ctx context.Context, employeeID uint, windows [][2]time.Time, excludeIDs []uint) error {
	coarseStart, coarseEnd := windows[0][0], windows[0][1]
	for _, w := range windows[1:] {
		if w[0].Before(coarseStart) {
			coarseStart = w[0]
		}
		if w[1].After(coarseEnd) {
			coarseEnd = w[1]
		}
	}

	existing, err := s.appRepo.ListForConflict(ctx, employeeID, coarseStart, coarseEnd, excludeIDs)
	if err != nil {
		return err
	}

	for _, w := range windows {
		for _, app := range existing {
			if domain.RangesConflict(w[0], w[1], app.StartDate, app.EndDate) {
				return fmt.Errorf("%w: %s overlaps application #%d (%s)",
					domain.ErrConflict, w[0].Format(dateLayout), app.ID, app.Status)
			}
		}
	}
	return nil
}

// Get returns one application with its attachments. Visible to the
// requestor, the requestor's reporting manager, and HR.
func (s *ApplicationService) Get(ctx context.Context, actor Actor, id uint) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := s.canView(ctx, actor, app); err != nil {
		return nil, err
	}

	files, err := s.files.ListFor(ctx, models.FileEntityApplication, app.ID)
	if err != nil {
		return nil, err
	}
	app.Files = files
	return app, nil
}

// canView checks read access to an application
func (s *ApplicationService) canView(ctx context.Context, actor Actor, app *models.Application) error {
	if actor.ID == app.CreatedByID || actor.Role == domain.RoleHR {
		return nil
	}
	requestor, err := s.employeeRepo.GetByID(ctx, app.CreatedByID)
	if err != nil {
		return err
	}
	if requestor.ReportingManagerID != nil && *requestor.ReportingManagerID == actor.ID {
		return nil
	}
	return domain.ErrAuthorization
}

// ListFilter narrows an application listing
type ListFilter struct {
	Status string
	From   string
	To     string
}

// List returns the actor's own applications, oldest start date first
func (s *ApplicationService) List(ctx context.Context, actor Actor, filter *ListFilter, params *pagination.Params) ([]*models.Application, *pagination.Meta, error) {
	repoFilter := &repositories.ApplicationFilter{EmployeeID: &actor.ID}

	if filter != nil {
		if filter.Status != "" {
			status, err := domain.ParseStatus(filter.Status)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			repoFilter.Statuses = []domain.Status{status}
		}
		if filter.From != "" {
			from, err := parseDate(filter.From)
			if err != nil {
				return nil, nil, err
			}
			repoFilter.From = &from
		}
		if filter.To != "" {
			to, err := parseDate(filter.To)
			if err != nil {
				return nil, nil, err
			}
			end := to.Add(24*time.Hour - time.Second)
			repoFilter.To = &end
		}
	}

	apps, total, err := s.appRepo.List(ctx, repoFilter, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}
	return apps, pagination.GetMeta(params, total), nil
}

// ListPending returns the Pending applications awaiting the actor's
// decision: a manager sees direct reports, HR sees everything.
func (s *ApplicationService) ListPending(ctx context.Context, actor Actor, params *pagination.Params) ([]*models.Application, *pagination.Meta, error) {
	if !actor.Role.CanApprove() {
		return nil, nil, domain.ErrAuthorization
	}

	if actor.Role == domain.RoleHR {
		apps, total, err := s.appRepo.List(ctx, &repositories.ApplicationFilter{
			Statuses: []domain.Status{domain.StatusPending},
		}, params.Offset, params.Limit)
		if err != nil {
			return nil, nil, err
		}
		return apps, pagination.GetMeta(params, total), nil
	}

	apps, total, err := s.appRepo.ListPendingByApprover(ctx, actor.ID, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}
	return apps, pagination.GetMeta(params, total), nil
}

// UpdatePending edits the date, slot or remarks of a Pending application.
// Only the requestor may edit, and only while the row is still Pending; the
// final write is guarded against concurrent transitions.
func (s *ApplicationService) UpdatePending(ctx context.Context, actor Actor, id uint, input *UpdateApplicationInput) (*models.Application, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if app.CreatedByID != actor.ID {
		return nil, domain.ErrAuthorization
	}
	if app.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: only Pending applications can be edited", domain.ErrInvalidTransition)
	}

	date := app.StartDate
	slot := domain.SlotOf(app.StartDate, app.EndDate)
	if input.StartDate != nil {
		date, err = parseDate(*input.StartDate)
		if err != nil {
			return nil, err
		}
	}
	if input.TimeSlot != nil {
		slot, err = domain.ParseTimeSlot(*input.TimeSlot)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	start, end := domain.SlotTimes(date, slot)
	if err := s.blacklists.CheckBlocked(ctx, start, end); err != nil {
		return nil, err
	}
	if err := s.checkConflicts(ctx, actor.ID, [][2]time.Time{{start, end}}, []uint{app.ID}); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"start_date": start,
		"end_date":   end,
	}
	if input.RequestorRemarks != nil {
		updates["requestor_remarks"] = *input.RequestorRemarks
	}

	affected, err := s.appRepo.TransitionStatus(ctx, app.ID, domain.StatusPending, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrStaleState
	}

	s.notifyManager(ctx, actor.ID, domain.EventFieldsEdited, app.ID,
		"updated their pending WFH application for "+start.Format(dateLayout))

	return s.appRepo.GetByID(ctx, app.ID)
}

// Approve moves a Pending application (or its whole chain) to Approved and
// materializes the matching schedule entries.
func (s *ApplicationService) Approve(ctx context.Context, actor Actor, id uint, remarks string, applyToAll bool) ([]*models.Application, error) {
	return s.decide(ctx, actor, id, domain.StatusApproved, remarks, applyToAll)
}

// Reject moves a Pending application (or its whole chain) to Rejected.
func (s *ApplicationService) Reject(ctx context.Context, actor Actor, id uint, remarks string, applyToAll bool) ([]*models.Application, error) {
	return s.decide(ctx, actor, id, domain.StatusRejected, remarks, applyToAll)
}

// decide is the shared approver path: authorization, then the transition.
func (s *ApplicationService) decide(ctx context.Context, actor Actor, id uint, to domain.Status, remarks string, applyToAll bool) ([]*models.Application, error) {
	if !actor.Role.CanApprove() {
		return nil, domain.ErrAuthorization
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// an approver never decides their own request
	if app.CreatedByID == actor.ID {
		return nil, fmt.Errorf("%w: cannot decide your own application", domain.ErrAuthorization)
	}
	if err := s.checkApproverFor(ctx, actor, app.CreatedByID); err != nil {
		return nil, err
	}

	if to == domain.StatusRejected && remarks == "" {
		return nil, fmt.Errorf("%w: approver remarks are required when rejecting", domain.ErrValidation)
	}

	updated, err := s.transition(ctx, app, domain.StatusPending, to, map[string]interface{}{
		"status":           to,
		"verify_by_id":     actor.ID,
		"verify_timestamp": time.Now(),
		"approver_remarks": remarks,
	}, applyToAll)
	if err != nil {
		return nil, err
	}

	event := domain.EventApproved
	verb := "approved"
	if to == domain.StatusRejected {
		event = domain.EventRejected
		verb = "rejected"
	}
	s.notify(ctx, actor.ID, app.CreatedByID, event, app.ID,
		fmt.Sprintf("%s your WFH application for %s", verb, app.StartDate.Format(dateLayout)))

	return updated, nil
}

// checkApproverFor verifies that the actor may act as approver for the
// given requestor: HR always, a manager only for their direct reports.
func (s *ApplicationService) checkApproverFor(ctx context.Context, actor Actor, requestorID uint) error {
	if actor.Role == domain.RoleHR {
		return nil
	}
	requestor, err := s.employeeRepo.GetByID(ctx, requestorID)
	if err != nil {
		return err
	}
	if requestor.ReportingManagerID == nil || *requestor.ReportingManagerID != actor.ID {
		return fmt.Errorf("%w: requestor does not report to you", domain.ErrAuthorization)
	}
	return nil
}

// WithdrawPending withdraws a Pending application (or chain). Requestor only.
func (s *ApplicationService) WithdrawPending(ctx context.Context, actor Actor, id uint, remarks string, applyToAll bool) ([]*models.Application, error) {
	return s.withdraw(ctx, actor, id, domain.StatusPending, remarks, applyToAll)
}

// WithdrawApproved withdraws an Approved application (or chain), retracting
// the schedule entries it materialized. Open to the requestor and to anyone
// who could have approved the application.
func (s *ApplicationService) WithdrawApproved(ctx context.Context, actor Actor, id uint, remarks string, applyToAll bool) ([]*models.Application, error) {
	return s.withdraw(ctx, actor, id, domain.StatusApproved, remarks, applyToAll)
}

func (s *ApplicationService) withdraw(ctx context.Context, actor Actor, id uint, from domain.Status, remarks string, applyToAll bool) ([]*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	byRequestor := app.CreatedByID == actor.ID
	if !byRequestor {
		// a pending application belongs to its requestor alone; an
		// approved one may also be retracted from the approver side
		if from != domain.StatusApproved || !actor.Role.CanApprove() {
			return nil, fmt.Errorf("%w: only the requestor can withdraw", domain.ErrAuthorization)
		}
		if err := s.checkApproverFor(ctx, actor, app.CreatedByID); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{"status": domain.StatusWithdrawn}
	if remarks != "" {
		if byRequestor {
			updates["requestor_remarks"] = remarks
		} else {
			updates["approver_remarks"] = remarks
		}
	}

	updated, err := s.transition(ctx, app, from, domain.StatusWithdrawn, updates, applyToAll)
	if err != nil {
		return nil, err
	}

	if byRequestor {
		s.notifyManager(ctx, actor.ID, domain.EventWithdrawn, app.ID,
			"withdrew their WFH application for "+app.StartDate.Format(dateLayout))
	} else {
		s.notify(ctx, actor.ID, app.CreatedByID, domain.EventWithdrawn, app.ID,
			"withdrew your approved WFH application for "+app.StartDate.Format(dateLayout))
	}

	return updated, nil
}

// transition applies one status change to an application or its whole
// chain, atomically. Every target row must currently hold the expected
// source status and the move must be legal; otherwise nothing changes. Each
// row is written with a guarded update so a concurrent transition aborts
// the batch with ErrStaleState.
func (s *ApplicationService) transition(ctx context.Context, app *models.Application, from, to domain.Status, updates map[string]interface{}, applyToAll bool) ([]*models.Application, error) {
	if !domain.CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	var updated []*models.Application
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.appRepo.WithTx(tx)
		schedRepo := s.scheduleRepo.WithTx(tx)

		var targets []*models.Application
		if applyToAll {
			chain, err := repo.GetChain(ctx, app.ChainRootID())
			if err != nil {
				return err
			}
			targets = chain
		} else {
			current, err := repo.GetByID(ctx, app.ID)
			if err != nil {
				return err
			}
			targets = []*models.Application{current}
		}

		// validate the whole batch before touching any row
		for _, target := range targets {
			if target.Status != from {
				return fmt.Errorf("%w: application #%d is %s, expected %s",
					domain.ErrInvalidTransition, target.ID, target.Status, from)
			}
		}

		now := time.Now()
		var rootScheduleID *uint
		for _, target := range targets {
			affected, err := repo.TransitionStatus(ctx, target.ID, from, updates)
			if err != nil {
				return err
			}
			if affected == 0 {
				return domain.ErrStaleState
			}

			if to == domain.StatusApproved {
				schedule := &models.Schedule{
					StartDate:        target.StartDate,
					EndDate:          target.EndDate,
					ScheduleType:     target.ApplicationType,
					CreatedByID:      target.CreatedByID,
					VerifyTimestamp:  &now,
					LinkedScheduleID: rootScheduleID,
					ApplicationID:    target.ID,
				}
				if verifyBy, ok := updates["verify_by_id"].(uint); ok {
					schedule.VerifyByID = &verifyBy
				}
				if err := schedRepo.Create(ctx, schedule); err != nil {
					return err
				}
				if rootScheduleID == nil {
					rootScheduleID = &schedule.ID
				}
			}
		}

		if to == domain.StatusWithdrawn && from == domain.StatusApproved {
			ids := make([]uint, len(targets))
			for i, target := range targets {
				ids[i] = target.ID
			}
			if err := schedRepo.DeleteByApplicationIDs(ctx, ids); err != nil {
				return err
			}
		}

		updated = targets
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, target := range updated {
		target.Status = to
	}

	s.log.WithFields(logrus.Fields{
		"application_id": app.ID,
		"from":           from,
		"to":             to,
		"rows":           len(updated),
	}).Info("application transitioned")

	return updated, nil
}

// notify wraps the sender's name into the notification content
func (s *ApplicationService) notify(ctx context.Context, senderID, recipientID uint, event domain.EventType, applicationID uint, content string) {
	sender, err := s.employeeRepo.GetByID(ctx, senderID)
	if err != nil {
		s.log.WithError(err).Warn("failed to load notification sender")
		return
	}
	s.notifications.Notify(ctx, event, senderID, recipientID, &applicationID,
		sender.FullName()+" "+content)
}

// notifyManager notifies the sender's reporting manager, if they have one
func (s *ApplicationService) notifyManager(ctx context.Context, senderID uint, event domain.EventType, applicationID uint, content string) {
	sender, err := s.employeeRepo.GetByID(ctx, senderID)
	if err != nil {
		s.log.WithError(err).Warn("failed to load notification sender")
		return
	}
	if sender.ReportingManagerID == nil {
		return
	}
	s.notifications.Notify(ctx, event, senderID, *sender.ReportingManagerID, &applicationID,
		sender.FullName()+" "+content)
}
