package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/repositories"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BlacklistService manages company-wide blocked windows. Windows apply to
// every employee; while one covers a date, no new application touching that
// date can be created.
type BlacklistService struct {
	db            *gorm.DB
	blacklistRepo *repositories.BlacklistRepository
	files         *FileService
	log           *logrus.Entry
}

// NewBlacklistService creates a new blacklist service
func NewBlacklistService(db *gorm.DB, blacklistRepo *repositories.BlacklistRepository, files *FileService) *BlacklistService {
	return &BlacklistService{
		db:            db,
		blacklistRepo: blacklistRepo,
		files:         files,
		log:           logrus.WithField("service", "blacklist"),
	}
}

// CreateBlacklistInput holds new blocked-window request data
type CreateBlacklistInput struct {
	StartDate     string       `json:"start_date" validate:"required"`
	EndDate       string       `json:"end_date" validate:"required"`
	Remarks       string       `json:"remarks" validate:"max=1000"`
	Recurrence    string       `json:"recurrence" validate:"omitempty,oneof=weekly monthly"`
	RecurrenceEnd string       `json:"recurrence_end" validate:"required_with=Recurrence"`
	Files         []FileUpload `json:"-"`
}

// UpdateBlacklistInput holds editable fields of a blocked window. Nil
// fields keep their current value.
type UpdateBlacklistInput struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Remarks   *string `json:"remarks" validate:"omitempty,max=1000"`
}

// windowBounds widens a calendar date pair to full-day timestamps so that
// overlap checks against slot-level application windows are inclusive.
func windowBounds(startDate, endDate time.Time) (time.Time, time.Time) {
	start := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	end := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, endDate.Location())
	return start, end
}

// Create validates and persists a blocked window. Recurrence is expanded
// immediately: each occurrence becomes an independent row, all written in
// one transaction. Manager and HR only.
func (s *BlacklistService) Create(ctx context.Context, actor Actor, input *CreateBlacklistInput) ([]*models.Blacklist, error) {
	if !actor.Role.CanManageBlacklist() {
		return nil, domain.ErrAuthorization
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	startDate, err := parseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(input.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date is before start date", domain.ErrValidation)
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

	span := endDate.Sub(startDate)
	windows := make([]*models.Blacklist, len(occurrences))
	for i, occ := range occurrences {
		start, end := windowBounds(occ, occ.Add(span))
		windows[i] = &models.Blacklist{
			StartDate:      start,
			EndDate:        end,
			Remarks:        input.Remarks,
			CreatedByID:    actor.ID,
			LastUpdateByID: actor.ID,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.blacklistRepo.WithTx(tx).CreateBatch(ctx, windows)
	})
	if err != nil {
		return nil, err
	}

	if len(input.Files) > 0 {
		files, err := s.files.Attach(ctx, models.FileEntityBlacklist, windows[0].ID, input.Files)
		if err != nil {
			s.log.WithError(err).WithField("blacklist_id", windows[0].ID).
				Warn("failed to attach files to blacklist window")
		} else {
			windows[0].Files = files
		}
	}

	s.log.WithFields(logrus.Fields{
		"blacklist_id": windows[0].ID,
		"occurrences":  len(windows),
		"created_by":   actor.ID,
	}).Info("blacklist window created")

	return windows, nil
}

// Update edits a blocked window's dates or remarks. Manager and HR only.
func (s *BlacklistService) Update(ctx context.Context, actor Actor, id uint, input *UpdateBlacklistInput) (*models.Blacklist, error) {
	if !actor.Role.CanManageBlacklist() {
		return nil, domain.ErrAuthorization
	}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	blacklist, err := s.blacklistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	startDate := blacklist.StartDate
	endDate := blacklist.EndDate
	if input.StartDate != nil {
		startDate, err = parseDate(*input.StartDate)
		if err != nil {
			return nil, err
		}
	}
	if input.EndDate != nil {
		endDate, err = parseDate(*input.EndDate)
		if err != nil {
			return nil, err
		}
	}
	start, end := windowBounds(startDate, endDate)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date is before start date", domain.ErrValidation)
	}

	blacklist.StartDate = start
	blacklist.EndDate = end
	if input.Remarks != nil {
		blacklist.Remarks = *input.Remarks
	}
	blacklist.LastUpdateByID = actor.ID

	if err := s.blacklistRepo.Update(ctx, blacklist); err != nil {
		return nil, err
	}
	return blacklist, nil
}

// Delete removes a blocked window and its attachments. Manager and HR only.
func (s *BlacklistService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.Role.CanManageBlacklist() {
		return domain.ErrAuthorization
	}

	if _, err := s.blacklistRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	if err := s.files.DeleteFor(ctx, models.FileEntityBlacklist, id); err != nil {
		return err
	}
	return s.blacklistRepo.Delete(ctx, id)
}

// List returns blocked windows intersecting the optional date range
func (s *BlacklistService) List(ctx context.Context, fromStr, toStr string) ([]*models.Blacklist, error) {
	var from, to *time.Time
	if fromStr != "" {
		f, err := parseDate(fromStr)
		if err != nil {
			return nil, err
		}
		from = &f
	}
	if toStr != "" {
		t, err := parseDate(toStr)
		if err != nil {
			return nil, err
		}
		end := t.Add(24*time.Hour - time.Second)
		to = &end
	}
	return s.blacklistRepo.List(ctx, from, to)
}

// CheckBlocked returns ErrConflict when any blocked window touches the
// candidate range. Touching a window boundary counts; one second past the
// end does not.
func (s *BlacklistService) CheckBlocked(ctx context.Context, start, end time.Time) error {
	window, err := s.blacklistRepo.FirstOverlapping(ctx, start, end)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return fmt.Errorf("%w: %s to %s is blocked (%s)",
		domain.ErrConflict,
		window.StartDate.Format(dateLayout),
		window.EndDate.Format(dateLayout),
		window.Remarks)
}
