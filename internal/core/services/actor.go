package services

import (
	"fmt"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
)

// Actor carries the authenticated identity into every lifecycle operation.
// Identity is always an explicit argument, never ambient session state.
type Actor struct {
	ID   uint
	Role domain.Role
}

// validate checks input struct tags across all services
var validate = validator.New()

// Recurrence rules accepted at creation time. Recurrence is materialized
// immediately as independent rows, never stored for reinterpretation.
const (
	RecurrenceNone    = ""
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD value in local time
func parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, use YYYY-MM-DD", domain.ErrValidation, value)
	}
	return t, nil
}

// expandOccurrences materializes the start dates of a recurrence series:
// the first occurrence is start itself, and occurrences strictly before
// the recurrence end date follow at the requested frequency.
func expandOccurrences(start time.Time, recurrence string, recurrenceEnd time.Time) ([]time.Time, error) {
	if recurrence == RecurrenceNone {
		return []time.Time{start}, nil
	}

	var freq rrule.Frequency
	switch recurrence {
	case RecurrenceWeekly:
		freq = rrule.WEEKLY
	case RecurrenceMonthly:
		freq = rrule.MONTHLY
	default:
		return nil, fmt.Errorf("%w: unknown recurrence %q", domain.ErrValidation, recurrence)
	}

	if !recurrenceEnd.After(start) {
		return nil, fmt.Errorf("%w: recurrence end date must be after the start date", domain.ErrValidation)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    freq,
		Dtstart: start,
		Until:   recurrenceEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var occurrences []time.Time
	for _, occ := range rule.All() {
		// the recurrence end date itself is excluded
		if !occ.Before(recurrenceEnd) {
			continue
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences, nil
}
