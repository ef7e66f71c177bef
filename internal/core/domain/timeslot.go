package domain

import (
	"fmt"
	"time"
)

// TimeSlot represents the portion of a working day covered by an
// application. Slots map to fixed clock windows:
//
//	AM       09:00–13:00
//	PM       14:00–18:00
//	FullDay  09:00–18:00
type TimeSlot string

const (
	SlotAM      TimeSlot = "AM"
	SlotPM      TimeSlot = "PM"
	SlotFullDay TimeSlot = "Full Day"
)

// slot clock boundaries (hours)
const (
	amStartHour   = 9
	amEndHour     = 13
	pmStartHour   = 14
	pmEndHour     = 18
	fullStartHour = 9
	fullEndHour   = 18
)

// ParseTimeSlot converts a raw string to a TimeSlot.
func ParseTimeSlot(s string) (TimeSlot, error) {
	ts := TimeSlot(s)
	switch ts {
	case SlotAM, SlotPM, SlotFullDay:
		return ts, nil
	}
	return "", fmt.Errorf("unknown time slot %q", s)
}

// Hours returns the half-open clock interval [start, end) of the slot.
func (ts TimeSlot) Hours() (start, end int) {
	switch ts {
	case SlotAM:
		return amStartHour, amEndHour
	case SlotPM:
		return pmStartHour, pmEndHour
	default:
		return fullStartHour, fullEndHour
	}
}

// SlotsOverlap reports whether two slots share any time on the same day,
// comparing half-open clock intervals. AM and PM are disjoint; Full Day
// overlaps both.
func SlotsOverlap(a, b TimeSlot) bool {
	aStart, aEnd := a.Hours()
	bStart, bEnd := b.Hours()
	return aStart < bEnd && bStart < aEnd
}

// SlotTimes pins the slot's clock window onto the given calendar date.
func SlotTimes(date time.Time, slot TimeSlot) (start, end time.Time) {
	startHour, endHour := slot.Hours()
	y, m, d := date.Date()
	loc := date.Location()
	start = time.Date(y, m, d, startHour, 0, 0, 0, loc)
	end = time.Date(y, m, d, endHour, 0, 0, 0, loc)
	return start, end
}

// SlotOf derives the slot encoded in a stored start/end timestamp pair.
// Anything that is not exactly the AM or PM window is a full-day range.
func SlotOf(start, end time.Time) TimeSlot {
	switch {
	case start.Hour() == amStartHour && end.Hour() == amEndHour:
		return SlotAM
	case start.Hour() == pmStartHour && end.Hour() == pmEndHour:
		return SlotPM
	default:
		return SlotFullDay
	}
}

// truncateToDate drops the clock portion of a timestamp.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DatesOverlap reports whether two date ranges share at least one calendar
// date, ignoring clock times. Boundary touching counts as overlap.
func DatesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	as, ae := truncateToDate(aStart), truncateToDate(aEnd)
	bs, be := truncateToDate(bStart), truncateToDate(bEnd)
	return !as.After(be) && !bs.After(ae)
}

// RangesConflict reports whether two stored application ranges collide:
// they must share a calendar date and their time slots must not be
// disjoint. A Full Day range conflicts with any slot on a shared date;
// AM and PM on the same date do not conflict with each other.
func RangesConflict(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !DatesOverlap(aStart, aEnd, bStart, bEnd) {
		return false
	}
	return SlotsOverlap(SlotOf(aStart, aEnd), SlotOf(bStart, bEnd))
}
