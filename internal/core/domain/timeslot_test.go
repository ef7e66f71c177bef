package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeSlot
		want bool
	}{
		{"am vs am", SlotAM, SlotAM, true},
		{"pm vs pm", SlotPM, SlotPM, true},
		{"am vs pm disjoint", SlotAM, SlotPM, false},
		{"pm vs am disjoint", SlotPM, SlotAM, false},
		{"full vs am", SlotFullDay, SlotAM, true},
		{"full vs pm", SlotFullDay, SlotPM, true},
		{"am vs full", SlotAM, SlotFullDay, true},
		{"full vs full", SlotFullDay, SlotFullDay, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotsOverlap(tt.a, tt.b))
		})
	}
}

func TestSlotTimes(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.Local)

	start, end := SlotTimes(date, SlotAM)
	assert.Equal(t, 9, start.Hour())
	assert.Equal(t, 13, end.Hour())

	start, end = SlotTimes(date, SlotPM)
	assert.Equal(t, 14, start.Hour())
	assert.Equal(t, 18, end.Hour())

	start, end = SlotTimes(date, SlotFullDay)
	assert.Equal(t, 9, start.Hour())
	assert.Equal(t, 18, end.Hour())

	// window stays on the given date
	assert.Equal(t, date.Day(), start.Day())
	assert.Equal(t, date.Day(), end.Day())
}

func TestSlotOf(t *testing.T) {
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.Local)

	for _, slot := range []TimeSlot{SlotAM, SlotPM, SlotFullDay} {
		start, end := SlotTimes(date, slot)
		assert.Equal(t, slot, SlotOf(start, end))
	}
}

func TestRangesConflict(t *testing.T) {
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.Local)
	nextDay := day.AddDate(0, 0, 1)

	amStart, amEnd := SlotTimes(day, SlotAM)
	pmStart, pmEnd := SlotTimes(day, SlotPM)
	fullStart, fullEnd := SlotTimes(day, SlotFullDay)
	nextAMStart, nextAMEnd := SlotTimes(nextDay, SlotAM)

	// AM and PM on the same date never conflict
	assert.False(t, RangesConflict(amStart, amEnd, pmStart, pmEnd))

	// Full Day conflicts with either half
	assert.True(t, RangesConflict(fullStart, fullEnd, amStart, amEnd))
	assert.True(t, RangesConflict(fullStart, fullEnd, pmStart, pmEnd))

	// same slot on the same date conflicts
	assert.True(t, RangesConflict(amStart, amEnd, amStart, amEnd))

	// different dates never conflict
	assert.False(t, RangesConflict(amStart, amEnd, nextAMStart, nextAMEnd))
	assert.False(t, RangesConflict(fullStart, fullEnd, nextAMStart, nextAMEnd))
}

func TestDatesOverlap(t *testing.T) {
	a := time.Date(2026, 9, 14, 9, 0, 0, 0, time.Local)
	b := time.Date(2026, 9, 16, 18, 0, 0, 0, time.Local)

	// boundary touching counts
	assert.True(t, DatesOverlap(a, b, b, b.AddDate(0, 0, 2)))
	assert.True(t, DatesOverlap(a, b, a.AddDate(0, 0, -2), a))

	// disjoint ranges
	assert.False(t, DatesOverlap(a, b, b.AddDate(0, 0, 1), b.AddDate(0, 0, 3)))

	// clock times are ignored, only calendar dates matter
	lateA := time.Date(2026, 9, 16, 23, 0, 0, 0, time.Local)
	earlyB := time.Date(2026, 9, 16, 1, 0, 0, 0, time.Local)
	require.True(t, DatesOverlap(a, lateA, earlyB, earlyB))
}

func TestParseTimeSlot(t *testing.T) {
	slot, err := ParseTimeSlot("Full Day")
	require.NoError(t, err)
	assert.Equal(t, SlotFullDay, slot)

	_, err = ParseTimeSlot("fullday")
	assert.Error(t, err)
}
