package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulesFollowApprovals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(5), TimeSlot: "Full Day", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)

	// nothing is scheduled until approval
	own, err := env.schedules.ListOwn(ctx, actorOf(env.staff1), "", "")
	require.NoError(t, err)
	assert.Empty(t, own)

	_, err = env.apps.Approve(ctx, actorOf(env.manager), chain[0].ID, "", false)
	require.NoError(t, err)

	own, err = env.schedules.ListOwn(ctx, actorOf(env.staff1), "", "")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, chain[0].ID, own[0].ApplicationID)

	// the manager sees it in the team view
	team, err := env.schedules.ListTeam(ctx, actorOf(env.manager), "", "")
	require.NoError(t, err)
	assert.Len(t, team, 1)

	// staff have no team view
	_, err = env.schedules.ListTeam(ctx, actorOf(env.staff1), "", "")
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestScheduleRangeFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(5), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	_, err = env.apps.Approve(ctx, actorOf(env.manager), chain[0].ID, "", false)
	require.NoError(t, err)

	// range containing the day matches
	own, err := env.schedules.ListOwn(ctx, actorOf(env.staff1), futureDate(4), futureDate(6))
	require.NoError(t, err)
	assert.Len(t, own, 1)

	// range entirely after the day does not
	own, err = env.schedules.ListOwn(ctx, actorOf(env.staff1), futureDate(10), futureDate(12))
	require.NoError(t, err)
	assert.Empty(t, own)
}

func TestExpandOccurrences(t *testing.T) {
	start := time.Date(2026, 10, 5, 0, 0, 0, 0, time.Local)

	// no recurrence yields just the start
	occ, err := expandOccurrences(start, RecurrenceNone, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{start}, occ)

	// monthly over a quarter: the end date itself is excluded
	occ, err = expandOccurrences(start, RecurrenceMonthly, start.AddDate(0, 3, 0))
	require.NoError(t, err)
	require.Len(t, occ, 3)
	assert.Equal(t, start, occ[0])
	assert.Equal(t, start.AddDate(0, 1, 0), occ[1])
	assert.Equal(t, start.AddDate(0, 2, 0), occ[2])

	// end before start is invalid
	_, err = expandOccurrences(start, RecurrenceWeekly, start.AddDate(0, 0, -7))
	assert.ErrorIs(t, err, domain.ErrValidation)

	// unknown frequency is invalid
	_, err = expandOccurrences(start, "daily", start.AddDate(0, 0, 7))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
