package services

import (
	"context"
	"testing"
	"time"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistRoleEnforcement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.blacklists.Create(ctx, actorOf(env.staff1), &CreateBlacklistInput{
		StartDate: futureDate(10),
		EndDate:   futureDate(10),
	})
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	// both managers and HR may create
	_, err = env.blacklists.Create(ctx, actorOf(env.manager), &CreateBlacklistInput{
		StartDate: futureDate(10),
		EndDate:   futureDate(10),
		Remarks:   "department offsite",
	})
	assert.NoError(t, err)
}

func TestBlacklistWindowBounds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	windows, err := env.blacklists.Create(ctx, actorOf(env.hr), &CreateBlacklistInput{
		StartDate: futureDate(10),
		EndDate:   futureDate(11),
	})
	require.NoError(t, err)
	require.Len(t, windows, 1)

	w := windows[0]
	assert.Equal(t, 0, w.StartDate.Hour())
	assert.Equal(t, 23, w.EndDate.Hour())
	assert.Equal(t, 59, w.EndDate.Minute())
	assert.Equal(t, 59, w.EndDate.Second())

	// end before start is rejected
	_, err = env.blacklists.Create(ctx, actorOf(env.hr), &CreateBlacklistInput{
		StartDate: futureDate(12),
		EndDate:   futureDate(11),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBlacklistRecurrenceMaterialization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 1, 0)
	startStr := start.Format("2006-01-02")
	endStr := start.AddDate(0, 0, 1).Format("2006-01-02")
	// three weekly occurrences; the recurrence end itself is excluded
	recurrenceEnd := start.AddDate(0, 0, 21).Format("2006-01-02")

	windows, err := env.blacklists.Create(ctx, actorOf(env.hr), &CreateBlacklistInput{
		StartDate:     startStr,
		EndDate:       endStr,
		Remarks:       "weekly on-site day",
		Recurrence:    "weekly",
		RecurrenceEnd: recurrenceEnd,
	})
	require.NoError(t, err)
	require.Len(t, windows, 3)

	// each occurrence keeps the original window span and is an
	// independent row
	for i, w := range windows {
		assert.NotZero(t, w.ID)
		wantStart := start.AddDate(0, 0, 7*i).Format("2006-01-02")
		assert.Equal(t, wantStart, w.StartDate.Format("2006-01-02"))
		assert.Equal(t, w.StartDate.AddDate(0, 0, 1).Format("2006-01-02"), w.EndDate.Format("2006-01-02"))
		assert.Equal(t, "weekly on-site day", w.Remarks)
	}
}

func TestCheckBlockedBoundaries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	windows, err := env.blacklists.Create(ctx, actorOf(env.hr), &CreateBlacklistInput{
		StartDate: futureDate(10),
		EndDate:   futureDate(11),
	})
	require.NoError(t, err)
	w := windows[0]

	// candidate touching the window is blocked
	err = env.blacklists.CheckBlocked(ctx, w.EndDate.Add(-time.Hour), w.EndDate.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// one second after the window end is clear
	err = env.blacklists.CheckBlocked(ctx, w.EndDate.Add(time.Second), w.EndDate.Add(time.Hour))
	assert.NoError(t, err)

	// one second before the window start is blocked only if the range
	// reaches the start
	err = env.blacklists.CheckBlocked(ctx, w.StartDate.Add(-time.Hour), w.StartDate.Add(-time.Second))
	assert.NoError(t, err)
	err = env.blacklists.CheckBlocked(ctx, w.StartDate.Add(-time.Hour), w.StartDate)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBlacklistUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	windows, err := env.blacklists.Create(ctx, actorOf(env.hr), &CreateBlacklistInput{
		StartDate: futureDate(10),
		EndDate:   futureDate(10),
		Remarks:   "original",
		Files: []FileUpload{
			{FileName: "memo.pdf", Content: []byte("memo body")},
		},
	})
	require.NoError(t, err)
	w := windows[0]
	require.Len(t, w.Files, 1)

	remarks := "rescheduled"
	endDate := futureDate(12)
	updated, err := env.blacklists.Update(ctx, actorOf(env.manager), w.ID, &UpdateBlacklistInput{
		EndDate: &endDate,
		Remarks: &remarks,
	})
	require.NoError(t, err)
	assert.Equal(t, "rescheduled", updated.Remarks)
	assert.Equal(t, env.manager.ID, updated.LastUpdateByID)

	// delete cascades to attachments
	require.NoError(t, env.blacklists.Delete(ctx, actorOf(env.hr), w.ID))

	files, err := env.files.ListFor(ctx, models.FileEntityBlacklist, w.ID)
	require.NoError(t, err)
	assert.Empty(t, files)

	err = env.blacklists.Delete(ctx, actorOf(env.hr), w.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
