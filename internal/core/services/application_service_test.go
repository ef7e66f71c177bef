package services

import (
	"context"
	"testing"

	"github.com/Kaixun123/SerenShift-sub001/internal/adapters/persistence/models"
	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSingleApplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate:        futureDate(7),
		TimeSlot:         "AM",
		ApplicationType:  "Ad Hoc",
		RequestorRemarks: "dentist in the afternoon",
	})
	require.NoError(t, err)
	require.Len(t, chain, 1)

	app := chain[0]
	assert.Equal(t, domain.StatusPending, app.Status)
	assert.Equal(t, env.staff1.ID, app.CreatedByID)
	assert.Nil(t, app.LinkedApplicationID)
	assert.Equal(t, domain.SlotAM, domain.SlotOf(app.StartDate, app.EndDate))

	// creation notifies the reporting manager
	notifications, total, err := env.notificationRepo.ListByRecipient(ctx, env.manager.ID, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	assert.Equal(t, string(domain.EventCreated), notifications[0].NotificationType)
}

func TestCreateRejectsPastDate(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.apps.Create(context.Background(), actorOf(env.staff1), &CreateApplicationInput{
		StartDate:       futureDate(-1),
		TimeSlot:        "AM",
		ApplicationType: "Ad Hoc",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateRecurringChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// weekly for four weeks: the end date itself is excluded
	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate:       futureDate(7),
		TimeSlot:        "Full Day",
		ApplicationType: "Regular",
		Recurrence:      "weekly",
		RecurrenceEnd:   futureDate(7 + 28),
	})
	require.NoError(t, err)
	require.Len(t, chain, 4)

	root := chain[0]
	assert.Nil(t, root.LinkedApplicationID)
	for _, child := range chain[1:] {
		require.NotNil(t, child.LinkedApplicationID)
		assert.Equal(t, root.ID, *child.LinkedApplicationID)
		assert.Equal(t, root.ID, child.ChainRootID())
	}

	// occurrences are one week apart
	for i := 1; i < len(chain); i++ {
		want := chain[i-1].StartDate.AddDate(0, 0, 7)
		assert.Equal(t, want.Format("2006-01-02"), chain[i].StartDate.Format("2006-01-02"))
	}
}

func TestRecurrenceRequiresRegularType(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.apps.Create(context.Background(), actorOf(env.staff1), &CreateApplicationInput{
		StartDate:       futureDate(7),
		TimeSlot:        "AM",
		ApplicationType: "Ad Hoc",
		Recurrence:      "weekly",
		RecurrenceEnd:   futureDate(21),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConflictDetection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := actorOf(env.staff1)
	date := futureDate(7)

	_, err := env.apps.Create(ctx, actor, &CreateApplicationInput{
		StartDate: date, TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)

	// same slot on the same date conflicts
	_, err = env.apps.Create(ctx, actor, &CreateApplicationInput{
		StartDate: date, TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// full day overlaps the existing AM application
	_, err = env.apps.Create(ctx, actor, &CreateApplicationInput{
		StartDate: date, TimeSlot: "Full Day", ApplicationType: "Ad Hoc",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// PM on the same date is disjoint from AM
	_, err = env.apps.Create(ctx, actor, &CreateApplicationInput{
		StartDate: date, TimeSlot: "PM", ApplicationType: "Ad Hoc",
	})
	assert.NoError(t, err)

	// a different employee is never in conflict
	_, err = env.apps.Create(ctx, actorOf(env.staff2), &CreateApplicationInput{
		StartDate: date, TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	assert.NoError(t, err)
}

func TestBlacklistBlocksCreation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.blacklists.Create(ctx, actorOf(env.hr), &CreateBlacklistInput{
		StartDate: futureDate(10),
		EndDate:   futureDate(12),
		Remarks:   "quarterly town hall",
	})
	require.NoError(t, err)

	// inside the window fails
	_, err = env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(11), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// the window's last day still fails
	_, err = env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(12), TimeSlot: "PM", ApplicationType: "Ad Hoc",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// the day after the window succeeds
	_, err = env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(13), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	assert.NoError(t, err)
}

func TestApproveLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(7), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	appID := chain[0].ID

	updated, err := env.apps.Approve(ctx, actorOf(env.manager), appID, "ok", false)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, domain.StatusApproved, updated[0].Status)

	// approval materializes a schedule entry
	schedule, err := env.scheduleRepo.GetByApplicationID(ctx, appID)
	require.NoError(t, err)
	assert.Equal(t, env.staff1.ID, schedule.CreatedByID)
	require.NotNil(t, schedule.VerifyByID)
	assert.Equal(t, env.manager.ID, *schedule.VerifyByID)

	// approving again is an illegal transition
	_, err = env.apps.Approve(ctx, actorOf(env.manager), appID, "again", false)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// withdraw-approved retracts the schedule
	updated, err = env.apps.WithdrawApproved(ctx, actorOf(env.staff1), appID, "plans changed", false)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWithdrawn, updated[0].Status)

	_, err = env.scheduleRepo.GetByApplicationID(ctx, appID)
	assert.Error(t, err)
}

func TestApprovalAuthorization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(7), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	appID := chain[0].ID

	// staff cannot approve at all
	_, err = env.apps.Approve(ctx, actorOf(env.staff2), appID, "", false)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	// a manager cannot approve their own application
	managerChain, err := env.apps.Create(ctx, actorOf(env.manager), &CreateApplicationInput{
		StartDate: futureDate(8), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	_, err = env.apps.Approve(ctx, actorOf(env.manager), managerChain[0].ID, "", false)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	// HR may approve anyone else's application
	_, err = env.apps.Approve(ctx, actorOf(env.hr), managerChain[0].ID, "", false)
	assert.NoError(t, err)
}

func TestApproveByUnrelatedManager(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := &models.Employee{
		FirstName: "Olivia", LastName: "Ng",
		Department: "Finance", Position: "Finance Manager",
		Email: "olivia@serenshift.local", Password: testPasswordHash(t),
		Role: domain.RoleManager, IsActive: true,
	}
	require.NoError(t, env.db.Create(other).Error)

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(7), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)

	_, err = env.apps.Approve(ctx, actorOf(other), chain[0].ID, "", false)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestWithdrawChainAtomicity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := actorOf(env.staff1)

	chain, err := env.apps.Create(ctx, actor, &CreateApplicationInput{
		StartDate:       futureDate(7),
		TimeSlot:        "AM",
		ApplicationType: "Regular",
		Recurrence:      "weekly",
		RecurrenceEnd:   futureDate(7 + 28),
	})
	require.NoError(t, err)
	require.Len(t, chain, 4)

	// withdraw one member individually
	_, err = env.apps.WithdrawPending(ctx, actor, chain[2].ID, "", false)
	require.NoError(t, err)

	// the whole-chain withdraw must now fail without touching any row
	_, err = env.apps.WithdrawPending(ctx, actor, chain[0].ID, "", true)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	fresh, err := env.appRepo.GetChain(ctx, chain[0].ID)
	require.NoError(t, err)
	pending := 0
	for _, app := range fresh {
		if app.Status == domain.StatusPending {
			pending++
		}
	}
	assert.Equal(t, 3, pending)
}

func TestApproveWholeChain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate:       futureDate(7),
		TimeSlot:        "PM",
		ApplicationType: "Regular",
		Recurrence:      "weekly",
		RecurrenceEnd:   futureDate(7 + 21),
	})
	require.NoError(t, err)
	require.Len(t, chain, 3)

	updated, err := env.apps.Approve(ctx, actorOf(env.manager), chain[0].ID, "all fine", true)
	require.NoError(t, err)
	require.Len(t, updated, 3)

	// one schedule entry per chain member
	for _, app := range updated {
		assert.Equal(t, domain.StatusApproved, app.Status)
		_, err := env.scheduleRepo.GetByApplicationID(ctx, app.ID)
		assert.NoError(t, err)
	}

	// whole-chain withdraw retracts every schedule
	_, err = env.apps.WithdrawApproved(ctx, actorOf(env.staff1), chain[0].ID, "", true)
	require.NoError(t, err)
	for _, app := range chain {
		_, err := env.scheduleRepo.GetByApplicationID(ctx, app.ID)
		assert.Error(t, err)
	}
}

func TestWithdrawRequestorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(7), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)

	_, err = env.apps.WithdrawPending(ctx, actorOf(env.staff2), chain[0].ID, "", false)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	// a second withdraw of the same row is rejected
	_, err = env.apps.WithdrawPending(ctx, actorOf(env.staff1), chain[0].ID, "", false)
	require.NoError(t, err)
	_, err = env.apps.WithdrawPending(ctx, actorOf(env.staff1), chain[0].ID, "", false)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestWithdrawApprovedByApprover(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(7), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	appID := chain[0].ID

	_, err = env.apps.Approve(ctx, actorOf(env.manager), appID, "ok", false)
	require.NoError(t, err)

	// a colleague still cannot withdraw someone else's application
	_, err = env.apps.WithdrawApproved(ctx, actorOf(env.staff2), appID, "", false)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	// neither can a manager of a different team
	other := &models.Employee{
		FirstName: "Olivia", LastName: "Ng",
		Department: "Finance", Position: "Finance Manager",
		Email: "olivia@serenshift.local", Password: testPasswordHash(t),
		Role: domain.RoleManager, IsActive: true,
	}
	require.NoError(t, env.db.Create(other).Error)
	_, err = env.apps.WithdrawApproved(ctx, actorOf(other), appID, "", false)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	// the approving manager may retract it, schedule included
	updated, err := env.apps.WithdrawApproved(ctx, actorOf(env.manager), appID, "office day required", false)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWithdrawn, updated[0].Status)

	_, err = env.scheduleRepo.GetByApplicationID(ctx, appID)
	assert.Error(t, err)

	fresh, err := env.appRepo.GetByID(ctx, appID)
	require.NoError(t, err)
	assert.Equal(t, "office day required", fresh.ApproverRemarks)

	// the requestor is told, not the manager
	result, err := env.notifications.List(ctx, env.staff1.ID, &pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	withdrawn := 0
	for _, n := range result.Notifications {
		if n.NotificationType == string(domain.EventWithdrawn) {
			withdrawn++
		}
	}
	assert.Equal(t, 1, withdrawn)

	// pending applications stay requestor-only even for the manager
	pendingChain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(9), TimeSlot: "PM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	_, err = env.apps.WithdrawPending(ctx, actorOf(env.manager), pendingChain[0].ID, "", false)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestRejectRequiresRemarks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(7), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	appID := chain[0].ID

	_, err = env.apps.Reject(ctx, actorOf(env.manager), appID, "", false)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// the row is untouched
	fresh, err := env.appRepo.GetByID(ctx, appID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, fresh.Status)

	updated, err := env.apps.Reject(ctx, actorOf(env.manager), appID, "headcount needed on site", false)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, updated[0].Status)

	fresh, err = env.appRepo.GetByID(ctx, appID)
	require.NoError(t, err)
	assert.Equal(t, "headcount needed on site", fresh.ApproverRemarks)
}

func TestUpdatePendingApplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := actorOf(env.staff1)

	chain, err := env.apps.Create(ctx, actor, &CreateApplicationInput{
		StartDate: futureDate(7), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	appID := chain[0].ID

	newSlot := "PM"
	updated, err := env.apps.UpdatePending(ctx, actor, appID, &UpdateApplicationInput{
		TimeSlot: &newSlot,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SlotPM, domain.SlotOf(updated.StartDate, updated.EndDate))

	// only the requestor may edit
	_, err = env.apps.UpdatePending(ctx, actorOf(env.staff2), appID, &UpdateApplicationInput{
		TimeSlot: &newSlot,
	})
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	// approved rows are no longer editable
	_, err = env.apps.Approve(ctx, actorOf(env.manager), appID, "", false)
	require.NoError(t, err)
	_, err = env.apps.UpdatePending(ctx, actor, appID, &UpdateApplicationInput{TimeSlot: &newSlot})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestListPendingByApprover(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(7), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	_, err = env.apps.Create(ctx, actorOf(env.staff2), &CreateApplicationInput{
		StartDate: futureDate(8), TimeSlot: "PM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)

	params := &pagination.Params{Page: 1, Limit: 20}
	apps, meta, err := env.apps.ListPending(ctx, actorOf(env.manager), params)
	require.NoError(t, err)
	assert.Len(t, apps, 2)
	assert.EqualValues(t, 2, meta.Total)

	// staff cannot list pending approvals
	_, _, err = env.apps.ListPending(ctx, actorOf(env.staff1), params)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestGetApplicationVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(7), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	appID := chain[0].ID

	// requestor, their manager and HR can view
	for _, viewer := range []*models.Employee{env.staff1, env.manager, env.hr} {
		_, err := env.apps.Get(ctx, actorOf(viewer), appID)
		assert.NoError(t, err)
	}

	// an unrelated peer cannot
	_, err = env.apps.Get(ctx, actorOf(env.staff2), appID)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = env.apps.Get(ctx, actorOf(env.staff1), 99999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
