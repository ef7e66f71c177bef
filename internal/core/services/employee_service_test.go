package services

import (
	"context"
	"testing"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSubordinates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	subordinates, err := env.employees.ListSubordinates(ctx, actorOf(env.manager))
	require.NoError(t, err)
	assert.Len(t, subordinates, 2)

	_, err = env.employees.ListSubordinates(ctx, actorOf(env.staff1))
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestListColleagues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// peers share a reporting manager; the actor is excluded
	colleagues, err := env.employees.ListColleagues(ctx, actorOf(env.staff1))
	require.NoError(t, err)
	require.Len(t, colleagues, 1)
	assert.Equal(t, env.staff2.ID, colleagues[0].ID)
}

func TestCreateEmployee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	input := &CreateEmployeeInput{
		FirstName:          "Wei",
		LastName:           "Chen",
		Department:         "Engineering",
		Email:              "wei@serenshift.local",
		Password:           "serenshift123",
		Role:               "Staff",
		ReportingManagerID: &env.manager.ID,
	}

	// HR only
	_, err := env.employees.Create(ctx, actorOf(env.manager), input)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	employee, err := env.employees.Create(ctx, actorOf(env.hr), input)
	require.NoError(t, err)
	assert.NotZero(t, employee.ID)
	assert.NotEqual(t, "serenshift123", employee.Password)

	// duplicate email is a conflict
	_, err = env.employees.Create(ctx, actorOf(env.hr), input)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// reporting manager must hold an approver role
	bad := *input
	bad.Email = "other@serenshift.local"
	bad.ReportingManagerID = &env.staff1.ID
	_, err = env.employees.Create(ctx, actorOf(env.hr), &bad)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteEmployeeDetachesReports(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.employees.Delete(ctx, actorOf(env.hr), env.manager.ID))

	// direct reports survive with the manager reference nulled
	staff, err := env.employees.GetByID(ctx, env.staff1.ID)
	require.NoError(t, err)
	assert.Nil(t, staff.ReportingManagerID)

	// self-deletion is rejected
	err = env.employees.Delete(ctx, actorOf(env.hr), env.hr.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// non-HR cannot delete
	err = env.employees.Delete(ctx, actorOf(env.staff1), env.staff2.ID)
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestStatisticsOverview(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	chain, err := env.apps.Create(ctx, actorOf(env.staff1), &CreateApplicationInput{
		StartDate: futureDate(3), TimeSlot: "AM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)
	_, err = env.apps.Approve(ctx, actorOf(env.manager), chain[0].ID, "", false)
	require.NoError(t, err)

	_, err = env.apps.Create(ctx, actorOf(env.staff2), &CreateApplicationInput{
		StartDate: futureDate(4), TimeSlot: "PM", ApplicationType: "Ad Hoc",
	})
	require.NoError(t, err)

	// HR only
	_, err = env.statistics.Overview(ctx, actorOf(env.manager))
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	overview, err := env.statistics.Overview(ctx, actorOf(env.hr))
	require.NoError(t, err)
	assert.EqualValues(t, 1, overview.ApplicationsByStatus["Approved"])
	assert.EqualValues(t, 1, overview.ApplicationsByStatus["Pending"])
	assert.EqualValues(t, 1, overview.PendingByDepartment["Engineering"])
	assert.EqualValues(t, 4, overview.TotalEmployees)
	assert.EqualValues(t, 1, overview.WFHHeadcountPerDay[futureDate(3)])
}
