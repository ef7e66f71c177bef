package services

import (
	"context"
	"testing"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"
	"github.com/Kaixun123/SerenShift-sub001/internal/pkg/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationReadScoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.notifications.Notify(ctx, domain.EventCreated, env.staff1.ID, env.manager.ID, nil, "first")
	env.notifications.Notify(ctx, domain.EventCreated, env.staff2.ID, env.manager.ID, nil, "second")

	params := &pagination.Params{Page: 1, Limit: 20}
	result, err := env.notifications.List(ctx, env.manager.ID, params)
	require.NoError(t, err)
	require.Len(t, result.Notifications, 2)
	assert.EqualValues(t, 2, result.UnreadCount)

	target := result.Notifications[0]

	// another employee cannot mark the manager's notification
	err = env.notifications.MarkRead(ctx, env.staff1.ID, target.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, env.notifications.MarkRead(ctx, env.manager.ID, target.ID))

	result, err = env.notifications.List(ctx, env.manager.ID, params)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.UnreadCount)
}

func TestMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.notifications.Notify(ctx, domain.EventApproved, env.manager.ID, env.staff1.ID, nil, "approved")
	env.notifications.Notify(ctx, domain.EventRejected, env.manager.ID, env.staff1.ID, nil, "rejected")

	updated, err := env.notifications.MarkAllRead(ctx, env.staff1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	// second pass has nothing left to flip
	updated, err = env.notifications.MarkAllRead(ctx, env.staff1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated)
}

func TestNotifyWithoutWebhookMarksSent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.notifications.Notify(ctx, domain.EventWithdrawn, env.staff1.ID, env.manager.ID, nil, "withdrawn")

	result, err := env.notifications.List(ctx, env.manager.ID, &pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, "Sent", result.Notifications[0].SendStatus)
}
