package services

import (
	"context"
	"testing"

	"github.com/Kaixun123/SerenShift-sub001/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Login(ctx, &LoginInput{
		Email:    "siti@serenshift.local",
		Password: "serenshift123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)
	assert.Equal(t, env.staff1.ID, result.Employee.ID)

	_, err = env.auth.Login(ctx, &LoginInput{
		Email:    "siti@serenshift.local",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, &LoginInput{
		Email:    "nobody@serenshift.local",
		Password: "serenshift123",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginInactiveEmployee(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.staff1.IsActive = false
	require.NoError(t, env.db.Save(env.staff1).Error)

	_, err := env.auth.Login(ctx, &LoginInput{
		Email:    "siti@serenshift.local",
		Password: "serenshift123",
	})
	assert.ErrorIs(t, err, domain.ErrEmployeeInactive)
}

func TestRefreshRotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Login(ctx, &LoginInput{
		Email:    "siti@serenshift.local",
		Password: "serenshift123",
	})
	require.NoError(t, err)
	oldToken := result.Tokens.RefreshToken

	fresh, err := env.auth.Refresh(ctx, oldToken)
	require.NoError(t, err)
	assert.NotEqual(t, oldToken, fresh.RefreshToken)

	// the rotated-out token is dead
	_, err = env.auth.Refresh(ctx, oldToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	// the replacement still works
	_, err = env.auth.Refresh(ctx, fresh.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.auth.Login(ctx, &LoginInput{
		Email:    "siti@serenshift.local",
		Password: "serenshift123",
	})
	require.NoError(t, err)
	second, err := env.auth.Login(ctx, &LoginInput{
		Email:    "siti@serenshift.local",
		Password: "serenshift123",
	})
	require.NoError(t, err)

	require.NoError(t, env.auth.LogoutAll(ctx, env.staff1.ID))

	_, err = env.auth.Refresh(ctx, first.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
	_, err = env.auth.Refresh(ctx, second.Tokens.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
