package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/airline-booking/internal/model"
)

func TestAccountService_RegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	c, err := env.accounts.Register(ctx, " Alice ", " Alice@Example.COM ", "pa55")
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Name)
	assert.Equal(t, "alice@example.com", c.Email)
	assert.Equal(t, model.RoleCustomer, c.Role)
	assert.NotEmpty(t, c.UserID)

	stored := env.customer(t, c.UserID)
	assert.NotEqual(t, "pa55", stored.PasswordHash)
	assert.Len(t, stored.PasswordHash, 64)
	assert.Equal(t, hashPassword("alice@example.com", "pa55"), stored.PasswordHash)

	got, err := env.accounts.Authenticate(ctx, "ALICE@example.com", "pa55")
	require.NoError(t, err)
	assert.Equal(t, c.UserID, got.UserID)

	_, err = env.accounts.Authenticate(ctx, "alice@example.com", "PA55")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = env.accounts.Authenticate(ctx, "bob@example.com", "pa55")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = env.accounts.Register(ctx, "Other", "alice@example.com", "x")
	assert.ErrorIs(t, err, model.ErrEmailTaken)

	_, err = env.accounts.Register(ctx, "", "new@example.com", "x")
	assert.ErrorIs(t, err, model.ErrInvalidCustomer)
}

func TestAccountService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	admin, err := env.accounts.EnsureAdmin(ctx, "admin@example.com", "root")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	again, err := env.accounts.EnsureAdmin(ctx, "admin@example.com", "root")
	require.NoError(t, err)
	assert.Equal(t, admin.UserID, again.UserID)

	_, err = env.accounts.Register(ctx, "Bob", "bob@example.com", "x")
	require.NoError(t, err)
	_, err = env.accounts.EnsureAdmin(ctx, "bob@example.com", "x")
	assert.ErrorIs(t, err, model.ErrEmailTaken)

	all, err := env.accounts.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
