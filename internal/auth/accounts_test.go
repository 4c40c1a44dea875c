package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petermazzocco/renovation-portal/internal/repository"
	"github.com/petermazzocco/renovation-portal/internal/testutil"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

func newAccounts(t *testing.T) *Accounts {
	t.Helper()
	return NewAccounts(repository.NewGormUserRepository(testutil.NewTestDB(t)))
}

func TestAccounts_RegisterAndAuthenticate(t *testing.T) {
	accounts := newAccounts(t)
	ctx := context.Background()

	u, err := accounts.Register(ctx, RegisterInput{
		FullName: "Jane Doe",
		Address:  "12 Oak St",
		Phone:    "555-0101",
		Email:    "Jane@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, u.Role)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.Password)

	got, err := accounts.Authenticate(ctx, "JANE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = accounts.Authenticate(ctx, "jane@example.com", "wrong-pass")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	_, err = accounts.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = accounts.Register(ctx, RegisterInput{Email: "jane@example.com", Password: "another"})
	assert.ErrorIs(t, err, utils.ErrEmailTaken)
}

func TestAccounts_RegisterValidation(t *testing.T) {
	accounts := newAccounts(t)
	ctx := context.Background()

	_, err := accounts.Register(ctx, RegisterInput{Email: "a@example.com", Password: "12345"})
	assert.ErrorIs(t, err, utils.ErrValidation)
	_, err = accounts.Register(ctx, RegisterInput{Email: " ", Password: "123456"})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestAccounts_CreateAdminPromotesExisting(t *testing.T) {
	accounts := newAccounts(t)
	ctx := context.Background()

	customer, err := accounts.Register(ctx, RegisterInput{Email: "boss@example.com", Password: "oldpass"})
	require.NoError(t, err)

	admin, err := accounts.CreateAdmin(ctx, RegisterInput{Email: "boss@example.com", Password: "newpass"})
	require.NoError(t, err)
	assert.Equal(t, customer.ID, admin.ID)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	got, err := accounts.Authenticate(ctx, "boss@example.com", "newpass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	fresh, err := accounts.CreateAdmin(ctx, RegisterInput{FullName: "Ops", Email: "ops@example.com", Password: "opspass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, fresh.Role)

	_, err = accounts.FindForOAuth(ctx, "stranger@example.com")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}
