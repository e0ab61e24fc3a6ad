package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rl1809/store-pos/internal/core/domain"
)

func newTestAccountService(store *memStore) *AccountService {
	svc := NewAccountService(store, nil)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestRegisterCustomer(t *testing.T) {
	store := newMemStore()
	svc := newTestAccountService(store)
	ctx := context.Background()

	c, err := svc.RegisterCustomer(ctx, SignupRequest{Username: "ana", Password: "s3cret", Address: "Cebu", CellNo: "0917"})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.NotEqual(t, "s3cret", c.PasswordHash)

	_, err = svc.RegisterCustomer(ctx, SignupRequest{Username: "ana", Password: "other"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = svc.RegisterCustomer(ctx, SignupRequest{Username: "ben"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUsernameSharedAcrossCustomersAndStaff(t *testing.T) {
	svc := newTestAccountService(newMemStore())
	ctx := context.Background()

	_, err := svc.CreateStaffAccount(ctx, "clerk", "pw")
	require.NoError(t, err)

	_, err = svc.RegisterCustomer(ctx, SignupRequest{Username: "clerk", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestAuthenticate(t *testing.T) {
	svc := newTestAccountService(newMemStore())
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, SignupRequest{Username: "ana", Password: "s3cret"})
	require.NoError(t, err)
	_, err = svc.CreateStaffAccount(ctx, "clerk", "counter")
	require.NoError(t, err)

	p, err := svc.Authenticate(ctx, "ana", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, p.Role)

	p, err = svc.Authenticate(ctx, "clerk", "counter")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, p.Role)

	_, err = svc.Authenticate(ctx, "ana", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
