package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hydrogen/pkg/internal/auth"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/types"
)

func createUser(t *testing.T, f *fixture, email string) uint {
	t.Helper()

	u, err := f.svc.Users.Create(context.Background(), &types.CreateUserRequest{
		Email:    email,
		Password: "Secret#123",
		FullName: "Test User",
		State:    "ny",
	})
	require.NoError(t, err)

	return u.ID
}

func TestUserCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Users.Create(ctx, &types.CreateUserRequest{
		Email:    "  Alice@Example.COM ",
		Password: "Secret#123",
		FullName: "Alice",
		State:    "ca",
	})
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "CA", u.State)
	assert.NotEqual(t, "Secret#123", u.Password)
	assert.True(t, auth.CheckPassword("Secret#123", u.Password))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	createUser(t, f, "dup@example.com")

	_, err := f.svc.Users.Create(context.Background(), &types.CreateUserRequest{
		Email:    "DUP@example.com",
		Password: "Secret#123",
		FullName: "Other",
	})
	assertBusiness(t, err, http.StatusBadRequest, MsgUserEmailExists)
}

func TestUserCreateUnknownRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Users.Create(context.Background(), &types.CreateUserRequest{
		Email:    "r@example.com",
		Password: "Secret#123",
		FullName: "R",
		Role:     "GHOST",
	})
	assertBusiness(t, err, http.StatusBadRequest, MsgRoleNotFoundValue)
}

func TestUserUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id := createUser(t, f, "u1@example.com")
	createUser(t, f, "u2@example.com")

	taken := "u2@example.com"
	_, err := f.svc.Users.Update(ctx, id, &types.UpdateUserRequest{Email: &taken})
	assertBusiness(t, err, http.StatusBadRequest, MsgUserEmailInUse)

	name, city, pw := "New Name", "Albany", "Changed#456"
	admin := true

	summary, err := f.svc.Users.Update(ctx, id, &types.UpdateUserRequest{
		FullName: &name,
		City:     &city,
		IsAdmin:  &admin,
		Password: &pw,
	})
	require.NoError(t, err)
	assert.Equal(t, types.UserSummary{
		Email:    "u1@example.com",
		FullName: "New Name",
		City:     "Albany",
		State:    "NY",
		IsAdmin:  true,
	}, *summary)

	u, err := f.svc.Users.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(pw, u.Password))

	_, err = f.svc.Users.Update(ctx, 999, &types.UpdateUserRequest{FullName: &name})
	assertBusiness(t, err, http.StatusBadRequest, MsgUserNotFound)
}

func TestUserDeleteMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assertBusiness(t, f.svc.Users.Delete(ctx, 42), http.StatusBadRequest, MsgUserNotFound)

	id := createUser(t, f, "gone@example.com")
	require.NoError(t, f.svc.Users.Delete(ctx, id))

	_, err := f.svc.Users.Get(ctx, id)
	assertBusiness(t, err, http.StatusBadRequest, MsgUserNotFound)
}

func TestUserListPaginates(t *testing.T) {
	f := newFixture(t)

	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		createUser(t, f, e)
	}

	users, err := f.svc.Users.List(context.Background(), repository.Query{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.EqualValues(t, 3, users[0].Total)
	assert.Equal(t, 2, users[0].Pages)
}
