package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/model"
)

func TestUserService_CreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, model.RoleAdmin)
	inspector := f.user(t, model.RoleInspector)
	users := NewUserService(f.users, f.cache)

	for _, role := range model.Roles {
		t.Run(string(role), func(t *testing.T) {
			in := registration(fmt.Sprintf("new-%s@example.com", role))
			in.Role = role
			user, err := users.CreateUser(ctx, admin, in)
			require.NoError(t, err)
			assert.Equal(t, role, user.Role)
			assert.Equal(t, role == model.RoleAdmin, user.IsStaff)

			profile := model.NewProfileFor(role)
			require.NoError(t, f.db.Where("user_id = ?", user.ID).First(profile).Error)
		})
	}

	in := registration("nope@example.com")
	in.Role = model.RoleWorker
	_, err := users.CreateUser(ctx, inspector, in)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	in.Role = "janitor"
	_, err = users.CreateUser(ctx, admin, in)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "role")
}

func TestUserService_GetUserIsCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	worker := f.user(t, model.RoleWorker)
	users := NewUserService(f.users, f.cache)

	got, err := users.GetUser(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, worker.Email, got.Email)
	assert.True(t, f.redis.Exists(fmt.Sprintf("user:%d", worker.ID)))

	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", worker.ID).Update("first_name", "Changed").Error)
	cached, err := users.GetUser(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test", cached.FirstName)

	_, err = users.GetUser(ctx, 4242)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, model.RoleAdmin)
	inspector := f.user(t, model.RoleInspector)
	worker := f.user(t, model.RoleWorker)
	client := f.user(t, model.RoleClient)
	users := NewUserService(f.users, f.cache)

	_, err := users.GetVisibleUser(ctx, worker, client.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	self, err := users.GetVisibleUser(ctx, worker, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, worker.ID, self.ID)
	_, err = users.GetVisibleUser(ctx, inspector, client.ID)
	assert.NoError(t, err)

	list, err := users.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, list, 4)
	_, err = users.ListUsers(ctx, client)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUserService_UpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, model.RoleAdmin)
	inspector := f.user(t, model.RoleInspector)
	worker := f.user(t, model.RoleWorker)
	users := NewUserService(f.users, f.cache)

	_, err := users.GetUser(ctx, worker.ID)
	require.NoError(t, err)

	updated, err := users.UpdateUser(ctx, worker, worker.ID, UserPatch{Bio: ptr("Night shift lead"), PhoneNumber: ptr("+447700900123")})
	require.NoError(t, err)
	assert.Equal(t, "Night shift lead", updated.Bio)
	assert.False(t, f.redis.Exists(fmt.Sprintf("user:%d", worker.ID)))

	stored, err := f.users.FindByID(ctx, worker.ID)
	require.NoError(t, err)
	assert.Equal(t, "+447700900123", stored.PhoneNumber)
	assert.Equal(t, "not-a-real-hash", stored.PasswordHash)

	_, err = users.UpdateUser(ctx, inspector, worker.ID, UserPatch{Bio: ptr("x")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = users.UpdateUser(ctx, admin, worker.ID, UserPatch{LastName: ptr("Sm1th")})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "last_name")
}

func TestUserService_DeactivateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, model.RoleAdmin)
	worker := f.user(t, model.RoleWorker)
	users := NewUserService(f.users, f.cache)

	assert.ErrorIs(t, users.DeactivateUser(ctx, worker, admin.ID), apperrors.ErrForbidden)
	require.NoError(t, users.DeactivateUser(ctx, admin, worker.ID))

	stored, err := f.users.FindByID(ctx, worker.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.ErrorIs(t, users.DeactivateUser(ctx, admin, 4242), apperrors.ErrUserNotFound)
}
