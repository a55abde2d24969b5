package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

func setupAdminService(t *testing.T) (*AdminService, memUsers, *entity.User, *entity.User, *MockCacheRepository) {
	t.Helper()
	users := memUsers{newMemStore()}
	root := &entity.User{Username: "root", Password: "rootpass", Role: entity.UserRoleRoot}
	require.NoError(t, users.Create(root))
	alice := &entity.User{Username: "alice", Password: "secret1", Role: entity.UserRoleNormal}
	require.NoError(t, users.Create(alice))

	cache := new(MockCacheRepository)
	userService := NewUserService(users, cache, time.Minute, 100)
	return NewAdminService(users, userService), users, root, alice, cache
}

func TestAdminService_RequiresRoot(t *testing.T) {
	svc, _, _, alice, _ := setupAdminService(t)

	_, err := svc.ListUsers(alice, false)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.ErrorIs(t, svc.ResetPassword(alice, 1, "newpass"), ErrForbidden)
	assert.ErrorIs(t, svc.DeleteUser(alice, 1), ErrForbidden)
	assert.ErrorIs(t, svc.RestoreUser(alice, 1), ErrForbidden)
	assert.ErrorIs(t, svc.DeleteUser(nil, 1), ErrForbidden)
}

func TestAdminService_ListUsers(t *testing.T) {
	svc, users, root, alice, _ := setupAdminService(t)
	require.NoError(t, users.SetDeleted(alice.ID, true))

	all, err := svc.ListUsers(root, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, alice.ID, all[0].ID, "Новые пользователи первыми")

	active, err := svc.ListUsers(root, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, root.ID, active[0].ID)
}

func TestAdminService_ResetPassword(t *testing.T) {
	svc, users, root, alice, _ := setupAdminService(t)

	require.NoError(t, svc.ResetPassword(root, alice.ID, "brandnew"))
	stored, _ := users.GetByID(alice.ID)
	assert.True(t, stored.CheckPassword("brandnew"))

	assert.ErrorIs(t, svc.ResetPassword(root, alice.ID, "123"), apperrors.ErrValidation)
	assert.ErrorIs(t, svc.ResetPassword(root, root.ID, "brandnew"), ErrSelfAction)
	assert.ErrorIs(t, svc.ResetPassword(root, 999, "brandnew"), ErrUserNotFound)
}

func TestAdminService_DeleteAndRestore(t *testing.T) {
	svc, users, root, alice, cache := setupAdminService(t)
	cache.On("Increment", leaderboardVersionKey).Return(int64(1), nil).Twice()

	require.NoError(t, svc.DeleteUser(root, alice.ID))
	_, err := users.GetActiveByID(alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, svc.RestoreUser(root, alice.ID))
	_, err = users.GetActiveByID(alice.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteUser(root, root.ID), ErrSelfAction)
	assert.ErrorIs(t, svc.DeleteUser(root, 999), ErrUserNotFound)
	cache.AssertExpectations(t)
}

func TestAdminService_GrantRoot(t *testing.T) {
	svc, users, _, alice, _ := setupAdminService(t)

	user, err := svc.GrantRoot(" alice ")
	require.NoError(t, err)
	assert.True(t, user.IsRoot())
	stored, _ := users.GetByID(alice.ID)
	assert.True(t, stored.IsRoot())

	_, err = svc.GrantRoot("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
