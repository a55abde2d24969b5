package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/wordduel-api/internal/domain/entity"
	"github.com/yourusername/wordduel-api/internal/domain/repository"
	"github.com/yourusername/wordduel-api/internal/handler/dto"
	apperrors "github.com/yourusername/wordduel-api/internal/pkg/errors"
)

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	return m.Called(key, dest).Error(0)
}

var _ repository.CacheRepository = (*MockCacheRepository)(nil)

func seedUsers(t *testing.T, users memUsers, ratings map[string]int64) map[string]*entity.User {
	t.Helper()
	out := make(map[string]*entity.User, len(ratings))
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		rating, ok := ratings[name]
		if !ok {
			continue
		}
		u := &entity.User{Username: name, Password: "secret1", Role: entity.UserRoleNormal}
		require.NoError(t, users.Create(u))
		users.users[u.ID].Rating = rating
		u.Rating = rating
		out[name] = u
	}
	return out
}

// ============================================================================
// Лидерборд
// ============================================================================

func TestUserService_GetLeaderboard_OrderAndRanks(t *testing.T) {
	users := memUsers{newMemStore()}
	seeded := seedUsers(t, users, map[string]int64{"alice": 3, "bob": 7, "carol": 3, "dave": -2})
	require.NoError(t, users.SetDeleted(seeded["dave"].ID, true))
	svc := NewUserService(users, nil, time.Minute, 100)

	page, err := svc.GetLeaderboard(1, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total, "Удалённые пользователи не учитываются")
	require.Len(t, page.Users, 2)
	assert.Equal(t, "bob", page.Users[0].Username)
	assert.Equal(t, 1, page.Users[0].Rank)
	assert.Equal(t, "alice", page.Users[1].Username, "При равном рейтинге выше тот, кто зарегистрировался раньше")

	page, err = svc.GetLeaderboard(2, 2)
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "carol", page.Users[0].Username)
	assert.Equal(t, 3, page.Users[0].Rank)
}

func TestUserService_GetLeaderboard_PageSizeBounds(t *testing.T) {
	users := memUsers{newMemStore()}
	svc := NewUserService(users, nil, time.Minute, 50)

	page, err := svc.GetLeaderboard(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, defaultLeaderboardLimit, page.PerPage)

	page, err = svc.GetLeaderboard(1, 1000)
	require.NoError(t, err)
	assert.Equal(t, 50, page.PerPage)
}

func TestUserService_GetLeaderboard_CacheHit(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockCacheRepository)
	svc := NewUserService(repo, cache, time.Minute, 100)

	cache.On("Get", leaderboardVersionKey).Return("3", nil).Once()
	cache.On("GetJSON", "leaderboard:v3:1:10", mock.Anything).Run(func(args mock.Arguments) {
		dest := args.Get(1).(*dto.PaginatedLeaderboardResponse)
		dest.Total = 42
		dest.Page = 1
		dest.PerPage = 10
	}).Return(nil).Once()

	page, err := svc.GetLeaderboard(1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(42), page.Total)
	cache.AssertExpectations(t)
	repo.AssertNotCalled(t, "GetLeaderboard", mock.Anything, mock.Anything)
}

func TestUserService_GetLeaderboard_CacheMissStoresPage(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockCacheRepository)
	svc := NewUserService(repo, cache, time.Minute, 100)

	cache.On("Get", leaderboardVersionKey).Return("", apperrors.ErrNotFound).Once()
	cache.On("GetJSON", "leaderboard:v0:1:10", mock.Anything).Return(apperrors.ErrNotFound).Once()
	repo.On("GetLeaderboard", 10, 0).Return([]entity.User{{ID: 5, Username: "bob", Rating: 7}}, int64(1), nil).Once()
	cache.On("SetJSON", "leaderboard:v0:1:10", mock.AnythingOfType("*dto.PaginatedLeaderboardResponse"), time.Minute).Return(nil).Once()

	page, err := svc.GetLeaderboard(1, 10)

	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, uint(5), page.Users[0].UserID)
	cache.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestUserService_GetLeaderboard_CacheFailureFallsBackToStore(t *testing.T) {
	repo := new(MockUserRepository)
	cache := new(MockCacheRepository)
	svc := NewUserService(repo, cache, time.Minute, 100)

	cache.On("Get", leaderboardVersionKey).Return("", errors.New("redis down"))
	cache.On("GetJSON", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	cache.On("SetJSON", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	repo.On("GetLeaderboard", 10, 0).Return([]entity.User{}, int64(0), nil).Once()

	page, err := svc.GetLeaderboard(1, 10)

	require.NoError(t, err, "Недоступный кеш не ломает лидерборд")
	assert.Empty(t, page.Users)
	repo.AssertExpectations(t)
}

func TestUserService_InvalidateLeaderboard(t *testing.T) {
	cache := new(MockCacheRepository)
	svc := NewUserService(new(MockUserRepository), cache, time.Minute, 100)
	cache.On("Increment", leaderboardVersionKey).Return(int64(4), nil).Once()

	svc.InvalidateLeaderboard()

	cache.AssertExpectations(t)

	// Без кеша ничего не происходит
	NewUserService(new(MockUserRepository), nil, time.Minute, 100).InvalidateLeaderboard()
}

// ============================================================================
// Профиль
// ============================================================================

func TestUserService_GetPublicProfile(t *testing.T) {
	users := memUsers{newMemStore()}
	seeded := seedUsers(t, users, map[string]int64{"alice": 1})
	svc := NewUserService(users, nil, time.Minute, 100)

	user, err := svc.GetPublicProfile(seeded["alice"].ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	require.NoError(t, users.SetDeleted(seeded["alice"].ID, true))
	_, err = svc.GetPublicProfile(seeded["alice"].ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	users := memUsers{newMemStore()}
	seeded := seedUsers(t, users, map[string]int64{"alice": 0, "bob": 0})
	svc := NewUserService(users, nil, time.Minute, 100)
	alice, _ := users.GetActiveByID(seeded["alice"].ID)

	intro := "  учу английский "
	updated, err := svc.UpdateProfile(alice, alice.ID, UpdateProfileInput{Introduction: &intro})
	require.NoError(t, err)
	assert.Equal(t, "учу английский", updated.Introduction, "Текст о себе меняется без пароля")
	assert.Equal(t, alice.Credential(), updated.Credential())

	_, err = svc.UpdateProfile(alice, alice.ID, UpdateProfileInput{CurrentPassword: "wrong", NewPassword: "secret2"})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = svc.UpdateProfile(alice, alice.ID, UpdateProfileInput{CurrentPassword: "secret1", NewPassword: "123"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	updated, err = svc.UpdateProfile(alice, alice.ID, UpdateProfileInput{CurrentPassword: "secret1", NewPassword: "secret2"})
	require.NoError(t, err)
	assert.NotEqual(t, alice.Credential(), updated.Credential(), "Смена пароля меняет pwhash")
	assert.True(t, updated.CheckPassword("secret2"))

	_, err = svc.UpdateProfile(alice, alice.ID, UpdateProfileInput{})
	assert.ErrorIs(t, err, ErrNoUpdates)

	_, err = svc.UpdateProfile(alice, seeded["bob"].ID, UpdateProfileInput{Introduction: &intro})
	assert.ErrorIs(t, err, ErrForbidden, "Чужой профиль менять нельзя")
}
