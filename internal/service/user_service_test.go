package service_test

import (
	"context"
	"errors"
	"testing"

	"jwt-auth-server/internal/model"
	"jwt-auth-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) SetUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockCacheRepository) GetUser(ctx context.Context, uuid string) (*model.User, error) {
	args := m.Called(ctx, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheRepository) DeleteUser(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func newTestUserService() (*service.UserService, *MockUserRepository, *MockCacheRepository) {
	mockUserRepo := new(MockUserRepository)
	mockCache := new(MockCacheRepository)
	svc := service.NewUserService(mockUserRepo, mockCache)
	return svc, mockUserRepo, mockCache
}

func TestGetCurrentUser_CacheHit(t *testing.T) {
	svc, mockUserRepo, mockCache := newTestUserService()
	ctx := context.Background()

	cached := &model.User{UUID: "u1", Email: "test@example.com"}
	mockCache.On("GetUser", ctx, "u1").Return(cached, nil)

	got, err := svc.GetCurrentUser(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, cached, got)
	mockUserRepo.AssertNotCalled(t, "FindByUUID", mock.Anything, mock.Anything)
}

func TestGetCurrentUser_CacheMissWarmsCache(t *testing.T) {
	svc, mockUserRepo, mockCache := newTestUserService()
	ctx := context.Background()

	user := &model.User{UUID: "u1", Email: "test@example.com"}
	mockCache.On("GetUser", ctx, "u1").Return(nil, nil)
	mockUserRepo.On("FindByUUID", ctx, "u1").Return(user, nil)
	mockCache.On("SetUser", ctx, user).Return(nil)

	got, err := svc.GetCurrentUser(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, user, got)
	mockCache.AssertExpectations(t)
}

// недоступный Redis не должен ломать запрос
func TestGetCurrentUser_CacheDownFallsBackToDB(t *testing.T) {
	svc, mockUserRepo, mockCache := newTestUserService()
	ctx := context.Background()

	user := &model.User{UUID: "u1", Email: "test@example.com"}
	mockCache.On("GetUser", ctx, "u1").Return(nil, errors.New("connection refused"))
	mockUserRepo.On("FindByUUID", ctx, "u1").Return(user, nil)
	mockCache.On("SetUser", ctx, user).Return(errors.New("connection refused"))

	got, err := svc.GetCurrentUser(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestGetCurrentUser_NotFound(t *testing.T) {
	svc, mockUserRepo, mockCache := newTestUserService()
	ctx := context.Background()

	mockCache.On("GetUser", ctx, "ghost").Return(nil, nil)
	mockUserRepo.On("FindByUUID", ctx, "ghost").Return(nil, model.ErrUserNotFound)

	_, err := svc.GetCurrentUser(ctx, "ghost")

	assert.ErrorIs(t, err, model.ErrUserNotFound)
	mockCache.AssertNotCalled(t, "SetUser", mock.Anything, mock.Anything)
}
