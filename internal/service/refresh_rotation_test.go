package service_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"jwt-auth-server/config"
	"jwt-auth-server/internal/model"
	"jwt-auth-server/internal/security"
	"jwt-auth-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserStore — потокобезопасное хранилище в памяти с той же семантикой
// compare-and-set, что и у UPDATE ... WHERE refresh_token = ... в Postgres
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (s *fakeUserStore) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, model.ErrUserExists
		}
	}
	cp := *user
	s.users[user.UUID] = &cp
	return &cp, nil
}

func (s *fakeUserStore) FindByUUID(_ context.Context, uuid string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uuid]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (s *fakeUserStore) SetRefreshToken(_ context.Context, uuid string, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uuid]
	if !ok {
		return model.ErrUserNotFound
	}
	u.RefreshToken = sql.NullString{String: refreshToken, Valid: true}
	return nil
}

func (s *fakeUserStore) RotateRefreshToken(_ context.Context, uuid string, presentedToken string, nextToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uuid]
	if !ok {
		return model.ErrTokenRejected
	}
	if !u.RefreshToken.Valid || u.RefreshToken.String != presentedToken {
		return model.ErrTokenRejected
	}
	u.RefreshToken = sql.NullString{String: nextToken, Valid: true}
	return nil
}

func (s *fakeUserStore) ClearRefreshToken(_ context.Context, uuid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[uuid]; ok {
		u.RefreshToken = sql.NullString{}
	}
	return nil
}

func (s *fakeUserStore) activeToken(uuid string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[uuid].RefreshToken.String
}

func newRotationTestService(t *testing.T) (*service.AuthenticationService, *fakeUserStore, string) {
	t.Helper()

	store := newFakeUserStore()
	jwtService := security.NewJWTService(&config.JWTConfig{
		AccessSecretKey:  "access-secret-for-tests",
		RefreshSecretKey: "refresh-secret-for-tests",
		AccessTokenTTL:   "15m",
		RefreshTokenTTL:  "168h",
	})
	svc := service.NewAuthenticationService(store, jwtService)

	created, err := svc.Register(context.Background(), "alice@example.com", "StrongPass123!")
	require.NoError(t, err)

	return svc, store, created.UUID
}

// Цепочка ротаций: R1 работает один раз, после выдачи R2 повтор R1 отклоняется,
// а R2 продолжает цепочку
func TestRefresh_RotationChain(t *testing.T) {
	svc, store, userUUID := newRotationTestService(t)
	ctx := context.Background()

	pair1, err := svc.Login(ctx, "alice@example.com", "StrongPass123!")
	require.NoError(t, err)
	r1 := pair1.RefreshToken
	assert.Equal(t, r1, store.activeToken(userUUID))

	pair2, err := svc.Refresh(ctx, r1)
	require.NoError(t, err)
	r2 := pair2.RefreshToken
	assert.NotEqual(t, r1, r2)
	assert.Equal(t, r2, store.activeToken(userUUID))

	// повтор вытесненного токена
	_, err = svc.Refresh(ctx, r1)
	assert.ErrorIs(t, err, model.ErrTokenRejected)

	// актуальный токен продолжает работать
	pair3, err := svc.Refresh(ctx, r2)
	require.NoError(t, err)
	assert.NotEqual(t, r2, pair3.RefreshToken)
}

// после logout цепочка ротаций обрывается даже до истечения срока токена
func TestRefresh_AfterLogoutRejected(t *testing.T) {
	svc, _, _ := newRotationTestService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice@example.com", "StrongPass123!")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, model.ErrTokenRejected)
}

// Конкурентные ротации одного токена: выигрывает ровно одна, и активным
// токеном в хранилище становится именно тот, который вернулся победителю
func TestRefresh_ConcurrencySingleWinner(t *testing.T) {
	svc, store, userUUID := newRotationTestService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "alice@example.com", "StrongPass123!")
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)

	type result struct {
		pair *model.TokensPair
		err  error
	}
	results := make(chan result, n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			got, err := svc.Refresh(ctx, pair.RefreshToken)
			results <- result{got, err}
		}()
	}
	wg.Wait()
	close(results)

	success := 0
	fail := 0
	var winner *model.TokensPair
	for res := range results {
		if res.err == nil {
			success++
			winner = res.pair
			continue
		}
		require.ErrorIs(t, res.err, model.ErrTokenRejected)
		fail++
	}

	require.Equal(t, 1, success, "ротация должна удаться ровно один раз")
	require.Equal(t, n-1, fail)
	assert.Equal(t, winner.RefreshToken, store.activeToken(userUUID))
}
