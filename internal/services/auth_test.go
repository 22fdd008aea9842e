package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"hr-system/internal/dto"
	"hr-system/internal/entities"
	"hr-system/internal/repositories"
	"hr-system/pkg/config"
	apperrors "hr-system/pkg/errors"
	"hr-system/pkg/service"
	"hr-system/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errCacheMiss = errors.New("cache miss")

// memoryCache - CacheRepositoryInterface без Redis; TTL не учитывается.
type memoryCache struct {
	values map[string]string
	counts map[string]int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string), counts: make(map[string]int64)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.values[key] = value.(string)
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", errCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
		delete(c.counts, k)
	}
	return nil
}

func (c *memoryCache) Incr(ctx context.Context, key string) (int64, error) {
	c.counts[key]++
	return c.counts[key], nil
}

func (c *memoryCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return true, nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, okValue := c.values[key]
	_, okCount := c.counts[key]
	return okValue || okCount, nil
}

type fakeUserRepo struct {
	repositories.UserRepositoryInterface
	users map[string]*entities.User
}

func (r *fakeUserRepo) FindByLogin(ctx context.Context, login string) (*entities.User, error) {
	u, ok := r.users[login]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, id uint64) error { return nil }

type fakeRoleRepo struct {
	repositories.RoleRepositoryInterface
	permissions map[uint64][]string
	dbCalls     int
}

func (r *fakeRoleRepo) FindByID(ctx context.Context, id uint64) (*dto.RoleDTO, error) {
	return &dto.RoleDTO{ID: id, Name: "HR"}, nil
}

func (r *fakeRoleRepo) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	r.dbCalls++
	return r.permissions[roleID], nil
}

func newAuthFixture(t *testing.T) (AuthServiceInterface, *memoryCache, *fakeRoleRepo) {
	t.Helper()
	hash, err := utils.HashPassword("Secret123!")
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[string]*entities.User{
		"hr.user":  {ID: 1, Login: "hr.user", PasswordHash: hash, RoleID: 2, EmployeeID: null.Int64From(10), IsActive: true},
		"disabled": {ID: 2, Login: "disabled", PasswordHash: hash, RoleID: 2, IsActive: false},
	}}
	roles := &fakeRoleRepo{permissions: map[uint64][]string{2: {"approvals:hr", "reports:view"}}}
	cache := newMemoryCache()
	perms := NewAuthPermissionService(roles, cache, zap.NewNop(), time.Minute)
	jwtSvc := service.NewJWTService("test-secret", time.Hour, 24*time.Hour, zap.NewNop())
	cfg := &config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: time.Minute}

	svc := NewAuthService(users, roles, &fakeEmployeeRepo{byID: map[uint64]*entities.Employee{10: {ID: 10, FullName: "Иван Петров"}}}, cache, perms, jwtSvc, cfg, zap.NewNop())
	return svc, cache, roles
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), dto.LoginDTO{Login: "  HR.User ", Password: "Secret123!"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "HR", res.User.RoleName)
	assert.Equal(t, "Иван Петров", res.User.FullName)
	assert.ElementsMatch(t, []string{"approvals:hr", "reports:view"}, res.User.Permissions)
}

func TestLoginLockout(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, dto.LoginDTO{Login: "hr.user", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}
	// правильный пароль после блокировки не помогает
	_, err := svc.Login(ctx, dto.LoginDTO{Login: "hr.user", Password: "Secret123!"})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginDTO{Login: "disabled", Password: "Secret123!"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRefreshRequiresRefreshToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, dto.LoginDTO{Login: "hr.user", Password: "Secret123!"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, dto.RefreshTokenDTO{RefreshToken: res.AccessToken})
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)

	again, err := svc.Refresh(ctx, dto.RefreshTokenDTO{RefreshToken: res.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, again.AccessToken)
}

func TestRolePermissionsAreCached(t *testing.T) {
	roles := &fakeRoleRepo{permissions: map[uint64][]string{5: {"roster:view"}}}
	perms := NewAuthPermissionService(roles, newMemoryCache(), zap.NewNop(), time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		names, err := perms.GetRolePermissionsNames(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"roster:view"}, names)
	}
	assert.Equal(t, 1, roles.dbCalls)

	require.NoError(t, perms.InvalidateRolePermissionsCache(ctx, 5))
	_, err := perms.GetRolePermissionsNames(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, roles.dbCalls)
}
