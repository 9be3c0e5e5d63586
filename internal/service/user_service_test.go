package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "realagent/internal/errors"
	"realagent/internal/model"
	"realagent/internal/password"
	"realagent/internal/repository"
)

// newTestService builds a UserService on an in-memory SQLite store with no
// cache (the cache client is nil-safe).
func newTestService(t *testing.T) (UserService, repository.UserRepository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	repo := repository.NewUserRepository(db)
	return NewUserService(repo, nil, password.SHA256Hasher{}), repo
}

func TestUserService_CreateUser_RoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{
		Name:     "Alice",
		Email:    "alice@x.com",
		Role:     model.RolePlayer,
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEqual(t, "secret1", created.PasswordHash)

	// The stored digest is exactly hash(password).
	digest, err := password.SHA256Hasher{}.Hash("secret1")
	require.NoError(t, err)
	assert.Equal(t, digest, created.PasswordHash)

	fetched, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, created.Email, fetched.Email)
	assert.Equal(t, created.Role, fetched.Role)
	assert.Equal(t, created.PasswordHash, fetched.PasswordHash)
	assert.True(t, fetched.IsActive)

	byEmail, err := svc.GetUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestUserService_CreateUser_EmailTaken(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{
		Name: "Alice", Email: "dup@x.com", Role: model.RoleAdmin, Password: "secret1",
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, CreateUserInput{
		Name: "Bob", Email: "dup@x.com", Role: model.RolePlayer, Password: "secret2",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUserService_CreateUser_InvalidRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Name: "Eve", Email: "eve@x.com", Role: "Superuser", Password: "secret1",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestUserService_UpdateUser_Partial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{
		Name: "Alice", Email: "alice@x.com", Role: model.RolePlayer, Password: "secret1",
	})
	require.NoError(t, err)

	newName := "Alicia"
	updated, err := svc.UpdateUser(ctx, created.ID, UpdateUserInput{Name: &newName})
	require.NoError(t, err)

	// Only the named field changed.
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.Role, updated.Role)
	assert.Equal(t, created.PasswordHash, updated.PasswordHash)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
	assert.Equal(t, created.IsActive, updated.IsActive)
}

func TestUserService_UpdateUser_PasswordRehashed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{
		Name: "Alice", Email: "alice@x.com", Role: model.RolePlayer, Password: "secret1",
	})
	require.NoError(t, err)

	newPassword := "secret2"
	updated, err := svc.UpdateUser(ctx, created.ID, UpdateUserInput{Password: &newPassword})
	require.NoError(t, err)

	assert.NotEqual(t, "secret2", updated.PasswordHash)
	assert.NotEqual(t, created.PasswordHash, updated.PasswordHash)
	assert.True(t, password.SHA256Hasher{}.Verify("secret2", updated.PasswordHash))
}

func TestUserService_UpdateUser_Deactivate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{
		Name: "Alice", Email: "alice@x.com", Role: model.RolePlayer, Password: "secret1",
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateUser(ctx, created.ID, UpdateUserInput{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	active, err := svc.ListActiveUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUserService_UpdateUser_NotFound(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	name := "Nobody"
	_, err := svc.UpdateUser(ctx, 999, UpdateUserInput{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestUserService_DeleteUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{
		Name: "Alice", Email: "alice@x.com", Role: model.RolePlayer, Password: "secret1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteUser(ctx, created.ID), apperrors.ErrUserNotFound)

	_, err = svc.GetUser(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUserService_ListUsersByRole_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	users, err := svc.ListUsersByRole(context.Background(), model.RoleAgent)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCachedUserCodec_RoundTrip(t *testing.T) {
	now := time.Now()
	user := &model.User{
		ID:           7,
		Name:         "Alice",
		Email:        "alice@x.com",
		Role:         model.RolePlayer,
		PasswordHash: "5b11618c2e44027877d0cd0921ed166b9f176f50587fc91e7534dd2946db77d6",
		CreatedAt:    now,
		LastLogin:    &now,
		IsActive:     true,
	}

	payload, err := encodeCachedUser(user)
	require.NoError(t, err)

	decoded, err := decodeCachedUser(payload)
	require.NoError(t, err)

	// A cache hit must return the same record as a store read, digest
	// included, even though the model hides it from response JSON.
	assert.Equal(t, user.ID, decoded.ID)
	assert.Equal(t, user.Name, decoded.Name)
	assert.Equal(t, user.Email, decoded.Email)
	assert.Equal(t, user.Role, decoded.Role)
	assert.Equal(t, user.PasswordHash, decoded.PasswordHash)
	assert.Equal(t, user.IsActive, decoded.IsActive)
	require.NotNil(t, decoded.LastLogin)
	assert.Equal(t, user.LastLogin.Unix(), decoded.LastLogin.Unix())
}

func TestUserService_Stats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{
		Name: "Admin One", Email: "a1@x.com", Role: model.RoleAdmin, Password: "secret1",
	})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, CreateUserInput{
		Name: "Player One", Email: "p1@x.com", Role: model.RolePlayer, Password: "secret1",
	})
	require.NoError(t, err)
	inactive, err := svc.CreateUser(ctx, CreateUserInput{
		Name: "Player Two", Email: "p2@x.com", Role: model.RolePlayer, Password: "secret1",
	})
	require.NoError(t, err)

	off := false
	_, err = svc.UpdateUser(ctx, inactive.ID, UpdateUserInput{IsActive: &off})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 2, stats.Active)
	assert.EqualValues(t, 1, stats.Inactive)

	// Exactly one entry per role, zeros included, summing to the total.
	require.Len(t, stats.ByRole, 4)
	var sum int64
	for _, role := range model.AllRoles {
		count, ok := stats.ByRole[role]
		require.True(t, ok, "missing role %s", role)
		sum += count
	}
	assert.Equal(t, stats.Total, sum)
	assert.EqualValues(t, 1, stats.ByRole[model.RoleAdmin])
	assert.EqualValues(t, 2, stats.ByRole[model.RolePlayer])
	assert.EqualValues(t, 0, stats.ByRole[model.RoleAgent])
	assert.EqualValues(t, 0, stats.ByRole[model.RoleClubManager])
}
