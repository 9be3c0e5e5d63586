package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"realagent/internal/cache"
	apperrors "realagent/internal/errors"
	"realagent/internal/model"
	"realagent/internal/password"
	"realagent/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// CreateUserInput carries the fields needed to register a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Role     model.Role
	Password string
}

// UpdateUserInput carries a partial update. A nil field is left unchanged;
// a non-nil field overwrites the stored value. Password, when present, is
// hashed before storing.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *model.Role
	Password *string
	IsActive *bool
}

// Stats aggregates user counts. ByRole always holds one entry per known
// role, including roles with zero users.
type Stats struct {
	Total    int64
	Active   int64
	Inactive int64
	ByRole   map[model.Role]int64
}

// UserService exposes user CRUD and aggregation operations.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]model.User, error)
	ListUsersByRole(ctx context.Context, role model.Role) ([]model.User, error)
	ListActiveUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*Stats, error)
}

type userService struct {
	repo   repository.UserRepository
	cache  *cache.Client
	hasher password.Hasher
}

// NewUserService builds a UserService with repository, cache and hasher.
func NewUserService(repo repository.UserRepository, cache *cache.Client, hasher password.Hasher) UserService {
	return &userService{repo: repo, cache: cache, hasher: hasher}
}

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// cachedUser is the cache wire form. The model hides PasswordHash from JSON,
// so caching the model directly would hand cache hits back without the
// digest; the shadowing field keeps it in the payload.
type cachedUser struct {
	model.User
	PasswordHash string `json:"password_hash"`
}

func encodeCachedUser(user *model.User) ([]byte, error) {
	return json.Marshal(cachedUser{User: *user, PasswordHash: user.PasswordHash})
}

func decodeCachedUser(data []byte) (*model.User, error) {
	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	user := cached.User
	user.PasswordHash = cached.PasswordHash
	return &user, nil
}

func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	// Check first for a friendly error; the unique index is the authoritative
	// guard against a concurrent insert between check and create.
	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: hashed,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		if cached, err := decodeCachedUser(data); err == nil {
			return cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := encodeCachedUser(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, offset, limit int) ([]model.User, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *userService) ListUsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	// Unknown roles match no rows; that is an empty result, not an error.
	return s.repo.ListByRole(ctx, string(role))
}

func (s *userService) ListActiveUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListActive(ctx)
}

func (s *userService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperrors.ErrInvalidRole
		}
		user.Role = *in.Role
	}
	if in.Password != nil {
		hashed, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashed
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return apperrors.ErrUserNotFound
	}
	_ = s.cache.Delete(ctx, userCacheKey(id))
	return nil
}

func (s *userService) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	byRole := make(map[model.Role]int64, len(model.AllRoles))
	for _, role := range model.AllRoles {
		count, err := s.repo.CountByRole(ctx, string(role))
		if err != nil {
			return nil, fmt.Errorf("count role %s: %w", role, err)
		}
		byRole[role] = count
	}

	active, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}

	activeCount := int64(len(active))
	return &Stats{
		Total:    total,
		Active:   activeCount,
		Inactive: total - activeCount,
		ByRole:   byRole,
	}, nil
}
