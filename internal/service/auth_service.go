package service

import (
	"context"
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

// AuthService handles credential verification.
type AuthService interface {
	// Authenticate verifies the email/password pair and records the login
	// time. Unknown email, inactive account and wrong password all fail with
	// apperrors.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, plaintext string) (*model.User, error)
}

type authService struct {
	repo   repository.UserRepository
	cache  *cache.Client
	hasher password.Hasher
}

// NewAuthService creates a new authentication service.
func NewAuthService(repo repository.UserRepository, cache *cache.Client, hasher password.Hasher) AuthService {
	return &authService{repo: repo, cache: cache, hasher: hasher}
}

func (s *authService) Authenticate(ctx context.Context, email, plaintext string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))

	return user, nil
}
