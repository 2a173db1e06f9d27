package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/baharkarakas/classifieds-backend/internal/auth"
	"github.com/baharkarakas/classifieds-backend/internal/models"
	repo "github.com/baharkarakas/classifieds-backend/internal/repository"
)

var ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)

type AuthService struct {
	users repo.Users
	tm    *auth.TokenManager
	log   *slog.Logger
}

func NewAuthService(users repo.Users, tm *auth.TokenManager, log *slog.Logger) *AuthService {
	return &AuthService{users: users, tm: tm, log: log}
}

// Login exchanges a username and password for a token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.Pair, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return auth.Pair{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.Pair{}, err
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		s.log.InfoContext(ctx, "login failed", "user_id", u.ID)
		return auth.Pair{}, ErrInvalidCredentials
	}
	return s.tm.GeneratePair(u.ID, string(u.Role))
}

// Refresh issues a new pair for a valid refresh token whose user still exists.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (auth.Pair, error) {
	claims, err := s.tm.ParseRefresh(refresh)
	if err != nil {
		return auth.Pair{}, fmt.Errorf("refresh: %w", models.ErrUnauthenticated)
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return auth.Pair{}, fmt.Errorf("refresh: %w", models.ErrUnauthenticated)
	}
	if err != nil {
		return auth.Pair{}, err
	}
	return s.tm.GeneratePair(u.ID, string(u.Role))
}
