package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/srkbolt25-collab/srkfence-backend/internal/auth"
	"github.com/srkbolt25-collab/srkfence-backend/internal/config"
	"github.com/srkbolt25-collab/srkfence-backend/internal/domain"
	"github.com/srkbolt25-collab/srkfence-backend/internal/repository"
	apperrors "github.com/srkbolt25-collab/srkfence-backend/pkg/util"
)

// AuthService coordinates dashboard login and the startup account seed.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	admin      config.AdminConfig
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		admin:      cfg.Admin,
		logger:     logger,
	}
}

// Login authenticates a dashboard account. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// EnsureAdmin creates the admin account from config when it does not exist.
// Accounts are otherwise mutated out-of-band only.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	if s.admin.Email == "" || s.admin.Password == "" {
		s.logger.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set; skipping admin seed")
		return nil
	}

	if _, err := s.users.GetByEmail(ctx, s.admin.Email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(s.admin.Password, s.bcryptCost)
	if err != nil {
		return err
	}

	user := &domain.User{
		Name:         s.admin.Name,
		Email:        s.admin.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Info("admin account seeded", zap.String("email", user.Email))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
