package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fleetrelay/support-service/internal/auth"
	"github.com/fleetrelay/support-service/internal/config"
	"github.com/fleetrelay/support-service/internal/domain"
	"github.com/fleetrelay/support-service/internal/repository"
	apperrors "github.com/fleetrelay/support-service/pkg/util"
)

// AuthService handles registration, login, and account approval.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	cfg    config.AuthConfig
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:  users,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		cfg:    cfg,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// RegisterInput describes a signup request.
type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

// Register creates an operator account awaiting admin approval.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	fullName := strings.TrimSpace(input.FullName)
	if email == "" || fullName == "" || len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("email, full name, and a password of at least 8 characters are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hashed, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Email:        email,
		FullName:     fullName,
		Role:         domain.UserRoleOperator,
		Status:       domain.UserStatusPendingApproval,
		PasswordHash: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// LoginResult carries the issued token.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Login authenticates an active account and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewForbidden("account is not active")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// SetUserStatus lets an admin approve, reject, or deactivate an account.
func (s *AuthService) SetUserStatus(ctx context.Context, actor *domain.User, userID string, status domain.UserStatus) error {
	if actor == nil || actor.Role != domain.UserRoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	switch status {
	case domain.UserStatusActive, domain.UserStatusRejected, domain.UserStatusDeactivated:
	default:
		return apperrors.NewValidationError("unsupported status", map[string]any{"status": status})
	}
	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListOperators returns active operators and admins for assignment pickers.
func (s *AuthService) ListOperators(ctx context.Context) ([]domain.User, error) {
	operators, err := s.users.ListActiveOperators(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return operators, nil
}
