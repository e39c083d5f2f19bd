package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"facilityaudit/internal/auth"
	apperrors "facilityaudit/internal/errors"
	"facilityaudit/internal/logger"
	"facilityaudit/internal/model"
	"facilityaudit/internal/repository"
)

// TokenPair is issued on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ChangePasswordInput carries the change-password form.
type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, *model.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string, access *auth.Claims) error
	ChangePassword(ctx context.Context, actor *model.User, in ChangePasswordInput) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}
	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session := auth.RefreshSession{UserID: user.ID, Email: user.Email, IssuedAt: time.Now().UTC()}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, session, s.jwtService.RefreshTTL()); err != nil {
		return nil, nil, fmt.Errorf("store refresh token: %w", err)
	}

	logger.FromContext(ctx).Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &TokenPair{Access: accessToken, Refresh: refreshToken}, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateTokenOfType(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	session, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || session.UserID != claims.UserID || session.Email != claims.Email {
		return "", apperrors.ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return "", apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates a refresh token and, when given, the access token in use.
func (s *authService) Logout(ctx context.Context, refreshToken string, access *auth.Claims) error {
	claims, err := s.jwtService.ValidateTokenOfType(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	if access != nil && access.UserID != claims.UserID {
		return apperrors.ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	if access != nil && access.ID != "" {
		if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, s.jwtService.RemainingTTL(access)); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (s *authService) ChangePassword(ctx context.Context, actor *model.User, in ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, in.OldPassword) {
		return apperrors.NewValidationError("old_password", "Old password is not correct.")
	}
	if in.NewPassword != in.ConfirmPassword {
		return apperrors.NewValidationError("confirm_password", "New passwords do not match.")
	}
	if err := auth.ValidatePassword(in.NewPassword); err != nil {
		return apperrors.NewValidationError("new_password", err.Error())
	}

	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	logger.FromContext(ctx).Info("password changed", "user_id", user.ID)
	return nil
}
