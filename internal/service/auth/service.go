package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/auth"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/user"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/database"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/jwt"
	"github.com/hakobu-dev/hakobu-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	db         *database.DB
	userRepo   user.UserRepository
	jwtService jwt.Service
	tokenRepo  auth.RefreshTokenRepository
}

func NewAuthService(db *database.DB, userRepo user.UserRepository, jwtService jwt.Service, tokenRepo auth.RefreshTokenRepository) auth.AuthService {
	return &AuthServiceImpl{
		db:         db,
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenRepo:  tokenRepo,
	}
}

// Register implements auth.AuthService. New accounts are always driver
// accounts; admins are provisioned out of band.
func (s *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         user.RoleDriver,
	})
	if err != nil {
		return auth.UserResponse{}, err
	}

	return toUserResponse(created), nil
}

// Login implements auth.AuthService.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, u)
}

// RefreshToken implements auth.AuthService. The presented token is
// revoked and a fresh pair is issued in one transaction so a replayed
// token cannot race a rotation.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (auth.LoginResponse, error) {
	stored, err := s.tokenRepo.Get(ctx, refreshToken)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	if stored.RevokedAt != nil {
		return auth.LoginResponse{}, auth.ErrRefreshTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return auth.LoginResponse{}, auth.ErrTokenExpired
	}

	u, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrUserNotFound
		}
		return auth.LoginResponse{}, err
	}

	var resp auth.LoginResponse
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.tokenRepo.Revoke(txCtx, refreshToken); err != nil {
			return err
		}
		var issueErr error
		resp, issueErr = s.issueTokens(txCtx, u)
		return issueErr
	})
	if err != nil {
		return auth.LoginResponse{}, err
	}

	return resp, nil
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokenRepo.Revoke(ctx, refreshToken)
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, u user.User) (auth.LoginResponse, error) {
	accessToken, accessExp, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.Name, u.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExp, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.tokenRepo.Store(ctx, auth.RefreshToken{
		Token:     refreshToken,
		UserID:    u.ID,
		ExpiresAt: time.Unix(refreshExp, 0),
	}); err != nil {
		return auth.LoginResponse{}, err
	}

	return auth.LoginResponse{
		User: toUserResponse(u),
		Token: auth.TokenResponse{
			AccessToken:      accessToken,
			TokenType:        "Bearer",
			ExpiresAt:        accessExp,
			RefreshToken:     refreshToken,
			RefreshExpiresAt: refreshExp,
		},
	}, nil
}

func toUserResponse(u user.User) auth.UserResponse {
	return auth.UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}
