package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodgram-team/foodgram-backend/config"
	"github.com/foodgram-team/foodgram-backend/internal/app/model"
	"github.com/foodgram-team/foodgram-backend/internal/app/repository"
	"github.com/foodgram-team/foodgram-backend/pkg/logger"
	"github.com/foodgram-team/foodgram-backend/pkg/redis"
	"github.com/foodgram-team/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

const revokedTokenKeyPrefix = "revoked_token:"

// RegisterInput carries a signup submission.
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, error)
	Login(email, password string) (*util.TokenPair, *model.User, error)
	Logout(claims *util.Claims) error
	SetPassword(userID uint, currentPassword, newPassword string) error
	IsTokenRevoked(tokenID string) bool
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   *config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg *config.JWTConfig) AuthService {
	return &authService{userRepo: userRepo, jwtCfg: jwtCfg}
}

func (s *authService) Register(input RegisterInput) (*model.User, error) {
	logger.Info("Registering user", map[string]interface{}{
		"email":    input.Email,
		"username": input.Username,
	})

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, nil)
		return nil, err
	}

	user := &model.User{
		Email:        input.Email,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

func (s *authService) Login(email, password string) (*util.TokenPair, *model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed, wrong password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}

	pair, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate token pair", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return pair, user, nil
}

// Logout puts the token id on the revocation list until the token would have
// expired on its own.
func (s *authService) Logout(claims *util.Claims) error {
	client := redis.GetClient()
	if client == nil {
		logger.Warn("Redis unavailable, token not revoked", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	key := revokedTokenKeyPrefix + claims.TokenID
	if err := client.Set(ctx, key, claims.UserID, ttl).Err(); err != nil {
		logger.Error("Failed to store revoked token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) SetPassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if !util.VerifyPassword(user.PasswordHash, currentPassword) {
		return ErrWrongPassword
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Update(user); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

// IsTokenRevoked checks the revocation list. When Redis is unavailable the
// token is treated as live; expiry still bounds its lifetime.
func (s *authService) IsTokenRevoked(tokenID string) bool {
	client := redis.GetClient()
	if client == nil || tokenID == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	exists, err := client.Exists(ctx, revokedTokenKeyPrefix+tokenID).Result()
	if err != nil {
		logger.Warn("Failed to check token revocation", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return exists > 0
}
