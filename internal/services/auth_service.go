package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cashflow_backend/internal/models"
	"cashflow_backend/internal/repositories"
	"cashflow_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO. UserType must match the account's role.
type LoginRequest struct {
	Username string          `json:"username" binding:"required"`
	Password string          `json:"password" binding:"required"`
	UserType models.UserRole `json:"userType" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// --- AuthService Interface ---
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetUserProfile(ctx context.Context, userID int64) (*models.User, error)
}

// --- authService Implementation ---
type authService struct {
	authRepo repositories.AuthRepository
	jwt      *utils.JWTManager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, jwt *utils.JWTManager) AuthService {
	return &authService{authRepo: authRepo, jwt: jwt}
}

// Login checks the password and the requested role. Unknown users, wrong passwords
// and role mismatches all yield ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.authRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageError("finding user", err)
	}
	if user.Role != req.UserType {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	user.PasswordHash = ""
	utils.LogInfo("User logged in", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return &AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GetUserProfile retrieves a user's profile information.
func (s *authService) GetUserProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.authRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError("getting user profile", err)
	}
	return user, nil
}
