package service

import (
	"context"
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"wordfeed/internal/domain"
	"wordfeed/internal/repository"
)

// AuthService handles authentication logic
type AuthService struct {
	userRepo    repository.UserRepository
	botPassword string
	adminHash   []byte
}

// NewAuthService creates a new auth service. An empty adminPasswordHash disables admin unlock.
func NewAuthService(userRepo repository.UserRepository, botPassword, adminPasswordHash string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		botPassword: botPassword,
		adminHash:   []byte(adminPasswordHash),
	}
}

// CheckPassword compares the study password in constant time, ignoring surrounding whitespace
func (s *AuthService) CheckPassword(password string) bool {
	if s.botPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(password)), []byte(s.botPassword)) == 1
}

// CheckAdminPassword verifies password against the admin bcrypt hash
func (s *AuthService) CheckAdminPassword(password string) bool {
	if len(s.adminHash) == 0 || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) == nil
}

// IsAuthorized checks if user is authorized
func (s *AuthService) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	return s.userRepo.IsAuthorized(ctx, userID)
}

// AuthorizeUser authorizes a user
func (s *AuthService) AuthorizeUser(ctx context.Context, userID int64) error {
	return s.userRepo.AuthorizeUser(ctx, userID)
}

// EnsureUserExists creates user record if doesn't exist
func (s *AuthService) EnsureUserExists(ctx context.Context, userID int64) error {
	return s.userRepo.EnsureUserExists(ctx, userID)
}

// IsAdmin checks if user may import data
func (s *AuthService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return s.userRepo.IsAdmin(ctx, userID)
}

// GrantAdmin unlocks admin rights when the admin password matches
func (s *AuthService) GrantAdmin(ctx context.Context, userID int64, password string) error {
	if !s.CheckAdminPassword(password) {
		return domain.ErrForbidden
	}
	return s.userRepo.GrantAdmin(ctx, userID)
}
