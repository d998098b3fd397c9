package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"skycities/internal/auth"
	"skycities/internal/errors"
	"skycities/internal/model"
	"skycities/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration and login.
type AuthService interface {
	// Register creates a user from a not-yet-normalized username and issues
	// a bearer token for the new identity.
	Register(ctx context.Context, username, password string) (*model.User, string, error)
	// Login verifies credentials and issues a bearer token. Any mismatch,
	// including an unknown username, yields ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*model.User, string, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// NormalizeUsername lower-cases and trims a username. Every lookup and
// insert goes through this so "Foo " and "foo" are the same account.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *authService) Register(ctx context.Context, username, password string) (*model.User, string, error) {
	normalized := NormalizeUsername(username)
	if normalized == "" || password == "" {
		return nil, "", errors.ErrInvalidInput
	}

	// Check normalized username uniqueness
	_, err := s.userRepo.FindByUsername(ctx, normalized)
	if err == nil {
		return nil, "", errors.ErrDuplicateUsername
	}
	if err != gorm.ErrRecordNotFound {
		return nil, "", fmt.Errorf("check username existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     normalized,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index resolves the race between the check and the
		// insert; a concurrent winner surfaces here.
		if repository.IsUniqueViolation(err) {
			return nil, "", errors.ErrDuplicateUsername
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	normalized := NormalizeUsername(username)

	user, err := s.userRepo.FindByUsername(ctx, normalized)
	if err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}
