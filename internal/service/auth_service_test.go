package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"skycities/internal/auth"
	"skycities/internal/errors"
	"skycities/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		setupMock  func(repo *MockUserRepository)
		wantErr    error
		wantStored string
	}{
		{
			name:     "success normalizes username",
			username: "  Alice ",
			password: "P@ssw0rd1",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			wantStored: "alice",
		},
		{
			name:     "duplicate username",
			username: "alice",
			password: "P@ssw0rd1",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByUsername", mock.Anything, "alice").
					Return(&model.User{ID: uuid.New(), Username: "alice"}, nil)
			},
			wantErr: errors.ErrDuplicateUsername,
		},
		{
			name:     "duplicate differing only by case and whitespace",
			username: "ALICE  ",
			password: "P@ssw0rd1",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByUsername", mock.Anything, "alice").
					Return(&model.User{ID: uuid.New(), Username: "alice"}, nil)
			},
			wantErr: errors.ErrDuplicateUsername,
		},
		{
			name:      "empty username",
			username:  "   ",
			password:  "P@ssw0rd1",
			setupMock: func(repo *MockUserRepository) {},
			wantErr:   errors.ErrInvalidInput,
		},
		{
			name:      "empty password",
			username:  "alice",
			password:  "",
			setupMock: func(repo *MockUserRepository) {},
			wantErr:   errors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)

			svc := NewAuthService(repo, newTestJWTService())
			user, token, err := svc.Register(context.Background(), tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.wantStored, user.Username)
				// Plaintext must never be stored
				assert.NotEqual(t, tt.password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.password)))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_RaceLoserGetsDuplicate(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	// Driver error shape produced when the unique index rejects a
	// concurrent duplicate insert.
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Return(fmt.Errorf("UNIQUE constraint failed: users.username"))

	svc := NewAuthService(repo, newTestJWTService())
	_, _, err := svc.Register(context.Background(), "alice", "P@ssw0rd1")
	assert.ErrorIs(t, err, errors.ErrDuplicateUsername)
}

func TestAuthService_Login(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("P@ssw0rd1"), bcrypt.MinCost)
	stored := &model.User{ID: uuid.New(), Username: "alice", PasswordHash: string(hash)}

	tests := []struct {
		name      string
		username  string
		password  string
		setupMock func(repo *MockUserRepository)
		wantErr   error
	}{
		{
			name:     "success with un-normalized input",
			username: " ALICE ",
			password: "P@ssw0rd1",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)
			},
		},
		{
			name:     "unknown user collapses to invalid credentials",
			username: "bob",
			password: "P@ssw0rd1",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByUsername", mock.Anything, "bob").Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: errors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password collapses to invalid credentials",
			username: "alice",
			password: "wrong",
			setupMock: func(repo *MockUserRepository) {
				repo.On("FindByUsername", mock.Anything, "alice").Return(stored, nil)
			},
			wantErr: errors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)

			jwtSvc := newTestJWTService()
			svc := NewAuthService(repo, jwtSvc)
			user, token, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "alice", user.Username)

				// Token round-trips to the same identity
				claims, err := jwtSvc.Validate(token)
				assert.NoError(t, err)
				assert.Equal(t, stored.ID.String(), claims.UserID)
				assert.Equal(t, "alice", claims.Username)
			}
			repo.AssertExpectations(t)
		})
	}
}
