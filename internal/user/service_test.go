package user

import (
	"context"
	"errors"
	"testing"

	"passhub/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, name, email, passwordHash, role string, status ApprovalStatus) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) SetApprovalStatus(ctx context.Context, id int, status ApprovalStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name           string
		req            RegisterRequest
		setupMocks     func(*MockUserRepo)
		expectError    error
		expectRole     string
		expectApproval ApprovalStatus
	}{
		{
			name: "buyer registers approved",
			req:  RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"},
			setupMocks: func(r *MockUserRepo) {
				r.On("EmailExists", mock.Anything, "ann@example.com").Return(false, nil)
				r.On("Create", mock.Anything, "Ann", "ann@example.com", mock.Anything, "buyer", ApprovalApproved).
					Return(&User{ID: 1, Name: "Ann", Email: "ann@example.com", Role: "buyer", ApprovalStatus: ApprovalApproved}, nil)
			},
			expectRole:     "buyer",
			expectApproval: ApprovalApproved,
		},
		{
			name: "creator registers pending",
			req:  RegisterRequest{Name: "Cory", Email: "cory@example.com", Password: "password123", Role: "creator"},
			setupMocks: func(r *MockUserRepo) {
				r.On("EmailExists", mock.Anything, "cory@example.com").Return(false, nil)
				r.On("Create", mock.Anything, "Cory", "cory@example.com", mock.Anything, "creator", ApprovalPending).
					Return(&User{ID: 2, Name: "Cory", Email: "cory@example.com", Role: "creator", ApprovalStatus: ApprovalPending}, nil)
			},
			expectRole:     "creator",
			expectApproval: ApprovalPending,
		},
		{
			name: "duplicate email",
			req:  RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "password123"},
			setupMocks: func(r *MockUserRepo) {
				r.On("EmailExists", mock.Anything, "ann@example.com").Return(true, nil)
			},
			expectError: ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepo)
			tt.setupMocks(repo)
			svc := NewService(repo, "test-secret")

			user, access, refresh, err := svc.Register(context.Background(), tt.req)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, user)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectRole, user.Role)
			assert.Equal(t, tt.expectApproval, user.ApprovalStatus)
			assert.NotEmpty(t, access)
			assert.NotEmpty(t, refresh)
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, _ := auth.HashPassword("password123")

	repo := new(MockUserRepo)
	repo.On("FindByEmail", mock.Anything, "ann@example.com").Return(&User{
		ID:           1,
		Email:        "ann@example.com",
		Role:         "buyer",
		PasswordHash: hash,
	}, nil)

	svc := NewService(repo, "test-secret")

	_, access, _, err := svc.Login(context.Background(), LoginRequest{Email: "ann@example.com", Password: "password123"})
	assert.NoError(t, err)
	assert.NotEmpty(t, access)

	_, _, _, err = svc.Login(context.Background(), LoginRequest{Email: "ann@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, errors.New("sql: no rows in result set"))

	svc := NewService(repo, "test-secret")

	_, _, _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Approve(t *testing.T) {
	repo := new(MockUserRepo)
	repo.On("SetApprovalStatus", mock.Anything, 5, ApprovalApproved).Return(nil)

	svc := NewService(repo, "test-secret")
	assert.NoError(t, svc.Approve(context.Background(), 5))
	repo.AssertExpectations(t)
}
