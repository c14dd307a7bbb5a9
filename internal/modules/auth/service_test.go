package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"chaletbook/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID int64, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func adminUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := HashPassword(password)
	assert.NoError(t, err)
	return &domain.User{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: hash,
		Name:         "Admin",
		Role:         domain.RoleAdmin,
	}
}

func TestService_Login_Success(t *testing.T) {
	users := new(MockUserRepository)
	issuer := new(MockTokenIssuer)

	users.On("GetByEmail", mock.Anything, "admin@example.com").Return(adminUser(t, "secret123"), nil)
	issuer.On("GenerateToken", int64(1), "admin").Return("signed-token", nil)

	service := NewService(users, issuer)

	result, err := service.Login(context.Background(), LoginRequest{
		Email:    "  Admin@Example.com ",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "signed-token", result.Token)
	assert.Equal(t, "admin@example.com", result.User.Email)
}

func TestService_Login_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)

	users.On("GetByEmail", mock.Anything, "admin@example.com").Return(adminUser(t, "secret123"), nil)

	service := NewService(users, new(MockTokenIssuer))

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(users, new(MockTokenIssuer))

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
