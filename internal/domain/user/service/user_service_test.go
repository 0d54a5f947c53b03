package service

import (
	"os"
	"testing"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/config"
	baseModel "github.com/guilherme-ufscar/restaurante-sub001/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	config.GlobalConfig.JWT.Secret = "test-secret-key-for-token-generation-only"
	config.GlobalConfig.JWT.Expire = 24
	os.Exit(m.Run())
}

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRole(userID, role string) error {
	args := m.Called(userID, role)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStatus(userID, status string) error {
	args := m.Called(userID, status)
	return args.Error(0)
}

func createTestUser(id, email, password string) *model.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &model.User{
		BaseModel: baseModel.BaseModel{ID: id},
		Name:      "Test User",
		Email:     email,
		Password:  string(hashed),
		Role:      model.RoleUser,
		Status:    model.StatusActive,
	}
}

func TestRegister(t *testing.T) {
	t.Run("New account success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

		user, err := service.Register("New User", "new@example.com", "password123", "")

		assert.NoError(t, err)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.NotEqual(t, "password123", user.Password)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate email is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByEmail", "taken@example.com").Return(
			createTestUser("user-1", "taken@example.com", "whatever"), nil)

		_, err := service.Register("Someone", "taken@example.com", "password123", "")

		assert.ErrorIs(t, err, ErrEmailTaken)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	t.Run("Valid credentials return a token", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)
		user := createTestUser("user-1", "user@example.com", "password123")

		mockRepo.On("GetByEmail", "user@example.com").Return(user, nil)

		token, loggedIn, err := service.Login("user@example.com", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "user-1", loggedIn.ID)
	})

	t.Run("Wrong password is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)
		user := createTestUser("user-1", "user@example.com", "password123")

		mockRepo.On("GetByEmail", "user@example.com").Return(user, nil)

		token, _, err := service.Login("user@example.com", "wrong")

		assert.ErrorIs(t, err, ErrInvalidLogin)
		assert.Empty(t, token)
	})

	t.Run("Unknown email is rejected with the same error", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)

		mockRepo.On("GetByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := service.Login("ghost@example.com", "password123")

		assert.ErrorIs(t, err, ErrInvalidLogin)
	})

	t.Run("Banned account cannot log in", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewUserService(mockRepo)
		user := createTestUser("user-1", "banned@example.com", "password123")
		user.Status = model.StatusBanned

		mockRepo.On("GetByEmail", "banned@example.com").Return(user, nil)

		_, _, err := service.Login("banned@example.com", "password123")

		assert.ErrorIs(t, err, ErrAccountBanned)
	})
}
