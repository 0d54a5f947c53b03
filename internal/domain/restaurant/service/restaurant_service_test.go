package service

import (
	"os"
	"testing"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"
	userModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/cache"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/logger"
	baseModel "github.com/guilherme-ufscar/restaurante-sub001/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// MockRestaurantRepository is a mock of RestaurantRepository
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) Create(restaurant *model.Restaurant) error {
	args := m.Called(restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) GetByID(id string) (*model.Restaurant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetBySlug(slug string) (*model.Restaurant, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) GetByOwner(ownerUserID string) (*model.Restaurant, error) {
	args := m.Called(ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) ListVisible(filter repository.ListFilter, offset, limit int) ([]model.Restaurant, int64, error) {
	args := m.Called(filter, offset, limit)
	return args.Get(0).([]model.Restaurant), args.Get(1).(int64), args.Error(2)
}

func (m *MockRestaurantRepository) ListAll(status string, offset, limit int) ([]model.Restaurant, int64, error) {
	args := m.Called(status, offset, limit)
	return args.Get(0).([]model.Restaurant), args.Get(1).(int64), args.Error(2)
}

func (m *MockRestaurantRepository) Update(restaurant *model.Restaurant) error {
	args := m.Called(restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) UpdateApproval(id string, updates map[string]interface{}) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

// MockProductRepository is a mock of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(id string) (*model.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ids []string) ([]model.Product, error) {
	args := m.Called(ids)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) ListByRestaurant(restaurantID string, onlyAvailable bool) ([]model.Product, error) {
	args := m.Called(restaurantID, onlyAvailable)
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) CountByRestaurant(restaurantID string) (int64, error) {
	args := m.Called(restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Update(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(product *model.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

// MockUserRepository is a mock of the user repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *userModel.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*userModel.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*userModel.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userModel.User), args.Error(1)
}

func (m *MockUserRepository) GetList(offset, limit int) ([]userModel.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]userModel.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(user *userModel.User) error {
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

type testEnv struct {
	repo     *MockRestaurantRepository
	products *MockProductRepository
	users    *MockUserRepository
	service  RestaurantService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo:     new(MockRestaurantRepository),
		products: new(MockProductRepository),
		users:    new(MockUserRepository),
	}
	env.service = NewRestaurantService(env.repo, env.products, env.users, cache.NewMemoryCache())
	return env
}

func activeRestaurant(id string) *model.Restaurant {
	return &model.Restaurant{
		BaseModel:          baseModel.BaseModel{ID: id},
		OwnerUserID:        "owner-" + id,
		Name:               "Cantina da Nonna",
		Slug:               "cantina-da-nonna-abc123",
		IsActive:           true,
		IsApproved:         true,
		SubscriptionStatus: model.SubscriptionActive,
	}
}

func TestGetPublic(t *testing.T) {
	t.Run("Visible restaurant returns detail with products", func(t *testing.T) {
		env := newTestEnv()
		restaurant := activeRestaurant("rest-1")

		env.repo.On("GetBySlug", "cantina-da-nonna-abc123").Return(restaurant, nil)
		env.products.On("ListByRestaurant", "rest-1", true).Return([]model.Product{
			{Name: "Lasanha", Price: 45.0},
		}, nil)

		detail, err := env.service.GetPublic("cantina-da-nonna-abc123")

		assert.NoError(t, err)
		assert.Equal(t, "rest-1", detail.Restaurant.ID)
		assert.Len(t, detail.Products, 1)
	})

	t.Run("Falls back to ID lookup when slug misses", func(t *testing.T) {
		env := newTestEnv()
		restaurant := activeRestaurant("rest-1")

		env.repo.On("GetBySlug", "rest-1").Return(nil, gorm.ErrRecordNotFound)
		env.repo.On("GetByID", "rest-1").Return(restaurant, nil)
		env.products.On("ListByRestaurant", "rest-1", true).Return([]model.Product{}, nil)

		detail, err := env.service.GetPublic("rest-1")

		assert.NoError(t, err)
		assert.Equal(t, "rest-1", detail.Restaurant.ID)
	})

	t.Run("Unapproved restaurant is treated as not found", func(t *testing.T) {
		env := newTestEnv()
		restaurant := activeRestaurant("rest-1")
		restaurant.IsApproved = false

		env.repo.On("GetBySlug", "rest-1").Return(nil, gorm.ErrRecordNotFound)
		env.repo.On("GetByID", "rest-1").Return(restaurant, nil)

		_, err := env.service.GetPublic("rest-1")

		assert.ErrorIs(t, err, ErrRestaurantNotFound)
		env.products.AssertNotCalled(t, "ListByRestaurant", mock.Anything, mock.Anything)
	})

	t.Run("Expired subscription hides the restaurant", func(t *testing.T) {
		env := newTestEnv()
		restaurant := activeRestaurant("rest-1")
		restaurant.SubscriptionStatus = model.SubscriptionExpired

		env.repo.On("GetBySlug", "rest-1").Return(restaurant, nil)

		_, err := env.service.GetPublic("rest-1")

		assert.ErrorIs(t, err, ErrRestaurantNotFound)
	})
}

func TestListVisible(t *testing.T) {
	t.Run("Second identical query is served from cache", func(t *testing.T) {
		env := newTestEnv()
		filter := repository.ListFilter{}

		env.repo.On("ListVisible", filter, 0, 10).Return([]model.Restaurant{
			*activeRestaurant("rest-1"),
		}, int64(1), nil).Once()

		list, total, err := env.service.ListVisible(filter, 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, list, 1)

		// repo mock only allows one call, cache must absorb the second
		list, total, err = env.service.ListVisible(filter, 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, list, 1)
		env.repo.AssertExpectations(t)
	})

	t.Run("Search queries bypass the cache", func(t *testing.T) {
		env := newTestEnv()
		filter := repository.ListFilter{Search: "pizza"}

		env.repo.On("ListVisible", filter, 0, 10).Return([]model.Restaurant{}, int64(0), nil).Twice()

		_, _, err := env.service.ListVisible(filter, 1, 10)
		assert.NoError(t, err)
		_, _, err = env.service.ListVisible(filter, 1, 10)
		assert.NoError(t, err)
		env.repo.AssertExpectations(t)
	})
}

func TestApply(t *testing.T) {
	t.Run("Creates pending restaurant and promotes owner", func(t *testing.T) {
		env := newTestEnv()

		env.repo.On("GetByOwner", "user-1").Return(nil, gorm.ErrRecordNotFound)
		env.repo.On("Create", mock.MatchedBy(func(r *model.Restaurant) bool {
			return r.OwnerUserID == "user-1" &&
				!r.IsApproved &&
				r.SubscriptionStatus == model.SubscriptionPending &&
				r.Slug != ""
		})).Return(nil)
		env.users.On("UpdateRole", "user-1", userModel.RoleRestaurant).Return(nil)

		restaurant, err := env.service.Apply("user-1", ApplyInput{Name: "Pizzaria do Zé"})

		assert.NoError(t, err)
		assert.False(t, restaurant.IsApproved)
		env.users.AssertExpectations(t)
	})

	t.Run("Second restaurant for the same owner is rejected", func(t *testing.T) {
		env := newTestEnv()

		env.repo.On("GetByOwner", "user-1").Return(activeRestaurant("rest-1"), nil)

		_, err := env.service.Apply("user-1", ApplyInput{Name: "Outra Loja"})

		assert.ErrorIs(t, err, ErrAlreadyOwner)
		env.repo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestApproval(t *testing.T) {
	t.Run("Approve clears previous rejection", func(t *testing.T) {
		env := newTestEnv()

		env.repo.On("UpdateApproval", "rest-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
			return updates["is_approved"] == true && updates["rejection_reason"] == ""
		})).Return(nil)

		assert.NoError(t, env.service.Approve("rest-1"))
		env.repo.AssertExpectations(t)
	})

	t.Run("Reject records the reason", func(t *testing.T) {
		env := newTestEnv()

		env.repo.On("UpdateApproval", "rest-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
			return updates["is_approved"] == false && updates["rejection_reason"] == "incomplete documents"
		})).Return(nil)

		assert.NoError(t, env.service.Reject("rest-1", "incomplete documents"))
	})

	t.Run("Unknown restaurant maps to not found", func(t *testing.T) {
		env := newTestEnv()

		env.repo.On("UpdateApproval", "ghost", mock.Anything).Return(gorm.ErrRecordNotFound)

		assert.ErrorIs(t, env.service.Approve("ghost"), ErrRestaurantNotFound)
	})

	t.Run("Suspend only flips the active flag", func(t *testing.T) {
		env := newTestEnv()

		env.repo.On("UpdateApproval", "rest-1", map[string]interface{}{"is_active": false}).Return(nil)

		assert.NoError(t, env.service.Suspend("rest-1"))
	})
}

func TestMakeSlug(t *testing.T) {
	slug := makeSlug("  Pizzaria do Zé & Cia  ")
	assert.Regexp(t, `^pizzaria-do-z-cia-[0-9a-f]{6}$`, slug)

	another := makeSlug("Pizzaria do Zé & Cia")
	assert.NotEqual(t, slug, another)
}
