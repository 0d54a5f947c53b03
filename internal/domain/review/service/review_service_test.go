package service

import (
	"testing"
	"time"

	orderModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/review/model"
	baseModel "github.com/guilherme-ufscar/restaurante-sub001/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockReviewRepository is a mock of ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) CreateAndRecalc(review *model.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByOrderID(orderID string) (*model.Review, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByRestaurant(restaurantID string, offset, limit int) ([]model.Review, int64, error) {
	args := m.Called(restaurantID, offset, limit)
	return args.Get(0).([]model.Review), args.Get(1).(int64), args.Error(2)
}

// MockOrderRepository is a mock of order repository.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(order *orderModel.Order, items []orderModel.OrderItem) error {
	args := m.Called(order, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*orderModel.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderModel.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(userID string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(userID, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) ListByRestaurant(restaurantID, status string, offset, limit int) ([]orderModel.Order, int64, error) {
	args := m.Called(restaurantID, status, offset, limit)
	return args.Get(0).([]orderModel.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(orderID, toStatus string, allowedFrom []string, updates map[string]interface{}) (int64, error) {
	args := m.Called(orderID, toStatus, allowedFrom, updates)
	return args.Get(0).(int64), args.Error(1)
}

func completedOrder(id, userID string) *orderModel.Order {
	now := time.Now()
	return &orderModel.Order{
		BaseModel:    baseModel.BaseModel{ID: id, CreatedAt: now},
		UserID:       userID,
		RestaurantID: "rest-1",
		Status:       orderModel.StatusCompleted,
	}
}

func TestCreateReview(t *testing.T) {
	t.Run("Completed order gets a review and triggers recalc", func(t *testing.T) {
		mockReviews := new(MockReviewRepository)
		mockOrders := new(MockOrderRepository)
		service := NewReviewService(mockReviews, mockOrders)

		mockOrders.On("GetByID", "order-1").Return(completedOrder("order-1", "user-1"), nil)
		mockReviews.On("GetByOrderID", "order-1").Return(nil, gorm.ErrRecordNotFound)
		mockReviews.On("CreateAndRecalc", mock.MatchedBy(func(r *model.Review) bool {
			return r.OrderID == "order-1" && r.RestaurantID == "rest-1" && r.Rating == 4
		})).Return(nil)

		review, err := service.Create("user-1", "order-1", 4, "great food")

		assert.NoError(t, err)
		assert.Equal(t, 4, review.Rating)
		mockReviews.AssertExpectations(t)
	})

	t.Run("Order not completed is rejected", func(t *testing.T) {
		mockReviews := new(MockReviewRepository)
		mockOrders := new(MockOrderRepository)
		service := NewReviewService(mockReviews, mockOrders)

		order := completedOrder("order-1", "user-1")
		order.Status = orderModel.StatusDelivering
		mockOrders.On("GetByID", "order-1").Return(order, nil)

		_, err := service.Create("user-1", "order-1", 5, "")

		assert.ErrorIs(t, err, ErrOrderNotCompleted)
		mockReviews.AssertNotCalled(t, "CreateAndRecalc", mock.Anything)
	})

	t.Run("Second review for the same order is rejected", func(t *testing.T) {
		mockReviews := new(MockReviewRepository)
		mockOrders := new(MockOrderRepository)
		service := NewReviewService(mockReviews, mockOrders)

		mockOrders.On("GetByID", "order-1").Return(completedOrder("order-1", "user-1"), nil)
		mockReviews.On("GetByOrderID", "order-1").Return(&model.Review{
			BaseModel: baseModel.BaseModel{ID: "review-1"}, OrderID: "order-1",
		}, nil)

		_, err := service.Create("user-1", "order-1", 5, "")

		assert.ErrorIs(t, err, ErrReviewExists)
	})

	t.Run("Concurrent duplicate insert maps to review exists", func(t *testing.T) {
		mockReviews := new(MockReviewRepository)
		mockOrders := new(MockOrderRepository)
		service := NewReviewService(mockReviews, mockOrders)

		// 预检通过，但并发写入在唯一索引上撞车
		mockOrders.On("GetByID", "order-1").Return(completedOrder("order-1", "user-1"), nil)
		mockReviews.On("GetByOrderID", "order-1").Return(nil, gorm.ErrRecordNotFound)
		mockReviews.On("CreateAndRecalc", mock.AnythingOfType("*model.Review")).Return(gorm.ErrDuplicatedKey)

		_, err := service.Create("user-1", "order-1", 5, "")

		assert.ErrorIs(t, err, ErrReviewExists)
	})

	t.Run("Someone else's order is not found", func(t *testing.T) {
		mockReviews := new(MockReviewRepository)
		mockOrders := new(MockOrderRepository)
		service := NewReviewService(mockReviews, mockOrders)

		mockOrders.On("GetByID", "order-1").Return(completedOrder("order-1", "user-1"), nil)

		_, err := service.Create("someone-else", "order-1", 5, "")

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("Rating outside 1..5 is rejected", func(t *testing.T) {
		mockReviews := new(MockReviewRepository)
		mockOrders := new(MockOrderRepository)
		service := NewReviewService(mockReviews, mockOrders)

		_, err := service.Create("user-1", "order-1", 6, "")

		assert.ErrorIs(t, err, ErrInvalidRating)
		mockOrders.AssertNotCalled(t, "GetByID", mock.Anything)
	})
}
