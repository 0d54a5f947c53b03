package service

import (
	"errors"

	orderModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/model"
	orderRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/review/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/review/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotCompleted = errors.New("only completed orders can be reviewed")
	ErrReviewExists      = errors.New("order already has a review")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)

// ReviewService 评价服务接口
type ReviewService interface {
	Create(userID, orderID string, rating int, comment string) (*model.Review, error)
	ListByRestaurant(restaurantID string, page, limit int) ([]model.Review, int64, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	orders  orderRepo.OrderRepository
}

func NewReviewService(reviews repository.ReviewRepository, orders orderRepo.OrderRepository) ReviewService {
	return &reviewService{reviews: reviews, orders: orders}
}

func (s *reviewService) Create(userID, orderID string, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	// 1. 订单必须存在且属于评价人
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}

	// 2. 只有已完成的订单可以评价
	if order.Status != orderModel.StatusCompleted {
		return nil, ErrOrderNotCompleted
	}

	// 3. 同一订单只能评价一次
	if _, err := s.reviews.GetByOrderID(orderID); err == nil {
		return nil, ErrReviewExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		OrderID:      orderID,
		UserID:       userID,
		RestaurantID: order.RestaurantID,
		Rating:       rating,
		Comment:      comment,
	}
	// 唯一索引兜底：预检之后并发插入同一订单的评价仍会失败
	if err := s.reviews.CreateAndRecalc(review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrReviewExists
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListByRestaurant(restaurantID string, page, limit int) ([]model.Review, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.reviews.ListByRestaurant(restaurantID, offset, limit)
}
