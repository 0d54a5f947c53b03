package service

import (
	"errors"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"
	subscriptionRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/repository"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductCapLimit = errors.New("product limit reached for current plan")
)

// ProductInput 商品写入参数
type ProductInput struct {
	Name          string
	Description   string
	ImageURL      string
	Price         float64
	DiscountPrice *float64
	IsAvailable   bool
}

// ProductService 商品服务（店主侧）
type ProductService interface {
	List(ownerUserID string) ([]model.Product, error)
	Create(ownerUserID string, input ProductInput) (*model.Product, error)
	Update(ownerUserID, productID string, input ProductInput) (*model.Product, error)
	SetAvailability(ownerUserID, productID string, available bool) error
	Delete(ownerUserID, productID string) error
}

type productService struct {
	repo        repository.ProductRepository
	restaurants repository.RestaurantRepository
	plans       subscriptionRepo.PlanRepository
}

func NewProductService(
	repo repository.ProductRepository,
	restaurants repository.RestaurantRepository,
	plans subscriptionRepo.PlanRepository,
) ProductService {
	return &productService{repo: repo, restaurants: restaurants, plans: plans}
}

// ownedRestaurant 解析店主的餐厅
func (s *productService) ownedRestaurant(ownerUserID string) (*model.Restaurant, error) {
	restaurant, err := s.restaurants.GetByOwner(ownerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return restaurant, nil
}

func (s *productService) List(ownerUserID string) ([]model.Product, error) {
	restaurant, err := s.ownedRestaurant(ownerUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByRestaurant(restaurant.ID, false)
}

func (s *productService) Create(ownerUserID string, input ProductInput) (*model.Product, error) {
	restaurant, err := s.ownedRestaurant(ownerUserID)
	if err != nil {
		return nil, err
	}

	// 套餐商品数量上限（0 表示不限）
	if restaurant.SubscriptionPlanID != nil {
		plan, err := s.plans.GetByID(*restaurant.SubscriptionPlanID)
		if err == nil && plan.MaxProducts > 0 {
			count, err := s.repo.CountByRestaurant(restaurant.ID)
			if err != nil {
				return nil, err
			}
			if count >= int64(plan.MaxProducts) {
				return nil, ErrProductCapLimit
			}
		}
	}

	product := &model.Product{
		RestaurantID:  restaurant.ID,
		Name:          input.Name,
		Description:   input.Description,
		ImageURL:      input.ImageURL,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		IsAvailable:   input.IsAvailable,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// ownedProduct 获取商品并校验归属
func (s *productService) ownedProduct(ownerUserID, productID string) (*model.Product, error) {
	restaurant, err := s.ownedRestaurant(ownerUserID)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.RestaurantID != restaurant.ID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) Update(ownerUserID, productID string, input ProductInput) (*model.Product, error) {
	product, err := s.ownedProduct(ownerUserID, productID)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}
	product.Price = input.Price
	product.DiscountPrice = input.DiscountPrice
	product.IsAvailable = input.IsAvailable

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) SetAvailability(ownerUserID, productID string, available bool) error {
	product, err := s.ownedProduct(ownerUserID, productID)
	if err != nil {
		return err
	}
	product.IsAvailable = available
	return s.repo.Update(product)
}

func (s *productService) Delete(ownerUserID, productID string) error {
	product, err := s.ownedProduct(ownerUserID, productID)
	if err != nil {
		return err
	}
	return s.repo.Delete(product)
}
