package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"
	userModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	userRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/cache"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/logger"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrAlreadyOwner       = errors.New("user already owns a restaurant")
)

// 公开列表缓存
const (
	listCacheKeyPrefix = "restaurants:list:"
	listCacheTTL       = 5 * time.Minute
)

// ApplyInput 开店申请参数
type ApplyInput struct {
	Name            string
	CategoryID      string
	Description     string
	Phone           string
	AddressLine     string
	DeliveryFee     float64
	DeliveryTimeMin int
	DeliveryTimeMax int
	MinOrderAmount  float64
}

// UpdateInput 店铺资料更新参数
type UpdateInput struct {
	Name            string
	CategoryID      string
	Description     string
	ImageURL        string
	Phone           string
	AddressLine     string
	DeliveryFee     float64
	DeliveryTimeMin int
	DeliveryTimeMax int
	MinOrderAmount  float64
}

// RestaurantDetail 公开详情
type RestaurantDetail struct {
	Restaurant model.Restaurant `json:"restaurant"`
	Products   []model.Product  `json:"products"`
}

// RestaurantService 餐厅服务接口
type RestaurantService interface {
	// 公开浏览
	ListVisible(filter repository.ListFilter, page, limit int) ([]model.Restaurant, int64, error)
	GetPublic(idOrSlug string) (*RestaurantDetail, error)

	// 店主
	Apply(ownerUserID string, input ApplyInput) (*model.Restaurant, error)
	GetMine(ownerUserID string) (*model.Restaurant, error)
	UpdateMine(ownerUserID string, input UpdateInput) (*model.Restaurant, error)
	SetOpen(ownerUserID string, open bool) (*model.Restaurant, error)

	// 管理端
	ListAll(status string, page, limit int) ([]model.Restaurant, int64, error)
	Approve(id string) error
	Reject(id, reason string) error
	Suspend(id string) error
	Activate(id string) error
}

type restaurantService struct {
	repo     repository.RestaurantRepository
	products repository.ProductRepository
	users    userRepo.UserRepository
	cache    cache.CacheService
}

func NewRestaurantService(
	repo repository.RestaurantRepository,
	products repository.ProductRepository,
	users userRepo.UserRepository,
	cacheService cache.CacheService,
) RestaurantService {
	return &restaurantService{
		repo:     repo,
		products: products,
		users:    users,
		cache:    cacheService,
	}
}

type cachedList struct {
	List  []model.Restaurant `json:"list"`
	Total int64              `json:"total"`
}

// ListVisible 公开餐厅列表（带缓存）
func (s *restaurantService) ListVisible(filter repository.ListFilter, page, limit int) ([]model.Restaurant, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()

	// 搜索请求不走缓存
	ctx := context.Background()
	cacheKey := fmt.Sprintf("%s%s:%d:%d", listCacheKeyPrefix, filter.CategoryID, p.Page, limit)
	if filter.Search == "" {
		var cached cachedList
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached.List, cached.Total, nil
		}
	}

	list, total, err := s.repo.ListVisible(filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	if filter.Search == "" {
		if err := s.cache.Set(ctx, cacheKey, cachedList{List: list, Total: total}, listCacheTTL); err != nil {
			logger.Log.Warn("failed to cache restaurant list", zap.Error(err))
		}
	}

	return list, total, nil
}

// GetPublic 公开详情，非可见餐厅按不存在处理
func (s *restaurantService) GetPublic(idOrSlug string) (*RestaurantDetail, error) {
	restaurant, err := s.repo.GetBySlug(idOrSlug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		restaurant, err = s.repo.GetByID(idOrSlug)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !restaurant.IsVisible() {
		return nil, ErrRestaurantNotFound
	}

	products, err := s.products.ListByRestaurant(restaurant.ID, true)
	if err != nil {
		return nil, err
	}

	return &RestaurantDetail{Restaurant: *restaurant, Products: products}, nil
}

// Apply 开店申请：创建待审核餐厅并把申请人升级为餐厅角色
func (s *restaurantService) Apply(ownerUserID string, input ApplyInput) (*model.Restaurant, error) {
	// 1. 一个用户只能拥有一家餐厅
	if _, err := s.repo.GetByOwner(ownerUserID); err == nil {
		return nil, ErrAlreadyOwner
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. 创建待审核餐厅
	restaurant := &model.Restaurant{
		OwnerUserID:        ownerUserID,
		CategoryID:         input.CategoryID,
		Name:               input.Name,
		Slug:               makeSlug(input.Name),
		Description:        input.Description,
		Phone:              input.Phone,
		AddressLine:        input.AddressLine,
		DeliveryFee:        input.DeliveryFee,
		DeliveryTimeMin:    input.DeliveryTimeMin,
		DeliveryTimeMax:    input.DeliveryTimeMax,
		MinOrderAmount:     input.MinOrderAmount,
		IsActive:           true,
		IsApproved:         false,
		SubscriptionStatus: model.SubscriptionPending,
	}
	if err := s.repo.Create(restaurant); err != nil {
		return nil, err
	}

	// 3. 升级申请人角色
	if err := s.users.UpdateRole(ownerUserID, userModel.RoleRestaurant); err != nil {
		return nil, err
	}

	return restaurant, nil
}

func (s *restaurantService) GetMine(ownerUserID string) (*model.Restaurant, error) {
	restaurant, err := s.repo.GetByOwner(ownerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return restaurant, nil
}

func (s *restaurantService) UpdateMine(ownerUserID string, input UpdateInput) (*model.Restaurant, error) {
	restaurant, err := s.GetMine(ownerUserID)
	if err != nil {
		return nil, err
	}

	restaurant.Name = input.Name
	restaurant.CategoryID = input.CategoryID
	restaurant.Description = input.Description
	if input.ImageURL != "" {
		restaurant.ImageURL = input.ImageURL
	}
	restaurant.Phone = input.Phone
	restaurant.AddressLine = input.AddressLine
	restaurant.DeliveryFee = input.DeliveryFee
	restaurant.DeliveryTimeMin = input.DeliveryTimeMin
	restaurant.DeliveryTimeMax = input.DeliveryTimeMax
	restaurant.MinOrderAmount = input.MinOrderAmount

	if err := s.repo.Update(restaurant); err != nil {
		return nil, err
	}

	s.invalidateListCache()
	return restaurant, nil
}

// SetOpen 店主暂停/恢复营业，停业期间不出现在公开列表
func (s *restaurantService) SetOpen(ownerUserID string, open bool) (*model.Restaurant, error) {
	restaurant, err := s.GetMine(ownerUserID)
	if err != nil {
		return nil, err
	}
	if restaurant.IsActive == open {
		return restaurant, nil
	}

	if err := s.repo.UpdateApproval(restaurant.ID, map[string]interface{}{"is_active": open}); err != nil {
		return nil, s.wrapNotFound(err)
	}
	restaurant.IsActive = open

	s.invalidateListCache()
	return restaurant, nil
}

func (s *restaurantService) ListAll(status string, page, limit int) ([]model.Restaurant, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.ListAll(status, offset, limit)
}

// Approve 审核通过
func (s *restaurantService) Approve(id string) error {
	now := time.Now()
	err := s.repo.UpdateApproval(id, map[string]interface{}{
		"is_approved":      true,
		"approved_at":      &now,
		"rejected_at":      nil,
		"rejection_reason": "",
	})
	if err != nil {
		return s.wrapNotFound(err)
	}
	s.invalidateListCache()
	return nil
}

// Reject 审核驳回
func (s *restaurantService) Reject(id, reason string) error {
	now := time.Now()
	err := s.repo.UpdateApproval(id, map[string]interface{}{
		"is_approved":      false,
		"rejected_at":      &now,
		"rejection_reason": reason,
	})
	if err != nil {
		return s.wrapNotFound(err)
	}
	s.invalidateListCache()
	return nil
}

// Suspend 下线餐厅
func (s *restaurantService) Suspend(id string) error {
	if err := s.repo.UpdateApproval(id, map[string]interface{}{"is_active": false}); err != nil {
		return s.wrapNotFound(err)
	}
	s.invalidateListCache()
	return nil
}

// Activate 恢复餐厅
func (s *restaurantService) Activate(id string) error {
	if err := s.repo.UpdateApproval(id, map[string]interface{}{"is_active": true}); err != nil {
		return s.wrapNotFound(err)
	}
	s.invalidateListCache()
	return nil
}

func (s *restaurantService) wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRestaurantNotFound
	}
	return err
}

func (s *restaurantService) invalidateListCache() {
	if err := s.cache.InvalidatePattern(context.Background(), listCacheKeyPrefix+"*"); err != nil {
		logger.Log.Warn("failed to invalidate restaurant list cache", zap.Error(err))
	}
}

// makeSlug 由名称生成 slug，追加短随机后缀避免冲突
func makeSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-") + "-" + uuid.New().String()[:6]
}
