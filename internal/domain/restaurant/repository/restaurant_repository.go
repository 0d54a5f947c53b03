package repository

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"

	"gorm.io/gorm"
)

// ListFilter 公开列表过滤条件
type ListFilter struct {
	CategoryID string
	Search     string
}

// RestaurantRepository 餐厅仓库
type RestaurantRepository interface {
	Create(restaurant *model.Restaurant) error
	GetByID(id string) (*model.Restaurant, error)
	GetBySlug(slug string) (*model.Restaurant, error)
	GetByOwner(ownerUserID string) (*model.Restaurant, error)
	ListVisible(filter ListFilter, offset, limit int) ([]model.Restaurant, int64, error)
	ListAll(status string, offset, limit int) ([]model.Restaurant, int64, error)
	Update(restaurant *model.Restaurant) error
	UpdateApproval(id string, updates map[string]interface{}) error
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(restaurant *model.Restaurant) error {
	return r.db.Create(restaurant).Error
}

func (r *restaurantRepository) GetByID(id string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.Where("id = ?", id).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) GetBySlug(slug string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.Where("slug = ?", slug).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) GetByOwner(ownerUserID string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.Where("owner_user_id = ?", ownerUserID).First(&restaurant).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// visibleScope 公开可见性条件，所有公开查询必须走这里
func visibleScope(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = true AND is_approved = true AND subscription_status = ?", model.SubscriptionActive)
}

// ListVisible 公开餐厅列表
func (r *restaurantRepository) ListVisible(filter ListFilter, offset, limit int) ([]model.Restaurant, int64, error) {
	var restaurants []model.Restaurant
	var total int64

	query := visibleScope(r.db.Model(&model.Restaurant{}))
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("rating DESC, created_at DESC").Offset(offset).Limit(limit).Find(&restaurants).Error; err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}

// ListAll 管理端餐厅列表，可按审核/订阅状态过滤
func (r *restaurantRepository) ListAll(status string, offset, limit int) ([]model.Restaurant, int64, error) {
	var restaurants []model.Restaurant
	var total int64

	query := r.db.Model(&model.Restaurant{})
	switch status {
	case "pending":
		query = query.Where("is_approved = false AND rejected_at IS NULL")
	case "approved":
		query = query.Where("is_approved = true")
	case "rejected":
		query = query.Where("rejected_at IS NOT NULL")
	case "suspended":
		query = query.Where("is_active = false")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&restaurants).Error; err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}

func (r *restaurantRepository) Update(restaurant *model.Restaurant) error {
	return r.db.Save(restaurant).Error
}

// UpdateApproval 审核相关字段更新
func (r *restaurantRepository) UpdateApproval(id string, updates map[string]interface{}) error {
	result := r.db.Model(&model.Restaurant{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
