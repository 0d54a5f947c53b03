package repository

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"

	"gorm.io/gorm"
)

// ProductRepository 商品仓库
type ProductRepository interface {
	Create(product *model.Product) error
	GetByID(id string) (*model.Product, error)
	GetByIDs(ids []string) ([]model.Product, error)
	ListByRestaurant(restaurantID string, onlyAvailable bool) ([]model.Product, error)
	CountByRestaurant(restaurantID string) (int64, error)
	Update(product *model.Product) error
	Delete(product *model.Product) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) GetByID(id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetByIDs 批量查询，下单校验用
func (r *productRepository) GetByIDs(ids []string) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListByRestaurant(restaurantID string, onlyAvailable bool) ([]model.Product, error) {
	var products []model.Product
	query := r.db.Where("restaurant_id = ?", restaurantID)
	if onlyAvailable {
		query = query.Where("is_available = true")
	}
	err := query.Order("created_at ASC").Find(&products).Error
	return products, err
}

func (r *productRepository) CountByRestaurant(restaurantID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("restaurant_id = ?", restaurantID).Count(&count).Error
	return count, err
}

func (r *productRepository) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(product *model.Product) error {
	return r.db.Delete(product).Error
}
