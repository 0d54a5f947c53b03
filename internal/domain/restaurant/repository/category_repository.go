package repository

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"

	"gorm.io/gorm"
)

// CategoryRepository 分类仓库
type CategoryRepository interface {
	Create(category *model.Category) error
	GetByID(id string) (*model.Category, error)
	ListActive() ([]model.Category, error)
	ListAll() ([]model.Category, error)
	Update(category *model.Category) error
	Delete(category *model.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetByID(id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListActive() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Where("is_active = true").Order("position ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) ListAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("position ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(category *model.Category) error {
	return r.db.Delete(category).Error
}
