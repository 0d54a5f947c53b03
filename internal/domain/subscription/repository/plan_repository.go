package repository

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/model"

	"gorm.io/gorm"
)

// PlanRepository 订阅套餐数据访问接口
type PlanRepository interface {
	Create(plan *model.SubscriptionPlan) error
	GetByID(id string) (*model.SubscriptionPlan, error)
	ListActive() ([]model.SubscriptionPlan, error)
	ListAll() ([]model.SubscriptionPlan, error)
	Update(plan *model.SubscriptionPlan) error
	Delete(plan *model.SubscriptionPlan) error
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(plan *model.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

func (r *planRepository) GetByID(id string) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	if err := r.db.First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) ListActive() ([]model.SubscriptionPlan, error) {
	var plans []model.SubscriptionPlan
	err := r.db.Where("is_active = true").Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) ListAll() ([]model.SubscriptionPlan, error) {
	var plans []model.SubscriptionPlan
	err := r.db.Order("price ASC").Find(&plans).Error
	return plans, err
}

func (r *planRepository) Update(plan *model.SubscriptionPlan) error {
	return r.db.Save(plan).Error
}

func (r *planRepository) Delete(plan *model.SubscriptionPlan) error {
	return r.db.Delete(plan).Error
}
