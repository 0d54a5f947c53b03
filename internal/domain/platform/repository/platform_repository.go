package repository

import (
	"errors"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BannerRepository 轮播图仓库
type BannerRepository interface {
	Create(banner *model.Banner) error
	GetByID(id string) (*model.Banner, error)
	ListActive() ([]model.Banner, error)
	ListAll() ([]model.Banner, error)
	Update(banner *model.Banner) error
	Delete(banner *model.Banner) error
}

type bannerRepository struct {
	db *gorm.DB
}

func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Create(banner *model.Banner) error {
	return r.db.Create(banner).Error
}

func (r *bannerRepository) GetByID(id string) (*model.Banner, error) {
	var banner model.Banner
	if err := r.db.Where("id = ?", id).First(&banner).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *bannerRepository) ListActive() ([]model.Banner, error) {
	var banners []model.Banner
	err := r.db.Where("is_active = true").Order("position ASC").Find(&banners).Error
	return banners, err
}

func (r *bannerRepository) ListAll() ([]model.Banner, error) {
	var banners []model.Banner
	err := r.db.Order("position ASC").Find(&banners).Error
	return banners, err
}

func (r *bannerRepository) Update(banner *model.Banner) error {
	return r.db.Save(banner).Error
}

func (r *bannerRepository) Delete(banner *model.Banner) error {
	return r.db.Delete(banner).Error
}

// PaymentMethodRepository 支付方式仓库
type PaymentMethodRepository interface {
	Create(method *model.PaymentMethod) error
	GetByID(id string) (*model.PaymentMethod, error)
	ListActive() ([]model.PaymentMethod, error)
	ListAll() ([]model.PaymentMethod, error)
	Update(method *model.PaymentMethod) error
	Delete(method *model.PaymentMethod) error
}

type paymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) Create(method *model.PaymentMethod) error {
	return r.db.Create(method).Error
}

func (r *paymentMethodRepository) GetByID(id string) (*model.PaymentMethod, error) {
	var method model.PaymentMethod
	if err := r.db.Where("id = ?", id).First(&method).Error; err != nil {
		return nil, err
	}
	return &method, nil
}

func (r *paymentMethodRepository) ListActive() ([]model.PaymentMethod, error) {
	var methods []model.PaymentMethod
	err := r.db.Where("is_active = true").Order("name ASC").Find(&methods).Error
	return methods, err
}

func (r *paymentMethodRepository) ListAll() ([]model.PaymentMethod, error) {
	var methods []model.PaymentMethod
	err := r.db.Order("name ASC").Find(&methods).Error
	return methods, err
}

func (r *paymentMethodRepository) Update(method *model.PaymentMethod) error {
	return r.db.Save(method).Error
}

func (r *paymentMethodRepository) Delete(method *model.PaymentMethod) error {
	return r.db.Delete(method).Error
}

// SettingRepository 平台配置仓库
type SettingRepository interface {
	Get(key string) (string, error)
	GetAll() (map[string]string, error)
	Upsert(key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get 读取单个配置项，不存在返回空串
func (r *settingRepository) Get(key string) (string, error) {
	var setting model.SiteSetting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

func (r *settingRepository) GetAll() (map[string]string, error) {
	var settings []model.SiteSetting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}
	return result, nil
}

// Upsert 按键更新插入
func (r *settingRepository) Upsert(key, value string) error {
	setting := model.SiteSetting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}
