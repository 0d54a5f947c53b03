package service

import (
	"errors"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/repository"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("resource not found")

// BannerInput 轮播图写入参数
type BannerInput struct {
	Title    string
	ImageURL string
	LinkURL  string
	Position int
	IsActive bool
}

// PaymentMethodInput 支付方式写入参数
type PaymentMethodInput struct {
	Name     string
	Code     string
	IsOnline bool
	IsActive bool
}

// PlatformService 平台配置服务
type PlatformService interface {
	// 公开
	ListBanners() ([]model.Banner, error)
	ListPaymentMethods() ([]model.PaymentMethod, error)
	GetSettings() (map[string]string, error)

	// 管理端
	ListAllBanners() ([]model.Banner, error)
	CreateBanner(input BannerInput) (*model.Banner, error)
	UpdateBanner(id string, input BannerInput) (*model.Banner, error)
	DeleteBanner(id string) error

	ListAllPaymentMethods() ([]model.PaymentMethod, error)
	CreatePaymentMethod(input PaymentMethodInput) (*model.PaymentMethod, error)
	UpdatePaymentMethod(id string, input PaymentMethodInput) (*model.PaymentMethod, error)
	DeletePaymentMethod(id string) error

	UpsertSetting(key, value string) error
}

type platformService struct {
	banners  repository.BannerRepository
	methods  repository.PaymentMethodRepository
	settings repository.SettingRepository
}

func NewPlatformService(
	banners repository.BannerRepository,
	methods repository.PaymentMethodRepository,
	settings repository.SettingRepository,
) PlatformService {
	return &platformService{banners: banners, methods: methods, settings: settings}
}

func (s *platformService) ListBanners() ([]model.Banner, error) {
	return s.banners.ListActive()
}

func (s *platformService) ListPaymentMethods() ([]model.PaymentMethod, error) {
	return s.methods.ListActive()
}

// GetSettings 公开配置，密钥类键不下发
func (s *platformService) GetSettings() (map[string]string, error) {
	all, err := s.settings.GetAll()
	if err != nil {
		return nil, err
	}
	delete(all, model.SettingPaymentSecretKey)
	delete(all, model.SettingPaymentWebhookSecret)
	return all, nil
}

func (s *platformService) ListAllBanners() ([]model.Banner, error) {
	return s.banners.ListAll()
}

func (s *platformService) CreateBanner(input BannerInput) (*model.Banner, error) {
	banner := &model.Banner{
		Title:    input.Title,
		ImageURL: input.ImageURL,
		LinkURL:  input.LinkURL,
		Position: input.Position,
		IsActive: input.IsActive,
	}
	if err := s.banners.Create(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *platformService) UpdateBanner(id string, input BannerInput) (*model.Banner, error) {
	banner, err := s.banners.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	banner.Title = input.Title
	banner.ImageURL = input.ImageURL
	banner.LinkURL = input.LinkURL
	banner.Position = input.Position
	banner.IsActive = input.IsActive

	if err := s.banners.Update(banner); err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *platformService) DeleteBanner(id string) error {
	banner, err := s.banners.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.banners.Delete(banner)
}

func (s *platformService) ListAllPaymentMethods() ([]model.PaymentMethod, error) {
	return s.methods.ListAll()
}

func (s *platformService) CreatePaymentMethod(input PaymentMethodInput) (*model.PaymentMethod, error) {
	method := &model.PaymentMethod{
		Name:     input.Name,
		Code:     input.Code,
		IsOnline: input.IsOnline,
		IsActive: input.IsActive,
	}
	if err := s.methods.Create(method); err != nil {
		return nil, err
	}
	return method, nil
}

func (s *platformService) UpdatePaymentMethod(id string, input PaymentMethodInput) (*model.PaymentMethod, error) {
	method, err := s.methods.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	method.Name = input.Name
	method.Code = input.Code
	method.IsOnline = input.IsOnline
	method.IsActive = input.IsActive

	if err := s.methods.Update(method); err != nil {
		return nil, err
	}
	return method, nil
}

func (s *platformService) DeletePaymentMethod(id string) error {
	method, err := s.methods.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.methods.Delete(method)
}

func (s *platformService) UpsertSetting(key, value string) error {
	return s.settings.Upsert(key, value)
}
