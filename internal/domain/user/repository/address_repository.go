package repository

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"

	"gorm.io/gorm"
)

// AddressRepository 收货地址仓库
type AddressRepository interface {
	Create(address *model.Address) error
	GetByID(id string) (*model.Address, error)
	ListByUser(userID string) ([]model.Address, error)
	Update(address *model.Address) error
	Delete(address *model.Address) error
	ClearDefault(userID string) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(address *model.Address) error {
	return r.db.Create(address).Error
}

func (r *addressRepository) GetByID(id string) (*model.Address, error) {
	var address model.Address
	if err := r.db.Where("id = ?", id).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) ListByUser(userID string) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	return addresses, err
}

func (r *addressRepository) Update(address *model.Address) error {
	return r.db.Save(address).Error
}

func (r *addressRepository) Delete(address *model.Address) error {
	return r.db.Delete(address).Error
}

// ClearDefault 清除该用户所有默认地址标记
func (r *addressRepository) ClearDefault(userID string) error {
	return r.db.Model(&model.Address{}).
		Where("user_id = ? AND is_default = true", userID).
		Update("is_default", false).Error
}
