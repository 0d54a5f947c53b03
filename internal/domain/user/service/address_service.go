package service

import (
	"errors"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/repository"

	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

// AddressInput 地址写入参数
type AddressInput struct {
	Label      string
	Street     string
	Number     string
	District   string
	City       string
	State      string
	ZipCode    string
	Complement string
	IsDefault  bool
}

// AddressService 收货地址服务
type AddressService interface {
	List(userID string) ([]model.Address, error)
	Create(userID string, input AddressInput) (*model.Address, error)
	Update(userID, addressID string, input AddressInput) (*model.Address, error)
	Delete(userID, addressID string) error
}

type addressService struct {
	repo repository.AddressRepository
}

func NewAddressService(repo repository.AddressRepository) AddressService {
	return &addressService{repo: repo}
}

func (s *addressService) List(userID string) ([]model.Address, error) {
	return s.repo.ListByUser(userID)
}

func (s *addressService) Create(userID string, input AddressInput) (*model.Address, error) {
	// 设为默认地址时清除原默认标记
	if input.IsDefault {
		if err := s.repo.ClearDefault(userID); err != nil {
			return nil, err
		}
	}

	address := &model.Address{
		UserID:     userID,
		Label:      input.Label,
		Street:     input.Street,
		Number:     input.Number,
		District:   input.District,
		City:       input.City,
		State:      input.State,
		ZipCode:    input.ZipCode,
		Complement: input.Complement,
		IsDefault:  input.IsDefault,
	}
	if err := s.repo.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

// getOwned 获取地址并校验归属
func (s *addressService) getOwned(userID, addressID string) (*model.Address, error) {
	address, err := s.repo.GetByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, ErrAddressNotFound
	}
	return address, nil
}

func (s *addressService) Update(userID, addressID string, input AddressInput) (*model.Address, error) {
	address, err := s.getOwned(userID, addressID)
	if err != nil {
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.repo.ClearDefault(userID); err != nil {
			return nil, err
		}
	}

	address.Label = input.Label
	address.Street = input.Street
	address.Number = input.Number
	address.District = input.District
	address.City = input.City
	address.State = input.State
	address.ZipCode = input.ZipCode
	address.Complement = input.Complement
	address.IsDefault = input.IsDefault

	if err := s.repo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) Delete(userID, addressID string) error {
	address, err := s.getOwned(userID, addressID)
	if err != nil {
		return err
	}
	return s.repo.Delete(address)
}
