package service

import (
	"errors"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"

	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryInput 分类写入参数
type CategoryInput struct {
	Name     string
	ImageURL string
	Position int
	IsActive bool
}

// CategoryService 分类服务
type CategoryService interface {
	ListActive() ([]model.Category, error)
	ListAll() ([]model.Category, error)
	Create(input CategoryInput) (*model.Category, error)
	Update(id string, input CategoryInput) (*model.Category, error)
	Delete(id string) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) ListActive() ([]model.Category, error) {
	return s.repo.ListActive()
}

func (s *categoryService) ListAll() ([]model.Category, error) {
	return s.repo.ListAll()
}

func (s *categoryService) Create(input CategoryInput) (*model.Category, error) {
	category := &model.Category{
		Name:     input.Name,
		ImageURL: input.ImageURL,
		Position: input.Position,
		IsActive: input.IsActive,
	}
	if err := s.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(id string, input CategoryInput) (*model.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	category.Name = input.Name
	category.ImageURL = input.ImageURL
	category.Position = input.Position
	category.IsActive = input.IsActive

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(id string) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.repo.Delete(category)
}
