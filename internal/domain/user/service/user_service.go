package service

import (
	"errors"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidLogin  = errors.New("invalid email or password")
	ErrAccountBanned = errors.New("account is banned")
	ErrUserNotFound  = errors.New("user not found")
)

// UserService 用户服务接口
type UserService interface {
	Register(name, email, password, phone string) (*model.User, error)
	Login(email, password string) (string, *model.User, error)
	GetUser(id string) (*model.User, error)
	UpdateProfile(id string, name, phone string) (*model.User, error)
	GetUsers(page, limit int) ([]model.User, int64, error)
	SetRole(userID, role string) error
	SetStatus(userID, status string) error
}

// userService 实现
type userService struct {
	repo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// Register 注册新用户
func (s *userService) Register(name, email, password, phone string) (*model.User, error) {
	// 1. 检查邮箱是否已注册
	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 2. 密码哈希
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 3. 创建用户
	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Phone:    phone,
		Role:     model.RoleUser,
		Status:   model.StatusActive,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login 登录
func (s *userService) Login(email, password string) (string, *model.User, error) {
	// 1. 查询用户
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidLogin
		}
		return "", nil, err
	}

	// 2. 校验密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidLogin
	}

	// 3. 检查用户状态
	if user.Status == model.StatusBanned {
		return "", nil, ErrAccountBanned
	}

	// 4. 生成 Token
	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// GetUser 获取单个用户
func (s *userService) GetUser(id string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile 更新用户资料
func (s *userService) UpdateProfile(id string, name, phone string) (*model.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Phone = phone

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUsers 获取用户列表（分页，管理端）
func (s *userService) GetUsers(page, limit int) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.GetList(offset, limit)
}

// SetRole 修改用户角色（管理端）
func (s *userService) SetRole(userID, role string) error {
	if role != model.RoleUser && role != model.RoleRestaurant && role != model.RoleAdmin {
		return errors.New("invalid role")
	}
	return s.repo.UpdateRole(userID, role)
}

// SetStatus 修改用户状态（管理端）
func (s *userService) SetStatus(userID, status string) error {
	if status != model.StatusActive && status != model.StatusBanned {
		return errors.New("invalid status")
	}
	return s.repo.UpdateStatus(userID, status)
}
