package handler

import (
	"errors"
	"net/http"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/service"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/response"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register 处理注册请求
// @Summary 账号注册
// @Tags User
// @Accept json
// @Produce json
// @Param input body RegisterInput true "Account Info"
// @Router /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.Register(input.Name, input.Email, input.Password, input.Phone)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Error(c, http.StatusConflict, response.ErrUserExists, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Registration failed")
		return
	}

	response.Created(c, user)
}

// Login 处理登录请求
// @Summary 账号登录
// @Tags User
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, user, err := h.service.Login(input.Email, input.Password)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, response.ErrAuthFailed, err.Error())
		return
	}

	response.Success(c, gin.H{"token": token, "user": user})
}

// Me 获取当前用户
// @Summary 当前用户信息
// @Tags User
// @Router /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "User not found")
		return
	}
	response.Success(c, user)
}

// UpdateProfileInput 资料更新输入
type UpdateProfileInput struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// UpdateMe 更新当前用户资料
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(middleware.GetUserID(c), input.Name, input.Phone)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, user)
}

// GetUsers 获取所有用户（管理端）
func (h *UserHandler) GetUsers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	users, total, err := h.service.GetUsers(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch users")
		return
	}
	response.Success(c, utils.NewPageResult(users, total, p))
}

// SetRoleInput 角色修改输入
type SetRoleInput struct {
	Role string `json:"role" binding:"required,oneof=USER RESTAURANT ADMIN"`
}

// SetRole 修改用户角色（管理端）
func (h *UserHandler) SetRole(c *gin.Context) {
	var input SetRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.SetRole(c.Param("id"), input.Role); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, true)
}

// SetStatusInput 状态修改输入
type SetStatusInput struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE BANNED"`
}

// SetStatus 封禁/解封用户（管理端）
func (h *UserHandler) SetStatus(c *gin.Context) {
	var input SetStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.SetStatus(c.Param("id"), input.Status); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, true)
}
