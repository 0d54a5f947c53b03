package handler

import (
	"errors"
	"net/http"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/service"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// PlatformHandler 平台配置处理器
type PlatformHandler struct {
	service service.PlatformService
}

func NewPlatformHandler(s service.PlatformService) *PlatformHandler {
	return &PlatformHandler{service: s}
}

func (h *PlatformHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		response.Error(c, http.StatusNotFound, response.ErrInvalidParam, err.Error())
		return
	}
	response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
}

// ListBanners 公开轮播图
func (h *PlatformHandler) ListBanners(c *gin.Context) {
	banners, err := h.service.ListBanners()
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, banners)
}

// ListPaymentMethods 公开支付方式
func (h *PlatformHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.service.ListPaymentMethods()
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, methods)
}

// GetSettings 公开平台配置
func (h *PlatformHandler) GetSettings(c *gin.Context) {
	settings, err := h.service.GetSettings()
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, settings)
}

// BannerInput 轮播图输入
type BannerInput struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"imageUrl" binding:"required"`
	LinkURL  string `json:"linkUrl"`
	Position int    `json:"position"`
	IsActive bool   `json:"isActive"`
}

// ListAllBanners 管理端轮播图列表
func (h *PlatformHandler) ListAllBanners(c *gin.Context) {
	banners, err := h.service.ListAllBanners()
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, banners)
}

// CreateBanner 新建轮播图
func (h *PlatformHandler) CreateBanner(c *gin.Context) {
	var input BannerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	banner, err := h.service.CreateBanner(service.BannerInput{
		Title:    input.Title,
		ImageURL: input.ImageURL,
		LinkURL:  input.LinkURL,
		Position: input.Position,
		IsActive: input.IsActive,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, banner)
}

// UpdateBanner 更新轮播图
func (h *PlatformHandler) UpdateBanner(c *gin.Context) {
	var input BannerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	banner, err := h.service.UpdateBanner(c.Param("id"), service.BannerInput{
		Title:    input.Title,
		ImageURL: input.ImageURL,
		LinkURL:  input.LinkURL,
		Position: input.Position,
		IsActive: input.IsActive,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, banner)
}

// DeleteBanner 删除轮播图
func (h *PlatformHandler) DeleteBanner(c *gin.Context) {
	if err := h.service.DeleteBanner(c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, true)
}

// PaymentMethodInput 支付方式输入
type PaymentMethodInput struct {
	Name     string `json:"name" binding:"required"`
	Code     string `json:"code" binding:"required"`
	IsOnline bool   `json:"isOnline"`
	IsActive bool   `json:"isActive"`
}

// ListAllPaymentMethods 管理端支付方式列表
func (h *PlatformHandler) ListAllPaymentMethods(c *gin.Context) {
	methods, err := h.service.ListAllPaymentMethods()
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, methods)
}

// CreatePaymentMethod 新建支付方式
func (h *PlatformHandler) CreatePaymentMethod(c *gin.Context) {
	var input PaymentMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	method, err := h.service.CreatePaymentMethod(service.PaymentMethodInput{
		Name:     input.Name,
		Code:     input.Code,
		IsOnline: input.IsOnline,
		IsActive: input.IsActive,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, method)
}

// UpdatePaymentMethod 更新支付方式
func (h *PlatformHandler) UpdatePaymentMethod(c *gin.Context) {
	var input PaymentMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	method, err := h.service.UpdatePaymentMethod(c.Param("id"), service.PaymentMethodInput{
		Name:     input.Name,
		Code:     input.Code,
		IsOnline: input.IsOnline,
		IsActive: input.IsActive,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, method)
}

// DeletePaymentMethod 删除支付方式
func (h *PlatformHandler) DeletePaymentMethod(c *gin.Context) {
	if err := h.service.DeletePaymentMethod(c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, true)
}

// SettingInput 配置输入
type SettingInput struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// UpsertSetting 写入平台配置（管理端）
func (h *PlatformHandler) UpsertSetting(c *gin.Context) {
	var input SettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.UpsertSetting(input.Key, input.Value); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, true)
}
