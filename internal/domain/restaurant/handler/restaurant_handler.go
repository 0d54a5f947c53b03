package handler

import (
	"errors"
	"net/http"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/service"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/response"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RestaurantHandler 餐厅处理器
type RestaurantHandler struct {
	service    service.RestaurantService
	categories service.CategoryService
}

func NewRestaurantHandler(s service.RestaurantService, cs service.CategoryService) *RestaurantHandler {
	return &RestaurantHandler{service: s, categories: cs}
}

// ListQuery 公开列表查询参数
type ListQuery struct {
	utils.Pagination
	CategoryID string `form:"categoryId"`
	Search     string `form:"search"`
}

// List 公开餐厅列表
// @Summary 浏览餐厅
// @Tags Restaurant
// @Produce json
// @Param categoryId query string false "Category filter"
// @Param search query string false "Name search"
// @Router /restaurants [get]
func (h *RestaurantHandler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	list, total, err := h.service.ListVisible(repository.ListFilter{
		CategoryID: q.CategoryID,
		Search:     q.Search,
	}, q.Page, q.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch restaurants")
		return
	}
	response.Success(c, utils.NewPageResult(list, total, q.Pagination))
}

// Get 公开餐厅详情（含可售商品）
// @Summary 餐厅详情
// @Tags Restaurant
// @Router /restaurants/{idOrSlug} [get]
func (h *RestaurantHandler) Get(c *gin.Context) {
	detail, err := h.service.GetPublic(c.Param("idOrSlug"))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrRestaurantNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch restaurant")
		return
	}
	response.Success(c, detail)
}

// ListCategories 公开分类列表
func (h *RestaurantHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.ListActive()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch categories")
		return
	}
	response.Success(c, categories)
}

// ApplyInput 开店申请输入
type ApplyInput struct {
	Name            string  `json:"name" binding:"required"`
	CategoryID      string  `json:"categoryId" binding:"required"`
	Description     string  `json:"description"`
	Phone           string  `json:"phone"`
	AddressLine     string  `json:"addressLine" binding:"required"`
	DeliveryFee     float64 `json:"deliveryFee" binding:"gte=0"`
	DeliveryTimeMin int     `json:"deliveryTimeMin"`
	DeliveryTimeMax int     `json:"deliveryTimeMax"`
	MinOrderAmount  float64 `json:"minOrderAmount" binding:"gte=0"`
}

// Apply 开店申请
// @Summary 提交开店申请
// @Tags Restaurant
// @Router /restaurant/apply [post]
func (h *RestaurantHandler) Apply(c *gin.Context) {
	var input ApplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	restaurant, err := h.service.Apply(middleware.GetUserID(c), service.ApplyInput{
		Name:            input.Name,
		CategoryID:      input.CategoryID,
		Description:     input.Description,
		Phone:           input.Phone,
		AddressLine:     input.AddressLine,
		DeliveryFee:     input.DeliveryFee,
		DeliveryTimeMin: input.DeliveryTimeMin,
		DeliveryTimeMax: input.DeliveryTimeMax,
		MinOrderAmount:  input.MinOrderAmount,
	})
	if err != nil {
		if errors.Is(err, service.ErrAlreadyOwner) {
			response.Error(c, http.StatusConflict, response.ErrRestaurantExists, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Created(c, restaurant)
}

// GetMine 店主查看自己的餐厅
func (h *RestaurantHandler) GetMine(c *gin.Context) {
	restaurant, err := h.service.GetMine(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrRestaurantNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, restaurant)
}

// OpenInput 营业开关输入
type OpenInput struct {
	IsOpen *bool `json:"isOpen" binding:"required"`
}

// SetOpen 店主暂停/恢复营业
func (h *RestaurantHandler) SetOpen(c *gin.Context) {
	var input OpenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	restaurant, err := h.service.SetOpen(middleware.GetUserID(c), *input.IsOpen)
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrRestaurantNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, restaurant)
}

// UpdateInput 店铺资料更新输入
type UpdateInput struct {
	Name            string  `json:"name" binding:"required"`
	CategoryID      string  `json:"categoryId" binding:"required"`
	Description     string  `json:"description"`
	ImageURL        string  `json:"imageUrl"`
	Phone           string  `json:"phone"`
	AddressLine     string  `json:"addressLine"`
	DeliveryFee     float64 `json:"deliveryFee" binding:"gte=0"`
	DeliveryTimeMin int     `json:"deliveryTimeMin"`
	DeliveryTimeMax int     `json:"deliveryTimeMax"`
	MinOrderAmount  float64 `json:"minOrderAmount" binding:"gte=0"`
}

// UpdateMine 店主更新餐厅资料
func (h *RestaurantHandler) UpdateMine(c *gin.Context) {
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	restaurant, err := h.service.UpdateMine(middleware.GetUserID(c), service.UpdateInput{
		Name:            input.Name,
		CategoryID:      input.CategoryID,
		Description:     input.Description,
		ImageURL:        input.ImageURL,
		Phone:           input.Phone,
		AddressLine:     input.AddressLine,
		DeliveryFee:     input.DeliveryFee,
		DeliveryTimeMin: input.DeliveryTimeMin,
		DeliveryTimeMax: input.DeliveryTimeMax,
		MinOrderAmount:  input.MinOrderAmount,
	})
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrRestaurantNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, restaurant)
}
