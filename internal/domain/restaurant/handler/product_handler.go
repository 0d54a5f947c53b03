package handler

import (
	"errors"
	"net/http"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/service"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProductHandler 商品处理器（店主侧）
type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

// ProductInput 商品输入
type ProductInput struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"imageUrl"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DiscountPrice *float64 `json:"discountPrice"`
	IsAvailable   bool     `json:"isAvailable"`
}

func (i ProductInput) toService() service.ProductInput {
	return service.ProductInput{
		Name:          i.Name,
		Description:   i.Description,
		ImageURL:      i.ImageURL,
		Price:         i.Price,
		DiscountPrice: i.DiscountPrice,
		IsAvailable:   i.IsAvailable,
	}
}

func (h *ProductHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.Error(c, http.StatusNotFound, response.ErrRestaurantNotFound, err.Error())
	case errors.Is(err, service.ErrProductNotFound):
		response.Error(c, http.StatusNotFound, response.ErrProductNotFound, err.Error())
	case errors.Is(err, service.ErrProductCapLimit):
		response.Fail(c, response.ErrProductUnavailable, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

// List 店主商品列表
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, products)
}

// Create 新建商品
func (h *ProductHandler) Create(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	product, err := h.service.Create(middleware.GetUserID(c), input.toService())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, product)
}

// Update 更新商品
func (h *ProductHandler) Update(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	product, err := h.service.Update(middleware.GetUserID(c), c.Param("id"), input.toService())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, product)
}

// AvailabilityInput 上下架输入
type AvailabilityInput struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

// SetAvailability 商品上下架
func (h *ProductHandler) SetAvailability(c *gin.Context) {
	var input AvailabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.SetAvailability(middleware.GetUserID(c), c.Param("id"), *input.IsAvailable); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, true)
}

// Delete 删除商品
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(middleware.GetUserID(c), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, true)
}
