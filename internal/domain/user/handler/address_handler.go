package handler

import (
	"errors"
	"net/http"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/service"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// AddressHandler 地址处理器
type AddressHandler struct {
	service service.AddressService
}

func NewAddressHandler(s service.AddressService) *AddressHandler {
	return &AddressHandler{service: s}
}

// AddressInput 地址输入
type AddressInput struct {
	Label      string `json:"label"`
	Street     string `json:"street" binding:"required"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
	Complement string `json:"complement"`
	IsDefault  bool   `json:"isDefault"`
}

func (i AddressInput) toService() service.AddressInput {
	return service.AddressInput{
		Label:      i.Label,
		Street:     i.Street,
		Number:     i.Number,
		District:   i.District,
		City:       i.City,
		State:      i.State,
		ZipCode:    i.ZipCode,
		Complement: i.Complement,
		IsDefault:  i.IsDefault,
	}
}

// List 当前用户的地址列表
func (h *AddressHandler) List(c *gin.Context) {
	addresses, err := h.service.List(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch addresses")
		return
	}
	response.Success(c, addresses)
}

// Create 新增地址
func (h *AddressHandler) Create(c *gin.Context) {
	var input AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	address, err := h.service.Create(middleware.GetUserID(c), input.toService())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Created(c, address)
}

// Update 更新地址
func (h *AddressHandler) Update(c *gin.Context) {
	var input AddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	address, err := h.service.Update(middleware.GetUserID(c), c.Param("id"), input.toService())
	if err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAddressNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, address)
}

// Delete 删除地址
func (h *AddressHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(middleware.GetUserID(c), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAddressNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, true)
}
