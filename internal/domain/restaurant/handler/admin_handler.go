package handler

import (
	"errors"
	"net/http"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/service"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/response"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler 餐厅管理端处理器
type AdminHandler struct {
	service    service.RestaurantService
	categories service.CategoryService
}

func NewAdminHandler(s service.RestaurantService, cs service.CategoryService) *AdminHandler {
	return &AdminHandler{service: s, categories: cs}
}

// AdminListQuery 管理端列表查询参数
type AdminListQuery struct {
	utils.Pagination
	Status string `form:"status"` // pending / approved / rejected / suspended
}

// List 管理端餐厅列表
func (h *AdminHandler) List(c *gin.Context) {
	var q AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	list, total, err := h.service.ListAll(q.Status, q.Page, q.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch restaurants")
		return
	}
	response.Success(c, utils.NewPageResult(list, total, q.Pagination))
}

func (h *AdminHandler) handleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrRestaurantNotFound) {
		response.Error(c, http.StatusNotFound, response.ErrRestaurantNotFound, err.Error())
		return
	}
	response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
}

// Approve 审核通过
func (h *AdminHandler) Approve(c *gin.Context) {
	if err := h.service.Approve(c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, true)
}

// RejectInput 驳回输入
type RejectInput struct {
	Reason string `json:"reason" binding:"required,min=5"`
}

// Reject 审核驳回
func (h *AdminHandler) Reject(c *gin.Context) {
	var input RejectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.Reject(c.Param("id"), input.Reason); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, true)
}

// Suspend 下线餐厅
func (h *AdminHandler) Suspend(c *gin.Context) {
	if err := h.service.Suspend(c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, true)
}

// Activate 恢复餐厅
func (h *AdminHandler) Activate(c *gin.Context) {
	if err := h.service.Activate(c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, true)
}

// CategoryInput 分类输入
type CategoryInput struct {
	Name     string `json:"name" binding:"required"`
	ImageURL string `json:"imageUrl"`
	Position int    `json:"position"`
	IsActive bool   `json:"isActive"`
}

// ListCategories 管理端分类列表（含停用）
func (h *AdminHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.ListAll()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch categories")
		return
	}
	response.Success(c, categories)
}

// CreateCategory 新建分类
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	category, err := h.categories.Create(service.CategoryInput{
		Name:     input.Name,
		ImageURL: input.ImageURL,
		Position: input.Position,
		IsActive: input.IsActive,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Created(c, category)
}

// UpdateCategory 更新分类
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	category, err := h.categories.Update(c.Param("id"), service.CategoryInput{
		Name:     input.Name,
		ImageURL: input.ImageURL,
		Position: input.Position,
		IsActive: input.IsActive,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCategoryNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCategoryNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, true)
}
