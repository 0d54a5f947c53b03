package handler

import (
	"errors"
	"net/http"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/review/service"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/response"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReviewHandler 评价处理器
type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(service service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// CreateReviewInput 评价输入
type CreateReviewInput struct {
	OrderID string `json:"orderId" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Create 创建评价
// @Summary 评价订单
// @Tags Review
// @Accept json
// @Produce json
// @Param input body CreateReviewInput true "Review Info"
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var input CreateReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	review, err := h.service.Create(middleware.GetUserID(c), input.OrderID, input.Rating, input.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
		case errors.Is(err, service.ErrOrderNotCompleted):
			response.Error(c, http.StatusBadRequest, response.ErrOrderNotCompleted, err.Error())
		case errors.Is(err, service.ErrReviewExists):
			response.Error(c, http.StatusConflict, response.ErrReviewExists, err.Error())
		case errors.Is(err, service.ErrInvalidRating):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to create review")
		}
		return
	}
	response.Created(c, review)
}

// ListByRestaurant 餐厅评价列表（公开）
func (h *ReviewHandler) ListByRestaurant(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	reviews, total, err := h.service.ListByRestaurant(c.Query("restaurantId"), p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch reviews")
		return
	}
	response.Success(c, utils.NewPageResult(reviews, total, p))
}
