package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/service"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// SubscriptionHandler 订阅处理器
type SubscriptionHandler struct {
	service service.SubscriptionService
}

func NewSubscriptionHandler(service service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// ListPlans 公开套餐列表
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch plans")
		return
	}
	response.Success(c, plans)
}

// CheckoutInput 发起订阅输入
type CheckoutInput struct {
	PlanID string `json:"planId" binding:"required"`
}

// CreateCheckout 创建托管结算会话
// @Summary 发起订阅结算
// @Tags Subscription
// @Accept json
// @Produce json
// @Param input body CheckoutInput true "Checkout Info"
// @Router /restaurant/subscription/checkout [post]
func (h *SubscriptionHandler) CreateCheckout(c *gin.Context) {
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	session, err := h.service.CreateCheckout(middleware.GetUserID(c), input.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			response.Error(c, http.StatusNotFound, response.ErrPlanNotFound, err.Error())
		case errors.Is(err, service.ErrNotRestaurantOwner):
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
		default:
			response.Error(c, http.StatusBadGateway, response.ErrCheckoutFailed, "Failed to create checkout session")
		}
		return
	}
	response.Success(c, session)
}

// Webhook 支付方回调入口
// 原始报文参与签名计算，不能走 JSON 绑定。
// 签名失败返回 400，其余情况一律 200 以抑制支付方重试
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Failed to read request body")
		return
	}

	if err := h.service.HandleWebhook(payload, c.GetHeader("Stripe-Signature")); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidSignature, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// PlanInput 套餐写入输入
type PlanInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       float64         `json:"price" binding:"required,gt=0"`
	Interval    string          `json:"interval" binding:"required,oneof=MONTHLY QUARTERLY SEMIANNUAL ANNUAL"`
	Features    json.RawMessage `json:"features"`
	MaxProducts int             `json:"maxProducts"`
	IsActive    bool            `json:"isActive"`
}

func (input *PlanInput) toService() service.PlanInput {
	return service.PlanInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Interval:    input.Interval,
		Features:    input.Features,
		MaxProducts: input.MaxProducts,
		IsActive:    input.IsActive,
	}
}

// ListAllPlans 管理端套餐列表
func (h *SubscriptionHandler) ListAllPlans(c *gin.Context) {
	plans, err := h.service.ListAllPlans()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch plans")
		return
	}
	response.Success(c, plans)
}

// CreatePlan 新建套餐
func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	var input PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	plan, err := h.service.CreatePlan(input.toService())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to create plan")
		return
	}
	response.Created(c, plan)
}

// UpdatePlan 更新套餐
func (h *SubscriptionHandler) UpdatePlan(c *gin.Context) {
	var input PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	plan, err := h.service.UpdatePlan(c.Param("id"), input.toService())
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrPlanNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to update plan")
		return
	}
	response.Success(c, plan)
}

// DeletePlan 删除套餐
func (h *SubscriptionHandler) DeletePlan(c *gin.Context) {
	if err := h.service.DeletePlan(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrPlanNotFound, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to delete plan")
		return
	}
	response.Success(c, true)
}
