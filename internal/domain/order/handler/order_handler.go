package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/service"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/response"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// CartItemInput 购物车行输入
type CartItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Notes     string `json:"notes"`
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	RestaurantID    string          `json:"restaurantId" binding:"required"`
	Items           []CartItemInput `json:"items" binding:"required"`
	DeliveryType    string          `json:"deliveryType" binding:"required,oneof=DELIVERY PICKUP"`
	AddressID       string          `json:"addressId"`
	PaymentMethodID string          `json:"paymentMethodId"`
	Notes           string          `json:"notes"`
}

func (h *OrderHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		response.Error(c, http.StatusBadRequest, response.ErrEmptyCart, err.Error())
	case errors.Is(err, service.ErrAddressRequired):
		response.Error(c, http.StatusBadRequest, response.ErrAddressRequired, err.Error())
	case errors.Is(err, service.ErrPaymentRequired):
		response.Error(c, http.StatusBadRequest, response.ErrPaymentRequired, err.Error())
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.Error(c, http.StatusNotFound, response.ErrRestaurantNotFound, err.Error())
	case errors.Is(err, service.ErrProductMismatch):
		response.Error(c, http.StatusBadRequest, response.ErrProductMismatch, err.Error())
	case errors.Is(err, service.ErrProductUnavailable):
		response.Error(c, http.StatusBadRequest, response.ErrProductUnavailable, err.Error())
	case errors.Is(err, service.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
	case errors.Is(err, service.ErrNotRestaurantOwner):
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		response.Error(c, http.StatusConflict, response.ErrInvalidTransition, err.Error())
	case errors.Is(err, service.ErrCancelReasonTooShort):
		response.Error(c, http.StatusBadRequest, response.ErrCancelReason, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Order operation failed")
	}
}

// Create 创建订单
// @Summary 下单
// @Tags Order
// @Accept json
// @Produce json
// @Param input body CreateOrderInput true "Order Info"
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	items := make([]service.CartItemInput, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, service.CartItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
		})
	}

	order, err := h.service.Create(middleware.GetUserID(c), service.CreateOrderInput{
		RestaurantID:    input.RestaurantID,
		Items:           items,
		DeliveryType:    input.DeliveryType,
		AddressID:       input.AddressID,
		PaymentMethodID: input.PaymentMethodID,
		Notes:           input.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Created(c, order)
}

// Get 查询本人订单详情
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.service.GetByID(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, order)
}

// ListMine 本人订单列表
func (h *OrderHandler) ListMine(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	orders, total, err := h.service.ListMine(middleware.GetUserID(c), p.Page, p.Limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, utils.NewPageResult(orders, total, p))
}

// CheckoutData 结算页聚合数据
func (h *OrderHandler) CheckoutData(c *gin.Context) {
	data, err := h.service.GetCheckoutData(middleware.GetUserID(c), c.Query("restaurantId"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, data)
}

// ListForRestaurant 餐厅端订单列表
func (h *OrderHandler) ListForRestaurant(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	orders, total, err := h.service.ListForRestaurant(middleware.GetUserID(c), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, utils.NewPageResult(orders, total, p))
}

// TransitionInput 状态流转输入
type TransitionInput struct {
	Status string `json:"status" binding:"required,oneof=CONFIRMED PREPARING READY DELIVERING COMPLETED"`
}

// Transition 推进订单状态
// @Summary 订单状态流转
// @Tags Order
// @Router /restaurant/orders/{id}/status [put]
func (h *OrderHandler) Transition(c *gin.Context) {
	var input TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.Transition(middleware.GetUserID(c), c.Param("id"), input.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelInput 取消订单输入
type CancelInput struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelMine 顾客取消本人订单（仅限商家接单前）
func (h *OrderHandler) CancelMine(c *gin.Context) {
	var input CancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.CancelMine(middleware.GetUserID(c), c.Param("id"), input.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, order)
}

// Cancel 取消订单
func (h *OrderHandler) Cancel(c *gin.Context) {
	var input CancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.Cancel(middleware.GetUserID(c), c.Param("id"), input.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, order)
}

// HasNewOrders 新订单轻量轮询
func (h *OrderHandler) HasNewOrders(c *gin.Context) {
	result, err := h.service.HasNewOrders(middleware.GetUserID(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, result)
}

// OrdersSince 增量轮询，since 为 RFC3339 游标，缺省回看 30 秒
func (h *OrderHandler) OrdersSince(c *gin.Context) {
	since := time.Now().Add(-30 * time.Second)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "since must be RFC3339")
			return
		}
		since = parsed
	}

	result, err := h.service.OrdersSince(middleware.GetUserID(c), since)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, result)
}
