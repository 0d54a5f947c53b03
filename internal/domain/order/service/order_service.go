package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/repository"
	platformModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/model"
	platformRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/repository"
	restaurantModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/model"
	restaurantRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"
	userModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	userRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/worker"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/cache"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/logger"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/metrics"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/utils"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart            = errors.New("cart must contain at least one item")
	ErrAddressRequired      = errors.New("delivery orders require an address")
	ErrPaymentRequired      = errors.New("a payment method must be selected")
	ErrRestaurantNotFound   = errors.New("restaurant not found or not accepting orders")
	ErrProductMismatch      = errors.New("product does not belong to this restaurant")
	ErrProductUnavailable   = errors.New("product is not available")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNotRestaurantOwner   = errors.New("order belongs to another restaurant")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrCancelReasonTooShort = errors.New("cancellation reason must be at least 10 characters")
)

// CartItemInput 购物车行
type CartItemInput struct {
	ProductID string
	Quantity  int
	Notes     string
}

// CreateOrderInput 下单参数
type CreateOrderInput struct {
	RestaurantID    string
	Items           []CartItemInput
	DeliveryType    string
	AddressID       string
	PaymentMethodID string
	Notes           string
}

// CheckoutData 结算页聚合数据
type CheckoutData struct {
	Restaurant     *restaurantModel.Restaurant   `json:"restaurant"`
	Addresses      []userModel.Address           `json:"addresses"`
	PaymentMethods []platformModel.PaymentMethod `json:"paymentMethods"`
}

// NewOrdersResult 轮询结果
type NewOrdersResult struct {
	HasNew bool `json:"hasNew"`
	Count  int  `json:"count"`
}

// OrdersSinceResult 增量轮询结果，ServerTime 作为下次轮询的游标
type OrdersSinceResult struct {
	Orders     []repository.PolledOrder `json:"orders"`
	ServerTime time.Time                `json:"serverTime"`
}

// OrderService 订单服务接口
type OrderService interface {
	Create(userID string, input CreateOrderInput) (*model.Order, error)
	GetByID(userID, orderID string) (*model.Order, error)
	ListMine(userID string, page, limit int) ([]model.Order, int64, error)
	GetCheckoutData(userID, restaurantID string) (*CheckoutData, error)
	CancelMine(userID, orderID, reason string) (*model.Order, error)

	// 餐厅端
	ListForRestaurant(ownerUserID, status string, page, limit int) ([]model.Order, int64, error)
	Transition(ownerUserID, orderID, toStatus string) (*model.Order, error)
	Cancel(ownerUserID, orderID, reason string) (*model.Order, error)
	HasNewOrders(ownerUserID string) (*NewOrdersResult, error)
	OrdersSince(ownerUserID string, since time.Time) (*OrdersSinceResult, error)
}

type orderService struct {
	orders      repository.OrderRepository
	poll        repository.PollRepository
	restaurants restaurantRepo.RestaurantRepository
	products    restaurantRepo.ProductRepository
	addresses   userRepo.AddressRepository
	methods     platformRepo.PaymentMethodRepository
	cache       cache.CacheService
	pool        *worker.Pool
	rdb         *redislib.Client
}

func NewOrderService(
	orders repository.OrderRepository,
	poll repository.PollRepository,
	restaurants restaurantRepo.RestaurantRepository,
	products restaurantRepo.ProductRepository,
	addresses userRepo.AddressRepository,
	methods platformRepo.PaymentMethodRepository,
	cacheService cache.CacheService,
	pool *worker.Pool,
	rdb *redislib.Client,
) OrderService {
	return &orderService{
		orders:      orders,
		poll:        poll,
		restaurants: restaurants,
		products:    products,
		addresses:   addresses,
		methods:     methods,
		cache:       cacheService,
		pool:        pool,
		rdb:         rdb,
	}
}

// generateOrderNumber 时间戳 + 随机后缀，唯一性由 orders.order_number 的唯一索引兜底
func generateOrderNumber() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("%s%s", time.Now().Format("20060102150405"), strings.ToUpper(suffix))
}

func (s *orderService) Create(userID string, input CreateOrderInput) (*model.Order, error) {
	// 1. 购物车不能为空
	if len(input.Items) == 0 {
		return nil, ErrEmptyCart
	}

	// 2. 配送单必须带地址，且地址属于下单用户
	var addressID *string
	if input.DeliveryType == model.DeliveryTypeDelivery {
		if input.AddressID == "" {
			return nil, ErrAddressRequired
		}
		address, err := s.addresses.GetByID(input.AddressID)
		if err != nil || address.UserID != userID {
			return nil, ErrAddressRequired
		}
		addressID = &input.AddressID
	}

	// 3. 必须选择可用的支付方式
	if input.PaymentMethodID == "" {
		return nil, ErrPaymentRequired
	}
	method, err := s.methods.GetByID(input.PaymentMethodID)
	if err != nil || !method.IsActive {
		return nil, ErrPaymentRequired
	}

	// 4. 餐厅必须存在且公开可见
	restaurant, err := s.restaurants.GetByID(input.RestaurantID)
	if err != nil || !restaurant.IsVisible() {
		return nil, ErrRestaurantNotFound
	}

	// 5. 每个商品必须存在、属于同一家餐厅、当前可售
	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	productByID := make(map[string]restaurantModel.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	var total float64
	items := make([]model.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		product, ok := productByID[line.ProductID]
		if !ok {
			return nil, ErrProductUnavailable
		}
		if product.RestaurantID != input.RestaurantID {
			return nil, ErrProductMismatch
		}
		if !product.IsAvailable {
			return nil, ErrProductUnavailable
		}
		if line.Quantity <= 0 {
			return nil, ErrEmptyCart
		}

		// 价格快照：促销价优先，之后商品改价不影响既有订单
		unitPrice := product.EffectivePrice()
		items = append(items, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   unitPrice,
			Quantity:    line.Quantity,
			TotalPrice:  unitPrice * float64(line.Quantity),
			Notes:       line.Notes,
		})
		total += unitPrice * float64(line.Quantity)
	}

	deliveryFee := 0.0
	if input.DeliveryType == model.DeliveryTypeDelivery {
		deliveryFee = restaurant.DeliveryFee
	}

	order := &model.Order{
		OrderNumber:     generateOrderNumber(),
		UserID:          userID,
		RestaurantID:    input.RestaurantID,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentPending,
		TotalAmount:     total,
		DeliveryFee:     deliveryFee,
		FinalAmount:     total + deliveryFee,
		DeliveryType:    input.DeliveryType,
		AddressID:       addressID,
		PaymentMethodID: input.PaymentMethodID,
		Notes:           input.Notes,
	}

	if err := s.orders.CreateWithItems(order, items); err != nil {
		return nil, err
	}

	metrics.GetGlobalCollector().RecordOrderCreated()
	s.pool.AddTask(worker.OrderEventTask{
		RestaurantID: order.RestaurantID,
		OrderID:      order.ID,
		Event:        worker.EventOrderCreated,
		NewStatus:    order.Status,
	})
	return order, nil
}

func (s *orderService) GetByID(userID, orderID string) (*model.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListMine(userID string, page, limit int) ([]model.Order, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.orders.ListByUser(userID, offset, limit)
}

func (s *orderService) GetCheckoutData(userID, restaurantID string) (*CheckoutData, error) {
	restaurant, err := s.restaurants.GetByID(restaurantID)
	if err != nil || !restaurant.IsVisible() {
		return nil, ErrRestaurantNotFound
	}
	addresses, err := s.addresses.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	methods, err := s.methods.ListActive()
	if err != nil {
		return nil, err
	}
	return &CheckoutData{Restaurant: restaurant, Addresses: addresses, PaymentMethods: methods}, nil
}

// CancelMine 顾客取消自己的订单，仅限商家接单前（PENDING）
func (s *orderService) CancelMine(userID, orderID, reason string) (*model.Order, error) {
	if len(strings.TrimSpace(reason)) < 10 {
		return nil, ErrCancelReasonTooShort
	}

	order, err := s.GetByID(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == model.StatusCancelled {
		return order, nil
	}

	now := time.Now()
	rows, err := s.orders.UpdateStatus(orderID, model.StatusCancelled,
		[]string{model.StatusPending},
		map[string]interface{}{
			"cancel_reason": strings.TrimSpace(reason),
			"cancelled_at":  now,
		})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		current, rerr := s.orders.GetByID(orderID)
		if rerr == nil && current.Status == model.StatusCancelled {
			return current, nil
		}
		return nil, ErrInvalidTransition
	}

	metrics.GetGlobalCollector().RecordOrderTransition(model.StatusCancelled)
	s.pool.AddTask(worker.OrderEventTask{
		RestaurantID: order.RestaurantID,
		OrderID:      orderID,
		Event:        worker.EventOrderStatusChanged,
		NewStatus:    model.StatusCancelled,
	})
	return s.orders.GetByID(orderID)
}

// ownedRestaurant 解析调用者名下的餐厅，订单越权访问一律视作无权
func (s *orderService) ownedRestaurant(ownerUserID string) (*restaurantModel.Restaurant, error) {
	restaurant, err := s.restaurants.GetByOwner(ownerUserID)
	if err != nil {
		return nil, ErrNotRestaurantOwner
	}
	return restaurant, nil
}

// 看板缓存键与 worker.DashboardCachePattern 的模式保持一致
const dashboardCacheTTL = 30 * time.Second

func dashboardCacheKey(restaurantID, status string, page, limit int) string {
	return fmt.Sprintf("dashboard:orders:%s:%s:%d:%d", restaurantID, status, page, limit)
}

type cachedOrders struct {
	List  []model.Order `json:"list"`
	Total int64         `json:"total"`
}

// ListForRestaurant 餐厅订单看板，短 TTL 缓存，订单事件由 worker 清理
func (s *orderService) ListForRestaurant(ownerUserID, status string, page, limit int) ([]model.Order, int64, error) {
	restaurant, err := s.ownedRestaurant(ownerUserID)
	if err != nil {
		return nil, 0, err
	}
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()

	ctx := context.Background()
	cacheKey := dashboardCacheKey(restaurant.ID, status, p.Page, limit)
	var cached cachedOrders
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached.List, cached.Total, nil
	}

	list, total, err := s.orders.ListByRestaurant(restaurant.ID, status, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	if err := s.cache.Set(ctx, cacheKey, cachedOrders{List: list, Total: total}, dashboardCacheTTL); err != nil {
		logger.Log.Warn("failed to cache restaurant order list", zap.Error(err))
	}
	return list, total, nil
}

// Transition 推进订单状态
// 幂等：订单已处于目标状态时直接返回成功，不算非法跳转
func (s *orderService) Transition(ownerUserID, orderID, toStatus string) (*model.Order, error) {
	allowedFrom, ok := model.TransitionGuards[toStatus]
	if !ok {
		return nil, ErrInvalidTransition
	}

	restaurant, err := s.ownedRestaurant(ownerUserID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.RestaurantID != restaurant.ID {
		return nil, ErrNotRestaurantOwner
	}
	if order.Status == toStatus {
		return order, nil
	}

	updates := map[string]interface{}{}
	// 完成配送只在支付仍挂起时标记已支付，在线支付的到账状态不被覆盖
	if toStatus == model.StatusCompleted && order.PaymentStatus == model.PaymentPending {
		updates["payment_status"] = model.PaymentPaid
	}

	rows, err := s.orders.UpdateStatus(orderID, toStatus, allowedFrom, updates)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// 守卫未命中：要么并发请求已经推进到目标状态（幂等成功），
		// 要么确实是非法跳转
		current, rerr := s.orders.GetByID(orderID)
		if rerr == nil && current.Status == toStatus {
			return current, nil
		}
		return nil, ErrInvalidTransition
	}

	metrics.GetGlobalCollector().RecordOrderTransition(toStatus)
	s.pool.AddTask(worker.OrderEventTask{
		RestaurantID: restaurant.ID,
		OrderID:      orderID,
		Event:        worker.EventOrderStatusChanged,
		NewStatus:    toStatus,
	})
	return s.orders.GetByID(orderID)
}

func (s *orderService) Cancel(ownerUserID, orderID, reason string) (*model.Order, error) {
	if len(strings.TrimSpace(reason)) < 10 {
		return nil, ErrCancelReasonTooShort
	}

	restaurant, err := s.ownedRestaurant(ownerUserID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.RestaurantID != restaurant.ID {
		return nil, ErrNotRestaurantOwner
	}
	if order.Status == model.StatusCancelled {
		return order, nil
	}

	now := time.Now()
	rows, err := s.orders.UpdateStatus(orderID, model.StatusCancelled,
		model.TransitionGuards[model.StatusCancelled],
		map[string]interface{}{
			"cancel_reason": strings.TrimSpace(reason),
			"cancelled_at":  now,
		})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		current, rerr := s.orders.GetByID(orderID)
		if rerr == nil && current.Status == model.StatusCancelled {
			return current, nil
		}
		return nil, ErrInvalidTransition
	}

	metrics.GetGlobalCollector().RecordOrderTransition(model.StatusCancelled)
	s.pool.AddTask(worker.OrderEventTask{
		RestaurantID: restaurant.ID,
		OrderID:      orderID,
		Event:        worker.EventOrderStatusChanged,
		NewStatus:    model.StatusCancelled,
	})
	return s.orders.GetByID(orderID)
}

// HasNewOrders 新订单轻量轮询
// 先查 Redis 标记，标记缺失或 Redis 不可用时回退 30 秒窗口的数据库计数
func (s *orderService) HasNewOrders(ownerUserID string) (*NewOrdersResult, error) {
	restaurant, err := s.ownedRestaurant(ownerUserID)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		exists, rerr := s.rdb.Exists(context.Background(), worker.NewOrderFlagKey(restaurant.ID)).Result()
		if rerr == nil && exists == 0 {
			return &NewOrdersResult{HasNew: false, Count: 0}, nil
		}
		if rerr != nil {
			logger.Log.Warn("new order flag lookup failed, falling back to database",
				zap.String("restaurant_id", restaurant.ID), zap.Error(rerr))
		}
	}

	count, err := s.poll.CountRecentPending(restaurant.ID, time.Now().Add(-repository.PendingLookback))
	if err != nil {
		return nil, err
	}
	return &NewOrdersResult{HasNew: count > 0, Count: count}, nil
}

// OrdersSince 基于客户端游标的增量轮询，返回服务端时间避免时钟漂移
func (s *orderService) OrdersSince(ownerUserID string, since time.Time) (*OrdersSinceResult, error) {
	restaurant, err := s.ownedRestaurant(ownerUserID)
	if err != nil {
		return nil, err
	}
	serverTime := time.Now()
	orders, err := s.poll.ListSince(restaurant.ID, since)
	if err != nil {
		return nil, err
	}
	return &OrdersSinceResult{Orders: orders, ServerTime: serverTime}, nil
}
