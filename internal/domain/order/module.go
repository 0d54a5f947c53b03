package order

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/handler"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/service"
	platformRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/repository"
	restaurantRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"
	userModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	userRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单模块
type OrderModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	// 依赖用户、餐厅和平台模块的表
	return 20
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	orderRepo := repository.NewOrderRepository(ctx.DB)
	pollRepo := repository.NewPollRepository(ctx.SQLX)
	orderService := service.NewOrderService(
		orderRepo,
		pollRepo,
		restaurantRepo.NewRestaurantRepository(ctx.DB),
		restaurantRepo.NewProductRepository(ctx.DB),
		userRepo.NewAddressRepository(ctx.DB),
		platformRepo.NewPaymentMethodRepository(ctx.DB),
		ctx.Cache,
		ctx.Pool,
		ctx.Redis,
	)
	orderHandler := handler.NewOrderHandler(orderService)

	// 2. 路由注册
	setupRoutes(ctx.Router, orderHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	// 顾客端
	orderGroup := r.Group("/orders")
	orderGroup.Use(middleware.AuthMiddleware())
	{
		orderGroup.POST("/", h.Create)
		orderGroup.GET("/", h.ListMine)
		orderGroup.GET("/checkout-data", h.CheckoutData)
		orderGroup.GET("/:id", h.Get)
		orderGroup.PUT("/:id/cancel", h.CancelMine)
	}

	// 餐厅端
	restaurantGroup := r.Group("/restaurant/orders")
	restaurantGroup.Use(middleware.AuthMiddleware(), middleware.RequireRole(userModel.RoleRestaurant))
	{
		restaurantGroup.GET("/", h.ListForRestaurant)
		restaurantGroup.GET("/new", h.HasNewOrders)
		restaurantGroup.GET("/since", h.OrdersSince)
		restaurantGroup.PUT("/:id/status", h.Transition)
		restaurantGroup.PUT("/:id/cancel", h.Cancel)
	}
}
