package subscription

import (
	platformModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/model"
	platformRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/repository"
	restaurantRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/handler"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/provider"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/service"
	userModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/config"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/registry"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SubscriptionModule 订阅模块
type SubscriptionModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&SubscriptionModule{})
}

func (m *SubscriptionModule) Name() string {
	return "subscription"
}

func (m *SubscriptionModule) Priority() int {
	// 依赖餐厅和平台模块
	return 30
}

func (m *SubscriptionModule) Init(ctx *registry.ModuleContext) error {
	// 1. 解析支付密钥：库里的站点配置覆盖文件配置
	// 沙箱/生产切换写入配置后需要重启进程生效
	settings := platformRepo.NewSettingRepository(ctx.DB)
	secretKey := config.GlobalConfig.Payment.SecretKey
	if override, err := settings.Get(platformModel.SettingPaymentSecretKey); err == nil && override != "" {
		secretKey = override
	}
	webhookSecret := config.GlobalConfig.Payment.WebhookSecret
	if override, err := settings.Get(platformModel.SettingPaymentWebhookSecret); err == nil && override != "" {
		webhookSecret = override
	}

	var paymentProvider provider.Provider
	if secretKey == "" {
		logger.Log.Warn("payment secret key not configured, subscription checkout runs in mock mode")
		paymentProvider = provider.NewMockProvider()
	} else {
		paymentProvider = provider.NewStripeProvider(secretKey, webhookSecret)
	}

	// 2. 依赖注入
	planRepo := repository.NewPlanRepository(ctx.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(ctx.DB)
	subscriptionService := service.NewSubscriptionService(
		planRepo,
		subscriptionRepo,
		restaurantRepo.NewRestaurantRepository(ctx.DB),
		paymentProvider,
	)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)

	// 3. 路由注册
	setupRoutes(ctx.Router, subscriptionHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.SubscriptionHandler) {
	// 公开路由
	r.GET("/plans", h.ListPlans)
	r.POST("/webhooks/payment", h.Webhook)

	// 餐厅端
	checkoutGroup := r.Group("/restaurant/subscription")
	checkoutGroup.Use(middleware.AuthMiddleware(), middleware.RequireRole(userModel.RoleRestaurant))
	{
		checkoutGroup.POST("/checkout", h.CreateCheckout)
	}

	// 管理端
	adminGroup := r.Group("/admin/plans")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.RequireRole(userModel.RoleAdmin))
	{
		adminGroup.GET("/", h.ListAllPlans)
		adminGroup.POST("/", h.CreatePlan)
		adminGroup.PUT("/:id", h.UpdatePlan)
		adminGroup.DELETE("/:id", h.DeletePlan)
	}
}
