package review

import (
	orderRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/review/handler"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/review/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/review/service"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ReviewModule 评价模块
type ReviewModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&ReviewModule{})
}

func (m *ReviewModule) Name() string {
	return "review"
}

func (m *ReviewModule) Priority() int {
	// 依赖订单模块
	return 25
}

func (m *ReviewModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	reviewRepo := repository.NewReviewRepository(ctx.DB)
	reviewService := service.NewReviewService(reviewRepo, orderRepo.NewOrderRepository(ctx.DB))
	reviewHandler := handler.NewReviewHandler(reviewService)

	// 2. 路由注册
	setupRoutes(ctx.Router, reviewHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.ReviewHandler) {
	// 公开路由
	r.GET("/reviews", h.ListByRestaurant)

	// 受保护的路由
	reviewGroup := r.Group("/reviews")
	reviewGroup.Use(middleware.AuthMiddleware())
	{
		reviewGroup.POST("/", h.Create)
	}
}
