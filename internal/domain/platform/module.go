package platform

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/handler"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform/service"
	userModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// PlatformModule 平台配置模块
type PlatformModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&PlatformModule{})
}

func (m *PlatformModule) Name() string {
	return "platform"
}

func (m *PlatformModule) Priority() int {
	return 15
}

func (m *PlatformModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	bannerRepo := repository.NewBannerRepository(ctx.DB)
	methodRepo := repository.NewPaymentMethodRepository(ctx.DB)
	settingRepo := repository.NewSettingRepository(ctx.DB)
	platformService := service.NewPlatformService(bannerRepo, methodRepo, settingRepo)
	platformHandler := handler.NewPlatformHandler(platformService)

	// 2. 路由注册
	setupRoutes(ctx.Router, platformHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PlatformHandler) {
	// 公开路由
	r.GET("/banners", h.ListBanners)
	r.GET("/payment-methods", h.ListPaymentMethods)
	r.GET("/settings", h.GetSettings)

	// 管理端路由
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.RequireRole(userModel.RoleAdmin))
	{
		adminGroup.GET("/banners", h.ListAllBanners)
		adminGroup.POST("/banners", h.CreateBanner)
		adminGroup.PUT("/banners/:id", h.UpdateBanner)
		adminGroup.DELETE("/banners/:id", h.DeleteBanner)

		adminGroup.GET("/payment-methods", h.ListAllPaymentMethods)
		adminGroup.POST("/payment-methods", h.CreatePaymentMethod)
		adminGroup.PUT("/payment-methods/:id", h.UpdatePaymentMethod)
		adminGroup.DELETE("/payment-methods/:id", h.DeletePaymentMethod)

		adminGroup.PUT("/settings", h.UpsertSetting)
	}
}
