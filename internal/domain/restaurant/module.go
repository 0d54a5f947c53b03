package restaurant

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/handler"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant/service"
	subscriptionRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription/repository"
	userModel "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	userRepo "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// RestaurantModule 餐厅模块
type RestaurantModule struct{}

func init() {
	registry.Register(&RestaurantModule{})
}

func (m *RestaurantModule) Name() string {
	return "restaurant"
}

func (m *RestaurantModule) Priority() int {
	// 依赖用户模块
	return 10
}

func (m *RestaurantModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	restRepo := repository.NewRestaurantRepository(ctx.DB)
	productRepo := repository.NewProductRepository(ctx.DB)
	categoryRepo := repository.NewCategoryRepository(ctx.DB)
	uRepo := userRepo.NewUserRepository(ctx.DB)
	planRepo := subscriptionRepo.NewPlanRepository(ctx.DB)

	restService := service.NewRestaurantService(restRepo, productRepo, uRepo, ctx.Cache)
	productService := service.NewProductService(productRepo, restRepo, planRepo)
	categoryService := service.NewCategoryService(categoryRepo)

	restHandler := handler.NewRestaurantHandler(restService, categoryService)
	productHandler := handler.NewProductHandler(productService)
	adminHandler := handler.NewAdminHandler(restService, categoryService)

	// 2. 路由注册
	setupRoutes(ctx.Router, restHandler, productHandler, adminHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.RestaurantHandler, ph *handler.ProductHandler, ah *handler.AdminHandler) {
	// 公开浏览
	r.GET("/restaurants", h.List)
	r.GET("/restaurants/:idOrSlug", h.Get)
	r.GET("/categories", h.ListCategories)

	// 开店申请（任何登录用户）
	r.POST("/restaurant/apply", middleware.AuthMiddleware(), h.Apply)

	// 店主端
	owner := r.Group("/restaurant")
	owner.Use(middleware.AuthMiddleware(), middleware.RequireRole(userModel.RoleRestaurant))
	{
		owner.GET("/me", h.GetMine)
		owner.PUT("/me", h.UpdateMine)
		owner.PATCH("/me/open", h.SetOpen)

		owner.GET("/products", ph.List)
		owner.POST("/products", ph.Create)
		owner.PUT("/products/:id", ph.Update)
		owner.PATCH("/products/:id/availability", ph.SetAvailability)
		owner.DELETE("/products/:id", ph.Delete)
	}

	// 管理端
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(userModel.RoleAdmin))
	{
		admin.GET("/restaurants", ah.List)
		admin.POST("/restaurants/:id/approve", ah.Approve)
		admin.POST("/restaurants/:id/reject", ah.Reject)
		admin.POST("/restaurants/:id/suspend", ah.Suspend)
		admin.POST("/restaurants/:id/activate", ah.Activate)

		admin.GET("/categories", ah.ListCategories)
		admin.POST("/categories", ah.CreateCategory)
		admin.PUT("/categories/:id", ah.UpdateCategory)
		admin.DELETE("/categories/:id", ah.DeleteCategory)
	}
}
