package user

import (
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/handler"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/model"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/repository"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user/service"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// UserModule 用户模块
type UserModule struct{}

func init() {
	// 自动注册模块
	registry.Register(&UserModule{})
}

func (m *UserModule) Name() string {
	return "user"
}

func (m *UserModule) Priority() int {
	// 用户模块优先级最高，因为其他模块可能依赖它
	return 1
}

func (m *UserModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	userRepo := repository.NewUserRepository(ctx.DB)
	addressRepo := repository.NewAddressRepository(ctx.DB)
	userService := service.NewUserService(userRepo)
	addressService := service.NewAddressService(addressRepo)
	userHandler := handler.NewUserHandler(userService)
	addressHandler := handler.NewAddressHandler(addressService)

	// 2. 路由注册
	setupRoutes(ctx.Router, userHandler, addressHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.UserHandler, ah *handler.AddressHandler) {
	// 公开路由
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// 受保护的路由
	userGroup := r.Group("/users")
	userGroup.Use(middleware.AuthMiddleware())
	{
		userGroup.GET("/me", h.Me)
		userGroup.PUT("/me", h.UpdateMe)
	}

	addressGroup := r.Group("/addresses")
	addressGroup.Use(middleware.AuthMiddleware())
	{
		addressGroup.GET("/", ah.List)
		addressGroup.POST("/", ah.Create)
		addressGroup.PUT("/:id", ah.Update)
		addressGroup.DELETE("/:id", ah.Delete)
	}

	// 管理端路由
	adminGroup := r.Group("/admin/users")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.RequireRole(model.RoleAdmin))
	{
		adminGroup.GET("/", h.GetUsers)
		adminGroup.PUT("/:id/role", h.SetRole)
		adminGroup.PUT("/:id/status", h.SetStatus)
	}
}
