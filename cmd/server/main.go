package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/common"
	_ "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/order"
	_ "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/platform"
	_ "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/restaurant"
	_ "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/review"
	_ "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/subscription"
	_ "github.com/guilherme-ufscar/restaurante-sub001/internal/domain/user"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/config"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/middleware"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/registry"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/uploader"
	"github.com/guilherme-ufscar/restaurante-sub001/internal/pkg/worker"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/cache"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/database"
	"github.com/guilherme-ufscar/restaurante-sub001/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置与日志
	config.LoadConfig()
	logger.Init(config.GlobalConfig.Server.Mode)
	defer logger.Sync()

	// 2. 初始化基础设施
	db := database.InitDatabase()
	sqlxDB := database.InitSQLX()
	rdb := database.InitRedis()
	cacheService := cache.NewRedisCache(rdb, "marketplace")

	if config.GlobalConfig.OSS.Endpoint != "" {
		ossUploader, err := uploader.NewAliyunOSSUploader()
		if err != nil {
			logger.Log.Fatal("failed to init uploader", zap.Error(err))
		}
		uploader.GlobalUploader = ossUploader
	}

	// 3. 启动订单事件处理池
	pool := worker.NewPool(cacheService, rdb, 4, 256)
	pool.Start()

	// 4. 组装 HTTP 服务
	if config.GlobalConfig.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		cors.Default(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.RateLimitMiddleware(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 5. 按优先级初始化业务模块
	moduleCtx := &registry.ModuleContext{
		DB:     db,
		SQLX:   sqlxDB,
		Redis:  rdb,
		Cache:  cacheService,
		Pool:   pool,
		Router: router,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("failed to init modules", zap.Error(err))
	}

	// 6. 启动并等待退出信号
	server := &http.Server{
		Addr:         ":" + config.GlobalConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", zap.Error(err))
	}
}
