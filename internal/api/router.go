package api

import (
	"time"

	"sparksound/config"
	"sparksound/internal/api/admin"
	"sparksound/internal/api/apis"
	"sparksound/internal/api/handler"
	"sparksound/internal/feed"
	"sparksound/internal/middleware"
	"sparksound/internal/repository"
	"sparksound/internal/scheduler"
	"sparksound/internal/service"
	"sparksound/pkg/async"
	"sparksound/pkg/logger"
	"sparksound/pkg/speech"
	"sparksound/pkg/translate"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// SetupRouter 设置API路由
func SetupRouter(cfg *config.Config, logger *logger.Logger, db *sqlx.DB, redisClient *redis.Client) *gin.Engine {
	// 创建Gin引擎
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 使用中间件
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// 创建异步工作器
	worker := async.NewWorker(100, logger)
	worker.Start(5) // 启动5个工作协程

	// 初始化存储库
	userRepo := repository.NewUserRepository(db)
	instructionRepo := repository.NewInstructionRepository(db)
	soundRepo := repository.NewSoundEventRepository(db)

	// 初始化外部服务客户端
	translator := translate.NewClient(cfg.Translate.APIServer, time.Duration(cfg.Translate.Timeout)*time.Second, logger)
	ttsClient := speech.NewTTSClient(cfg.Speech.TTSServer, cfg.Speech.APIKey, cfg.Speech.Voice)
	sttClient := speech.NewSTTClient(cfg.Speech.STTServer, cfg.Speech.APIKey)

	// 初始化服务
	userService := service.NewUserService(userRepo, logger)
	instructionService := service.NewInstructionService(instructionRepo, redisClient, ttsClient, logger)
	soundService := service.NewSoundService(soundRepo, redisClient, worker, logger)

	// 初始化指令会话管理器
	source := feed.NewRedisSource(redisClient, logger)
	feedManager := feed.NewManager(translator, instructionService, source, 20, false, logger)

	// 初始化声音检测调度器
	detectionScheduler := scheduler.NewDetectionScheduler(soundService, logger)
	detectionScheduler.Start() // 启动模拟检测调度

	// 初始化数据保留调度器
	retentionScheduler := scheduler.NewRetentionScheduler(instructionService, soundService, cfg.Retention, logger)
	retentionScheduler.Start() // 启动过期数据清理调度

	// 初始化处理器
	userHandler := handler.NewUserHandler(userService, feedManager, logger)
	instructionHandler := handler.NewInstructionHandler(instructionService, feedManager, translator, logger)
	soundHandler := handler.NewSoundHandler(soundService, sttClient, logger)
	systemHandler := handler.NewSystemHandler(cfg, ttsClient, sttClient, logger)

	// 初始化管理员处理器
	instructionAdminHandler := admin.NewInstructionAdminHandler(instructionService, logger)
	userAdminHandler := admin.NewUserAdminHandler(userService, logger)

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API版本v1
	v1 := router.Group("/api/v1")

	// 创建需要认证的API路由组
	authRouter := v1.Group("")
	// 为需要认证的API路由添加UserAuth中间件
	authRouter.Use(middleware.UserAuth(userService))

	// 注册不需要认证的路由（如登录、注册、语言列表等）
	apis.RegisterPublicRoutes(v1, userHandler, instructionHandler, systemHandler)

	// 注册需要认证的API路由
	apis.RegisterAuthRoutes(authRouter, userHandler, instructionHandler, soundHandler)

	// 注册管理员API路由
	adminRouter := v1.Group("/admin")
	// 添加管理员认证中间件
	adminRouter.Use(middleware.AdminAuth(userService))
	admin.RegisterAdminRoutes(adminRouter, instructionAdminHandler, userAdminHandler)

	return router
}
