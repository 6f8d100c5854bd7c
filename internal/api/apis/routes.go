package apis

import (
	"sparksound/internal/api/handler"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes 注册不需要认证的路由
func RegisterPublicRoutes(router *gin.RouterGroup, userHandler *handler.UserHandler, instructionHandler *handler.InstructionHandler, systemHandler *handler.SystemHandler) {
	// 用户相关路由
	users := router.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.POST("/login", userHandler.Login)
	}

	// 支持的语言列表
	router.GET("/languages", userHandler.GetLanguages)

	// 广播指令（匿名可见）
	router.GET("/instructions/broadcast", instructionHandler.Broadcast)

	// 系统状态
	router.GET("/system/status", systemHandler.GetStatus)
}

// RegisterAuthRoutes 注册需要认证的路由
func RegisterAuthRoutes(router *gin.RouterGroup, userHandler *handler.UserHandler, instructionHandler *handler.InstructionHandler, soundHandler *handler.SoundHandler) {
	// 用户相关路由
	users := router.Group("/users")
	{
		users.GET("/info", userHandler.GetUserInfo)
		users.POST("/language", userHandler.UpdateLanguage)
	}

	// 指令相关路由
	instructions := router.Group("/instructions")
	{
		instructions.GET("", instructionHandler.GetFeed)
		instructions.GET("/stream", instructionHandler.Stream)
		instructions.GET("/history", instructionHandler.History)
		instructions.POST("/:id/accept", instructionHandler.Accept)
		instructions.POST("/:id/reject", instructionHandler.Reject)
	}

	// 声音检测相关路由
	sounds := router.Group("/sounds")
	{
		sounds.POST("/detection/start", soundHandler.StartDetection)
		sounds.POST("/detection/stop", soundHandler.StopDetection)
		sounds.POST("/detect", soundHandler.Detect)
		sounds.POST("/report", soundHandler.Report)
		sounds.GET("/history", soundHandler.History)
		sounds.POST("/transcribe", soundHandler.Transcribe)
		sounds.GET("/transcripts", soundHandler.Transcripts)
	}
}
