package admin

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册管理员API路由
func RegisterAdminRoutes(router *gin.RouterGroup, instructionAdminHandler *InstructionAdminHandler, userAdminHandler *UserAdminHandler) {
	// 指令管理路由
	instructions := router.Group("/instructions")
	{
		instructions.POST("", instructionAdminHandler.SendInstruction)
		instructions.GET("", instructionAdminHandler.ListInstructions)
		instructions.GET("/:id", instructionAdminHandler.GetInstruction)
	}

	// 用户管理路由
	users := router.Group("/users")
	{
		users.GET("", userAdminHandler.ListUsers)
	}
}
