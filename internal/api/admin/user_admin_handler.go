package admin

import (
	"net/http"
	"strconv"

	"sparksound/internal/constants"
	"sparksound/internal/service"
	"sparksound/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserAdminHandler 用户管理处理器
type UserAdminHandler struct {
	userService service.UserService
	logger      *logger.Logger
}

// NewUserAdminHandler 创建用户管理处理器实例
func NewUserAdminHandler(userService service.UserService, logger *logger.Logger) *UserAdminHandler {
	return &UserAdminHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers 获取用户列表
// @Summary 获取用户列表
// @Description 获取用户列表用于定向下发指令，支持分页
// @Tags 管理员
// @Produce json
// @Param page query int false "页码，默认1"
// @Param limit query int false "每页条数，默认20"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/admin/users [get]
func (h *UserAdminHandler) ListUsers(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	ctx := c.Request.Context()
	total, err := h.userService.Count(ctx)
	if err != nil {
		h.logger.Error("获取用户总数失败", "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrLoadFailed})
		return
	}

	users, err := h.userService.List(ctx, page, limit)
	if err != nil {
		h.logger.Error("获取用户列表失败", "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrLoadFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": gin.H{
			"total": total,
			"users": users,
		},
	})
}
