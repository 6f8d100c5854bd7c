package handler

import (
	"errors"
	"net/http"

	"sparksound/internal/constants"
	"sparksound/internal/feed"
	"sparksound/internal/model"
	"sparksound/internal/service"
	"sparksound/internal/types"
	"sparksound/pkg/lang"
	"sparksound/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	userService service.UserService
	feedManager *feed.Manager
	logger      *logger.Logger
}

// NewUserHandler 创建用户处理器实例
func NewUserHandler(userService service.UserService, feedManager *feed.Manager, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		feedManager: feedManager,
		logger:      logger,
	}
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册新用户，注册成功后返回Token
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body types.RegisterRequest true "注册信息"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"code": 400, "msg": constants.ErrInvalidParams})
		return
	}

	ctx := c.Request.Context()
	user, err := h.userService.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusOK, gin.H{"code": 400, "msg": constants.ErrUsernameExists})
			return
		}
		h.logger.Error("用户注册失败", "username", req.Username, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessRegister,
		"data": gin.H{
			"token": user.Token,
			"user":  user,
		},
	})
}

// Login 用户登录
// @Summary 用户登录
// @Description 使用用户名或邮箱登录，成功后轮换并返回新Token
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body types.LoginRequest true "登录信息"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"code": 400, "msg": constants.ErrInvalidParams})
		return
	}

	ctx := c.Request.Context()
	user, err := h.userService.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthFailed) {
			c.JSON(http.StatusOK, gin.H{"code": 401, "msg": constants.ErrAuthFailed})
			return
		}
		h.logger.Error("用户登录失败", "identifier", req.Identifier, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessLogin,
		"data": gin.H{
			"token": user.Token,
			"user":  user,
		},
	})
}

// GetUserInfo 获取当前用户信息
// @Summary 获取用户信息
// @Description 获取当前登录用户的资料和首选语言
// @Tags 用户
// @Produce json
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/users/info [get]
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	user := c.MustGet("user").(*model.User)

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": gin.H{
			"user":             user,
			"language":         user.PreferredLanguage,
			"language_display": lang.DisplayName(user.PreferredLanguage),
		},
	})
}

// UpdateLanguage 更新首选语言
// @Summary 更新首选语言
// @Description 持久化用户的首选语言，并对该用户的活跃会话立即重译
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body types.UpdateLanguageRequest true "语言设置"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/users/language [post]
func (h *UserHandler) UpdateLanguage(c *gin.Context) {
	var req types.UpdateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"code": 400, "msg": constants.ErrInvalidParams})
		return
	}

	user := c.MustGet("user").(*model.User)
	ctx := c.Request.Context()

	if err := h.userService.UpdateLanguage(ctx, user.ID, req.Language); err != nil {
		if errors.Is(err, service.ErrInvalidLanguage) {
			c.JSON(http.StatusOK, gin.H{"code": 400, "msg": constants.ErrInvalidLanguage})
			return
		}
		h.logger.Error("更新首选语言失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	// 活跃会话立即切换语言并重译，没有会话时下次获取自动生效
	if err := h.feedManager.SetLanguage(ctx, user.ID, req.Language); err != nil {
		h.logger.Warn("切换会话语言失败", "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessUpdate,
		"data": gin.H{
			"language":         req.Language,
			"language_display": lang.DisplayName(req.Language),
		},
	})
}

// GetLanguages 获取支持的语言列表
// @Summary 获取支持的语言列表
// @Description 获取可选的首选语言及其本地化显示名称
// @Tags 用户
// @Produce json
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/languages [get]
func (h *UserHandler) GetLanguages(c *gin.Context) {
	tags := lang.Supported()
	languages := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		languages = append(languages, gin.H{
			"tag":          tag,
			"display_name": lang.DisplayName(tag),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "success",
		"data": languages,
	})
}
