package admin

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"sparksound/internal/constants"
	"sparksound/internal/model"
	"sparksound/internal/service"
	"sparksound/internal/types"
	"sparksound/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InstructionAdminHandler 指令管理处理器
type InstructionAdminHandler struct {
	instructionService *service.InstructionService
	logger             *logger.Logger
}

// NewInstructionAdminHandler 创建指令管理处理器实例
func NewInstructionAdminHandler(instructionService *service.InstructionService, logger *logger.Logger) *InstructionAdminHandler {
	return &InstructionAdminHandler{
		instructionService: instructionService,
		logger:             logger,
	}
}

// SendInstruction 下发指令
// @Summary 下发指令
// @Description 向指定用户或全体用户下发指令，自动生成TTS音频并实时推送
// @Tags 管理员
// @Accept json
// @Produce json
// @Param request body types.SendInstructionRequest true "指令内容"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/admin/instructions [post]
func (h *InstructionAdminHandler) SendInstruction(c *gin.Context) {
	var req types.SendInstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"code": 400, "msg": constants.ErrInstructionEmpty})
		return
	}

	admin := c.MustGet("user").(*model.User)

	ctx := c.Request.Context()
	instruction, err := h.instructionService.Send(ctx, admin.ID, req.TargetUserID, req.Instruction, req.OriginalLanguage)
	if err != nil {
		h.logger.Error("下发指令失败", "admin_id", admin.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessSend,
		"data": instruction,
	})
}

// ListInstructions 获取指令列表
// @Summary 获取指令列表
// @Description 获取全部指令，支持分页
// @Tags 管理员
// @Produce json
// @Param page query int false "页码，默认1"
// @Param limit query int false "每页条数，默认20"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/admin/instructions [get]
func (h *InstructionAdminHandler) ListInstructions(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	ctx := c.Request.Context()
	paginated, err := h.instructionService.ListAdmin(ctx, page, limit)
	if err != nil {
		h.logger.Error("获取指令列表失败", "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrLoadFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": paginated,
	})
}

// GetInstruction 获取指令详情
// @Summary 获取指令详情
// @Description 根据ID获取指令详情
// @Tags 管理员
// @Produce json
// @Param id path string true "指令ID"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/admin/instructions/{id} [get]
func (h *InstructionAdminHandler) GetInstruction(c *gin.Context) {
	id := c.Param("id")

	ctx := c.Request.Context()
	instruction, err := h.instructionService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusOK, gin.H{"code": 404, "msg": constants.ErrInstructionNotFound})
			return
		}
		h.logger.Error("获取指令详情失败", "id", id, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": instruction,
	})
}
