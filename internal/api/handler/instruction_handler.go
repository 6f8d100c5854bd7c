package handler

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"sparksound/internal/constants"
	"sparksound/internal/feed"
	"sparksound/internal/model"
	"sparksound/internal/service"
	"sparksound/pkg/lang"
	"sparksound/pkg/logger"
	"sparksound/pkg/translate"

	"github.com/gin-gonic/gin"
)

// InstructionHandler 指令处理器
type InstructionHandler struct {
	instructionService *service.InstructionService
	feedManager        *feed.Manager
	translator         *translate.Client
	logger             *logger.Logger
}

// NewInstructionHandler 创建指令处理器实例
func NewInstructionHandler(instructionService *service.InstructionService, feedManager *feed.Manager, translator *translate.Client, logger *logger.Logger) *InstructionHandler {
	return &InstructionHandler{
		instructionService: instructionService,
		feedManager:        feedManager,
		translator:         translator,
		logger:             logger,
	}
}

// GetFeed 获取指令列表
// @Summary 获取指令列表
// @Description 获取对当前用户可见的最新指令，按创建时间降序，已翻译为用户首选语言
// @Tags 指令
// @Produce json
// @Param translated query bool false "是否优先显示译文，默认true"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/instructions [get]
func (h *InstructionHandler) GetFeed(c *gin.Context) {
	user := c.MustGet("user").(*model.User)
	preferTranslated := c.DefaultQuery("translated", "true") != "false"

	ctx := c.Request.Context()
	session, release, err := h.feedManager.Acquire(ctx, user)
	if err != nil {
		h.logger.Error("获取指令会话失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrLoadFailed})
		return
	}
	defer release()

	views := feed.BuildViews(session.Entries(), preferTranslated, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": gin.H{
			"language":     session.Language(),
			"instructions": views,
		},
	})
}

// Stream 指令实时推送
// @Summary 指令实时推送
// @Description 通过SSE推送新到达的指令，连接断开时自动注销
// @Tags 指令
// @Produce text/event-stream
// @Success 200 {string} string "事件流"
// @Router /api/v1/instructions/stream [get]
func (h *InstructionHandler) Stream(c *gin.Context) {
	user := c.MustGet("user").(*model.User)
	preferTranslated := c.DefaultQuery("translated", "true") != "false"

	session, release, err := h.feedManager.Acquire(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("获取指令会话失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrLoadFailed})
		return
	}
	defer release()

	ch, unlisten := session.Listen()
	defer unlisten()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case entry, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("instruction", feed.BuildView(entry, preferTranslated, time.Now()))
			return true
		}
	})
}

// Broadcast 获取广播指令
// @Summary 获取广播指令
// @Description 获取最新的广播指令，无需登录；lang参数为受支持的语言时翻译为该语言
// @Tags 指令
// @Produce json
// @Param limit query int false "条数上限，默认10"
// @Param lang query string false "目标语言标签"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/instructions/broadcast [get]
func (h *InstructionHandler) Broadcast(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	ctx := c.Request.Context()
	instructions, err := h.instructionService.ListBroadcast(ctx, limit)
	if err != nil {
		h.logger.Error("获取广播指令失败", "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrLoadFailed})
		return
	}

	language := c.Query("lang")
	entries := make([]feed.Entry, len(instructions))
	if lang.IsSupported(language) {
		sourceLanguage := lang.DefaultTag
		if len(instructions) > 0 && instructions[0].OriginalLanguage != "" {
			sourceLanguage = instructions[0].OriginalLanguage
		}
		texts := make([]string, len(instructions))
		for i, inst := range instructions {
			texts[i] = inst.OriginalText
		}
		results := h.translator.TranslateAll(ctx, texts, sourceLanguage, language)
		for i, inst := range instructions {
			entries[i] = feed.Entry{Instruction: inst, Translation: results[i]}
		}
	} else {
		for i, inst := range instructions {
			entries[i] = feed.Entry{
				Instruction: inst,
				Translation: translate.Result{Text: inst.OriginalText, Original: inst.OriginalText, Status: translate.StatusUnchanged},
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": gin.H{
			"instructions": feed.BuildViews(entries, true, time.Now()),
		},
	})
}

// History 获取历史指令
// @Summary 获取历史指令
// @Description 获取包含已处理指令的历史记录，已翻译为用户首选语言
// @Tags 指令
// @Produce json
// @Param limit query int false "条数上限，默认100"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/instructions/history [get]
func (h *InstructionHandler) History(c *gin.Context) {
	user := c.MustGet("user").(*model.User)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 100
	}

	ctx := c.Request.Context()
	instructions, err := h.instructionService.ListForViewer(ctx, user.ID, limit, true)
	if err != nil {
		h.logger.Error("获取历史指令失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrLoadFailed})
		return
	}

	sourceLanguage := lang.DefaultTag
	if len(instructions) > 0 && instructions[0].OriginalLanguage != "" {
		sourceLanguage = instructions[0].OriginalLanguage
	}

	texts := make([]string, len(instructions))
	for i, inst := range instructions {
		texts[i] = inst.OriginalText
	}
	results := h.translator.TranslateAll(ctx, texts, sourceLanguage, user.PreferredLanguage)

	entries := make([]feed.Entry, len(instructions))
	for i, inst := range instructions {
		entries[i] = feed.Entry{Instruction: inst, Translation: results[i]}
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": gin.H{
			"language":     user.PreferredLanguage,
			"instructions": feed.BuildViews(entries, true, time.Now()),
		},
	})
}

// Accept 接受指令
// @Summary 接受指令
// @Description 将指令标记为已接受
// @Tags 指令
// @Produce json
// @Param id path string true "指令ID"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/instructions/{id}/accept [post]
func (h *InstructionHandler) Accept(c *gin.Context) {
	h.updateStatus(c, model.InstructionStatusAccepted, constants.SuccessAccept)
}

// Reject 拒绝指令
// @Summary 拒绝指令
// @Description 将指令标记为已拒绝
// @Tags 指令
// @Produce json
// @Param id path string true "指令ID"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/instructions/{id}/reject [post]
func (h *InstructionHandler) Reject(c *gin.Context) {
	h.updateStatus(c, model.InstructionStatusRejected, constants.SuccessReject)
}

// updateStatus 指令状态变更的公共逻辑
func (h *InstructionHandler) updateStatus(c *gin.Context, status, successMsg string) {
	user := c.MustGet("user").(*model.User)
	id := c.Param("id")

	ctx := c.Request.Context()
	if err := h.instructionService.UpdateStatus(ctx, user.ID, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusOK, gin.H{"code": 404, "msg": constants.ErrInstructionNotFound})
			return
		}
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusOK, gin.H{"code": 403, "msg": constants.ErrInstructionForbidden})
			return
		}
		h.logger.Error("更新指令状态失败", "id", id, "status", status, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": successMsg})
}
