package handler

import (
	"net/http"
	"strconv"

	"sparksound/internal/constants"
	"sparksound/internal/model"
	"sparksound/internal/service"
	"sparksound/internal/types"
	"sparksound/pkg/lang"
	"sparksound/pkg/logger"
	"sparksound/pkg/speech"

	"github.com/gin-gonic/gin"
)

// SoundHandler 声音检测处理器
type SoundHandler struct {
	soundService *service.SoundService
	sttClient    *speech.STTClient
	logger       *logger.Logger
}

// NewSoundHandler 创建声音检测处理器实例
func NewSoundHandler(soundService *service.SoundService, sttClient *speech.STTClient, logger *logger.Logger) *SoundHandler {
	return &SoundHandler{
		soundService: soundService,
		sttClient:    sttClient,
		logger:       logger,
	}
}

// StartDetection 开启声音检测
// @Summary 开启声音检测
// @Description 将用户加入检测集合，调度器周期性为其生成模拟检测事件
// @Tags 声音
// @Produce json
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/sounds/detection/start [post]
func (h *SoundHandler) StartDetection(c *gin.Context) {
	user := c.MustGet("user").(*model.User)

	if err := h.soundService.StartListening(c.Request.Context(), user.ID); err != nil {
		h.logger.Error("开启声音检测失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessUpdate})
}

// StopDetection 停止声音检测
// @Summary 停止声音检测
// @Description 将用户移出检测集合
// @Tags 声音
// @Produce json
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/sounds/detection/stop [post]
func (h *SoundHandler) StopDetection(c *gin.Context) {
	user := c.MustGet("user").(*model.User)

	if err := h.soundService.StopListening(c.Request.Context(), user.ID); err != nil {
		h.logger.Error("停止声音检测失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "msg": constants.SuccessUpdate})
}

// Detect 立即执行一次模拟检测
// @Summary 立即执行一次模拟检测
// @Description 为当前用户生成一个模拟声音事件并返回
// @Tags 声音
// @Produce json
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/sounds/detect [post]
func (h *SoundHandler) Detect(c *gin.Context) {
	user := c.MustGet("user").(*model.User)
	event := h.soundService.SimulateDetection(user.ID)

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": gin.H{
			"event":     event,
			"utterance": announceUtterance(event, user.PreferredLanguage),
		},
	})
}

// announceUtterance 生成声音事件的播报参数，高优先级事件使用紧急语速和音调
func announceUtterance(event *model.SoundEvent, preferredLanguage string) speech.Utterance {
	text := event.Name + ". " + event.Description
	tag := lang.SpeechTag(preferredLanguage)
	if event.Priority == "high" {
		return speech.EmergencyUtterance(text, tag)
	}
	return speech.NormalUtterance(text, tag)
}

// Report 上报声音事件
// @Summary 上报声音事件
// @Description 记录客户端检测到的声音事件
// @Tags 声音
// @Accept json
// @Produce json
// @Param request body types.ReportSoundRequest true "声音事件"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/sounds/report [post]
func (h *SoundHandler) Report(c *gin.Context) {
	var req types.ReportSoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"code": 400, "msg": constants.ErrInvalidParams})
		return
	}

	user := c.MustGet("user").(*model.User)
	event := &model.SoundEvent{
		UserID:      user.ID,
		Name:        req.Name,
		Type:        req.Type,
		Priority:    req.Priority,
		Description: req.Description,
		Confidence:  req.Confidence,
	}

	if err := h.soundService.Record(c.Request.Context(), event); err != nil {
		h.logger.Error("记录声音事件失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessUpdate,
		"data": gin.H{
			"event":     event,
			"utterance": announceUtterance(event, user.PreferredLanguage),
		},
	})
}

// History 获取声音事件历史
// @Summary 获取声音事件历史
// @Description 获取当前用户最近的声音事件
// @Tags 声音
// @Produce json
// @Param limit query int false "条数上限，默认10"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/sounds/history [get]
func (h *SoundHandler) History(c *gin.Context) {
	user := c.MustGet("user").(*model.User)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	events, err := h.soundService.History(c.Request.Context(), user.ID, limit)
	if err != nil {
		h.logger.Error("获取声音事件历史失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrLoadFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": events,
	})
}

// Transcribe 语音转写
// @Summary 语音转写
// @Description 将base64编码的音频转写为文本并异步记录
// @Tags 声音
// @Accept json
// @Produce json
// @Param request body types.TranscribeRequest true "音频内容"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/sounds/transcribe [post]
func (h *SoundHandler) Transcribe(c *gin.Context) {
	var req types.TranscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"code": 400, "msg": constants.ErrInvalidParams})
		return
	}

	if !h.sttClient.Available() {
		c.JSON(http.StatusOK, gin.H{"code": 503, "msg": constants.ErrSpeechUnavailable})
		return
	}

	user := c.MustGet("user").(*model.User)
	language := req.Language
	if language == "" {
		language = lang.SpeechTag(user.PreferredLanguage)
	}

	text, err := h.sttClient.Transcribe(c.Request.Context(), req.Audio, language)
	if err != nil {
		h.logger.Error("语音转写失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrTranscribeFailed})
		return
	}

	h.soundService.RecordTranscript(user.ID, text, language)

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": gin.H{
			"text":     text,
			"language": language,
		},
	})
}

// Transcripts 获取转写记录
// @Summary 获取转写记录
// @Description 获取当前用户最近的语音转写记录
// @Tags 声音
// @Produce json
// @Param limit query int false "条数上限，默认20"
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/sounds/transcripts [get]
func (h *SoundHandler) Transcripts(c *gin.Context) {
	user := c.MustGet("user").(*model.User)

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	transcripts, err := h.soundService.Transcripts(c.Request.Context(), user.ID, limit)
	if err != nil {
		h.logger.Error("获取转写记录失败", "user_id", user.ID, "error", err)
		c.JSON(http.StatusOK, gin.H{"code": 500, "msg": constants.ErrLoadFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  constants.SuccessGet,
		"data": transcripts,
	})
}
