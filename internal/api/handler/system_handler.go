package handler

import (
	"net/http"

	"sparksound/config"
	"sparksound/pkg/logger"
	"sparksound/pkg/network"
	"sparksound/pkg/speech"

	"github.com/gin-gonic/gin"
)

// SystemHandler 系统状态处理器
type SystemHandler struct {
	cfg       *config.Config
	ttsClient *speech.TTSClient
	sttClient *speech.STTClient
	logger    *logger.Logger
}

// NewSystemHandler 创建系统状态处理器实例
func NewSystemHandler(cfg *config.Config, ttsClient *speech.TTSClient, sttClient *speech.STTClient, logger *logger.Logger) *SystemHandler {
	return &SystemHandler{
		cfg:       cfg,
		ttsClient: ttsClient,
		sttClient: sttClient,
		logger:    logger,
	}
}

// GetStatus 获取系统状态
// @Summary 获取系统状态
// @Description 获取翻译网关可达性和语音服务配置状态
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{} "成功"
// @Router /api/v1/system/status [get]
func (h *SystemHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"msg":  "success",
		"data": gin.H{
			"translate_reachable": network.CheckURL(h.cfg.Translate.APIServer),
			"tts_available":       h.ttsClient.Available(),
			"stt_available":       h.sttClient.Available(),
		},
	})
}
