package scheduler

import (
	"context"
	"math/rand"
	"time"

	"sparksound/internal/service"
	"sparksound/pkg/logger"
)

// DetectionScheduler 声音检测模拟调度器
// 周期性地为开启检测的用户生成模拟声音事件，替代真实的信号处理
type DetectionScheduler struct {
	soundService *service.SoundService
	logger       *logger.Logger
	quit         chan struct{}
}

// NewDetectionScheduler 创建声音检测调度器实例
func NewDetectionScheduler(soundService *service.SoundService, logger *logger.Logger) *DetectionScheduler {
	return &DetectionScheduler{
		soundService: soundService,
		logger:       logger,
		quit:         make(chan struct{}),
	}
}

// Start 启动声音检测调度器
func (s *DetectionScheduler) Start() {
	go s.detectLoop()
	s.logger.Info("声音检测调度器启动")
}

// Stop 停止声音检测调度器
func (s *DetectionScheduler) Stop() {
	close(s.quit)
	s.logger.Info("声音检测调度器停止")
}

// detectLoop 检测定时器，每2秒为每个开启检测的用户按概率生成事件
func (s *DetectionScheduler) detectLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.detect()
		case <-s.quit:
			return
		}
	}
}

// detect 执行一轮模拟检测
func (s *DetectionScheduler) detect() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	users, err := s.soundService.ListeningUsers(ctx)
	if err != nil {
		s.logger.Error("获取检测用户列表失败", "error", err)
		return
	}

	for _, userID := range users {
		// 每轮约40%的概率检测到声音
		if rand.Float64() <= 0.6 {
			continue
		}
		event := s.soundService.SimulateDetection(userID)
		s.logger.Debug("模拟检测到声音",
			"user_id", userID, "name", event.Name, "confidence", event.Confidence)
	}
}
