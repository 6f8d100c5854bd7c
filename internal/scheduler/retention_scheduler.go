package scheduler

import (
	"context"
	"time"

	"sparksound/config"
	"sparksound/internal/service"
	"sparksound/pkg/logger"
)

// RetentionScheduler 数据保留调度器
// 定期清理过期的指令和声音事件
type RetentionScheduler struct {
	instructionService *service.InstructionService
	soundService       *service.SoundService
	cfg                config.RetentionConfig
	logger             *logger.Logger
	quit               chan struct{}
}

// NewRetentionScheduler 创建数据保留调度器实例
func NewRetentionScheduler(
	instructionService *service.InstructionService,
	soundService *service.SoundService,
	cfg config.RetentionConfig,
	logger *logger.Logger,
) *RetentionScheduler {
	return &RetentionScheduler{
		instructionService: instructionService,
		soundService:       soundService,
		cfg:                cfg,
		logger:             logger,
		quit:               make(chan struct{}),
	}
}

// Start 启动数据保留调度器
func (s *RetentionScheduler) Start() {
	go s.cleanupLoop()
	s.logger.Info("数据保留调度器启动")
}

// Stop 停止数据保留调度器
func (s *RetentionScheduler) Stop() {
	close(s.quit)
	s.logger.Info("数据保留调度器停止")
}

// cleanupLoop 清理定时器，启动时先执行一次，此后每12小时执行一次
func (s *RetentionScheduler) cleanupLoop() {
	s.cleanup()

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.quit:
			return
		}
	}
}

// cleanup 执行一轮过期数据清理
func (s *RetentionScheduler) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if s.cfg.InstructionDays > 0 {
		before := time.Now().AddDate(0, 0, -s.cfg.InstructionDays)
		deleted, err := s.instructionService.CleanupOlderThan(ctx, before)
		if err != nil {
			s.logger.Error("清理过期指令失败", "error", err)
		} else if deleted > 0 {
			s.logger.Info("清理过期指令完成", "deleted", deleted)
		}
	}

	if s.cfg.SoundEventDays > 0 {
		before := time.Now().AddDate(0, 0, -s.cfg.SoundEventDays)
		deleted, err := s.soundService.CleanupOlderThan(ctx, before)
		if err != nil {
			s.logger.Error("清理过期声音事件失败", "error", err)
		} else if deleted > 0 {
			s.logger.Info("清理过期声音事件完成", "deleted", deleted)
		}
	}
}
