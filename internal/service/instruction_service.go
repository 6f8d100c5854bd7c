package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sparksound/internal/feed"
	"sparksound/internal/model"
	"sparksound/internal/repository"
	"sparksound/pkg/logger"
	"sparksound/pkg/speech"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// InstructionService 指令服务
type InstructionService struct {
	instructionRepo *repository.InstructionRepository
	redisClient     *redis.Client
	ttsClient       *speech.TTSClient
	logger          *logger.Logger
}

// NewInstructionService 创建指令服务实例
func NewInstructionService(instructionRepo *repository.InstructionRepository, redisClient *redis.Client, ttsClient *speech.TTSClient, logger *logger.Logger) *InstructionService {
	return &InstructionService{
		instructionRepo: instructionRepo,
		redisClient:     redisClient,
		ttsClient:       ttsClient,
		logger:          logger,
	}
}

// Send 下发指令
// 先尽力生成TTS音频（失败不阻塞下发），落库后发布到变更通知频道
func (s *InstructionService) Send(ctx context.Context, adminID int64, targetUserID *int64, text, originalLanguage string) (*model.Instruction, error) {
	if originalLanguage == "" {
		originalLanguage = "en-US"
	}

	instruction := &model.Instruction{
		ID:               uuid.NewString(),
		AdminID:          adminID,
		TargetUserID:     targetUserID,
		OriginalText:     text,
		OriginalLanguage: originalLanguage,
		Status:           model.InstructionStatusPending,
		CreatedAt:        time.Now(),
	}

	// TTS音频生成是尽力而为的，失败只记录警告
	if s.ttsClient.Available() {
		ttsCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		audioContent, err := s.ttsClient.Synthesize(ttsCtx, text)
		cancel()
		if err != nil {
			s.logger.Warn("指令TTS音频生成失败", "error", err)
		} else {
			audioURL := speech.AudioDataURL(audioContent)
			instruction.AudioURL = &audioURL
		}
	}

	if err := s.instructionRepo.Create(ctx, instruction); err != nil {
		s.logger.Error("创建指令失败", "error", err)
		return nil, err
	}

	s.InvalidateCache(ctx)

	// 发布失败只降级为无实时推送，指令本身已落库
	if err := feed.Publish(ctx, s.redisClient, instruction); err != nil {
		s.logger.Warn("发布指令通知失败", "id", instruction.ID, "error", err)
	}

	return instruction, nil
}

// ListForViewer 获取对指定用户可见的最新指令
func (s *InstructionService) ListForViewer(ctx context.Context, userID int64, limit int, includeHandled bool) ([]model.Instruction, error) {
	// 尝试从缓存获取
	cacheKey := fmt.Sprintf("instructions:viewer:%d:%d:%t", userID, limit, includeHandled)
	cachedData, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var instructions []model.Instruction
		if err := json.Unmarshal(cachedData, &instructions); err == nil {
			return instructions, nil
		}
	}

	// 缓存未命中，从数据库获取
	instructions, err := s.instructionRepo.ListForViewer(ctx, userID, limit, includeHandled)
	if err != nil {
		s.logger.Error("获取指令列表失败", "user_id", userID, "error", err)
		return nil, err
	}

	// 将结果存入缓存
	if data, err := json.Marshal(instructions); err == nil {
		s.redisClient.Set(ctx, cacheKey, data, 5*time.Minute)
	}

	return instructions, nil
}

// ListBroadcast 获取最新的广播指令（匿名访问时使用）
func (s *InstructionService) ListBroadcast(ctx context.Context, limit int) ([]model.Instruction, error) {
	cacheKey := fmt.Sprintf("instructions:broadcast:%d", limit)
	cachedData, err := s.redisClient.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var instructions []model.Instruction
		if err := json.Unmarshal(cachedData, &instructions); err == nil {
			return instructions, nil
		}
	}

	instructions, err := s.instructionRepo.ListBroadcast(ctx, limit)
	if err != nil {
		s.logger.Error("获取广播指令失败", "error", err)
		return nil, err
	}

	if data, err := json.Marshal(instructions); err == nil {
		s.redisClient.Set(ctx, cacheKey, data, 5*time.Minute)
	}

	return instructions, nil
}

// GetByID 根据ID获取指令
func (s *InstructionService) GetByID(ctx context.Context, id string) (*model.Instruction, error) {
	return s.instructionRepo.GetByID(ctx, id)
}

// UpdateStatus 用户接受或拒绝指令
// 只有指令对该用户可见时才允许操作
func (s *InstructionService) UpdateStatus(ctx context.Context, userID int64, id, status string) error {
	instruction, err := s.instructionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !instruction.VisibleTo(userID) {
		return ErrForbidden
	}

	if err := s.instructionRepo.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Error("更新指令状态失败", "id", id, "status", status, "error", err)
		return err
	}

	s.InvalidateCache(ctx)
	return nil
}

// ListAdmin 管理员获取指令列表（分页）
func (s *InstructionService) ListAdmin(ctx context.Context, page, limit int) (*model.PaginatedInstructions, error) {
	total, err := s.instructionRepo.Count(ctx)
	if err != nil {
		s.logger.Error("获取指令总数失败", "error", err)
		return nil, err
	}

	instructions, err := s.instructionRepo.ListAdmin(ctx, page, limit)
	if err != nil {
		s.logger.Error("获取指令列表失败", "error", err)
		return nil, err
	}

	return &model.PaginatedInstructions{
		Total: total,
		Items: instructions,
	}, nil
}

// CleanupOlderThan 删除早于指定时间的指令
func (s *InstructionService) CleanupOlderThan(ctx context.Context, before time.Time) (int64, error) {
	deleted, err := s.instructionRepo.DeleteOlderThan(ctx, before)
	if err == nil && deleted > 0 {
		s.InvalidateCache(ctx)
	}
	return deleted, err
}

// InvalidateCache 使指令相关缓存失效
func (s *InstructionService) InvalidateCache(ctx context.Context) {
	pattern := "instructions:*"
	iter := s.redisClient.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Error("删除缓存失败", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Error("扫描缓存失败", "error", err)
	}
}
