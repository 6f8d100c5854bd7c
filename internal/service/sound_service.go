package service

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"sparksound/internal/model"
	"sparksound/internal/repository"
	"sparksound/pkg/async"
	"sparksound/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// listeningSetKey 正在检测声音的用户集合
const listeningSetKey = "detection:listening"

// SoundPattern 可识别的声音模式
type SoundPattern struct {
	Name        string
	Type        string
	Priority    string
	Description string
}

// 声音模式表
// 声音检测本身是模拟的，不含真实的信号处理
var soundPatterns = []SoundPattern{
	{Name: "Police Siren", Type: model.SoundTypeEmergency, Priority: "high", Description: "Emergency vehicle detected"},
	{Name: "Ambulance", Type: model.SoundTypeEmergency, Priority: "high", Description: "Medical emergency vehicle"},
	{Name: "Temple Bell", Type: model.SoundTypeTemple, Priority: "medium", Description: "Prayer bell ringing"},
	{Name: "Bhajan Music", Type: model.SoundTypeDevotional, Priority: "medium", Description: "Devotional songs playing"},
	{Name: "Car Horn", Type: model.SoundTypeGeneral, Priority: "low", Description: "Vehicle horn sound"},
	{Name: "Fire Alarm", Type: model.SoundTypeEmergency, Priority: "high", Description: "Fire safety alarm"},
	{Name: "Public Announcement", Type: model.SoundTypeGeneral, Priority: "medium", Description: "PA system announcement"},
}

// SoundService 声音事件服务
type SoundService struct {
	soundRepo   *repository.SoundEventRepository
	redisClient *redis.Client
	worker      *async.Worker
	logger      *logger.Logger
}

// NewSoundService 创建声音事件服务实例
func NewSoundService(soundRepo *repository.SoundEventRepository, redisClient *redis.Client, worker *async.Worker, logger *logger.Logger) *SoundService {
	return &SoundService{
		soundRepo:   soundRepo,
		redisClient: redisClient,
		worker:      worker,
		logger:      logger,
	}
}

// StartListening 将用户加入检测集合
func (s *SoundService) StartListening(ctx context.Context, userID int64) error {
	return s.redisClient.SAdd(ctx, listeningSetKey, userID).Err()
}

// StopListening 将用户移出检测集合
func (s *SoundService) StopListening(ctx context.Context, userID int64) error {
	return s.redisClient.SRem(ctx, listeningSetKey, userID).Err()
}

// ListeningUsers 获取正在检测的用户列表
func (s *SoundService) ListeningUsers(ctx context.Context) ([]int64, error) {
	members, err := s.redisClient.SMembers(ctx, listeningSetKey).Result()
	if err != nil {
		return nil, err
	}

	users := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		users = append(users, id)
	}
	return users, nil
}

// SimulateDetection 为用户生成一次模拟检测
// 置信度0.6~1.0，事件异步落库
func (s *SoundService) SimulateDetection(userID int64) *model.SoundEvent {
	pattern := soundPatterns[rand.Intn(len(soundPatterns))]
	event := &model.SoundEvent{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        pattern.Name,
		Type:        pattern.Type,
		Priority:    pattern.Priority,
		Description: pattern.Description,
		Confidence:  0.6 + rand.Float64()*0.4,
		DetectedAt:  time.Now(),
	}

	s.worker.SubmitFunc("sound_event", func(ctx context.Context) error {
		return s.soundRepo.Create(ctx, event)
	})

	return event
}

// Record 记录用户上报的声音事件
func (s *SoundService) Record(ctx context.Context, event *model.SoundEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.DetectedAt.IsZero() {
		event.DetectedAt = time.Now()
	}
	return s.soundRepo.Create(ctx, event)
}

// History 获取用户最近的声音事件
func (s *SoundService) History(ctx context.Context, userID int64, limit int) ([]model.SoundEvent, error) {
	return s.soundRepo.ListByUser(ctx, userID, limit)
}

// RecordTranscript 异步记录语音转写结果
func (s *SoundService) RecordTranscript(userID int64, text, language string) {
	transcript := &model.Transcript{
		ID:       uuid.NewString(),
		UserID:   userID,
		Text:     text,
		Language: language,
	}
	s.worker.SubmitFunc("transcript", func(ctx context.Context) error {
		return s.soundRepo.CreateTranscript(ctx, transcript)
	})
}

// Transcripts 获取用户最近的转写记录
func (s *SoundService) Transcripts(ctx context.Context, userID int64, limit int) ([]model.Transcript, error) {
	return s.soundRepo.ListTranscripts(ctx, userID, limit)
}

// CleanupOlderThan 删除早于指定时间的声音事件
func (s *SoundService) CleanupOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return s.soundRepo.DeleteOlderThan(ctx, before)
}
