package feed

import (
	"context"
	"encoding/json"

	"sparksound/internal/model"
	"sparksound/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Channel 指令变更通知使用的Redis频道
const Channel = "instructions:new"

// RedisSource 基于Redis发布订阅的变更通知通道
// 不保证投递：通道断开期间的指令不会补发，这是接受的降级行为
type RedisSource struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisSource 创建Redis变更通知通道
func NewRedisSource(client *redis.Client, logger *logger.Logger) *RedisSource {
	return &RedisSource{client: client, logger: logger}
}

// Subscribe 订阅新指令
func (s *RedisSource) Subscribe(ctx context.Context) (<-chan model.Instruction, func(), error) {
	pubsub := s.client.Subscribe(ctx, Channel)

	// 确认订阅建立
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	out := make(chan model.Instruction, 16)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var inst model.Instruction
			if err := json.Unmarshal([]byte(msg.Payload), &inst); err != nil {
				s.logger.Warn("解析指令通知失败", "error", err)
				continue
			}
			select {
			case out <- inst:
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		pubsub.Close()
	}
	return out, stop, nil
}

// Publish 将新指令发布到变更通知频道
func Publish(ctx context.Context, client *redis.Client, inst *model.Instruction) error {
	payload, err := json.Marshal(inst)
	if err != nil {
		return err
	}
	return client.Publish(ctx, Channel, payload).Err()
}
