package repository

import (
	"context"
	"time"

	"sparksound/internal/model"

	"github.com/jmoiron/sqlx"
)

// SoundEventRepository 声音事件存储库
type SoundEventRepository struct {
	db *sqlx.DB
}

// NewSoundEventRepository 创建声音事件存储库实例
func NewSoundEventRepository(db *sqlx.DB) *SoundEventRepository {
	return &SoundEventRepository{db: db}
}

// Create 记录声音事件
func (r *SoundEventRepository) Create(ctx context.Context, e *model.SoundEvent) error {
	query := `
		INSERT INTO sound_events (id, user_id, name, type, priority, description, confidence, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Name, e.Type, e.Priority, e.Description, e.Confidence, e.DetectedAt)
	return err
}

// ListByUser 获取用户最近的声音事件
func (r *SoundEventRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]model.SoundEvent, error) {
	var events []model.SoundEvent
	query := `
		SELECT * FROM sound_events
		WHERE user_id = ?
		ORDER BY detected_at DESC LIMIT ?
	`
	err := r.db.SelectContext(ctx, &events, query, userID, limit)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteOlderThan 删除早于指定时间的声音事件，返回删除条数
func (r *SoundEventRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query := "DELETE FROM sound_events WHERE detected_at < ?"
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CreateTranscript 记录语音转写
func (r *SoundEventRepository) CreateTranscript(ctx context.Context, t *model.Transcript) error {
	query := "INSERT INTO transcripts (id, user_id, text, language) VALUES (?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Text, t.Language)
	return err
}

// ListTranscripts 获取用户最近的转写记录
func (r *SoundEventRepository) ListTranscripts(ctx context.Context, userID int64, limit int) ([]model.Transcript, error) {
	var transcripts []model.Transcript
	query := `
		SELECT * FROM transcripts
		WHERE user_id = ?
		ORDER BY created_at DESC LIMIT ?
	`
	err := r.db.SelectContext(ctx, &transcripts, query, userID, limit)
	if err != nil {
		return nil, err
	}
	return transcripts, nil
}
