package model

import "time"

// 声音类别
const (
	SoundTypeEmergency  = "emergency"  // 紧急
	SoundTypeTemple     = "temple"     // 寺庙
	SoundTypeDevotional = "devotional" // 颂歌
	SoundTypeGeneral    = "general"    // 一般
)

// SoundEvent 环境声音检测事件
type SoundEvent struct {
	ID          string    `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Type        string    `db:"type" json:"type"`
	Priority    string    `db:"priority" json:"priority"`
	Description string    `db:"description" json:"description"`
	Confidence  float64   `db:"confidence" json:"confidence"`
	DetectedAt  time.Time `db:"detected_at" json:"detected_at"`
}

// Transcript 语音转写记录
type Transcript struct {
	ID        string    `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	Language  string    `db:"language" json:"language"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
