package model

import "time"

// 指令状态
const (
	InstructionStatusPending  = "pending"  // 待处理
	InstructionStatusAccepted = "accepted" // 已接受
	InstructionStatusRejected = "rejected" // 已拒绝
)

// Instruction 指令模型
// 管理员下发的文字指令，target_user_id为空表示对所有用户广播
type Instruction struct {
	ID               string    `db:"id" json:"id"`
	AdminID          int64     `db:"admin_id" json:"admin_id"`
	TargetUserID     *int64    `db:"target_user_id" json:"target_user_id"`
	OriginalText     string    `db:"original_text" json:"original_text"`
	OriginalLanguage string    `db:"original_language" json:"original_language"`
	AudioURL         *string   `db:"audio_url" json:"audio_url,omitempty"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"-"`
}

// IsBroadcast 是否为广播指令
func (i *Instruction) IsBroadcast() bool {
	return i.TargetUserID == nil
}

// VisibleTo 指令是否对指定用户可见（定向给该用户或广播）
func (i *Instruction) VisibleTo(userID int64) bool {
	return i.TargetUserID == nil || *i.TargetUserID == userID
}

// PaginatedInstructions 分页指令结果
type PaginatedInstructions struct {
	Total int64         `json:"total"`
	Items []Instruction `json:"items"`
}
