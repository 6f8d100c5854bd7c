package types

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"` // 用户名或邮箱
	Password   string `json:"password" binding:"required"`
}

// UpdateLanguageRequest 更新首选语言请求
type UpdateLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// SendInstructionRequest 下发指令请求
type SendInstructionRequest struct {
	Instruction      string `json:"instruction" binding:"required"`
	TargetUserID     *int64 `json:"target_user_id"` // 为空表示广播
	OriginalLanguage string `json:"original_language"`
}

// TranscribeRequest 语音转写请求
type TranscribeRequest struct {
	Audio    string `json:"audio" binding:"required"` // base64编码的音频
	Language string `json:"language"`
}

// ReportSoundRequest 上报声音检测事件请求
type ReportSoundRequest struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=emergency temple devotional general"`
	Priority    string  `json:"priority"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence" binding:"min=0,max=1"`
}
