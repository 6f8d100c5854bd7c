package constants

// 通用错误消息
const (
	// 认证相关错误
	ErrUnauthorized           = "未授权，请先登录"
	ErrInvalidToken           = "无效的Token"
	ErrInsufficientPermission = "权限不足"
	ErrAccountDisabled        = "账号已被禁用"

	// 用户相关错误
	ErrUserNotFound      = "用户不存在"
	ErrAuthFailed        = "用户不存在或认证失败"
	ErrPasswordIncorrect = "密码错误"
	ErrUsernameExists    = "用户名已存在"
	ErrEmailExists       = "该邮箱已被注册"

	// 参数相关错误
	ErrInvalidParams   = "参数错误"
	ErrInvalidLanguage = "不支持的语言"

	// 指令相关错误
	ErrInstructionNotFound  = "指令不存在"
	ErrInstructionForbidden = "无权操作该指令"
	ErrInstructionEmpty     = "指令内容不能为空"

	// 语音相关错误
	ErrSpeechUnavailable = "语音服务不可用"
	ErrTranscribeFailed  = "语音转写失败"

	// 系统错误
	ErrInternalServer = "服务器内部错误"
	ErrLoadFailed     = "无法加载，请稍后重试"
)

// 成功消息
const (
	SuccessLogin    = "登录成功"
	SuccessRegister = "注册成功"
	SuccessSend     = "指令发送成功"
	SuccessAccept   = "已接受指令"
	SuccessReject   = "已拒绝指令"
	SuccessUpdate   = "更新成功"
	SuccessGet      = "获取成功"
)
