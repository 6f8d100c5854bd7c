package feed

import (
	"context"

	"sparksound/internal/model"
	"sparksound/pkg/translate"
)

// Translator 翻译能力
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) translate.Result
	TranslateAll(ctx context.Context, texts []string, sourceLang, targetLang string) []translate.Result
}

// Store 指令读取能力
type Store interface {
	ListForViewer(ctx context.Context, userID int64, limit int, includeHandled bool) ([]model.Instruction, error)
}

// Source 指令变更通知通道
// Subscribe返回新指令通道和取消订阅函数，通道在取消后关闭
type Source interface {
	Subscribe(ctx context.Context) (<-chan model.Instruction, func(), error)
}

// Entry 会话内的一条指令及其翻译
type Entry struct {
	Instruction model.Instruction `json:"instruction"`
	Translation translate.Result  `json:"translation"`
}
