package feed

import (
	"fmt"
	"time"

	"sparksound/pkg/translate"
)

// 指令范围徽标
const (
	BadgePersonal  = "Personal"  // 定向指令
	BadgeBroadcast = "Broadcast" // 广播指令
)

// View 一条指令的展示结果
// 只包含确定性的渲染规则，不涉及视觉布局
type View struct {
	ID                string `json:"id"`
	Primary           string `json:"primary"`             // 主行文本
	Secondary         string `json:"secondary,omitempty"` // 次行（译文与原文不同时显示原文）
	Badge             string `json:"badge"`
	RelativeTime      string `json:"relative_time"`
	ExactTime         string `json:"exact_time"`
	Status            string `json:"status"`
	AudioURL          string `json:"audio_url,omitempty"`
	TranslationFailed bool   `json:"translation_failed"` // 翻译失败软标记，不阻塞阅读原文
}

// BuildView 根据翻译结果和"优先显示译文"开关生成展示结果
func BuildView(e Entry, preferTranslated bool, now time.Time) View {
	v := View{
		ID:                e.Instruction.ID,
		Primary:           e.Instruction.OriginalText,
		Badge:             BadgeBroadcast,
		RelativeTime:      RelativeTime(e.Instruction.CreatedAt, now),
		ExactTime:         e.Instruction.CreatedAt.Format("2006-01-02 15:04:05"),
		Status:            e.Instruction.Status,
		TranslationFailed: e.Translation.Status == translate.StatusFailed,
	}

	if !e.Instruction.IsBroadcast() {
		v.Badge = BadgePersonal
	}
	if e.Instruction.AudioURL != nil {
		v.AudioURL = *e.Instruction.AudioURL
	}

	// 开关开启且译文与原文不同时，译文为主行、原文为次行
	if preferTranslated && e.Translation.Translated() {
		v.Primary = e.Translation.Text
		v.Secondary = "Original: " + e.Translation.Original
	}

	return v
}

// BuildViews 批量生成展示结果，保持输入顺序
func BuildViews(entries []Entry, preferTranslated bool, now time.Time) []View {
	views := make([]View, len(entries))
	for i, e := range entries {
		views[i] = BuildView(e, preferTranslated, now)
	}
	return views
}

// RelativeTime 计算相对时间标签
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < 2*time.Minute:
		return "1 minute ago"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 2*time.Hour:
		return "1 hour ago"
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 48*time.Hour:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}
