package lang

import "strings"

// DefaultTag 默认语言（指令的撰写语言）
const DefaultTag = "en-US"

// 区域限定语言标签到基础语言代码的映射
// 不同地区的英文标签（en-US/en-IN）折叠为同一种基础语言
var baseCodeMap = map[string]string{
	"en-US": "en",
	"en-IN": "en",
	"hi-IN": "hi",
	"te-IN": "te",
	"ta-IN": "ta",
	"kn-IN": "kn",
	"ml-IN": "ml",
}

// 语音合成使用的语言标签映射
var speechTagMap = map[string]string{
	"en-US": "en-US",
	"en-IN": "en-US",
	"hi-IN": "hi-IN",
	"te-IN": "te-IN",
	"ta-IN": "ta-IN",
	"kn-IN": "kn-IN",
	"ml-IN": "ml-IN",
}

// 语言显示名称
var displayNameMap = map[string]string{
	"en": "English",
	"hi": "हिंदी",
	"te": "తెలుగు",
	"ta": "தமிழ்",
	"kn": "ಕನ್ನಡ",
	"ml": "മലയാളം",
}

// Supported 返回支持的语言标签列表
func Supported() []string {
	return []string{"en-IN", "hi-IN", "te-IN", "ta-IN", "kn-IN", "ml-IN"}
}

// BaseCode 将语言标签归一化为基础语言代码
// 未知标签取区域后缀前的部分，空标签视为英语
func BaseCode(tag string) string {
	if code, ok := baseCodeMap[tag]; ok {
		return code
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "en"
	}
	if idx := strings.IndexAny(tag, "-_"); idx > 0 {
		tag = tag[:idx]
	}
	return strings.ToLower(tag)
}

// Same 判断两个语言标签是否表示同一种基础语言
func Same(a, b string) bool {
	return BaseCode(a) == BaseCode(b)
}

// SpeechTag 返回语音合成使用的BCP47标签
func SpeechTag(tag string) string {
	if t, ok := speechTagMap[tag]; ok {
		return t
	}
	return "en-US"
}

// DisplayName 返回语言的本地化显示名称
func DisplayName(tag string) string {
	if name, ok := displayNameMap[BaseCode(tag)]; ok {
		return name
	}
	return "English"
}

// IsSupported 判断语言标签是否受支持
func IsSupported(tag string) bool {
	for _, t := range Supported() {
		if t == tag {
			return true
		}
	}
	return false
}
