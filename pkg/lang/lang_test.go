package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseCode(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"en-US", "en"},
		{"en-IN", "en"},
		{"hi-IN", "hi"},
		{"te-IN", "te"},
		{"ta-IN", "ta"},
		{"kn-IN", "kn"},
		{"ml-IN", "ml"},
		{"fr-FR", "fr"},
		{"pt_BR", "pt"},
		{"DE", "de"},
		{"", "en"},
		{"  ", "en"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseCode(tt.tag), "tag %q", tt.tag)
	}
}

func TestSame(t *testing.T) {
	// 不同地区的英文标签折叠为同一种基础语言
	assert.True(t, Same("en-US", "en-IN"))
	assert.True(t, Same("hi-IN", "hi"))
	assert.False(t, Same("en-US", "hi-IN"))
	assert.False(t, Same("ta-IN", "te-IN"))
}

func TestSpeechTag(t *testing.T) {
	assert.Equal(t, "en-US", SpeechTag("en-IN"))
	assert.Equal(t, "hi-IN", SpeechTag("hi-IN"))
	// 未知标签回退为默认语音标签
	assert.Equal(t, "en-US", SpeechTag("fr-FR"))
	assert.Equal(t, "en-US", SpeechTag(""))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "English", DisplayName("en-IN"))
	assert.Equal(t, "हिंदी", DisplayName("hi-IN"))
	assert.Equal(t, "தமிழ்", DisplayName("ta-IN"))
	assert.Equal(t, "English", DisplayName("unknown"))
}

func TestIsSupported(t *testing.T) {
	for _, tag := range Supported() {
		assert.True(t, IsSupported(tag), "tag %q", tag)
	}
	assert.False(t, IsSupported("en-US"))
	assert.False(t, IsSupported("fr-FR"))
	assert.False(t, IsSupported(""))
}
