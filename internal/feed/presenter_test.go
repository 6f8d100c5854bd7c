package feed

import (
	"testing"
	"time"

	"sparksound/internal/model"
	"sparksound/pkg/translate"

	"github.com/stretchr/testify/assert"
)

func makeEntry(text string, translation translate.Result) Entry {
	return Entry{
		Instruction: model.Instruction{
			ID:               "inst-1",
			AdminID:          1,
			OriginalText:     text,
			OriginalLanguage: "en-US",
			Status:           model.InstructionStatusPending,
			CreatedAt:        time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		},
		Translation: translation,
	}
}

func TestBuildViewTranslated(t *testing.T) {
	entry := makeEntry("Hello", translate.Result{
		Text:     "வணக்கம்",
		Original: "Hello",
		Status:   translate.StatusTranslated,
	})
	now := entry.Instruction.CreatedAt.Add(30 * time.Second)

	v := BuildView(entry, true, now)

	// 译文为主行，原文为次行
	assert.Equal(t, "வணக்கம்", v.Primary)
	assert.Equal(t, "Original: Hello", v.Secondary)
	assert.Equal(t, BadgeBroadcast, v.Badge)
	assert.Equal(t, "just now", v.RelativeTime)
	assert.Equal(t, "2026-08-28 12:00:00", v.ExactTime)
	assert.False(t, v.TranslationFailed)
}

func TestBuildViewPreferOriginal(t *testing.T) {
	entry := makeEntry("Hello", translate.Result{
		Text:     "வணக்கம்",
		Original: "Hello",
		Status:   translate.StatusTranslated,
	})

	v := BuildView(entry, false, time.Now())

	// 开关关闭时始终显示原文，没有次行
	assert.Equal(t, "Hello", v.Primary)
	assert.Empty(t, v.Secondary)
}

func TestBuildViewUnchanged(t *testing.T) {
	entry := makeEntry("Hello", translate.Result{
		Text:     "Hello",
		Original: "Hello",
		Status:   translate.StatusUnchanged,
	})

	v := BuildView(entry, true, time.Now())

	// 无需翻译时只显示一行
	assert.Equal(t, "Hello", v.Primary)
	assert.Empty(t, v.Secondary)
	assert.False(t, v.TranslationFailed)
}

func TestBuildViewTranslationFailed(t *testing.T) {
	entry := makeEntry("Hello", translate.Result{
		Text:     "Hello",
		Original: "Hello",
		Status:   translate.StatusFailed,
	})

	v := BuildView(entry, true, time.Now())

	// 翻译失败回退为原文并打软标记，不阻塞阅读
	assert.Equal(t, "Hello", v.Primary)
	assert.Empty(t, v.Secondary)
	assert.True(t, v.TranslationFailed)
}

func TestBuildViewPersonalBadge(t *testing.T) {
	target := int64(7)
	entry := makeEntry("Hello", translate.Result{Text: "Hello", Original: "Hello", Status: translate.StatusUnchanged})
	entry.Instruction.TargetUserID = &target

	v := BuildView(entry, true, time.Now())
	assert.Equal(t, BadgePersonal, v.Badge)
}

func TestBuildViewAudioURL(t *testing.T) {
	audio := "data:audio/mp3;base64,AAAA"
	entry := makeEntry("Hello", translate.Result{Text: "Hello", Original: "Hello", Status: translate.StatusUnchanged})
	entry.Instruction.AudioURL = &audio

	v := BuildView(entry, true, time.Now())
	assert.Equal(t, audio, v.AudioURL)
}

func TestBuildViewsOrder(t *testing.T) {
	entries := []Entry{
		makeEntry("One", translate.Result{Text: "One", Original: "One", Status: translate.StatusUnchanged}),
		makeEntry("Two", translate.Result{Text: "Two", Original: "Two", Status: translate.StatusUnchanged}),
	}
	entries[1].Instruction.ID = "inst-2"

	views := BuildViews(entries, true, time.Now())
	assert.Len(t, views, 2)
	assert.Equal(t, "inst-1", views[0].ID)
	assert.Equal(t, "inst-2", views[1].ID)
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{90 * time.Second, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{65 * time.Minute, "1 hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{30 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeTime(now.Add(-tt.ago), now), "ago %v", tt.ago)
	}
}
