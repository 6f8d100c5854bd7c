package speech

import (
	"context"
	"sync"
	"testing"
	"time"

	"sparksound/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSynth 阻塞到上下文取消为止，记录每次朗读
type fakeSynth struct {
	mu       sync.Mutex
	spoken   []Utterance
	canceled []string
	started  chan string
}

func newFakeSynth() *fakeSynth {
	return &fakeSynth{started: make(chan string, 8)}
}

func (f *fakeSynth) Speak(ctx context.Context, u Utterance) error {
	f.mu.Lock()
	f.spoken = append(f.spoken, u)
	f.mu.Unlock()
	f.started <- u.Text

	<-ctx.Done()

	f.mu.Lock()
	f.canceled = append(f.canceled, u.Text)
	f.mu.Unlock()
	return ctx.Err()
}

func (f *fakeSynth) canceledTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.canceled))
	copy(out, f.canceled)
	return out
}

func (f *fakeSynth) lastUtterance() Utterance {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spoken[len(f.spoken)-1]
}

func TestSpeakerNewestWins(t *testing.T) {
	synth := newFakeSynth()
	speaker := NewSpeaker(synth, logger.NewLogger("error"))
	require.True(t, speaker.Available())

	speaker.Speak("first", "en-US")
	<-synth.started

	// 新请求取消正在播放的语音
	speaker.SpeakEmergency("second", "hi-IN")
	<-synth.started

	require.Eventually(t, func() bool {
		texts := synth.canceledTexts()
		return len(texts) == 1 && texts[0] == "first"
	}, time.Second, 10*time.Millisecond)

	u := synth.lastUtterance()
	assert.Equal(t, "second", u.Text)
	assert.Equal(t, "hi-IN", u.LanguageTag)
}

func TestSpeakerRates(t *testing.T) {
	synth := newFakeSynth()
	speaker := NewSpeaker(synth, logger.NewLogger("error"))

	speaker.Speak("normal", "en-US")
	<-synth.started
	u := synth.lastUtterance()
	assert.Equal(t, 0.8, u.Rate)
	assert.Equal(t, 1.0, u.Pitch)
	speaker.Stop()

	// 紧急朗读语速更快、音调更高
	speaker.SpeakEmergency("urgent", "en-US")
	<-synth.started
	u = synth.lastUtterance()
	assert.Equal(t, 0.9, u.Rate)
	assert.Equal(t, 1.1, u.Pitch)
	speaker.Stop()
}

func TestSpeakerStop(t *testing.T) {
	synth := newFakeSynth()
	speaker := NewSpeaker(synth, logger.NewLogger("error"))

	speaker.Speak("speaking", "en-US")
	<-synth.started

	speaker.Stop()
	require.Eventually(t, func() bool {
		return len(synth.canceledTexts()) == 1
	}, time.Second, 10*time.Millisecond)

	// 没有播放中的语音时Stop是空操作
	speaker.Stop()
}

func TestSpeakerWithoutSynthesizer(t *testing.T) {
	speaker := NewSpeaker(nil, logger.NewLogger("error"))

	assert.False(t, speaker.Available())

	// 平台无语音合成能力时所有朗读请求都是空操作
	speaker.Speak("ignored", "en-US")
	speaker.SpeakEmergency("ignored", "en-US")
	speaker.Stop()
}
