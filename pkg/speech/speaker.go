package speech

import (
	"context"
	"sync"

	"sparksound/pkg/logger"
)

// Utterance 一次朗读请求
type Utterance struct {
	Text        string  `json:"text"`     // 朗读文本
	LanguageTag string  `json:"language"` // BCP47语言标签
	Rate        float64 `json:"rate"`     // 语速
	Pitch       float64 `json:"pitch"`    // 音调
}

// 普通与紧急指令使用不同的语速和音调
const (
	normalRate     = 0.8
	normalPitch    = 1.0
	emergencyRate  = 0.9
	emergencyPitch = 1.1
)

// NormalUtterance 构造普通朗读请求
func NormalUtterance(text, languageTag string) Utterance {
	return Utterance{Text: text, LanguageTag: languageTag, Rate: normalRate, Pitch: normalPitch}
}

// EmergencyUtterance 构造紧急朗读请求
func EmergencyUtterance(text, languageTag string) Utterance {
	return Utterance{Text: text, LanguageTag: languageTag, Rate: emergencyRate, Pitch: emergencyPitch}
}

// Synthesizer 平台语音合成能力
type Synthesizer interface {
	Speak(ctx context.Context, u Utterance) error
}

// Speaker 朗读器
// 同一时刻最多播放一条语音，新请求会取消正在播放的语音
type Speaker struct {
	synth  Synthesizer
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSpeaker 创建朗读器
// synth为nil表示平台没有语音合成能力，此时所有朗读请求都是空操作
func NewSpeaker(synth Synthesizer, logger *logger.Logger) *Speaker {
	return &Speaker{synth: synth, logger: logger}
}

// Available 语音合成能力是否可用
func (s *Speaker) Available() bool {
	return s.synth != nil
}

// Speak 朗读普通文本
func (s *Speaker) Speak(text, languageTag string) {
	s.speak(NormalUtterance(text, languageTag))
}

// SpeakEmergency 朗读紧急文本
func (s *Speaker) SpeakEmergency(text, languageTag string) {
	s.speak(EmergencyUtterance(text, languageTag))
}

// Stop 取消正在播放的语音
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// speak 取消当前语音后播放新语音，不等待播放结果
func (s *Speaker) speak(u Utterance) {
	if s.synth == nil {
		return
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()
		if err := s.synth.Speak(ctx, u); err != nil && ctx.Err() == nil {
			s.logger.Debug("语音播放失败", "error", err)
		}
	}()
}
