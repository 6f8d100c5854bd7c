package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"sparksound/internal/model"
	"sparksound/pkg/lang"
	"sparksound/pkg/logger"
	"sparksound/pkg/translate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTranslator 用目标语言标签标记译文，便于断言
type fakeTranslator struct{}

func (fakeTranslator) Translate(_ context.Context, text, sourceLang, targetLang string) translate.Result {
	if text == "" || lang.Same(sourceLang, targetLang) {
		return translate.Result{Text: text, Original: text, Status: translate.StatusUnchanged}
	}
	return translate.Result{
		Text:     "[" + targetLang + "] " + text,
		Original: text,
		Status:   translate.StatusTranslated,
	}
}

func (f fakeTranslator) TranslateAll(ctx context.Context, texts []string, sourceLang, targetLang string) []translate.Result {
	results := make([]translate.Result, len(texts))
	for i, text := range texts {
		results[i] = f.Translate(ctx, text, sourceLang, targetLang)
	}
	return results
}

// fakeStore 内存指令存储
type fakeStore struct {
	mu           sync.Mutex
	instructions []model.Instruction
}

func (s *fakeStore) ListForViewer(_ context.Context, userID int64, limit int, includeHandled bool) ([]model.Instruction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Instruction
	for i := len(s.instructions) - 1; i >= 0; i-- {
		inst := s.instructions[i]
		if !inst.VisibleTo(userID) {
			continue
		}
		if !includeHandled && inst.Status != model.InstructionStatusPending {
			continue
		}
		out = append(out, inst)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// fakeSource 手动投递的变更通知通道
type fakeSource struct {
	ch      chan model.Instruction
	mu      sync.Mutex
	stopped bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan model.Instruction, 16)}
}

func (s *fakeSource) Subscribe(context.Context) (<-chan model.Instruction, func(), error) {
	return s.ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.stopped = true
	}, nil
}

func (s *fakeSource) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func makeInstruction(id string, target *int64, text string, createdAt time.Time) model.Instruction {
	return model.Instruction{
		ID:               id,
		AdminID:          1,
		TargetUserID:     target,
		OriginalText:     text,
		OriginalLanguage: "en-US",
		Status:           model.InstructionStatusPending,
		CreatedAt:        createdAt,
	}
}

func newTestSession(t *testing.T, store *fakeStore, source *fakeSource, limit int) *Session {
	t.Helper()
	session := NewSession(Options{
		ViewerID: 7,
		Language: "hi-IN",
		Limit:    limit,
	}, fakeTranslator{}, store, source, logger.NewLogger("error"))
	session.Start(context.Background())
	t.Cleanup(session.Close)
	return session
}

func TestSessionLoadInitial(t *testing.T) {
	base := time.Now()
	store := &fakeStore{instructions: []model.Instruction{
		makeInstruction("a", nil, "First", base.Add(-2*time.Minute)),
		makeInstruction("b", nil, "Second", base.Add(-time.Minute)),
		makeInstruction("c", nil, "Third", base),
	}}
	session := newTestSession(t, store, newFakeSource(), 20)

	require.NoError(t, session.LoadInitial(context.Background()))

	entries := session.Entries()
	require.Len(t, entries, 3)

	// 按创建时间降序，全部已翻译为会话语言
	assert.Equal(t, "c", entries[0].Instruction.ID)
	assert.Equal(t, "a", entries[2].Instruction.ID)
	assert.Equal(t, "[hi-IN] Third", entries[0].Translation.Text)
	assert.Equal(t, "Third", entries[0].Translation.Original)
}

func TestSessionInsertAndEviction(t *testing.T) {
	base := time.Now()
	store := &fakeStore{instructions: []model.Instruction{
		makeInstruction("a", nil, "One", base.Add(-3*time.Minute)),
		makeInstruction("b", nil, "Two", base.Add(-2*time.Minute)),
		makeInstruction("c", nil, "Three", base.Add(-time.Minute)),
	}}
	source := newFakeSource()
	session := newTestSession(t, store, source, 3)
	require.NoError(t, session.LoadInitial(context.Background()))

	// 上限已满时到达两条新指令
	source.ch <- makeInstruction("d", nil, "Four", base)
	source.ch <- makeInstruction("e", nil, "Five", base.Add(time.Minute))

	require.Eventually(t, func() bool {
		entries := session.Entries()
		return len(entries) == 3 && entries[0].Instruction.ID == "e"
	}, time.Second, 10*time.Millisecond)

	// 淘汰最旧的条目，保留最新的N条
	entries := session.Entries()
	assert.Equal(t, "e", entries[0].Instruction.ID)
	assert.Equal(t, "d", entries[1].Instruction.ID)
	assert.Equal(t, "c", entries[2].Instruction.ID)
}

func TestSessionDuplicateDelivery(t *testing.T) {
	store := &fakeStore{}
	source := newFakeSource()
	session := newTestSession(t, store, source, 20)
	require.NoError(t, session.LoadInitial(context.Background()))

	inst := makeInstruction("dup", nil, "Hello", time.Now())
	source.ch <- inst
	source.ch <- inst
	source.ch <- inst

	require.Eventually(t, func() bool {
		return len(session.Entries()) > 0
	}, time.Second, 10*time.Millisecond)

	// 同一指令重复投递不产生重复条目
	time.Sleep(50 * time.Millisecond)
	entries := session.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "dup", entries[0].Instruction.ID)
}

func TestSessionIgnoresOtherViewerInstruction(t *testing.T) {
	store := &fakeStore{}
	source := newFakeSource()
	session := newTestSession(t, store, source, 20)
	require.NoError(t, session.LoadInitial(context.Background()))

	other := int64(99)
	mine := int64(7)
	source.ch <- makeInstruction("other", &other, "Not for you", time.Now())
	source.ch <- makeInstruction("mine", &mine, "For you", time.Now())

	require.Eventually(t, func() bool {
		return len(session.Entries()) == 1
	}, time.Second, 10*time.Millisecond)

	// 发给其他用户的定向指令被过滤，广播和发给自己的保留
	entries := session.Entries()
	assert.Equal(t, "mine", entries[0].Instruction.ID)
}

func TestSessionSetLanguage(t *testing.T) {
	store := &fakeStore{instructions: []model.Instruction{
		makeInstruction("a", nil, "Hello", time.Now()),
	}}
	session := newTestSession(t, store, newFakeSource(), 20)
	require.NoError(t, session.LoadInitial(context.Background()))

	require.NoError(t, session.SetLanguage(context.Background(), "ta-IN"))
	assert.Equal(t, "ta-IN", session.Language())

	entries := session.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "[ta-IN] Hello", entries[0].Translation.Text)

	// 重复切换到同一语言是幂等的
	require.NoError(t, session.SetLanguage(context.Background(), "ta-IN"))
	entries = session.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "[ta-IN] Hello", entries[0].Translation.Text)
}

func TestSessionListen(t *testing.T) {
	store := &fakeStore{}
	source := newFakeSource()
	session := newTestSession(t, store, source, 20)
	require.NoError(t, session.LoadInitial(context.Background()))

	ch, unlisten := session.Listen()
	defer unlisten()

	source.ch <- makeInstruction("live", nil, "Breaking", time.Now())

	select {
	case entry := <-ch:
		assert.Equal(t, "live", entry.Instruction.ID)
		assert.Equal(t, "[hi-IN] Breaking", entry.Translation.Text)
	case <-time.After(time.Second):
		t.Fatal("未收到实时推送")
	}
}

func TestSessionClose(t *testing.T) {
	store := &fakeStore{}
	source := newFakeSource()
	session := newTestSession(t, store, source, 20)
	require.NoError(t, session.LoadInitial(context.Background()))

	ch, _ := session.Listen()

	session.Close()
	session.Close() // 重复关闭安全

	assert.True(t, source.isStopped())

	// 监听通道已关闭
	_, ok := <-ch
	assert.False(t, ok)

	// 关闭后的操作不再生效
	assert.ErrorIs(t, session.SetLanguage(context.Background(), "te-IN"), ErrSessionClosed)
	source.ch <- makeInstruction("late", nil, "Too late", time.Now())
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, session.Entries())
}

func TestManagerSharesSession(t *testing.T) {
	store := &fakeStore{instructions: []model.Instruction{
		makeInstruction("a", nil, "Hello", time.Now()),
	}}
	manager := NewManager(fakeTranslator{}, store, newFakeSource(), 20, false, logger.NewLogger("error"))

	user := &model.User{ID: 7, PreferredLanguage: "hi-IN"}
	s1, release1, err := manager.Acquire(context.Background(), user)
	require.NoError(t, err)
	s2, release2, err := manager.Acquire(context.Background(), user)
	require.NoError(t, err)

	// 同一用户的多个连接共享同一个会话
	assert.Same(t, s1, s2)

	// 先释放一个引用，会话仍然存活
	release1()
	require.NoError(t, s2.SetLanguage(context.Background(), "te-IN"))

	// 引用计数归零后会话关闭
	release2()
	release2() // 释放函数幂等
	assert.ErrorIs(t, s1.SetLanguage(context.Background(), "ta-IN"), ErrSessionClosed)
}

func TestManagerSetLanguageWithoutSession(t *testing.T) {
	manager := NewManager(fakeTranslator{}, &fakeStore{}, newFakeSource(), 20, false, logger.NewLogger("error"))

	// 没有活跃会话时静默成功，语言在下次获取时生效
	assert.NoError(t, manager.SetLanguage(context.Background(), 42, "ta-IN"))
}

func TestSourceLanguageOf(t *testing.T) {
	assert.Equal(t, "en-US", sourceLanguageOf(nil))

	insts := []model.Instruction{makeInstruction("a", nil, "x", time.Now())}
	insts[0].OriginalLanguage = "hi-IN"
	assert.Equal(t, "hi-IN", sourceLanguageOf(insts))
}

func TestSessionEntriesCopy(t *testing.T) {
	store := &fakeStore{instructions: []model.Instruction{
		makeInstruction("a", nil, "Hello", time.Now()),
	}}
	session := newTestSession(t, store, newFakeSource(), 20)
	require.NoError(t, session.LoadInitial(context.Background()))

	entries := session.Entries()
	entries[0].Translation.Text = "tampered"

	// 返回副本，外部修改不影响会话状态
	assert.Equal(t, "[hi-IN] Hello", session.Entries()[0].Translation.Text)
}

func TestFakeStoreOrdering(t *testing.T) {
	// 确认测试用存储本身返回降序，避免测试互相掩盖
	base := time.Now()
	store := &fakeStore{}
	for i := 0; i < 5; i++ {
		store.instructions = append(store.instructions,
			makeInstruction(fmt.Sprintf("i%d", i), nil, "x", base.Add(time.Duration(i)*time.Second)))
	}

	out, err := store.ListForViewer(context.Background(), 7, 3, false)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "i4", out[0].ID)
	assert.Equal(t, "i2", out[2].ID)
}
