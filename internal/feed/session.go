package feed

import (
	"context"
	"errors"
	"sync"

	"sparksound/internal/model"
	"sparksound/pkg/logger"
)

// ErrSessionClosed 会话已关闭
var ErrSessionClosed = errors.New("会话已关闭")

// Options 会话配置
type Options struct {
	ViewerID       int64  // 会话所属用户
	Language       string // 用户当前首选语言
	Limit          int    // 列表上限，超出时淘汰最旧的条目
	IncludeHandled bool   // 已接受/已拒绝的指令是否保留在列表中
}

// Session 指令订阅会话
// 为一个用户维护一份有界、按创建时间降序、已翻译的指令列表
// 同一用户的所有展示端共享同一个会话（见Manager），避免重复订阅和重复翻译
type Session struct {
	viewerID       int64
	limit          int
	includeHandled bool

	translator Translator
	store      Store
	source     Source
	logger     *logger.Logger

	mu          sync.RWMutex
	language    string
	langVersion uint64
	entries     []Entry
	seen        map[string]int // 指令ID到entries下标，用于幂等插入
	listeners   map[int]chan Entry
	nextListen  int
	closed      bool
	stopSource  func()
}

// NewSession 创建会话
func NewSession(opts Options, translator Translator, store Store, source Source, logger *logger.Logger) *Session {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	return &Session{
		viewerID:       opts.ViewerID,
		limit:          limit,
		includeHandled: opts.IncludeHandled,
		translator:     translator,
		store:          store,
		source:         source,
		logger:         logger,
		language:       opts.Language,
		seen:           make(map[string]int),
		listeners:      make(map[int]chan Entry),
	}
}

// Start 订阅变更通知并开始监听
// 订阅失败只降级为无实时更新，不影响初始加载
func (s *Session) Start(ctx context.Context) {
	ch, stop, err := s.source.Subscribe(ctx)
	if err != nil {
		s.logger.Warn("订阅指令变更通知失败，实时更新不可用", "viewer_id", s.viewerID, "error", err)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		stop()
		return
	}
	s.stopSource = stop
	s.mu.Unlock()

	go s.run(ctx, ch)
}

// LoadInitial 加载最近的指令并翻译
// 加载失败时保持列表为空，由展示端呈现"无法加载"状态
func (s *Session) LoadInitial(ctx context.Context) error {
	language, version := s.snapshot()

	instructions, err := s.store.ListForViewer(ctx, s.viewerID, s.limit, s.includeHandled)
	if err != nil {
		return err
	}

	texts := make([]string, len(instructions))
	for i, inst := range instructions {
		texts[i] = inst.OriginalText
	}

	results := s.translator.TranslateAll(ctx, texts, sourceLanguageOf(instructions), language)

	entries := make([]Entry, len(instructions))
	for i, inst := range instructions {
		entries[i] = Entry{Instruction: inst, Translation: results[i]}
	}

	s.install(entries, version)
	return nil
}

// SetLanguage 切换首选语言
// 递增语言版本使所有在途翻译失效，然后重新拉取并整体重译
// 重复切换到同一语言是幂等的
func (s *Session) SetLanguage(ctx context.Context, languageTag string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.language = languageTag
	s.langVersion++
	s.mu.Unlock()

	return s.LoadInitial(ctx)
}

// Language 当前首选语言
func (s *Session) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// Entries 当前列表的副本，按创建时间降序
func (s *Session) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Listen 注册实时推送监听，返回只读通道和注销函数
func (s *Session) Listen() (<-chan Entry, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Entry, 16)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextListen
	s.nextListen++
	s.listeners[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if l, ok := s.listeners[id]; ok {
			delete(s.listeners, id)
			close(l)
		}
	}
}

// Close 关闭会话并取消订阅，可安全地重复调用
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stop := s.stopSource
	s.stopSource = nil
	for id, ch := range s.listeners {
		delete(s.listeners, id)
		close(ch)
	}
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// run 变更通知处理循环
func (s *Session) run(ctx context.Context, ch <-chan model.Instruction) {
	for {
		select {
		case <-ctx.Done():
			return
		case inst, ok := <-ch:
			if !ok {
				return
			}
			s.handleInsert(ctx, inst)
		}
	}
}

// handleInsert 处理一条新指令
// 必须应用与LoadInitial相同的可见性过滤：发给其他用户的定向指令直接忽略
func (s *Session) handleInsert(ctx context.Context, inst model.Instruction) {
	if !inst.VisibleTo(s.viewerID) {
		return
	}

	language, version := s.snapshot()
	result := s.translator.Translate(ctx, inst.OriginalText, inst.OriginalLanguage, language)

	s.upsert(Entry{Instruction: inst, Translation: result}, version)
}

// snapshot 读取当前语言及其版本号
func (s *Session) snapshot() (string, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language, s.langVersion
}

// install 整体替换列表
// 版本号不匹配说明期间发生了语言切换，丢弃过期结果（last-write-wins）
func (s *Session) install(entries []Entry, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || version != s.langVersion {
		return
	}

	s.entries = entries
	s.seen = make(map[string]int, len(entries))
	for i, e := range entries {
		s.seen[e.Instruction.ID] = i
	}
}

// upsert 按指令ID幂等插入
// 重复投递只更新译文，不产生重复条目；新条目按创建时间降序插入后截断到上限
func (s *Session) upsert(entry Entry, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || version != s.langVersion {
		return
	}

	if idx, ok := s.seen[entry.Instruction.ID]; ok {
		s.entries[idx] = entry
		return
	}

	// 按created_at降序找到插入位置
	pos := len(s.entries)
	for i, e := range s.entries {
		if entry.Instruction.CreatedAt.After(e.Instruction.CreatedAt) {
			pos = i
			break
		}
	}
	s.entries = append(s.entries, Entry{})
	copy(s.entries[pos+1:], s.entries[pos:])
	s.entries[pos] = entry

	// 超出上限时淘汰最旧的条目
	if len(s.entries) > s.limit {
		s.entries = s.entries[:s.limit]
	}

	s.seen = make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		s.seen[e.Instruction.ID] = i
	}

	// 只有真正进入列表的条目才推送给监听者
	if _, ok := s.seen[entry.Instruction.ID]; ok {
		for _, ch := range s.listeners {
			select {
			case ch <- entry:
			default: // 监听者来不及消费时丢弃，不阻塞处理循环
			}
		}
	}
}

// sourceLanguageOf 批量翻译时的源语言
// 同一批指令共享撰写语言，取第一条的标签，空批次回退为默认语言
func sourceLanguageOf(instructions []model.Instruction) string {
	if len(instructions) > 0 && instructions[0].OriginalLanguage != "" {
		return instructions[0].OriginalLanguage
	}
	return "en-US"
}
