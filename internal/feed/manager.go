package feed

import (
	"context"
	"sync"

	"sparksound/internal/model"
	"sparksound/pkg/logger"
)

// Manager 会话管理器
// 同一用户的多个连接共享同一个会话，引用计数归零时关闭会话
type Manager struct {
	translator     Translator
	store          Store
	source         Source
	logger         *logger.Logger
	limit          int
	includeHandled bool

	mu       sync.Mutex
	sessions map[int64]*managedSession
}

type managedSession struct {
	session *Session
	refs    int
}

// NewManager 创建会话管理器
func NewManager(translator Translator, store Store, source Source, limit int, includeHandled bool, logger *logger.Logger) *Manager {
	return &Manager{
		translator:     translator,
		store:          store,
		source:         source,
		logger:         logger,
		limit:          limit,
		includeHandled: includeHandled,
		sessions:       make(map[int64]*managedSession),
	}
}

// Acquire 获取用户的共享会话，首个获取者触发订阅和初始加载
// 返回的释放函数必须在连接结束时调用
func (m *Manager) Acquire(ctx context.Context, viewer *model.User) (*Session, func(), error) {
	m.mu.Lock()
	ms, ok := m.sessions[viewer.ID]
	if ok {
		ms.refs++
		m.mu.Unlock()
		return ms.session, m.releaseFunc(viewer.ID), nil
	}

	session := NewSession(Options{
		ViewerID:       viewer.ID,
		Language:       viewer.PreferredLanguage,
		Limit:          m.limit,
		IncludeHandled: m.includeHandled,
	}, m.translator, m.store, m.source, m.logger)
	m.sessions[viewer.ID] = &managedSession{session: session, refs: 1}
	m.mu.Unlock()

	session.Start(context.Background())
	if err := session.LoadInitial(ctx); err != nil {
		// 初始加载失败时仍返回会话：展示端呈现空状态，实时更新不受影响
		m.logger.Error("指令初始加载失败", "viewer_id", viewer.ID, "error", err)
	}

	return session, m.releaseFunc(viewer.ID), nil
}

// SetLanguage 更新用户会话的首选语言（若存在活跃会话）
func (m *Manager) SetLanguage(ctx context.Context, viewerID int64, languageTag string) error {
	m.mu.Lock()
	ms, ok := m.sessions[viewerID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return ms.session.SetLanguage(ctx, languageTag)
}

// releaseFunc 构造幂等的释放函数
func (m *Manager) releaseFunc(viewerID int64) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			ms, ok := m.sessions[viewerID]
			if !ok {
				m.mu.Unlock()
				return
			}
			ms.refs--
			if ms.refs > 0 {
				m.mu.Unlock()
				return
			}
			delete(m.sessions, viewerID)
			m.mu.Unlock()

			ms.session.Close()
		})
	}
}
