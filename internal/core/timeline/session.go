package timeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ixugo/goddd/pkg/conc"
	"github.com/ixugo/goddd/pkg/reason"
	"github.com/rainlabel/rainlabel/internal/core/annotation"
)

// DocumentProvider 标注文档提供者，由 annotation.Core 实现
type DocumentProvider interface {
	GetDocument(ctx context.Context, videoName string) (*annotation.Document, error)
}

const fetchTimeout = 30 * time.Second

// Session 一次观看会话，对应一个选定的视频
// 文档异步获取；获取期间求值器基于空文档工作，
// 获取失败降级为空文档并置错误标记，不影响时间更新处理
type Session struct {
	ID        string
	VideoName string

	mu       sync.Mutex
	clock    *Clock
	seek     SeekController
	resolver *Resolver
	active   *ActiveSet

	// gen 获取代数，切换或重试时自增，过期响应据此丢弃
	gen      int
	fetching bool
	loaded   bool
	errMsg   string

	provider DocumentProvider
	log      *slog.Logger
}

func newSession(provider DocumentProvider, videoName string, log *slog.Logger) *Session {
	s := Session{
		ID:        uuid.NewString(),
		VideoName: videoName,
		clock:     NewClock(),
		resolver:  NewResolver(NewIndex(nil)),
		provider:  provider,
		log:       log.With("session", videoName),
	}
	s.seek = NewSeekController(s.clock)
	// 求值由时间源通知驱动，跳转控制器从不直接调用求值器
	s.clock.OnUpdate(func(t float64) {
		s.active = s.resolver.Resolve(t, s.clock.Duration())
	})
	s.active = s.resolver.Resolve(0, 0)

	s.mu.Lock()
	s.startFetchLocked()
	s.mu.Unlock()
	return &s
}

// startFetchLocked 发起异步获取，调用方需持有锁
func (s *Session) startFetchLocked() {
	s.gen++
	s.fetching = true
	s.errMsg = ""
	gen := s.gen

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		doc, err := s.provider.GetDocument(ctx, s.VideoName)
		s.apply(gen, doc, err)
	}()
}

// apply 应用获取结果，仅接受最新代数，过期响应直接丢弃
func (s *Session) apply(gen int, doc *annotation.Document, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.log.Debug("丢弃过期的元数据响应", "gen", gen, "current", s.gen)
		return
	}
	s.fetching = false
	if err != nil {
		s.log.Warn("获取元数据失败，降级为空标注", "err", err)
		s.loaded = false
		s.errMsg = err.Error()
		doc = nil
	} else {
		s.loaded = true
	}

	s.resolver = NewResolver(NewIndex(doc))
	s.active = s.resolver.Resolve(s.clock.Current(), s.clock.Duration())
}

// Retry 用户主动重试，重新走完整的获取与重建流程
func (s *Session) Retry() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startFetchLocked()
}

// UpdateTime 播放时间推进，返回该时刻的活跃集
func (s *Session) UpdateTime(t, duration float64) *ActiveSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock.SetDuration(duration)
	s.clock.Set(t)
	return s.active
}

// SeekSegment 标签区间点击跳转，返回实际落点与通知后产生的活跃集
func (s *Session) SeekSegment(seg annotation.Segment) (float64, *ActiveSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.seek.SeekToSegment(seg)
	return t, s.active
}

// SeekTimeline 时间轴点击跳转
func (s *Session) SeekTimeline(x, w float64) (float64, *ActiveSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.seek.SeekTimeline(x, w)
	return t, s.active
}

// View 会话状态快照
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionView{
		ID:        s.ID,
		VideoName: s.VideoName,
		Fetching:  s.fetching,
		Loaded:    s.loaded,
		Error:     s.errMsg,
		Active:    s.active,
	}
}

// Core business domain
type Core struct {
	provider DocumentProvider
	sessions *conc.Map[string, *Session]
	log      *slog.Logger
}

// NewCore create business domain
func NewCore(provider DocumentProvider, log *slog.Logger) Core {
	return Core{
		provider: provider,
		sessions: conc.NewMap[string, *Session](),
		log:      log.With("core", "timeline"),
	}
}

// CreateSession 新建观看会话并立即发起文档获取
func (c Core) CreateSession(videoName string) (*Session, error) {
	if videoName == "" {
		return nil, reason.ErrBadRequest.Withf("video_name is required")
	}
	s := newSession(c.provider, videoName, c.log)
	c.sessions.Store(s.ID, s)
	return s, nil
}

// GetSession 查询会话
func (c Core) GetSession(id string) (*Session, error) {
	s, ok := c.sessions.Load(id)
	if !ok {
		return nil, reason.ErrNotFound.Withf("session[%s] not found", id)
	}
	return s, nil
}

// CloseSession 结束会话并丢弃其文档
func (c Core) CloseSession(id string) {
	c.sessions.Delete(id)
}
