package dashboard

import (
	"sync"
	"time"

	"kpidash/internal/model"
	"kpidash/internal/source"
)

// Session 单页仪表盘会话
// 持有当前配置快照和最近一次视图；每次交互替换快照并
// 立即重跑管道，定时器按刷新间隔重复同样的重跑。
// 新一轮运行的结果直接覆盖旧视图，没有跨运行的共享可变数据。
type Session struct {
	mu       sync.Mutex
	pipeline *Pipeline
	cfg      RunConfig
	view     *View

	stop chan struct{}
	wake chan struct{}
	once sync.Once
}

// NewSession 创建会话并启动刷新循环
func NewSession() *Session {
	s := &Session{
		pipeline: NewPipeline(),
		cfg:      RunConfig{}.Normalized(),
		stop:     make(chan struct{}),
		wake:     make(chan struct{}, 1),
	}
	s.view = s.pipeline.Run(s.cfg)
	go s.refreshLoop()
	return s
}

// Close 停止刷新循环
func (s *Session) Close() {
	s.once.Do(func() { close(s.stop) })
}

// SetSource 替换数据源并重跑管道
func (s *Session) SetSource(req source.Request) *View {
	s.mu.Lock()
	s.cfg.Source = req
	cfg := s.cfg
	s.mu.Unlock()
	return s.rerun(cfg)
}

// SetSelection 替换列选择/刷新间隔并重跑管道
// 数据源未变时不重新读源，聚合全部从已加载数据重算。
func (s *Session) SetSelection(sel model.ColumnSelection, refreshSeconds int) *View {
	s.mu.Lock()
	s.cfg.Selection = sel
	if refreshSeconds != 0 {
		s.cfg.RefreshSeconds = refreshSeconds
	}
	s.cfg = s.cfg.Normalized()
	cfg := s.cfg
	s.mu.Unlock()

	// 间隔可能变了，唤醒刷新循环重新计时
	select {
	case s.wake <- struct{}{}:
	default:
	}

	return s.rerun(cfg)
}

// View 最近一次管道运行的视图
func (s *Session) View() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Config 当前配置快照
func (s *Session) Config() RunConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Dataset 当前已加载的数据集（供报表生成）
func (s *Session) Dataset() *model.Dataset {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()
	return s.pipeline.Dataset(cfg)
}

func (s *Session) rerun(cfg RunConfig) *View {
	view := s.pipeline.Run(cfg)
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
	return view
}

// refreshLoop 定时触发整条管道重跑
// 每个周期独立：读取当前配置快照、运行、覆盖视图。
func (s *Session) refreshLoop() {
	for {
		s.mu.Lock()
		interval := time.Duration(s.cfg.RefreshSeconds) * time.Second
		s.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-s.stop:
			timer.Stop()
			return
		case <-s.wake:
			timer.Stop()
			continue
		case <-timer.C:
		}

		s.mu.Lock()
		cfg := s.cfg
		s.mu.Unlock()
		s.rerun(cfg)
	}
}
