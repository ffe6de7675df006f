// Package clicks 异步记录点击: 投递不等待, 失败只记日志.
// 点击数是统计数据, 丢失可以接受, 拖慢跳转不可以
package clicks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"linkwrap-platform/internal/model"

	"go.uber.org/zap"
)

// Sink 点击数据的落地方, 通常是 store.LinkStore
type Sink interface {
	IncrementClickCount(ctx context.Context, shortID string) error
	RecordClick(ctx context.Context, record *model.ClickRecord) error
}

// Event 一次成功解析
type Event struct {
	ShortID     string
	Route       string
	IsBot       bool
	BotCategory string
	UserAgent   string
	Referer     string
	At          time.Time
}

// Config 队列参数
type Config struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Tracker 固定数量 worker 消费有界队列
type Tracker struct {
	sink    Sink
	cfg     Config
	logger  *zap.SugaredLogger
	queue   chan Event
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool

	dropped   atomic.Int64
	processed atomic.Int64
	// OnDrop 队列满或已停止时回调, 用于指标
	OnDrop func()
}

// NewTracker 创建 Tracker, 需要调用 Start
func NewTracker(sink Sink, cfg Config, logger *zap.SugaredLogger) *Tracker {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &Tracker{
		sink:   sink,
		cfg:    cfg,
		logger: logger.Named("clicks"),
		queue:  make(chan Event, cfg.QueueSize),
	}
}

// Start 启动 worker
func (t *Tracker) Start() {
	for i := 0; i < t.cfg.Workers; i++ {
		t.wg.Add(1)
		go t.worker()
	}
	t.logger.Infof("点击统计已启动, worker=%d queue=%d", t.cfg.Workers, t.cfg.QueueSize)
}

// Dispatch 投递点击事件, 永不阻塞调用方
func (t *Tracker) Dispatch(ev Event) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.stopped {
		t.drop()
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	select {
	case t.queue <- ev:
	default:
		t.drop()
	}
}

// Stop 停止接收新事件, 处理完队列中剩余事件后返回
func (t *Tracker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	close(t.queue)
	t.mu.Unlock()

	t.wg.Wait()
	t.logger.Infof("点击统计已停止, 已处理 %d, 丢弃 %d", t.processed.Load(), t.dropped.Load())
}

// Dropped 被丢弃的事件数
func (t *Tracker) Dropped() int64 { return t.dropped.Load() }

// Processed 已处理的事件数
func (t *Tracker) Processed() int64 { return t.processed.Load() }

func (t *Tracker) drop() {
	t.dropped.Add(1)
	if t.OnDrop != nil {
		t.OnDrop()
	}
}

func (t *Tracker) worker() {
	defer t.wg.Done()
	for ev := range t.queue {
		t.handle(ev)
	}
}

func (t *Tracker) handle(ev Event) {
	defer func() {
		if err := recover(); err != nil {
			t.logger.Errorf("处理点击事件 panic %s: %v", ev.ShortID, err)
		}
		t.processed.Add(1)
	}()

	// 与请求上下文无关, 请求结束后仍需完成
	ctx, cancel := context.WithTimeout(context.Background(), t.cfg.Timeout)
	defer cancel()

	if err := t.sink.IncrementClickCount(ctx, ev.ShortID); err != nil {
		t.logger.Warnf("更新点击数失败 %s: %v", ev.ShortID, err)
	}
	record := &model.ClickRecord{
		ShortID:     ev.ShortID,
		Route:       ev.Route,
		IsBot:       ev.IsBot,
		BotCategory: ev.BotCategory,
		UserAgent:   ev.UserAgent,
		Referer:     ev.Referer,
		CreatedAt:   ev.At,
	}
	if err := t.sink.RecordClick(ctx, record); err != nil {
		t.logger.Warnf("写入点击记录失败 %s: %v", ev.ShortID, err)
	}
}
