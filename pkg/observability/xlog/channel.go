package xlog

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	// ErrNilSink Attach 传入 nil Sink
	ErrNilSink = errors.New("xlog: sink is nil")

	// ErrDuplicateSink 同一 Channel 内已存在同名 Sink
	ErrDuplicateSink = errors.New("xlog: duplicate sink name")

	// ErrChannelClosed Channel 已关闭
	ErrChannelClosed = errors.New("xlog: channel closed")
)

// 编译时接口检查
var _ LoggerWithLevel = (*Channel)(nil)

// Channel 具名日志通道
//
// 一个 Channel 对应一个程序名：记录先经过 Channel 自身的级别下限过滤，
// 再分发给每个级别满足的 Sink。Channel 通过 [Registry.Channel] 获取，
// 同名多次获取返回同一实例。
//
// 并发安全：Sink 的挂载/卸载与日志写入可以并发进行。
type Channel struct {
	*xlogger

	name   string
	runID  string
	set    *sinkSet
	closed atomic.Bool

	mu       sync.RWMutex
	filename string
}

func newChannel(name string, o *channelOptions) *Channel {
	set := &sinkSet{}
	levelVar := &slog.LevelVar{}
	levelVar.Set(slog.Level(o.level))

	return &Channel{
		xlogger: &xlogger{
			handler:        &EnrichHandler{base: &fanoutHandler{set: set, levelVar: levelVar}},
			levelVar:       levelVar,
			onError:        o.onError,
			errorCount:     &atomic.Uint64{},
			inErrorHandler: &atomic.Bool{},
		},
		name:  name,
		runID: uuid.NewString(),
		set:   set,
	}
}

// Name 返回通道名称（程序名）
func (c *Channel) Name() string { return c.name }

// RunID 返回通道创建时生成的运行标识（UUID）
func (c *Channel) RunID() string { return c.runID }

// Attach 挂载 Sink
//
// Sink 名称在同一 Channel 内必须唯一；Close 之后返回 [ErrChannelClosed]。
func (c *Channel) Attach(sink Sink) error {
	if sink == nil {
		return ErrNilSink
	}
	return c.set.add(sink)
}

// Detach 卸载并返回指定名称的 Sink，不关闭它；不存在时返回 nil
func (c *Channel) Detach(name string) Sink {
	return c.set.remove(name)
}

// Sinks 返回当前挂载的 Sink 快照（按挂载顺序）
func (c *Channel) Sinks() []Sink {
	return c.set.snapshot()
}

// Sink 按名称查找已挂载的 Sink，不存在时返回 nil
func (c *Channel) Sink(name string) Sink {
	for _, s := range c.set.snapshot() {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Filename 返回本次会话日志文件路径；未设置时为空串
func (c *Channel) Filename() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filename
}

// SetFilename 记录本次会话日志文件路径
func (c *Channel) SetFilename(path string) {
	c.mu.Lock()
	c.filename = path
	c.mu.Unlock()
}

// Close 卸载并关闭所有 Sink
//
// 重复调用返回 nil。各 Sink 的关闭错误合并后返回。
func (c *Channel) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return closeSinks(c.set.drain())
}

func closeSinks(sinks []Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("xlog: close sink %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
