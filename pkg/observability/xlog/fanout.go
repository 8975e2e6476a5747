package xlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// sinkSet Channel 持有的 Sink 集合，挂载/卸载与分发并发安全
type sinkSet struct {
	mu     sync.RWMutex
	sinks  []Sink
	closed bool // drain 之后不再接受新 Sink
}

func (s *sinkSet) snapshot() []Sink {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sinks)
}

// add 在同一把锁内检查关闭状态与名称唯一性后追加
func (s *sinkSet) add(sink Sink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrChannelClosed
	}
	name := sink.Name()
	for _, existing := range s.sinks {
		if existing.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateSink, name)
		}
	}
	s.sinks = append(s.sinks, sink)
	return nil
}

func (s *sinkSet) remove(name string) Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sink := range s.sinks {
		if sink.Name() == name {
			s.sinks = slices.Delete(s.sinks, i, i+1)
			return sink
		}
	}
	return nil
}

func (s *sinkSet) drain() []Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	sinks := s.sinks
	s.sinks = nil
	s.closed = true
	return sinks
}

// handlerStep 派生 handler 时累积的 WithGroup / WithAttrs 操作
type handlerStep struct {
	group string
	attrs []slog.Attr
}

// fanoutHandler 把一条记录分发给所有级别满足的 Sink
//
// Channel 级别先过滤（levelVar），再由各 Sink 按自己的级别下限过滤。
// Sink 集合在 Channel 创建后仍可挂载新成员，因此派生 handler 不缓存
// Sink 的 WithAttrs 结果，而是在 Handle 时按 steps 重放。
type fanoutHandler struct {
	set      *sinkSet
	levelVar *slog.LevelVar
	steps    []handlerStep
}

var _ slog.Handler = (*fanoutHandler)(nil)

// Enabled 实现 slog.Handler 接口
func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.levelVar.Level() {
		return false
	}
	for _, sink := range h.set.snapshot() {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle 实现 slog.Handler 接口
//
// 单个 Sink 失败不影响其余 Sink，所有失败合并后返回。
func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, sink := range h.set.snapshot() {
		if !sink.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.derive(sink).Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, fmt.Errorf("xlog: sink %s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) derive(sink Sink) slog.Handler {
	var out slog.Handler = sink
	for _, st := range h.steps {
		if st.group != "" {
			out = out.WithGroup(st.group)
		} else {
			out = out.WithAttrs(st.attrs)
		}
	}
	return out
}

// WithAttrs 实现 slog.Handler 接口
func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return h.with(handlerStep{attrs: slices.Clone(attrs)})
}

// WithGroup 实现 slog.Handler 接口
func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.with(handlerStep{group: name})
}

func (h *fanoutHandler) with(st handlerStep) *fanoutHandler {
	steps := make([]handlerStep, 0, len(h.steps)+1)
	steps = append(steps, h.steps...)
	return &fanoutHandler{
		set:      h.set,
		levelVar: h.levelVar,
		steps:    append(steps, st),
	}
}
