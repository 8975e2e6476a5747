package xlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// memSink 记录到内存的测试 Sink
type memSink struct {
	name  string
	level Level
	err   error // Handle 返回的错误

	shared *memStore
	attrs  []slog.Attr
	groups []string
}

type memStore struct {
	mu      sync.Mutex
	lines   []string
	closed  int
	closeEr error
}

func newMemSink(name string, level Level) *memSink {
	return &memSink{name: name, level: level, shared: &memStore{}}
}

func (s *memSink) Name() string { return s.name }
func (s *memSink) Level() Level { return s.level }

func (s *memSink) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.Level(s.level)
}

func (s *memSink) Handle(_ context.Context, r slog.Record) error {
	if s.err != nil {
		return s.err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", Level(r.Level), r.Message)
	for _, a := range s.attrs {
		fmt.Fprintf(&b, " %s=%s", a.Key, a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Equal(slog.Attr{}) {
			return true
		}
		fmt.Fprintf(&b, " %s=%s", s.key(a.Key), a.Value.String())
		return true
	})

	s.shared.mu.Lock()
	s.shared.lines = append(s.shared.lines, b.String())
	s.shared.mu.Unlock()
	return nil
}

func (s *memSink) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *s
	c.attrs = append([]slog.Attr(nil), s.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, slog.Attr{Key: s.key(a.Key), Value: a.Value})
	}
	return &c
}

// key 按当前分组加前缀
func (s *memSink) key(k string) string {
	if len(s.groups) == 0 {
		return k
	}
	return strings.Join(s.groups, ".") + "." + k
}

func (s *memSink) WithGroup(name string) slog.Handler {
	c := *s
	c.groups = append(append([]string(nil), s.groups...), name)
	return &c
}

func (s *memSink) Close() error {
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	s.shared.closed++
	return s.shared.closeEr
}

func (s *memSink) Lines() []string {
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	return append([]string(nil), s.shared.lines...)
}

func (s *memSink) Closed() int {
	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()
	return s.shared.closed
}

var errSinkBroken = errors.New("sink broken")
