package xsink

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/omeyang/xlogboot/pkg/observability/xlog"
	"github.com/omeyang/xlogboot/pkg/observability/xrotate"
)

// Kind Sink 种类
type Kind int

// Sink 种类常量
const (
	KindConsole Kind = iota
	KindFile
	KindRotating
	KindSyslog
)

// String 返回种类名称
func (k Kind) String() string {
	switch k {
	case KindConsole:
		return "console"
	case KindFile:
		return "file"
	case KindRotating:
		return "rotating"
	case KindSyslog:
		return "syslog"
	default:
		return "unknown"
	}
}

// 编译时接口检查
var (
	_ xlog.Sink        = (*Handler)(nil)
	_ xlog.LevelSetter = (*Handler)(nil)
)

// output 一个 Sink 的底层输出，派生 Handler 共享
type output struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer // 为 nil 时 Close 不释放 w（如 os.Stderr）
	closed bool
}

func (o *output) write(p []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	_, err := o.w.Write(p)
	return err
}

func (o *output) close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}

// Handler 所有 Sink 的统一实现：级别下限 + 格式 + 输出
//
// 不同种类只在 formatter 与 writer 上不同。Handler 实现 [xlog.Sink] 与
// [xlog.LevelSetter]，WithAttrs/WithGroup 派生的 Handler 共享级别与输出。
type Handler struct {
	kind   Kind
	name   string
	level  *slog.LevelVar
	format formatter
	out    *output
	attrs  []byte // WithAttrs 预编码的 " key=value"
	prefix string // 分组前缀，如 "g1.g2."
	rot    xrotate.Rotator
}

func newHandler(kind Kind, name string, level xlog.Level, f formatter, w io.Writer, c io.Closer) *Handler {
	lv := &slog.LevelVar{}
	lv.Set(slog.Level(level))
	return &Handler{
		kind:   kind,
		name:   name,
		level:  lv,
		format: f,
		out:    &output{w: w, closer: c},
	}
}

// Kind 返回 Sink 种类
func (h *Handler) Kind() Kind { return h.kind }

// Name 返回 Sink 名称
func (h *Handler) Name() string { return h.name }

// Level 返回当前级别下限
func (h *Handler) Level() xlog.Level { return xlog.Level(h.level.Level()) }

// SetLevel 运行时调整级别下限
func (h *Handler) SetLevel(level xlog.Level) { h.level.Set(slog.Level(level)) }

// Rotator 返回轮转 Sink 底层的 Rotator，其他种类返回 nil
func (h *Handler) Rotator() xrotate.Rotator { return h.rot }

// Open 立即打开底层文件
//
// 文件 Sink 默认在第一次写入时才打开；需要在启动阶段暴露打开失败时调用。
// 其他种类为空操作。
func (h *Handler) Open() error {
	o, ok := h.out.w.(interface{ open() error })
	if !ok {
		return nil
	}
	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	if h.out.closed {
		return ErrClosed
	}
	return o.open()
}

// Enabled 实现 slog.Handler 接口
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle 实现 slog.Handler 接口：格式化后一次写出
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	buf := h.format.format(make([]byte, 0, 256), r, h.attrs, h.prefix)
	return h.out.write(buf)
}

// WithAttrs 实现 slog.Handler 接口
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := *h
	c.attrs = append([]byte(nil), h.attrs...)
	for _, a := range attrs {
		c.attrs = appendAttr(c.attrs, a, h.prefix)
	}
	return &c
}

// WithGroup 实现 slog.Handler 接口
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

// Close 释放底层资源，重复调用返回 nil
//
// 派生 Handler 共享输出，关闭任意一个即关闭全部。
func (h *Handler) Close() error {
	return h.out.close()
}
