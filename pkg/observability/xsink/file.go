package xsink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omeyang/xlogboot/pkg/observability/xlog"
	"github.com/omeyang/xlogboot/pkg/observability/xrotate"
	"github.com/omeyang/xlogboot/pkg/util/xfile"
)

// lazyFile 第一次写入时才以追加模式打开的文件
//
// 并发由 output.mu 保护。
type lazyFile struct {
	path string
	mode os.FileMode
	f    *os.File
}

func (l *lazyFile) open() error {
	if l.f != nil {
		return nil
	}
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, l.mode)
	if err != nil {
		return fmt.Errorf("xsink: open %s: %w", l.path, err)
	}
	l.f = f
	return nil
}

func (l *lazyFile) Write(p []byte) (int, error) {
	if err := l.open(); err != nil {
		return 0, err
	}
	return l.f.Write(p)
}

func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// NewFile 创建追加写入的文件 Sink，默认名称为文件名
//
// 文件在第一次写入时才创建，因此级别较高的 Sink（如 error.log）在没有
// 对应记录时不会留下空文件。需要立即打开时调用 [Handler.Open]。
// 父目录必须已存在。
func NewFile(path string, level xlog.Level, opts ...Option) (*Handler, error) {
	clean, err := xfile.SanitizePath(path)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)

	name := o.name
	if name == "" {
		name = filepath.Base(clean)
	}
	lf := &lazyFile{path: clean, mode: o.fileMode}
	f := &lineFormatter{program: o.program, user: o.user}
	return newHandler(KindFile, name, level, f, lf, lf), nil
}

// NewRotating 在 Rotator 之上创建文件 Sink，默认名称 "rotate"
//
// 每条记录恰好一次 Write，轮转判断由 Rotator 完成。
func NewRotating(rot xrotate.Rotator, level xlog.Level, opts ...Option) (*Handler, error) {
	if rot == nil {
		return nil, ErrNilRotator
	}
	o := newOptions(opts)

	name := o.name
	if name == "" {
		name = "rotate"
	}
	f := &lineFormatter{program: o.program, user: o.user}
	h := newHandler(KindRotating, name, level, f, rot, rot)
	h.rot = rot
	return h, nil
}
