package xsink

import (
	"io"
	"os"

	"github.com/omeyang/xlogboot/pkg/observability/xlog"
)

// NewConsole 创建控制台 Sink，默认名称 "console"
//
// 未通过 [WithColor] 指定时，仅当 w 是终端时按级别着色
// （DEBUG 白色、WARNING 黄色、ERROR 红色）。Close 不会关闭 w。
func NewConsole(w io.Writer, level xlog.Level, opts ...Option) (*Handler, error) {
	if w == nil {
		return nil, ErrNilWriter
	}
	o := newOptions(opts)

	color := false
	if o.color != nil {
		color = *o.color
	} else if f, ok := w.(*os.File); ok {
		color = isTerminal(f.Fd())
	}

	name := o.name
	if name == "" {
		name = "console"
	}
	f := &lineFormatter{program: o.program, user: o.user, color: color}
	return newHandler(KindConsole, name, level, f, w, nil), nil
}
