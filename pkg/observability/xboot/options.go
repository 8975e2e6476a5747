package xboot

import (
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel/metric"
)

type options struct {
	syslogServer  string
	console       io.Writer
	now           func() time.Time
	homeDir       string
	user          string
	color         *bool
	onError       func(error)
	meterProvider metric.MeterProvider
}

func newOptions(opts []Option) *options {
	o := &options{
		console: os.Stderr,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Option Initialize 选项
type Option func(*options)

// WithSyslogServer 设置 syslog 服务器地址，覆盖 Config.SyslogServer
func WithSyslogServer(addr string) Option {
	return func(o *options) {
		o.syslogServer = addr
	}
}

// WithConsole 设置控制台输出，默认 os.Stderr
func WithConsole(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.console = w
		}
	}
}

// WithClock 设置时间源（会话文件名、轮转边界），默认 time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithHomeDir 设置用户主目录，默认 os.UserHomeDir()
func WithHomeDir(dir string) Option {
	return func(o *options) {
		o.homeDir = dir
	}
}

// WithUser 设置日志中的用户名，默认当前操作系统用户
func WithUser(name string) Option {
	return func(o *options) {
		o.user = name
	}
}

// WithColor 强制开启或关闭控制台颜色，默认仅终端着色
func WithColor(enabled bool) Option {
	return func(o *options) {
		o.color = &enabled
	}
}

// WithOnError 设置运行期错误回调：Sink 写入失败、轮转失败、syslog 发送失败
//
// 回调中不得向同一 Channel 记录日志。
func WithOnError(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithMeterProvider 设置轮转与 syslog 计数使用的 MeterProvider
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}
