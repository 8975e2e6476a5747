package xsink

import (
	"net"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xlogboot/pkg/util/xfile"
)

// 默认值
const (
	// DefaultSyslogPort syslog 服务器地址未带端口时使用的 UDP 端口
	DefaultSyslogPort = "514"

	// DefaultAppName syslog 报文中的应用名标签
	DefaultAppName = "appname"

	// DefaultAlias syslog 报文中的别名标签
	DefaultAlias = "alias"

	// DefaultBreakerTimeout syslog 熔断器打开后到半开试探的间隔
	DefaultBreakerTimeout = 30 * time.Second

	// DefaultBreakerFailures 连续失败多少次后打开熔断器
	DefaultBreakerFailures = 5
)

type options struct {
	name     string
	program  string
	user     string
	color    *bool
	appName  string
	alias    string
	fileMode os.FileMode

	onError         func(error)
	meterProvider   metric.MeterProvider
	dial            func(network, address string) (net.Conn, error)
	breakerTimeout  time.Duration
	breakerFailures uint32
}

func newOptions(opts []Option) *options {
	o := &options{
		appName:         DefaultAppName,
		alias:           DefaultAlias,
		fileMode:        xfile.DefaultFilePerm,
		meterProvider:   otel.GetMeterProvider(),
		dial:            net.Dial,
		breakerTimeout:  DefaultBreakerTimeout,
		breakerFailures: DefaultBreakerFailures,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Option Sink 配置选项
type Option func(*options)

// WithName 设置 Sink 名称（同一 Channel 内唯一）
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithProgram 设置日志行首的程序名；syslog Sink 中作为通道名
func WithProgram(program string) Option {
	return func(o *options) {
		o.program = program
	}
}

// WithUser 设置日志中的操作系统用户名
func WithUser(user string) Option {
	return func(o *options) {
		o.user = user
	}
}

// WithColor 强制开启或关闭控制台颜色；未设置时仅在输出为终端时开启
func WithColor(enabled bool) Option {
	return func(o *options) {
		o.color = &enabled
	}
}

// WithSyslogTags 设置 syslog 报文中的应用名与别名标签
func WithSyslogTags(appName, alias string) Option {
	return func(o *options) {
		o.appName = appName
		o.alias = alias
	}
}

// WithFileMode 设置文件 Sink 创建文件时的权限，默认 [xfile.DefaultFilePerm]
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.fileMode = mode
	}
}

// WithOnError 设置 syslog 发送失败回调
//
// 回调带 panic 隔离；不得向同一 Channel 记录日志。
func WithOnError(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// WithMeterProvider 设置计数使用的 MeterProvider，默认 otel.GetMeterProvider()
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// WithDialer 替换 syslog 的拨号函数，默认 net.Dial
func WithDialer(dial func(network, address string) (net.Conn, error)) Option {
	return func(o *options) {
		if dial != nil {
			o.dial = dial
		}
	}
}

// WithBreaker 设置 syslog 熔断器：连续失败 failures 次后打开，timeout 后半开试探
func WithBreaker(failures uint32, timeout time.Duration) Option {
	return func(o *options) {
		if failures > 0 {
			o.breakerFailures = failures
		}
		if timeout > 0 {
			o.breakerTimeout = timeout
		}
	}
}
