package xsink

import "errors"

// 构造错误
var (
	// ErrNilWriter 控制台 Sink 的 writer 为 nil
	ErrNilWriter = errors.New("xsink: writer is nil")

	// ErrNilRotator 轮转 Sink 的 Rotator 为 nil
	ErrNilRotator = errors.New("xsink: rotator is nil")

	// ErrEmptyServer syslog 服务器地址为空
	ErrEmptyServer = errors.New("xsink: syslog server is required")
)

// 运行期错误
var (
	// ErrClosed Sink 已关闭
	ErrClosed = errors.New("xsink: sink is closed")

	// ErrTransport syslog 数据报发送失败（拨号、DNS 或写入失败，或熔断器打开）
	//
	// 只通过 OnError 回调上报并计数，不会让 Handle 返回错误。
	ErrTransport = errors.New("xsink: syslog transport failed")
)
