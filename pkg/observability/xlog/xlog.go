// xlog.go 定义核心接口：Logger、Leveler、LoggerWithLevel、Sink
//
// 设计理念：
//   - 强制 context 传递，确保追踪信息传播
//   - 动态级别控制，支持运行时调整
//   - 一个 Channel 对应一个程序名，记录分发到所有挂载的 Sink
//   - 每个 Sink 有独立的级别下限，与 Channel 的级别相互独立
package xlog

import (
	"context"
	"io"
	"log/slog"
)

// Logger 日志接口
//
// 所有方法都需要 context.Context 参数，确保追踪信息正确传播。
// 方法签名只接受 slog.Attr，保证类型安全。
type Logger interface {
	// Debug 记录 Debug 级别日志
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)

	// Info 记录 Info 级别日志
	Info(ctx context.Context, msg string, attrs ...slog.Attr)

	// Warn 记录 Warn 级别日志
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)

	// Error 记录 Error 级别日志
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带额外属性的派生 Logger
	// 派生 logger 共享父级的 LevelVar 与 Sink 集合
	With(attrs ...slog.Attr) Logger

	// WithGroup 返回带分组的派生 Logger
	WithGroup(name string) Logger
}

// Leveler 级别控制接口
type Leveler interface {
	// SetLevel 动态设置日志级别
	SetLevel(level Level)

	// GetLevel 获取当前日志级别
	GetLevel() Level

	// Enabled 检查指定级别是否启用（至少一个 Sink 会接收）
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel 组合接口：Logger + Leveler
type LoggerWithLevel interface {
	Logger
	Leveler
}

// Sink 日志输出目标
//
// Sink 本身是 slog.Handler：Enabled 按 Sink 自己的级别下限判断，
// Handle 负责格式化并写出一条记录。Close 释放底层资源（文件句柄、socket）。
type Sink interface {
	slog.Handler
	io.Closer

	// Name Sink 名称，在同一 Channel 内唯一（如 "console"、"error"、"all"）
	Name() string

	// Level Sink 的级别下限
	Level() Level
}

// LevelSetter 可选接口：支持运行时调整级别下限的 Sink
type LevelSetter interface {
	SetLevel(level Level)
}
