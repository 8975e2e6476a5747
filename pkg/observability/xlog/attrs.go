package xlog

import "log/slog"

// 常用属性 Key 常量
const (
	// KeyError 错误字段的标准 key
	KeyError = "error"

	// KeyTraceID OpenTelemetry trace ID
	KeyTraceID = "trace_id"

	// KeySpanID OpenTelemetry span ID
	KeySpanID = "span_id"

	// KeyRunID 一次程序运行（一次 bootstrap）的唯一标识
	KeyRunID = "run_id"

	// KeyPath 文件或目录路径
	KeyPath = "path"
)

// Err 创建错误属性
//
// 如果 err 为 nil，返回空属性（会被 slog 忽略）。
//
//	if err != nil {
//	    ch.Error(ctx, "job failed", xlog.Err(err))
//	}
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Path 创建路径属性
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}
