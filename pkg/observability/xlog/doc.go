// Package xlog 基于 log/slog 的多目标日志通道。
//
// # 核心概念
//
//   - [Channel]: 具名日志通道（通常以程序名命名），拥有级别下限与一组 Sink
//   - [Sink]: 输出目标（控制台、文件、syslog 等），本身是 slog.Handler，有独立的级别下限
//   - [Registry]: 按名称管理 Channel，同名获取幂等
//
// 一条记录先经过 Channel 的级别过滤，再分发给每个级别满足的 Sink。
// 单个 Sink 写入失败不影响其他 Sink，错误交给 [WithOnError] 回调并计数。
//
//	reg := xlog.NewRegistry()
//	ch, _ := reg.Channel("job", xlog.WithLevel(xlog.LevelDebug))
//	_ = ch.Attach(sink)
//	defer ch.Close()
//	ch.Info(ctx, "started", xlog.Path("/tmp/x"))
//
// Sink 的具体实现见 xsink 包，按配置组装整套 Sink 见 xboot 包。
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)，
// 字符串形式为 DEBUG、INFO、WARNING、ERROR。
//
//   - [ParseLevel]: 严格解析，用于配置校验
//   - [MatchLevel]: 宽松匹配，从不失败，用于命令行 --log 参数
//
// # 派生 Logger 与级别控制
//
// [Logger.With] 和 [Logger.WithGroup] 返回 [Logger] 接口（不含 [Leveler]）。
// 派生 logger 共享 Channel 的 LevelVar 与 Sink 集合，之后挂载的 Sink 同样可见。
//
// # 追踪字段
//
// Channel 默认包装 [EnrichHandler]：context 中存在有效的 OpenTelemetry span 时，
// 自动注入 trace_id 与 span_id。
package xlog
