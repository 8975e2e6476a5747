// Package observability 提供日志相关的子包。
//
// 子包列表：
//   - xlog: 日志通道（Channel）与注册表，基于 log/slog 扩展
//   - xsink: 通道的输出端：控制台、文件、轮转文件、UDP syslog
//   - xrotate: 日志文件按时间边界与大小上限轮转
//   - xboot: 按配置一次性组装程序的日志通道
//
// 设计原则：
//   - 每个 Sink 有独立的级别下限，写入失败互不影响
//   - 自动从 context 中提取追踪信息注入日志
//   - 轮转与 syslog 发送通过 OpenTelemetry 指标计数
package observability
