// Package xboot 按配置一次性组装程序的日志通道。
//
// [Initialize] 在给定的 xlog.Registry 中创建以程序名命名的 Channel，并挂载：
//
//   - console: 控制台（默认 stderr），级别为 --log 宽松匹配的结果
//   - error: <dir>/error.log，ERROR 及以上，第一次出错时才创建文件
//   - all: <dir>/all.log，所有级别
//   - rotate: <dir>/<program>，按每天 00:00 UTC 与大小上限轮转（--logfile_rotate）
//   - session: <dir>/<YYYY-MM-DD_HH-MM-SS>_<program>.log，本次运行独占（未启用轮转时）
//   - syslog: UDP syslog（--syslog），级别 info、warning 或 error
//
// Channel 的级别与控制台相同，因此 all.log 也只会收到该级别及以上的记录。
//
// # 配置来源
//
//   - 命令行：[Flags] 与 [ConfigFromCommand]（urfave/cli/v3）
//   - 文件：[LoadConfigFile]、[LoadConfigBytes]（koanf，YAML 或 JSON）
//   - 热更新：[WatchConfig]（fsnotify），只更新级别
//
// # 错误
//
// 配置错误包装 [ErrConfiguration]，在任何副作用之前返回；
// 目录或文件错误包装 [ErrFilesystem]。失败时已挂载的 Sink 全部关闭，
// Channel 从 Registry 中移除。
package xboot
