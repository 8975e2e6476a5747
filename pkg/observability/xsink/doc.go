// Package xsink 提供 xlog.Sink 的具体实现：控制台、文件、轮转文件与 UDP syslog。
//
// 所有种类都是同一个 [Handler]，只在格式与输出上不同：
//
//   - [NewConsole]: 写入任意 io.Writer（通常是 os.Stderr），终端下按级别着色
//   - [NewFile]: 追加写入，第一次写入时才创建文件
//   - [NewRotating]: 写入 xrotate.Rotator，按时间边界与大小轮转
//   - [NewSyslog]: 每条记录一个 UDP 数据报，facility USER
//
// 控制台与文件使用同一行格式：
//
//	<program> : <user> : <MM/DD/YYYY hh:mm:ss AM> : <LEVEL> : <message>[ key=value...]
//
// syslog 发送失败不会让 Handle 返回错误：失败以 [ErrTransport] 交给 OnError 回调，
// 并计入 xlogboot.syslog.failures。连续失败后熔断器（sony/gobreaker）打开，
// 在超时前直接丢弃记录。
package xsink
