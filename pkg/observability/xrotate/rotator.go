package xrotate

import "io"

// 编译时断言：Rotator 接口是 io.WriteCloser 的超集
var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志轮转器接口
//
// 隐式实现 [io.WriteCloser]，可直接作为文件类 sink 的输出目标。
// 额外提供 Rotate 方法用于手动触发轮转。
// 所有实现都必须是并发安全的。
//
// 约定：
//   - 每次 Write 调用对应一条完整记录（通常以换行结尾）
//   - Close 后调用 Write 或 Rotate 应返回 [ErrClosed]
//   - Rotate 可以在任意时刻调用
type Rotator interface {
	// Write 写入一条记录
	// 写入前按轮转策略检查，需要时先完成轮转
	Write(p []byte) (n int, err error)

	// Close 关闭轮转器，释放文件句柄
	// 重复调用返回 [ErrClosed]
	Close() error

	// Rotate 手动触发日志轮转
	// 重命名当前文件为备份文件，打开新文件，再关闭旧句柄
	Rotate() error
}
