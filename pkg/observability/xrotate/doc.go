// Package xrotate 提供按时间边界与文件大小双重触发的日志文件轮转。
//
// Rotator 接口定义了轮转器的核心行为（Write/Close/Rotate），所有实现并发安全。
//
// # 轮转策略
//
// [Policy] 是纯状态对象，只负责回答"下一条记录写入前是否需要轮转"：
//
//  1. 配置了大小上限且 当前大小 + 记录长度 + 1（换行符）>= 上限 → 轮转
//  2. 否则当前时间已到达下一个时间边界 → 轮转
//  3. 否则不轮转
//
// ShouldRotate 不修改状态；真正完成轮转后由调用方执行 OnRotated，
// 它把当前大小清零，并把下一个边界推进到严格晚于轮转时刻的边界
// （长时间空闲后会跳过错过的边界，而不是逐个补齐）。
//
// 时间边界由 [Schedule] 给出：
//
//   - [Every]: 固定周期，对齐到 UTC 零点（86400s 即每日 00:00 UTC）
//   - [ParseSchedule]: 标准 cron 表达式（robfig/cron/v3），默认 [DefaultSchedule]
//
// # 当前实现
//
//   - [NewSizedTimed]: 单文件、按时间边界 + 大小上限轮转
//
// 轮转出的文件以日期命名：<path>.<YYYY-MM-DD>.log（UTC，文件段开始日期）。
// 同一天内多次轮转时第二个及之后的文件追加时分秒：<path>.<YYYY-MM-DD>_<HH-MM-SS>.log，
// 两种形式按字典序即按时间排序。
//
// 轮转失败（重命名或打开新文件失败）时不丢弃记录：在仍打开的旧文件中写入一行
// 失败说明，通过 OnError 回调上报 [ErrRotation]，继续写入旧文件，
// 并在 [RetryBackoff] 之后才再次尝试轮转。
package xrotate
