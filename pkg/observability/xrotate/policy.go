package xrotate

import "time"

// Policy 按时间边界与大小上限决定是否轮转
//
// Policy 不是并发安全的，由持有它的轮转器在自身锁内访问。
type Policy struct {
	schedule     Schedule
	maxBytes     int64
	size         int64
	next         time.Time
	segmentStart time.Time
}

// NewPolicy 创建轮转策略
//
// 参数:
//   - schedule: 时间边界，nil 表示仅按大小轮转
//   - maxBytes: 大小上限（字节），<= 0 表示不按大小轮转
//   - now: 当前文件段开始时刻，第一个边界为 schedule.Next(now)
func NewPolicy(schedule Schedule, maxBytes int64, now time.Time) *Policy {
	p := &Policy{
		schedule: schedule,
		maxBytes: max(maxBytes, 0),
	}
	p.OnRotated(now)
	return p
}

// ShouldRotate 判断写入长度为 recordLen 的记录前是否需要轮转
//
// recordLen 不含结尾换行符，大小判断时统一按 1 字节换行（LF）计入。
// 大小判断先于时间判断；两者任一满足即轮转。本方法不修改状态。
func (p *Policy) ShouldRotate(recordLen int, now time.Time) bool {
	if p.maxBytes > 0 && p.size+int64(recordLen)+1 >= p.maxBytes {
		return true
	}
	if p.next.IsZero() {
		return false
	}
	return !now.Before(p.next)
}

// Grow 记录已写入当前文件的字节数
func (p *Policy) Grow(n int64) {
	p.size += n
}

// OnRotated 在轮转实际完成后调用
//
// 当前大小清零；下一个边界推进到严格晚于 t 的边界。
// 大小触发的轮转同样调用此方法，边界仍由 schedule 决定，不会被额外推迟。
func (p *Policy) OnRotated(t time.Time) {
	p.size = 0
	p.segmentStart = t
	p.next = p.nextAfter(t)
}

// Resume 以已存在文件的状态恢复策略：大小为 size，文件段开始于 since
//
// 用于进程重启后续写已有文件：若 since 之后的边界已经过去，下一次写入即轮转。
func (p *Policy) Resume(size int64, since time.Time) {
	p.size = max(size, 0)
	p.segmentStart = since
	p.next = p.nextAfter(since)
}

func (p *Policy) nextAfter(t time.Time) time.Time {
	if p.schedule == nil {
		return time.Time{}
	}
	return p.schedule.Next(t)
}

// Size 当前文件已写入字节数
func (p *Policy) Size() int64 { return p.size }

// MaxBytes 大小上限，0 表示未启用
func (p *Policy) MaxBytes() int64 { return p.maxBytes }

// NextBoundary 下一个时间边界，零值表示未启用时间轮转
func (p *Policy) NextBoundary() time.Time { return p.next }

// SegmentStart 当前文件段开始时刻（用于备份文件命名）
func (p *Policy) SegmentStart() time.Time { return p.segmentStart }
