package xrotate

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule 默认轮转边界：每天 00:00 UTC
const DefaultSchedule = "CRON_TZ=UTC 0 0 * * *"

// Schedule 时间边界生成器
//
// Next 返回严格晚于 t 的下一个边界；返回零值表示不再有边界（仅按大小轮转）。
// robfig/cron 的 cron.Schedule 满足此接口。
type Schedule interface {
	Next(t time.Time) time.Time
}

var _ Schedule = cron.Schedule(nil)

// ParseSchedule 解析标准 5 段 cron 表达式（支持 CRON_TZ= 前缀与 @daily 等描述符）
func ParseSchedule(spec string) (Schedule, error) {
	s, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, spec, err)
	}
	return s, nil
}

// Every 返回固定周期的边界，边界对齐到 UTC 零点起算的整数倍周期。
//
// 周期小于 1 秒时按 1 秒处理。
func Every(interval time.Duration) Schedule {
	if interval < time.Second {
		interval = time.Second
	}
	return everySchedule{interval: interval}
}

type everySchedule struct {
	interval time.Duration
}

// Next 实现 Schedule 接口
//
// time.Truncate 以零时刻（UTC 午夜）为基准截断，Truncate(t) <= t，
// 因此加一个周期后严格晚于 t。
func (s everySchedule) Next(t time.Time) time.Time {
	return t.Truncate(s.interval).Add(s.interval)
}
