package xrotate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// day0 测试基准时刻：2024-03-10 15:00 UTC，下一个 UTC 零点为 2024-03-11 00:00
var day0 = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

var midnight = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

// =============================================================================
// 时间边界
// =============================================================================

func TestPolicy_DailyBoundaryIgnoresSize(t *testing.T) {
	p := NewPolicy(Every(24*time.Hour), 0, day0)
	require.Equal(t, midnight, p.NextBoundary())

	// 未配置大小上限时，大小不影响判断
	p.Grow(1 << 40)

	assert.False(t, p.ShouldRotate(100, day0))
	assert.False(t, p.ShouldRotate(100, midnight.Add(-time.Nanosecond)))
	assert.True(t, p.ShouldRotate(100, midnight))
	assert.True(t, p.ShouldRotate(100, midnight.Add(3*time.Hour)))
}

func TestPolicy_ShouldRotateDoesNotMutate(t *testing.T) {
	p := NewPolicy(Every(24*time.Hour), 1000, day0)
	p.Grow(990)

	for range 3 {
		assert.True(t, p.ShouldRotate(50, midnight))
	}
	assert.Equal(t, int64(990), p.Size())
	assert.Equal(t, midnight, p.NextBoundary())
}

// =============================================================================
// 大小上限
// =============================================================================

func TestPolicy_SizeCeiling(t *testing.T) {
	tests := []struct {
		name      string
		recordLen int
		want      bool
	}{
		{"长度 8 不轮转", 8, false},
		{"长度 9 触发轮转", 9, true},
		{"长度 100 触发轮转", 100, true},
		{"空记录不轮转", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 无时间边界：结果与时间无关
			p := NewPolicy(nil, 1000, day0)
			p.Grow(990)

			assert.Equal(t, tt.want, p.ShouldRotate(tt.recordLen, day0))
			assert.Equal(t, tt.want, p.ShouldRotate(tt.recordLen, day0.AddDate(10, 0, 0)))
		})
	}
}

func TestPolicy_SizeCheckedBeforeTime(t *testing.T) {
	p := NewPolicy(Every(24*time.Hour), 1000, day0)
	p.Grow(990)

	// 时间边界远未到达，大小先触发
	assert.True(t, p.ShouldRotate(9, day0))
	assert.False(t, p.ShouldRotate(8, day0))
}

func TestPolicy_NegativeMaxBytesDisablesSize(t *testing.T) {
	p := NewPolicy(nil, -1, day0)
	p.Grow(1 << 30)

	assert.Equal(t, int64(0), p.MaxBytes())
	assert.False(t, p.ShouldRotate(1<<20, day0))
}

// =============================================================================
// OnRotated / Resume
// =============================================================================

func TestPolicy_OnRotated(t *testing.T) {
	p := NewPolicy(Every(24*time.Hour), 1000, day0)
	p.Grow(990)

	rotatedAt := midnight.Add(5 * time.Minute)
	p.OnRotated(rotatedAt)

	assert.Equal(t, int64(0), p.Size())
	assert.True(t, p.NextBoundary().After(rotatedAt))
	assert.Equal(t, midnight.AddDate(0, 0, 1), p.NextBoundary())
	assert.Equal(t, rotatedAt, p.SegmentStart())
}

func TestPolicy_OnRotatedSkipsMissedBoundaries(t *testing.T) {
	p := NewPolicy(Every(24*time.Hour), 0, day0)

	// 空闲 5 天后才有写入
	late := day0.AddDate(0, 0, 5).Add(time.Hour)
	require.True(t, p.ShouldRotate(10, late))

	p.OnRotated(late)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), p.NextBoundary())
	assert.False(t, p.ShouldRotate(10, late))
}

func TestPolicy_SizeRotationKeepsSchedule(t *testing.T) {
	p := NewPolicy(Every(24*time.Hour), 1000, day0)

	// 当天 18:00 因大小轮转，边界仍是次日零点
	p.OnRotated(day0.Add(3 * time.Hour))
	assert.Equal(t, midnight, p.NextBoundary())
}

func TestPolicy_Resume(t *testing.T) {
	p := NewPolicy(Every(24*time.Hour), 0, day0)

	yesterday := day0.AddDate(0, 0, -1)
	p.Resume(4096, yesterday)

	assert.Equal(t, int64(4096), p.Size())
	assert.Equal(t, yesterday, p.SegmentStart())
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), p.NextBoundary())
	assert.True(t, p.ShouldRotate(1, day0), "resumed file from yesterday must rotate on first write")
}

func TestPolicy_NoScheduleNoSize(t *testing.T) {
	p := NewPolicy(nil, 0, day0)

	assert.True(t, p.NextBoundary().IsZero())
	assert.False(t, p.ShouldRotate(1<<20, day0.AddDate(100, 0, 0)))
}
