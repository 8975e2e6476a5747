package xrotate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/omeyang/xlogboot/pkg/util/xfile"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// RetryBackoff 轮转失败后再次尝试前的最小间隔
	RetryBackoff = time.Minute

	instrumentationName = "github.com/omeyang/xlogboot/pkg/observability/xrotate"

	metricRotateTotal    = "xlogboot.rotate.total"
	metricRotateFailures = "xlogboot.rotate.failures"

	backupDateLayout     = "2006-01-02"
	backupDateTimeLayout = "2006-01-02_15-04-05"
	backupExt            = ".log"
)

// sizedTimedConfig 按时间 + 大小轮转的配置
type sizedTimedConfig struct {
	schedule      Schedule
	maxBytes      int64
	fileMode      os.FileMode
	now           func() time.Time
	onError       func(error)
	meterProvider metric.MeterProvider
}

// Option 轮转器配置选项函数
type Option func(*sizedTimedConfig)

// WithSchedule 设置时间边界，nil 表示仅按大小轮转
//
// 默认 [DefaultSchedule]（每天 00:00 UTC）。
func WithSchedule(s Schedule) Option {
	return func(c *sizedTimedConfig) {
		c.schedule = s
	}
}

// WithMaxBytes 设置单个文件大小上限（字节），0 表示不按大小轮转
func WithMaxBytes(n int64) Option {
	return func(c *sizedTimedConfig) {
		c.maxBytes = n
	}
}

// WithMaxSizeMB 设置单个文件大小上限（MB），0 表示不按大小轮转
func WithMaxSizeMB(mb int) Option {
	return func(c *sizedTimedConfig) {
		c.maxBytes = int64(mb) << 20
	}
}

// WithFileMode 设置日志文件权限，默认 [xfile.DefaultFilePerm]
func WithFileMode(mode os.FileMode) Option {
	return func(c *sizedTimedConfig) {
		c.fileMode = mode
	}
}

// WithClock 设置时间源，默认 time.Now
func WithClock(now func() time.Time) Option {
	return func(c *sizedTimedConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithOnError 设置错误回调函数
//
// 轮转失败（[ErrRotation]）及关闭旧句柄失败时调用。
// 回调函数不得向同一 Rotator 写入数据，否则会死锁。
func WithOnError(fn func(error)) Option {
	return func(c *sizedTimedConfig) {
		c.onError = fn
	}
}

// WithMeterProvider 设置轮转计数使用的 MeterProvider，默认 otel.GetMeterProvider()
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *sizedTimedConfig) {
		if mp != nil {
			c.meterProvider = mp
		}
	}
}

// SizedTimed 按时间边界与大小上限轮转的单文件写入器
type SizedTimed struct {
	path     string
	fileMode os.FileMode
	now      func() time.Time
	onError  func(error)

	mu       sync.Mutex
	file     *os.File
	policy   *Policy
	closed   bool
	retryAt  time.Time // 轮转失败后，此时刻之前不再尝试
	rotated  metric.Int64Counter
	failed   metric.Int64Counter
	attrs    metric.MeasurementOption
	renameFn func(oldpath, newpath string) error // 可注入，仅用于测试
}

var _ Rotator = (*SizedTimed)(nil)

// NewSizedTimed 创建按时间 + 大小轮转的写入器
//
// 文件在第一次 Write 时才打开（追加模式），父目录不存在时自动创建。
// 若文件已存在，已有大小计入策略，文件修改时间作为当前文件段开始时刻。
func NewSizedTimed(filename string, opts ...Option) (*SizedTimed, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := sizedTimedConfig{
		fileMode:      xfile.DefaultFilePerm,
		now:           time.Now,
		meterProvider: otel.GetMeterProvider(),
	}
	daily, err := ParseSchedule(DefaultSchedule)
	if err != nil {
		return nil, err
	}
	cfg.schedule = daily

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.maxBytes < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxSize, cfg.maxBytes)
	}
	if cfg.fileMode&^os.FileMode(0o777) != 0 {
		return nil, fmt.Errorf("%w: got %04o, only permission bits (0000~0777) allowed",
			ErrInvalidFileMode, cfg.fileMode)
	}

	safePath, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(safePath); err != nil {
		return nil, err
	}

	meter := cfg.meterProvider.Meter(instrumentationName)
	rotated, err := meter.Int64Counter(metricRotateTotal,
		metric.WithDescription("completed log file rotations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xrotate: create counter failed: %w", err)
	}
	failed, err := meter.Int64Counter(metricRotateFailures,
		metric.WithDescription("failed log file rotations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xrotate: create counter failed: %w", err)
	}

	return &SizedTimed{
		path:     safePath,
		fileMode: cfg.fileMode,
		now:      cfg.now,
		onError:  cfg.onError,
		policy:   NewPolicy(cfg.schedule, cfg.maxBytes, cfg.now()),
		rotated:  rotated,
		failed:   failed,
		attrs:    metric.WithAttributes(attribute.String("file", filepath.Base(safePath))),
		renameFn: os.Rename,
	}, nil
}

// Path 当前活动文件路径
func (r *SizedTimed) Path() string { return r.path }

// MaxBytes 大小上限（字节），0 表示未启用
func (r *SizedTimed) MaxBytes() int64 { return r.policy.MaxBytes() }

// NextRotation 下一个时间边界
func (r *SizedTimed) NextRotation() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.policy.NextBoundary()
}

// Write 实现 io.Writer 接口，p 视为一条完整记录
func (r *SizedTimed) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}
	if r.file == nil {
		if err := r.openLocked(); err != nil {
			return 0, err
		}
	}

	now := r.now()
	if !now.Before(r.retryAt) && r.dueLocked(recordLen(p), now) {
		// 失败已通过 onError 上报，记录照常写入旧文件
		_ = r.rotateLocked(now)
	}

	n, err := r.file.Write(p)
	r.policy.Grow(int64(n))
	return n, err
}

// dueLocked 判断写入前是否轮转
//
// 当前文件为空时只按时间边界轮转：单条记录超过大小上限时直接写入空文件，不产生空备份。
func (r *SizedTimed) dueLocked(n int, now time.Time) bool {
	if !r.policy.ShouldRotate(n, now) {
		return false
	}
	if r.policy.Size() > 0 {
		return true
	}
	next := r.policy.NextBoundary()
	return !next.IsZero() && !now.Before(next)
}

// Rotate 手动触发轮转
//
// 文件尚未打开时先打开（没有可轮转的内容，不会产生备份文件）。
func (r *SizedTimed) Rotate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.file == nil {
		return r.openLocked()
	}
	return r.rotateLocked(r.now())
}

// Close 实现 io.Closer 接口
//
// 关闭后调用 Write 或 Rotate 返回 [ErrClosed]，重复调用 Close 也返回 [ErrClosed]。
func (r *SizedTimed) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.closed = true
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// openLocked 以追加模式打开活动文件，已有文件的大小和修改时间用于恢复策略状态
func (r *SizedTimed) openLocked() error {
	f, err := openAppend(r.path, r.fileMode)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return errors.Join(err, f.Close())
	}
	if info.Size() > 0 {
		r.policy.Resume(info.Size(), info.ModTime())
	}
	r.file = f
	return nil
}

// rotateLocked 重命名当前文件 → 打开新文件 → 替换句柄 → 关闭旧句柄
//
// 新文件成功打开前旧句柄保持可写，任何一步失败都不会丢记录。
func (r *SizedTimed) rotateLocked(now time.Time) error {
	ctx := context.Background()

	dest, err := r.backupName()
	if err != nil {
		return r.failLocked(ctx, now, err)
	}
	if err := r.renameFn(r.path, dest); err != nil {
		return r.failLocked(ctx, now, fmt.Errorf("rename %s -> %s: %w", r.path, dest, err))
	}

	f, err := openAppend(r.path, r.fileMode)
	if err != nil {
		// 尽力回滚，旧句柄仍指向 dest，继续写入不会丢失
		_ = r.renameFn(dest, r.path)
		return r.failLocked(ctx, now, fmt.Errorf("open %s: %w", r.path, err))
	}

	old := r.file
	r.file = f
	r.policy.OnRotated(now)
	r.retryAt = time.Time{}
	r.rotated.Add(ctx, 1, r.attrs)

	if err := old.Close(); err != nil {
		r.reportError(fmt.Errorf("xrotate: close rotated file %s: %w", dest, err))
	}
	return nil
}

// failLocked 在旧文件中写入失败说明并上报，RetryBackoff 内不再重试
func (r *SizedTimed) failLocked(ctx context.Context, now time.Time, cause error) error {
	err := fmt.Errorf("%w: %w", ErrRotation, cause)
	r.retryAt = now.Add(RetryBackoff)
	r.failed.Add(ctx, 1, r.attrs)

	if n, werr := fmt.Fprintf(r.file, "%v\n", err); werr == nil {
		r.policy.Grow(int64(n))
	}
	r.reportError(err)
	return err
}

// backupName 以当前文件段开始日期（UTC）命名备份文件，已存在时追加时分秒
func (r *SizedTimed) backupName() (string, error) {
	start := r.policy.SegmentStart().UTC()

	candidates := [...]string{
		r.path + "." + start.Format(backupDateLayout) + backupExt,
		r.path + "." + start.Format(backupDateTimeLayout) + backupExt,
	}
	for _, name := range candidates {
		_, err := os.Lstat(name)
		if os.IsNotExist(err) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("destination %s exists", candidates[len(candidates)-1])
}

// reportError 通过回调上报内部错误，回调 panic 被隔离
func (r *SizedTimed) reportError(err error) {
	if err != nil && r.onError != nil {
		defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
		r.onError(err)
	}
}

func openAppend(path string, mode os.FileMode) (*os.File, error) {
	//#nosec G304 -- 路径已经过 SanitizePath
	return os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, mode)
}

// recordLen 记录长度，不含结尾换行符
func recordLen(p []byte) int {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		n--
	}
	return n
}
