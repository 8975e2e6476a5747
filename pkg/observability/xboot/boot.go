package xboot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/omeyang/xlogboot/pkg/observability/xlog"
	"github.com/omeyang/xlogboot/pkg/observability/xrotate"
	"github.com/omeyang/xlogboot/pkg/observability/xsink"
	"github.com/omeyang/xlogboot/pkg/util/xfile"
)

// Sink 名称
const (
	SinkConsole = "console"
	SinkError   = "error"
	SinkAll     = "all"
	SinkRotate  = "rotate"
	SinkSession = "session"
	SinkSyslog  = "syslog"
)

// 日志目录下的固定文件名
const (
	ErrorLogName = "error.log"
	AllLogName   = "all.log"

	sessionLayout = "2006-01-02_15-04-05"
)

// Initialize 按配置组装一个 Channel：控制台、error.log、all.log、
// 轮转文件或本次会话文件，以及可选的 syslog
//
// 配置在任何副作用之前校验，失败返回 [ErrConfiguration]；
// 创建目录或打开文件失败返回 [ErrFilesystem]。
// 任何一步失败时，已挂载的 Sink 全部关闭，Channel 从 reg 中移除。
//
//	reg := xlog.NewRegistry()
//	ch, err := xboot.Initialize(reg, cfg, "job")
//	if err != nil {
//	    return err
//	}
//	defer ch.Close()
func Initialize(reg *xlog.Registry, cfg Config, programName string, opts ...Option) (*xlog.Channel, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: registry is nil", ErrConfiguration)
	}
	if strings.TrimSpace(programName) == "" {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, ErrProgramName)
	}

	o := newOptions(opts)
	if o.syslogServer != "" {
		cfg.SyslogServer = o.syslogServer
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	schedule, err := cfg.schedule()
	if err != nil {
		return nil, err
	}

	level := xlog.MatchLevel(cfg.Level)
	ch, err := reg.Create(programName, xlog.WithLevel(level), xlog.WithOnError(o.onError))
	if err != nil {
		if errors.Is(err, xlog.ErrChannelExists) {
			return nil, fmt.Errorf("%w: %w: %s", ErrConfiguration, ErrAlreadyInitialized, programName)
		}
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	user := o.user
	if user == "" {
		user = currentUser()
	}
	b := &bootstrap{
		ch:       ch,
		cfg:      cfg,
		o:        o,
		program:  programName,
		base:     xfile.StripExt(programName),
		user:     user,
		level:    level,
		schedule: schedule,
	}
	if err := b.run(context.Background()); err != nil {
		reg.Unregister(ch)
		return nil, errors.Join(err, ch.Close())
	}
	return ch, nil
}

// bootstrap 一次 Initialize 的状态
type bootstrap struct {
	ch       *xlog.Channel
	cfg      Config
	o        *options
	program  string
	base     string // 去掉扩展名的程序名，用于文件名
	user     string
	level    xlog.Level
	schedule xrotate.Schedule
}

func (b *bootstrap) run(ctx context.Context) error {
	if err := b.attachConsole(); err != nil {
		return err
	}
	b.ch.Info(ctx, fmt.Sprintf("Logging level has been set to %s", b.levelLabel()))

	dir, err := b.logDir()
	if err != nil {
		return err
	}
	b.ch.Info(ctx, fmt.Sprintf("Logging directory has been set to %s", dir))

	if err := b.attachFiles(dir); err != nil {
		return err
	}

	if b.cfg.Rotate {
		err = b.attachRotating(ctx, dir)
	} else {
		err = b.attachSession(ctx, dir)
	}
	if err != nil {
		return err
	}

	if b.cfg.Syslog {
		return b.attachSyslog(ctx)
	}
	return nil
}

// levelLabel 日志中展示的级别：原始输入转大写，空输入时为匹配结果
func (b *bootstrap) levelLabel() string {
	if label := strings.ToUpper(strings.TrimSpace(b.cfg.Level)); label != "" {
		return label
	}
	return b.level.String()
}

func (b *bootstrap) sinkOptions(name string) []xsink.Option {
	return []xsink.Option{
		xsink.WithName(name),
		xsink.WithProgram(b.program),
		xsink.WithUser(b.user),
		xsink.WithOnError(b.o.onError),
		xsink.WithMeterProvider(b.o.meterProvider),
	}
}

func (b *bootstrap) attach(sink *xsink.Handler, err error) error {
	if err != nil {
		return err
	}
	if err := b.ch.Attach(sink); err != nil {
		return errors.Join(err, sink.Close())
	}
	return nil
}

func (b *bootstrap) attachConsole() error {
	opts := b.sinkOptions(SinkConsole)
	if b.o.color != nil {
		opts = append(opts, xsink.WithColor(*b.o.color))
	}
	return b.attach(xsink.NewConsole(b.o.console, b.level, opts...))
}

// logDir 解析并创建日志目录，返回绝对路径
func (b *bootstrap) logDir() (string, error) {
	dir := b.cfg.Dir
	if dir == "" || strings.HasPrefix(dir, "~") {
		home := b.o.homeDir
		if home == "" {
			h, err := lookupHome()
			if err != nil {
				return "", fmt.Errorf("%w: resolve home directory: %w", ErrFilesystem, err)
			}
			home = h
		}
		if dir == "" {
			dir = filepath.Join(home, "logs")
		} else {
			dir = xfile.ExpandHome(dir, home)
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: resolve log directory %s: %w", ErrFilesystem, dir, err)
	}
	dir = abs

	if err := xfile.EnsureDirPath(dir); err != nil {
		return "", fmt.Errorf("%w: create log directory %s: %w", ErrFilesystem, dir, err)
	}
	return dir, nil
}

// attachFiles 挂载 error.log（延迟打开）与 all.log（立即打开）
func (b *bootstrap) attachFiles(dir string) error {
	errPath := filepath.Join(dir, ErrorLogName)
	if err := b.attachFile(errPath, xlog.LevelError, SinkError, false); err != nil {
		return err
	}
	return b.attachFile(filepath.Join(dir, AllLogName), xlog.LevelDebug, SinkAll, true)
}

func (b *bootstrap) attachFile(path string, level xlog.Level, name string, eager bool) error {
	sink, err := xsink.NewFile(path, level, b.sinkOptions(name)...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	if err := b.attach(sink, nil); err != nil {
		return err
	}
	if !eager {
		return nil
	}
	if err := sink.Open(); err != nil {
		return fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	return nil
}

func (b *bootstrap) attachRotating(ctx context.Context, dir string) error {
	if b.cfg.RotateAt == "" || b.cfg.RotateAt == xrotate.DefaultSchedule {
		b.ch.Info(ctx, "Logfiles are now set to auto-rotate at midnight UTC.")
	} else {
		b.ch.Info(ctx, fmt.Sprintf("Logfiles are now set to auto-rotate on schedule [%s].", b.cfg.RotateAt))
	}
	path := filepath.Join(dir, b.base)
	b.ch.Info(ctx, fmt.Sprintf("Logfiles are now being written at %s", path))

	rot, err := xrotate.NewSizedTimed(path,
		xrotate.WithSchedule(b.schedule),
		xrotate.WithMaxSizeMB(b.cfg.MaxSizeMB),
		xrotate.WithClock(b.o.now),
		xrotate.WithOnError(b.o.onError),
		xrotate.WithMeterProvider(b.o.meterProvider),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	return b.attach(xsink.NewRotating(rot, xlog.LevelDebug, b.sinkOptions(SinkRotate)...))
}

func (b *bootstrap) attachSession(ctx context.Context, dir string) error {
	name := fmt.Sprintf("%s_%s.log", b.o.now().Format(sessionLayout), b.base)
	path := filepath.Join(dir, name)
	if err := b.attachFile(path, b.level, SinkSession, true); err != nil {
		return err
	}
	b.ch.SetFilename(path)
	b.ch.Info(ctx, fmt.Sprintf("Logs for this session now being written to %s", path))
	return nil
}

func (b *bootstrap) attachSyslog(ctx context.Context) error {
	level, err := b.cfg.syslogLevel()
	if err != nil {
		return err
	}
	sink, err := xsink.NewSyslog(b.cfg.SyslogServer, level, b.sinkOptions(SinkSyslog)...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	b.ch.Info(ctx, fmt.Sprintf("Syslog has been enabled for [%s] logging level, sent to syslog server [%s]",
		syslogLabel(b.cfg.SyslogLevel), b.cfg.SyslogServer))
	return b.attach(sink, nil)
}

func syslogLabel(s string) string {
	if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
		return s
	}
	return "error"
}
