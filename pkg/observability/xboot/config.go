package xboot

import (
	"fmt"
	"strings"

	"github.com/omeyang/xlogboot/pkg/observability/xlog"
	"github.com/omeyang/xlogboot/pkg/observability/xrotate"
)

// Config 日志引导配置
//
// koanf tag 与命令行参数同名，配置文件与命令行可以互相覆盖。
type Config struct {
	// Level 控制台与会话文件的级别，宽松匹配（见 xlog.MatchLevel）
	Level string `koanf:"log" json:"log" yaml:"log"`

	// Dir 日志目录，空时使用 <home>/logs；支持 "~/" 前缀
	Dir string `koanf:"log_dir" json:"log_dir" yaml:"log_dir"`

	// Rotate 为 true 时写入按时间 + 大小轮转的文件，否则每次运行写一个新文件
	Rotate bool `koanf:"logfile_rotate" json:"logfile_rotate" yaml:"logfile_rotate"`

	// MaxSizeMB 轮转文件大小上限（MB），0 表示只按时间轮转
	MaxSizeMB int `koanf:"logsize" json:"logsize" yaml:"logsize"`

	// Syslog 是否发送到 syslog 服务器
	Syslog bool `koanf:"syslog" json:"syslog" yaml:"syslog"`

	// SyslogLevel syslog 级别下限：info、warning 或 error
	SyslogLevel string `koanf:"syslog_level" json:"syslog_level" yaml:"syslog_level"`

	// SyslogServer syslog 服务器地址，未带端口时使用 514
	SyslogServer string `koanf:"syslog_server" json:"syslog_server" yaml:"syslog_server"`

	// RotateAt 轮转时间边界（cron 表达式），空时每天 00:00 UTC
	RotateAt string `koanf:"rotate_at" json:"rotate_at" yaml:"rotate_at"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		SyslogLevel: "error",
		RotateAt:    xrotate.DefaultSchedule,
	}
}

// Validate 校验配置
//
// 所有错误同时包装 [ErrConfiguration] 与具体原因。
func (c Config) Validate() error {
	if c.MaxSizeMB < 0 {
		return fmt.Errorf("%w: %w: got %d", ErrConfiguration, ErrInvalidMaxSize, c.MaxSizeMB)
	}
	if c.Syslog {
		if strings.TrimSpace(c.SyslogServer) == "" {
			return fmt.Errorf("%w: %w", ErrConfiguration, ErrSyslogServerRequired)
		}
		if _, err := c.syslogLevel(); err != nil {
			return err
		}
	}
	if c.RotateAt != "" {
		if _, err := xrotate.ParseSchedule(c.RotateAt); err != nil {
			return fmt.Errorf("%w: %w: %w", ErrConfiguration, ErrInvalidSchedule, err)
		}
	}
	return nil
}

// syslogLevel 严格解析 syslog 级别，空值视为 error
func (c Config) syslogLevel() (xlog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.SyslogLevel)) {
	case "info":
		return xlog.LevelInfo, nil
	case "warning":
		return xlog.LevelWarn, nil
	case "error", "":
		return xlog.LevelError, nil
	default:
		return xlog.LevelInfo, fmt.Errorf("%w: %w: got %q", ErrConfiguration, ErrSyslogLevel, c.SyslogLevel)
	}
}

// schedule 解析轮转时间边界，空值使用默认
func (c Config) schedule() (xrotate.Schedule, error) {
	expr := c.RotateAt
	if expr == "" {
		expr = xrotate.DefaultSchedule
	}
	s, err := xrotate.ParseSchedule(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrConfiguration, ErrInvalidSchedule, err)
	}
	return s, nil
}
