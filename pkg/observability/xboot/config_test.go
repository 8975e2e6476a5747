package xboot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xlogboot/pkg/observability/xlog"
	"github.com/omeyang/xlogboot/pkg/observability/xrotate"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "error", cfg.SyslogLevel)
	assert.Equal(t, xrotate.DefaultSchedule, cfg.RotateAt)
	assert.False(t, cfg.Rotate)
	assert.False(t, cfg.Syslog)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"默认配置", func(*Config) {}, nil},
		{"负数大小上限", func(c *Config) { c.MaxSizeMB = -1 }, ErrInvalidMaxSize},
		{"syslog 无服务器", func(c *Config) { c.Syslog = true }, ErrSyslogServerRequired},
		{"syslog 服务器仅空白", func(c *Config) { c.Syslog, c.SyslogServer = true, "  " }, ErrSyslogServerRequired},
		{"syslog debug 级别", func(c *Config) {
			c.Syslog, c.SyslogServer, c.SyslogLevel = true, "10.20.30.40", "debug"
		}, ErrSyslogLevel},
		{"syslog 未知级别", func(c *Config) {
			c.Syslog, c.SyslogServer, c.SyslogLevel = true, "10.20.30.40", "warn"
		}, ErrSyslogLevel},
		{"syslog warning", func(c *Config) {
			c.Syslog, c.SyslogServer, c.SyslogLevel = true, "10.20.30.40", "Warning"
		}, nil},
		{"syslog 级别为空", func(c *Config) {
			c.Syslog, c.SyslogServer, c.SyslogLevel = true, "10.20.30.40", ""
		}, nil},
		{"syslog 关闭时不校验级别", func(c *Config) { c.SyslogLevel = "debug" }, nil},
		{"无效 cron", func(c *Config) { c.RotateAt = "every day" }, ErrInvalidSchedule},
		{"空 cron 使用默认", func(c *Config) { c.RotateAt = "" }, nil},
		{"descriptor cron", func(c *Config) { c.RotateAt = "@hourly" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfig_SyslogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want xlog.Level
	}{
		{"info", xlog.LevelInfo},
		{"warning", xlog.LevelWarn},
		{"ERROR", xlog.LevelError},
		{"", xlog.LevelError},
	}
	for _, tt := range tests {
		got, err := Config{SyslogLevel: tt.in}.syslogLevel()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestConfig_Schedule(t *testing.T) {
	s, err := Config{}.schedule()
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = Config{RotateAt: "61 * * * *"}.schedule()
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}
