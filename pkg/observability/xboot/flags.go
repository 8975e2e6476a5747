package xboot

import (
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xlogboot/pkg/observability/xrotate"
)

// 命令行参数名
const (
	FlagLog          = "log"
	FlagLogDir       = "log_dir"
	FlagRotate       = "logfile_rotate"
	FlagLogSize      = "logsize"
	FlagSyslog       = "syslog"
	FlagSyslogLevel  = "syslog_level"
	FlagSyslogServer = "syslog_server"
	FlagRotateAt     = "rotate_at"
	FlagConfig       = "log_config"
)

// Flags 返回日志相关的命令行参数，供宿主程序并入自己的 cli.Command
//
//	cmd := &cli.Command{
//	    Name:   "job",
//	    Flags:  xboot.Flags(),
//	    Action: func(ctx context.Context, cmd *cli.Command) error {
//	        cfg, err := xboot.ConfigFromCommand(cmd)
//	        ...
//	    },
//	}
func Flags() []cli.Flag {
	def := DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagLog,
			Aliases: []string{"l"},
			Usage:   "控制台输出级别：debug、info、warning、error",
			Value:   def.Level,
		},
		&cli.StringFlag{
			Name:    FlagLogDir,
			Aliases: []string{"ld"},
			Usage:   "日志目录（默认 ~/logs）",
		},
		&cli.BoolFlag{
			Name:    FlagRotate,
			Aliases: []string{"lr"},
			Usage:   "写入每日轮转的日志文件，而不是每次运行一个文件",
		},
		&cli.IntFlag{
			Name:    FlagLogSize,
			Aliases: []string{"ls"},
			Usage:   "轮转文件大小上限（MB），0 表示只按时间轮转",
		},
		&cli.BoolFlag{
			Name:    FlagSyslog,
			Aliases: []string{"sl"},
			Usage:   "同时发送到 syslog 服务器",
		},
		&cli.StringFlag{
			Name:    FlagSyslogLevel,
			Aliases: []string{"sll"},
			Usage:   "syslog 级别：info、warning、error（不允许 debug）",
			Value:   def.SyslogLevel,
		},
		&cli.StringFlag{
			Name:  FlagSyslogServer,
			Usage: "syslog 服务器地址，未带端口时使用 514",
		},
		&cli.StringFlag{
			Name:  FlagRotateAt,
			Usage: "轮转时间边界（cron 表达式）",
			Value: xrotate.DefaultSchedule,
		},
		&cli.StringFlag{
			Name:  FlagConfig,
			Usage: "日志配置文件（YAML 或 JSON），命令行参数优先",
		},
	}
}

// ConfigFromCommand 从命令行参数构造 Config
//
// 指定了 --log_config 时先读取配置文件，再用显式给出的参数覆盖。
// 只做解析，不做 [Config.Validate]。
func ConfigFromCommand(cmd *cli.Command) (Config, error) {
	cfg := DefaultConfig()
	if path := cmd.String(FlagConfig); path != "" {
		loaded, err := LoadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if cmd.IsSet(FlagLog) {
		cfg.Level = cmd.String(FlagLog)
	}
	if cmd.IsSet(FlagLogDir) {
		cfg.Dir = cmd.String(FlagLogDir)
	}
	if cmd.IsSet(FlagRotate) {
		cfg.Rotate = cmd.Bool(FlagRotate)
	}
	if cmd.IsSet(FlagLogSize) {
		cfg.MaxSizeMB = int(cmd.Int(FlagLogSize))
	}
	if cmd.IsSet(FlagSyslog) {
		cfg.Syslog = cmd.Bool(FlagSyslog)
	}
	if cmd.IsSet(FlagSyslogLevel) {
		cfg.SyslogLevel = cmd.String(FlagSyslogLevel)
	}
	if cmd.IsSet(FlagSyslogServer) {
		cfg.SyslogServer = cmd.String(FlagSyslogServer)
	}
	if cmd.IsSet(FlagRotateAt) {
		cfg.RotateAt = cmd.String(FlagRotateAt)
	}
	return cfg, nil
}
