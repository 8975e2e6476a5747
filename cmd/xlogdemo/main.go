// xlogdemo 演示 xboot 的日志引导：按命令行参数组装日志通道并输出几条示例日志。
//
// 用法:
//
//	xlogdemo [选项]
//
// 选项:
//
//	-l,  --log             控制台级别 debug/info/warning/error (默认: info)
//	-ld, --log_dir         日志目录 (默认: ~/logs)
//	-lr, --logfile_rotate  每日轮转文件，而不是每次运行一个文件
//	-ls, --logsize         轮转文件大小上限 (MB)
//	-sl, --syslog          同时发送到 syslog
//	-sll, --syslog_level   syslog 级别 info/warning/error (默认: error)
//	--syslog_server        syslog 服务器地址
//	--rotate_at            轮转时间边界 (cron)
//	--log_config           日志配置文件 (YAML/JSON)；配合 --wait 时修改 log 字段会热更新级别
//	--wait                 输出示例日志后保持运行，直到收到 SIGINT/SIGTERM
//
// 退出码:
//
//	0: 成功
//	1: 初始化失败
//	2: 参数错误
//
// 示例:
//
//	xlogdemo -l debug -ld /tmp/logs
//	xlogdemo --logfile_rotate --logsize 5
//	xlogdemo --syslog --syslog_server 10.20.30.40 --syslog_level warning
//	xlogdemo --log_config ./log.yaml --wait
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xlogboot/pkg/observability/xboot"
	"github.com/omeyang/xlogboot/pkg/observability/xlog"
)

// 版本信息（可通过 -ldflags 注入）
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

const flagWait = "wait"

// usageError 参数或配置错误，退出码 2
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stderr)
	stop()
	os.Exit(code)
}

// run 执行命令并返回退出码
func run(ctx context.Context, args []string, stderr io.Writer) int {
	program := "xlogdemo"
	if len(args) > 0 {
		program = filepath.Base(args[0])
	}
	app := createApp(program, stderr)
	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

func createApp(program string, console io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "xlogdemo",
		Usage:   "日志引导演示",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Flags: append(xboot.Flags(),
			&cli.BoolFlag{
				Name:  flagWait,
				Usage: "输出示例日志后保持运行，直到收到退出信号",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return demo(ctx, cmd, program, console)
		},
	}
}

func demo(ctx context.Context, cmd *cli.Command, program string, console io.Writer) error {
	cfg, err := xboot.ConfigFromCommand(cmd)
	if err != nil {
		return &usageError{err: err}
	}

	if cmd.Args().Present() {
		return &usageError{err: fmt.Errorf("unexpected arguments: %v", cmd.Args().Slice())}
	}

	reg := xlog.NewRegistry()
	defer reg.Close()

	ch, err := xboot.Initialize(reg, cfg, program,
		xboot.WithConsole(console),
		xboot.WithOnError(func(err error) {
			fmt.Fprintf(console, "xlogdemo: %v\n", err)
		}),
	)
	if err != nil {
		if errors.Is(err, xboot.ErrConfiguration) {
			return &usageError{err: err}
		}
		return err
	}

	emit(ctx, ch)
	if !cmd.Bool(flagWait) {
		return nil
	}
	return wait(ctx, ch, cmd.String(xboot.FlagConfig))
}

// wait 保持运行直到 ctx 取消；指定了配置文件时同时监视其变更
func wait(ctx context.Context, ch *xlog.Channel, configPath string) error {
	g, gctx := errgroup.WithContext(ctx)

	if configPath != "" {
		w, err := xboot.WatchConfig(configPath, ch, xboot.WithWatchCallback(func(cfg xboot.Config, err error) {
			if err != nil {
				ch.Warn(gctx, "reload log config failed", xlog.Err(err))
				return
			}
			ch.Info(gctx, fmt.Sprintf("Logging level has been changed to %s", xlog.MatchLevel(cfg.Level)))
		}))
		if err != nil {
			return err
		}
		g.Go(func() error {
			w.Start()
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return w.Stop()
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				ch.Info(context.WithoutCancel(gctx), "shutting down")
				return nil
			case <-ticker.C:
				ch.Debug(gctx, "heartbeat")
			}
		}
	})
	return g.Wait()
}

// emit 每个级别各输出一条示例日志
func emit(ctx context.Context, ch *xlog.Channel) {
	log := ch.With(slog.String(xlog.KeyRunID, ch.RunID()))
	log.Debug(ctx, "debug message")
	log.Info(ctx, "info message")
	log.Warn(ctx, "warning message")
	log.Error(ctx, "error message", xlog.Err(errors.New("example failure")))
}
