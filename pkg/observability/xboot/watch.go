package xboot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/xlogboot/pkg/observability/xlog"
)

// WatchCallback 配置文件重载后的回调，err 非 nil 表示重载失败、级别未变
type WatchCallback func(cfg Config, err error)

// WatchOption 监视器选项
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
	callback WatchCallback
}

// WithDebounce 设置防抖时间，默认 100ms
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithWatchCallback 设置重载回调
func WithWatchCallback(fn WatchCallback) WatchOption {
	return func(o *watchOptions) {
		o.callback = fn
	}
}

// Watcher 监视配置文件，变更后热更新 Channel 的级别
//
// 只有 log 字段会热更新：Channel 级别、控制台与会话文件 Sink 的级别下限。
// 目录、轮转、syslog 等字段需要重新 Initialize。
type Watcher struct {
	path     string
	ch       *xlog.Channel
	watcher  *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	running bool
	timer   *time.Timer
	wg      sync.WaitGroup
}

// WatchConfig 创建配置文件监视器，需调用 Start 或 StartAsync 开始监视
//
// 监视的是文件所在目录：编辑器保存时常先删除再创建，直接监视文件会丢失事件。
//
//	w, err := xboot.WatchConfig("/etc/job/log.yaml", ch)
//	if err != nil {
//	    return err
//	}
//	w.StartAsync()
//	defer w.Stop()
func WatchConfig(path string, ch *xlog.Channel, opts ...WatchOption) (*Watcher, error) {
	if ch == nil {
		return nil, fmt.Errorf("%w: channel is nil", ErrConfiguration)
	}
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}

	o := &watchOptions{debounce: 100 * time.Millisecond}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xboot: create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xboot: watch directory %s: %w", dir, err), fsw.Close())
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		ch:       ch,
		watcher:  fsw,
		callback: o.callback,
		debounce: o.debounce,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start 阻塞监视，直到 Stop
func (w *Watcher) Start() {
	if !w.markRunning() {
		return
	}
	w.run()
}

// StartAsync 在后台 goroutine 中监视
func (w *Watcher) StartAsync() {
	if !w.markRunning() {
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run()
	}()
}

func (w *Watcher) markRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.ctx.Err() != nil {
		return false
	}
	w.running = true
	return true
}

// Stop 停止监视并等待后台 goroutine 退出，重复调用返回 nil
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.ctx.Err() != nil {
		w.mu.Unlock()
		return nil
	}
	w.stopTimerLocked()
	w.cancel()
	w.running = false
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	filename := filepath.Base(w.path)
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event, filename)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.notify(Config{}, fmt.Errorf("xboot: watch error: %w", err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event, filename string) {
	if filepath.Base(event.Name) != filename {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	w.stopTimerLocked()
	w.wg.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		if w.ctx.Err() != nil {
			return
		}
		cfg, err := w.Reload()
		w.notify(cfg, err)
	})
}

// stopTimerLocked 取消尚未触发的防抖定时器
func (w *Watcher) stopTimerLocked() {
	if w.timer != nil && w.timer.Stop() {
		w.wg.Done()
	}
	w.timer = nil
}

// Reload 立即重新读取配置文件并应用级别
func (w *Watcher) Reload() (Config, error) {
	cfg, err := LoadConfigFile(w.path)
	if err != nil {
		return cfg, err
	}
	ApplyLevel(w.ch, cfg.Level)
	return cfg, nil
}

func (w *Watcher) notify(cfg Config, err error) {
	if w.callback != nil {
		w.callback(cfg, err)
	}
}

// ApplyLevel 把宽松匹配后的级别应用到 Channel 及其控制台、会话文件 Sink
func ApplyLevel(ch *xlog.Channel, level string) xlog.Level {
	lv := xlog.MatchLevel(level)
	ch.SetLevel(lv)
	for _, name := range []string{SinkConsole, SinkSession} {
		if s, ok := ch.Sink(name).(xlog.LevelSetter); ok {
			s.SetLevel(lv)
		}
	}
	return lv
}
