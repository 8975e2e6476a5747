package xlog

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrEmptyChannelName Channel 名称为空
	ErrEmptyChannelName = errors.New("xlog: empty channel name")

	// ErrChannelExists Create 时同名 Channel 已存在
	ErrChannelExists = errors.New("xlog: channel already exists")
)

// ChannelOption Channel 创建选项，仅在首次创建时生效
type ChannelOption func(*channelOptions)

type channelOptions struct {
	level   Level
	onError func(error)
}

// WithOnError 设置 Sink 写入失败回调
//
// 回调带递归保护与 panic 隔离；未设置时错误只计数（见 ErrorCount）。
func WithOnError(fn func(error)) ChannelOption {
	return func(o *channelOptions) {
		o.onError = fn
	}
}

// WithLevel 设置 Channel 初始级别下限，默认 LevelInfo
func WithLevel(level Level) ChannelOption {
	return func(o *channelOptions) {
		o.level = level
	}
}

// Registry 按名称管理 Channel
//
// 取代进程级全局 logger：调用方显式持有 Registry，测试之间互不影响。
type Registry struct {
	mu       sync.Mutex
	channels map[string]*Channel
}

// NewRegistry 创建空 Registry
func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]*Channel)}
}

// Channel 获取或创建指定名称的 Channel
//
// 同名 Channel 已存在时直接返回，opts 被忽略。
func (r *Registry) Channel(name string, opts ...ChannelOption) (*Channel, error) {
	if name == "" {
		return nil, ErrEmptyChannelName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ch, ok := r.channels[name]; ok {
		return ch, nil
	}
	return r.createLocked(name, opts), nil
}

// Create 创建新的 Channel，同名 Channel 已存在时返回 [ErrChannelExists]
//
// 用于需要独占一个名称的场景（如按配置组装整套 Sink），检查与创建是原子的。
func (r *Registry) Create(name string, opts ...ChannelOption) (*Channel, error) {
	if name == "" {
		return nil, ErrEmptyChannelName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelExists, name)
	}
	return r.createLocked(name, opts), nil
}

func (r *Registry) createLocked(name string, opts []ChannelOption) *Channel {
	o := &channelOptions{level: LevelInfo}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	ch := newChannel(name, o)
	r.channels[name] = ch
	return ch
}

// Lookup 查找已存在的 Channel
func (r *Registry) Lookup(name string) (*Channel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[name]
	return ch, ok
}

// Remove 从 Registry 移除 Channel，不关闭它
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	delete(r.channels, name)
	r.mu.Unlock()
}

// Unregister 仅当 ch 仍是其名称下登记的 Channel 时移除，不关闭它
func (r *Registry) Unregister(ch *Channel) {
	if ch == nil {
		return
	}
	r.mu.Lock()
	if r.channels[ch.name] == ch {
		delete(r.channels, ch.name)
	}
	r.mu.Unlock()
}

// Names 返回所有 Channel 名称（已排序）
func (r *Registry) Names() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	r.mu.Unlock()
	slices.Sort(names)
	return names
}

// Close 关闭并移除所有 Channel
func (r *Registry) Close() error {
	r.mu.Lock()
	channels := r.channels
	r.channels = make(map[string]*Channel)
	r.mu.Unlock()

	var errs []error
	for _, ch := range channels {
		if err := ch.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
