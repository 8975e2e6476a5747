package xlog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChannel(t *testing.T, opts ...ChannelOption) *Channel {
	t.Helper()
	ch, err := NewRegistry().Channel("job", opts...)
	require.NoError(t, err)
	return ch
}

// =============================================================================
// 分发与级别
// =============================================================================

func TestChannel_FanOutRespectsSinkFloors(t *testing.T) {
	ch := newTestChannel(t, WithLevel(LevelDebug))
	console := newMemSink("console", LevelInfo)
	errLog := newMemSink("error", LevelError)
	all := newMemSink("all", LevelDebug)
	for _, s := range []*memSink{console, errLog, all} {
		require.NoError(t, ch.Attach(s))
	}

	ctx := context.Background()
	ch.Debug(ctx, "d")
	ch.Info(ctx, "i")
	ch.Warn(ctx, "w")
	ch.Error(ctx, "e")

	assert.Equal(t, []string{"INFO i", "WARNING w", "ERROR e"}, console.Lines())
	assert.Equal(t, []string{"ERROR e"}, errLog.Lines())
	assert.Equal(t, []string{"DEBUG d", "INFO i", "WARNING w", "ERROR e"}, all.Lines())
}

func TestChannel_ChannelFloorFiltersFirst(t *testing.T) {
	ch := newTestChannel(t) // 默认 INFO
	all := newMemSink("all", LevelDebug)
	require.NoError(t, ch.Attach(all))

	ch.Debug(context.Background(), "dropped")
	assert.Empty(t, all.Lines())

	ch.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, ch.GetLevel())
	ch.Debug(context.Background(), "kept")
	assert.Equal(t, []string{"DEBUG kept"}, all.Lines())
}

func TestChannel_Enabled(t *testing.T) {
	ch := newTestChannel(t, WithLevel(LevelDebug))
	assert.False(t, ch.Enabled(context.Background(), LevelError), "没有 Sink 时不启用")

	require.NoError(t, ch.Attach(newMemSink("error", LevelError)))
	assert.False(t, ch.Enabled(context.Background(), LevelWarn))
	assert.True(t, ch.Enabled(context.Background(), LevelError))
}

func TestChannel_NilContext(t *testing.T) {
	ch := newTestChannel(t)
	s := newMemSink("all", LevelDebug)
	require.NoError(t, ch.Attach(s))

	//nolint:staticcheck // 故意传入 nil context
	ch.Info(nil, "ok")
	assert.Equal(t, []string{"INFO ok"}, s.Lines())
}

func TestChannel_WithAndGroup(t *testing.T) {
	ch := newTestChannel(t)
	s := newMemSink("all", LevelDebug)
	require.NoError(t, ch.Attach(s))

	child := ch.With(slog.String("a", "1")).WithGroup("g")
	child.Info(context.Background(), "m", slog.Int("b", 2))
	assert.Equal(t, []string{"INFO m a=1 g.b=2"}, s.Lines())

	// 派生 logger 看得到之后挂载的 Sink
	late := newMemSink("late", LevelDebug)
	require.NoError(t, ch.Attach(late))
	child.Info(context.Background(), "n")
	assert.Equal(t, []string{"INFO n a=1"}, late.Lines())

	// 派生 logger 共享级别
	ch.SetLevel(LevelError)
	child.Info(context.Background(), "dropped")
	assert.Len(t, late.Lines(), 1)

	assert.Same(t, ch.xlogger, ch.With().(*xlogger))
	assert.Same(t, ch.xlogger, ch.WithGroup("").(*xlogger))
}

// =============================================================================
// 错误处理
// =============================================================================

func TestChannel_SinkErrorIsolated(t *testing.T) {
	var got []error
	ch := newTestChannel(t, WithOnError(func(err error) { got = append(got, err) }))
	broken := newMemSink("broken", LevelDebug)
	broken.err = errSinkBroken
	ok := newMemSink("ok", LevelDebug)
	require.NoError(t, ch.Attach(broken))
	require.NoError(t, ch.Attach(ok))

	ch.Info(context.Background(), "m")

	assert.Equal(t, []string{"INFO m"}, ok.Lines(), "其余 Sink 照常写入")
	require.Len(t, got, 1)
	assert.ErrorIs(t, got[0], errSinkBroken)
	assert.Contains(t, got[0].Error(), "broken")
	assert.Equal(t, uint64(1), ch.ErrorCount())
}

func TestChannel_OnErrorPanicIsolated(t *testing.T) {
	ch := newTestChannel(t, WithOnError(func(error) { panic("boom") }))
	broken := newMemSink("broken", LevelDebug)
	broken.err = errSinkBroken
	require.NoError(t, ch.Attach(broken))

	assert.NotPanics(t, func() { ch.Error(context.Background(), "m") })
	assert.Equal(t, uint64(2), ch.ErrorCount(), "写入失败与回调 panic 各计一次")
}

func TestChannel_OnErrorNoRecursion(t *testing.T) {
	var ch *Channel
	calls := 0
	ch = newTestChannel(t, WithOnError(func(error) {
		calls++
		ch.Error(context.Background(), "inside callback")
	}))
	broken := newMemSink("broken", LevelDebug)
	broken.err = errSinkBroken
	require.NoError(t, ch.Attach(broken))

	ch.Error(context.Background(), "m")
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(2), ch.ErrorCount())
}

// =============================================================================
// Sink 管理
// =============================================================================

func TestChannel_AttachDetach(t *testing.T) {
	ch := newTestChannel(t)

	assert.ErrorIs(t, ch.Attach(nil), ErrNilSink)

	a := newMemSink("a", LevelDebug)
	require.NoError(t, ch.Attach(a))
	assert.ErrorIs(t, ch.Attach(newMemSink("a", LevelInfo)), ErrDuplicateSink)
	require.NoError(t, ch.Attach(newMemSink("b", LevelInfo)))

	names := func() []string {
		var out []string
		for _, s := range ch.Sinks() {
			out = append(out, s.Name())
		}
		return out
	}
	assert.Equal(t, []string{"a", "b"}, names())
	assert.Same(t, a, ch.Sink("a"))
	assert.Nil(t, ch.Sink("missing"))

	assert.Same(t, a, ch.Detach("a"))
	assert.Nil(t, ch.Detach("a"))
	assert.Equal(t, []string{"b"}, names())
	assert.Zero(t, a.Closed(), "Detach 不关闭 Sink")
}

func TestChannel_Close(t *testing.T) {
	ch := newTestChannel(t)
	a := newMemSink("a", LevelDebug)
	b := newMemSink("b", LevelDebug)
	b.shared.closeEr = errors.New("disk gone")
	require.NoError(t, ch.Attach(a))
	require.NoError(t, ch.Attach(b))

	err := ch.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close sink b")
	assert.Equal(t, 1, a.Closed())
	assert.Equal(t, 1, b.Closed())
	assert.Empty(t, ch.Sinks())

	assert.NoError(t, ch.Close(), "重复关闭返回 nil")
	assert.Equal(t, 1, a.Closed())
	assert.ErrorIs(t, ch.Attach(newMemSink("c", LevelDebug)), ErrChannelClosed)
}

func TestChannel_Identity(t *testing.T) {
	ch := newTestChannel(t)
	assert.Equal(t, "job", ch.Name())
	_, err := uuid.Parse(ch.RunID())
	assert.NoError(t, err)

	assert.Empty(t, ch.Filename())
	ch.SetFilename("/tmp/x/2024-01-01_00-00-00_job.log")
	assert.Equal(t, "/tmp/x/2024-01-01_00-00-00_job.log", ch.Filename())
}

func TestChannel_ConcurrentAttachAndLog(t *testing.T) {
	ch := newTestChannel(t, WithLevel(LevelDebug))
	base := newMemSink("base", LevelDebug)
	require.NoError(t, ch.Attach(base))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				ch.Info(context.Background(), "m")
			}
		}()
		go func() {
			defer wg.Done()
			name := string(rune('a' + i))
			_ = ch.Attach(newMemSink(name, LevelDebug))
			ch.Detach(name)
		}()
	}
	wg.Wait()
	assert.Len(t, base.Lines(), 8*50)
}

func TestChannel_ConcurrentAttachSameName(t *testing.T) {
	ch := newTestChannel(t)

	const n = 16
	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
	)
	start := make(chan struct{})
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := ch.Attach(newMemSink("dup", LevelDebug))
			if err == nil {
				accepted.Add(1)
				return
			}
			assert.ErrorIs(t, err, ErrDuplicateSink)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load(), "同名 Sink 只能挂载一次")
	assert.Len(t, ch.Sinks(), 1)
}

func TestChannel_AttachRacingClose(t *testing.T) {
	for range 20 {
		ch := newTestChannel(t)

		const n = 8
		sinks := make([]*memSink, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		start := make(chan struct{})
		for i := range n {
			sinks[i] = newMemSink(string(rune('a'+i)), LevelDebug)
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				errs[i] = ch.Attach(sinks[i])
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_ = ch.Close()
		}()
		close(start)
		wg.Wait()

		for i, s := range sinks {
			if errs[i] != nil {
				assert.ErrorIs(t, errs[i], ErrChannelClosed)
				assert.Zero(t, s.Closed(), "被拒绝的 Sink 归调用方所有")
				continue
			}
			assert.Equal(t, 1, s.Closed(), "挂载成功的 Sink 必须被 Close 关闭")
		}
		assert.Empty(t, ch.Sinks())
	}
}
