package xsink

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/xlogboot/pkg/observability/xlog"
)

const (
	instrumentationName = "github.com/omeyang/xlogboot/pkg/observability/xsink"

	metricSyslogSent     = "xlogboot.syslog.sent"
	metricSyslogFailures = "xlogboot.syslog.failures"
)

// SyslogAddr 规范化 syslog 服务器地址，未带端口时补上 [DefaultSyslogPort]
//
//	SyslogAddr("10.20.30.40")     // "10.20.30.40:514"
//	SyslogAddr("logs.local:1514") // "logs.local:1514"
//	SyslogAddr("::1")             // "[::1]:514"
func SyslogAddr(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	host := strings.TrimSuffix(strings.TrimPrefix(server, "["), "]")
	return net.JoinHostPort(host, DefaultSyslogPort)
}

// syslogConn 每条记录发送一个 UDP 数据报
//
// 连接在第一次发送时建立，写入失败后丢弃并在下次发送时重新拨号。
// 连续失败达到阈值后熔断器打开，期间直接丢弃记录，不再拨号或解析 DNS。
// 并发由 output.mu 保护。
type syslogConn struct {
	addr    string
	dial    func(network, address string) (net.Conn, error)
	conn    net.Conn
	cb      *gobreaker.CircuitBreaker[struct{}]
	onError func(error)
	sent    metric.Int64Counter
	failed  metric.Int64Counter
	attrs   metric.MeasurementOption
}

// Write 发送一个数据报；失败只上报，不返回错误
func (s *syslogConn) Write(p []byte) (int, error) {
	_, err := s.cb.Execute(func() (struct{}, error) {
		return struct{}{}, s.send(p)
	})
	if err != nil {
		s.failed.Add(context.Background(), 1, s.attrs)
		s.report(fmt.Errorf("%w: %s: %w", ErrTransport, s.addr, err))
		return len(p), nil
	}
	s.sent.Add(context.Background(), 1, s.attrs)
	return len(p), nil
}

func (s *syslogConn) send(p []byte) error {
	if s.conn == nil {
		conn, err := s.dial("udp", s.addr)
		if err != nil {
			return err
		}
		s.conn = conn
	}
	if _, err := s.conn.Write(p); err != nil {
		_ = s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *syslogConn) report(err error) {
	if s.onError == nil {
		return
	}
	defer func() { _ = recover() }()
	s.onError(err)
}

func (s *syslogConn) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// NewSyslog 创建 UDP syslog Sink，默认名称 "syslog"
//
// server 可带端口，未带时使用 514。报文格式：
//
//	<PRI>[appname]: <program>: [alias]: <user> <message>\x00
//
// facility 固定为 USER。发送是尽力而为的：失败以 [ErrTransport] 交给
// [WithOnError] 回调并计数，Handle 本身不返回错误。
func NewSyslog(server string, level xlog.Level, opts ...Option) (*Handler, error) {
	if strings.TrimSpace(server) == "" {
		return nil, ErrEmptyServer
	}
	o := newOptions(opts)
	addr := SyslogAddr(server)

	meter := o.meterProvider.Meter(instrumentationName)
	sent, err := meter.Int64Counter(metricSyslogSent,
		metric.WithDescription("syslog datagrams sent"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xsink: create counter: %w", err)
	}
	failed, err := meter.Int64Counter(metricSyslogFailures,
		metric.WithDescription("syslog datagrams dropped after a transport failure"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xsink: create counter: %w", err)
	}

	failures := o.breakerFailures
	conn := &syslogConn{
		addr: addr,
		dial: o.dial,
		cb: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "syslog:" + addr,
			MaxRequests: 1,
			Timeout:     o.breakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
		}),
		onError: o.onError,
		sent:    sent,
		failed:  failed,
		attrs:   metric.WithAttributes(attribute.String("server", addr)),
	}

	name := o.name
	if name == "" {
		name = "syslog"
	}
	f := &syslogFormatter{
		channel: o.program,
		appName: o.appName,
		alias:   o.alias,
		user:    o.user,
	}
	return newHandler(KindSyslog, name, level, f, conn, conn), nil
}
