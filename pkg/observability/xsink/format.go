package xsink

import (
	"log/slog"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/omeyang/xlogboot/pkg/observability/xlog"
)

// TimeLayout 日志行中的时间格式：MM/DD/YYYY hh:mm:ss AM
const TimeLayout = "01/02/2006 03:04:05 PM"

const fieldSep = " : "

// ANSI 颜色码
const (
	ansiReset  = "\x1b[0m"
	ansiWhite  = "\x1b[37m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

// formatter 把一条记录编码为一次写入的字节
//
// attrs 是 WithAttrs 预先编码好的属性，prefix 是当前分组前缀（如 "g1.g2."）。
type formatter interface {
	format(buf []byte, r slog.Record, attrs []byte, prefix string) []byte
}

// lineFormatter 控制台与文件共用的单行格式：
//
//	<program> : <user> : <MM/DD/YYYY hh:mm:ss AM> : <LEVEL> : <message>[ key=value...]
type lineFormatter struct {
	program string
	user    string
	color   bool
}

func (f *lineFormatter) format(buf []byte, r slog.Record, attrs []byte, prefix string) []byte {
	code := ""
	if f.color {
		code = levelColor(r.Level)
	}
	buf = append(buf, code...)
	buf = append(buf, f.program...)
	buf = append(buf, fieldSep...)
	buf = append(buf, f.user...)
	buf = append(buf, fieldSep...)
	buf = r.Time.AppendFormat(buf, TimeLayout)
	buf = append(buf, fieldSep...)
	buf = append(buf, xlog.Level(r.Level).String()...)
	buf = append(buf, fieldSep...)
	buf = append(buf, r.Message...)
	buf = appendRecordAttrs(buf, r, attrs, prefix)
	if code != "" {
		buf = append(buf, ansiReset...)
	}
	return append(buf, '\n')
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level < slog.LevelInfo:
		return ansiWhite
	default:
		return ""
	}
}

// syslogFormatter RFC 3164 风格的精简报文，facility 固定为 USER：
//
//	<PRI>[appname]: <channel>: [alias]: <user> <message>[ key=value...]\x00
type syslogFormatter struct {
	channel string
	appName string
	alias   string
	user    string
}

// facilityUser syslog facility USER(1) 左移 3 位
const facilityUser = 1 << 3

// Severity 返回级别对应的 syslog severity
func Severity(level slog.Level) int {
	switch {
	case level >= slog.LevelError:
		return 3
	case level >= slog.LevelWarn:
		return 4
	case level >= slog.LevelInfo:
		return 6
	default:
		return 7
	}
}

func (f *syslogFormatter) format(buf []byte, r slog.Record, attrs []byte, prefix string) []byte {
	buf = append(buf, '<')
	buf = strconv.AppendInt(buf, int64(facilityUser|Severity(r.Level)), 10)
	buf = append(buf, '>', '[')
	buf = append(buf, f.appName...)
	buf = append(buf, "]: "...)
	buf = append(buf, f.channel...)
	buf = append(buf, ": ["...)
	buf = append(buf, f.alias...)
	buf = append(buf, "]: "...)
	buf = append(buf, f.user...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = appendRecordAttrs(buf, r, attrs, prefix)
	return append(buf, 0)
}

func appendRecordAttrs(buf []byte, r slog.Record, attrs []byte, prefix string) []byte {
	buf = append(buf, attrs...)
	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, a, prefix)
		return true
	})
	return buf
}

// appendAttr 以 " key=value" 形式追加属性，分组展开为以点分隔的 key
func appendAttr(buf []byte, a slog.Attr, prefix string) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return buf
		}
		sub := prefix
		if a.Key != "" {
			sub = prefix + a.Key + "."
		}
		for _, ga := range group {
			buf = appendAttr(buf, ga, sub)
		}
		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	return appendValue(buf, a.Value)
}

func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		return appendString(buf, v.String())
	case slog.KindTime:
		return v.Time().AppendFormat(buf, time.RFC3339)
	case slog.KindInt64:
		return strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(buf, v.Uint64(), 10)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindFloat64:
		return strconv.AppendFloat(buf, v.Float64(), 'g', -1, 64)
	default:
		return appendString(buf, v.String())
	}
}

func appendString(buf []byte, s string) []byte {
	if needsQuoting(s) {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

func needsQuoting(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			if b <= ' ' || b == '=' || b == '"' || b == 0x7f {
				return true
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return true
		}
		i += size
	}
	return false
}
