package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，与 slog.Level 兼容
type Level slog.Level

// 日志级别常量，与 slog 保持一致
const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// String 返回级别的字符串表示
//
// 标准级别返回 DEBUG/INFO/WARNING/ERROR（日志行与 syslog 中使用的名称），
// 非标准级别委托给 slog.Level.String()（如 "INFO+2"）。
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return slog.Level(l).String()
	}
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口（严格解析，见 [ParseLevel]）
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 严格解析级别字符串
// 支持 debug/info/warn/warning/error（大小写不敏感，自动 TrimSpace）
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
	}
}

// levelMatchers MatchLevel 的匹配顺序，先匹配者胜出
var levelMatchers = [...]struct {
	word  string
	level Level
}{
	{"DEBUG", LevelDebug},
	{"WARNING", LevelWarn},
	{"ERROR", LevelError},
}

// MatchLevel 宽松解析命令行传入的级别字符串，从不失败
//
// 输入转为大写后，按 DEBUG、WARNING、ERROR 的顺序检查：
// 输入中包含某个单词的全部字母（不要求连续、不要求顺序）即匹配该级别；
// 都不匹配时返回 INFO。
//
//	MatchLevel("debug")              // DEBUG
//	MatchLevel("verbose-debug-mode") // DEBUG
//	MatchLevel("begud")              // DEBUG（字母集合相同）
//	MatchLevel("warn")               // INFO（缺少 I、G，不是 WARNING）
//
// 这是对历史命令行行为的兼容；配置文件等需要严格校验的场景使用 [ParseLevel]。
func MatchLevel(s string) Level {
	upper := strings.ToUpper(s)
	for _, m := range levelMatchers {
		if containsAllLetters(upper, m.word) {
			return m.level
		}
	}
	return LevelInfo
}

func containsAllLetters(s, word string) bool {
	for _, r := range word {
		if !strings.ContainsRune(s, r) {
			return false
		}
	}
	return true
}
