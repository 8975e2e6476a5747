package xboot

import "errors"

// 错误分类，调用方用 errors.Is 判断
var (
	// ErrConfiguration 配置无效，Initialize 在产生任何副作用之前返回
	ErrConfiguration = errors.New("xboot: invalid configuration")

	// ErrFilesystem 创建日志目录或打开日志文件失败
	ErrFilesystem = errors.New("xboot: filesystem error")
)

// 具体的配置错误，总是与 [ErrConfiguration] 一起包装
var (
	// ErrSyslogServerRequired 启用了 syslog 但未提供服务器地址
	ErrSyslogServerRequired = errors.New("xboot: syslog enabled without a syslog server")

	// ErrSyslogLevel syslog 级别不是 info、warning、error 之一（不允许 debug）
	ErrSyslogLevel = errors.New("xboot: syslog level must be info, warning or error")

	// ErrInvalidMaxSize 轮转大小上限为负数
	ErrInvalidMaxSize = errors.New("xboot: logsize must not be negative")

	// ErrInvalidSchedule 轮转时间表达式无法解析
	ErrInvalidSchedule = errors.New("xboot: invalid rotate_at schedule")

	// ErrProgramName 程序名为空
	ErrProgramName = errors.New("xboot: program name is required")

	// ErrAlreadyInitialized Registry 中已存在同名 Channel
	ErrAlreadyInitialized = errors.New("xboot: channel already initialized")

	// ErrConfigFormat 配置文件扩展名不是 .yaml/.yml/.json
	ErrConfigFormat = errors.New("xboot: unsupported config file format")
)
