package xrotate

import "errors"

// 配置校验错误
var (
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrInvalidMaxSize 大小上限为负数
	ErrInvalidMaxSize = errors.New("xrotate: invalid max size")

	// ErrInvalidFileMode FileMode 包含非权限位（仅允许低 9 位 0000~0777）
	ErrInvalidFileMode = errors.New("xrotate: invalid FileMode")

	// ErrInvalidSchedule cron 表达式无法解析
	ErrInvalidSchedule = errors.New("xrotate: invalid schedule")
)

// 运行期错误
var (
	// ErrClosed 轮转器已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")

	// ErrRotation 轮转失败（重命名或打开新文件失败），记录继续写入旧文件
	ErrRotation = errors.New("xrotate: rotation failed")
)
