package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SanitizePath 对日志文件路径做格式检查并规范化。
//
//   - 拒绝空路径、含空字节的路径
//   - 拒绝以分隔符结尾的目录形式路径
//   - 拒绝含 ".." 路径段的相对路径；绝对路径中的 ".." 由 filepath.Clean 解析
//
// 返回 filepath.Clean 后的路径。
func SanitizePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("%q: %w", path, ErrNullByte)
	}
	if last := path[len(path)-1]; last == '/' || last == os.PathSeparator {
		return "", fmt.Errorf("%s: directory path given: %w", path, ErrInvalidPath)
	}
	if !filepath.IsAbs(path) && hasDotDot(path) {
		return "", fmt.Errorf("%s: %w", path, ErrPathTraversal)
	}
	return filepath.Clean(path), nil
}

// hasDotDot 逐段检查路径中是否存在恰好为 ".." 的路径段。
// "..config" 这类以点开头的普通文件名不算。
func hasDotDot(path string) bool {
	for _, seg := range strings.FieldsFunc(path, isSeparator) {
		if seg == ".." {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// ExpandHome 将 "~" 或 "~/..." 前缀展开到 home 目录。
//
// 其他形式（包括 "~user"）原样返回。home 为空时原样返回。
func ExpandHome(path, home string) string {
	if home == "" || path == "" || path[0] != '~' {
		return path
	}
	if path == "~" {
		return home
	}
	if isSeparator(rune(path[1])) {
		return filepath.Join(home, path[2:])
	}
	return path
}

// StripExt 返回 name 的基础名（去掉目录部分和最后一个扩展名）。
//
//	StripExt("/usr/local/bin/job.py") // "job"
//	StripExt("job")                   // "job"
//	StripExt(".hidden")               // ".hidden"
func StripExt(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}
