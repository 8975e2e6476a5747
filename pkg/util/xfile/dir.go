package xfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDirPerm 日志目录默认权限（所有者 rwx，组 r-x，其他无权限）
const DefaultDirPerm os.FileMode = 0o750

// DefaultFilePerm 日志文件默认权限（所有者 rw，组 r，其他无权限）
const DefaultFilePerm os.FileMode = 0o640

// EnsureDirPath 确保目录 dir 存在，不存在时递归创建。
//
// dir 已存在且是目录时直接返回；已存在但不是目录时返回 [ErrNotDir]。
// 不修改已存在目录的权限。
func EnsureDirPath(dir string) error {
	if dir == "" {
		return fmt.Errorf("directory is required: %w", ErrEmptyPath)
	}
	if strings.ContainsRune(dir, 0) {
		return fmt.Errorf("directory %q: %w", dir, ErrNullByte)
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%s: %w", dir, ErrNotDir)
		}
		return nil
	case !os.IsNotExist(err):
		return err
	}

	return os.MkdirAll(dir, DefaultDirPerm)
}

// EnsureDir 确保文件 filename 的父目录存在。
//
// 父目录为 "." 时（当前工作目录下的文件名）不做任何操作。
func EnsureDir(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	return EnsureDirPath(dir)
}
