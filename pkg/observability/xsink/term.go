package xsink

import "github.com/mattn/go-isatty"

// isTerminal 判断 fd 是否为终端（含 Windows 上的 Cygwin/MSYS 终端）
func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
