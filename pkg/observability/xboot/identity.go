package xboot

import (
	"os"
	"os/user"
)

// 可替换，仅用于测试
var (
	lookupUser = user.Current
	lookupHome = os.UserHomeDir
)

// currentUser 返回当前操作系统用户名
//
// 查询失败时依次回退到 USER、USERNAME 环境变量，都没有时返回 "unknown"。
func currentUser() string {
	if u, err := lookupUser(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "unknown"
}
