package xboot

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain 检测 goroutine 泄漏：配置监视器与 syslog 测试都会启动后台资源
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
