//go:build !mobile

package utils

import "os"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false
// 可以通过设置环境变量 XMAS_MOBILE_EMULATE=1 强制启用移动模式（放大按钮点击区域，用于本地调试）
func IsMobile() bool {
	return os.Getenv("XMAS_MOBILE_EMULATE") == "1"
}

// TouchTargetScale 按钮点击区域的放大倍数
// 手指比鼠标指针粗，移动模式下放大点击半径
func TouchTargetScale() float64 {
	if IsMobile() {
		return mobileTouchScale
	}
	return 1
}
