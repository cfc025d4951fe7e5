//go:build mobile

package utils

// IsMobile 检测当前是否在移动设备上运行
// 移动端编译时返回 true
func IsMobile() bool {
	return true
}

// TouchTargetScale 按钮点击区域的放大倍数
func TouchTargetScale() float64 {
	return mobileTouchScale
}
