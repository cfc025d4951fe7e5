//go:build !mobile

// stub.go - 非移动端构建时的占位文件
//
// 移动端代码在 mobile.go 和 embed.go 中，仅在使用 -tags mobile 时编译；
// 此文件让 go build ./... 在桌面端也能通过。
package mobile

// Dummy 是一个空导出函数，确保包在非移动端构建时也能被引用
func Dummy() {}
