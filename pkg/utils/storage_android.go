//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 确保 Android 上 gdata 使用的设置目录存在并可写
// gdata 在 Android 上写入 /data/data/{package}/，但不会预先创建子目录，
// 因此必须在 gdata.Open 之前调用。
func EnsureStorageDir() error {
	dir := GetStoragePath()
	if dir == "" {
		return fmt.Errorf("failed to detect Android package name")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("settings directory %s is not writable: %w", dir, err)
	}
	os.Remove(probe)
	return nil
}

// GetStoragePath 返回 Android 设置目录，无法检测包名时返回空字符串
func GetStoragePath() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}

	// cmdline 以 NUL 分隔，第一个字段即包名
	app := strings.TrimSpace(strings.SplitN(string(data), "\x00", 2)[0])
	if app == "" {
		return ""
	}
	return filepath.Join("/data/data", app, "settings")
}
