package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GameSettings 用户偏好设置
// 与贺卡文案配置分开保存：文案来自 YAML 配置，偏好来自 gdata 存储
type GameSettings struct {
	MusicVolume float64 `yaml:"musicVolume"` // 音乐音量 0.0 ~ 1.0
	Fullscreen  bool    `yaml:"fullscreen"`  // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{
		MusicVolume: 0.5,
		Fullscreen:  false,
	}
}

// SettingsManager 设置管理器
// 负责偏好设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	defaults     GameSettings   // 无存档时使用的值
	settings     *GameSettings  // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "preferences"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//   - defaults: 没有已保存设置时使用的值，nil 表示 DefaultSettings()
//
// 返回：
//   - *SettingsManager: 设置管理器实例（加载失败时退回默认值，不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager, defaults *GameSettings) *SettingsManager {
	if defaults == nil {
		defaults = DefaultSettings()
	}
	sm := &SettingsManager{
		gdataManager: gdataManager,
		defaults:     *defaults,
	}
	sm.defaults.MusicVolume = clampVolume(sm.defaults.MusicVolume)
	sm.settings = sm.defaultCopy()

	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm
}

func (sm *SettingsManager) defaultCopy() *GameSettings {
	s := sm.defaults
	return &s
}

// IsPersistent 是否会写入磁盘（false 表示降级模式）
func (sm *SettingsManager) IsPersistent() bool {
	return sm.gdataManager != nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置
//
// 返回：
//   - error: 如果读取或反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = sm.defaultCopy()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = sm.defaultCopy()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = sm.defaultCopy()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 从默认值开始反序列化，缺失字段保留默认值
	loaded := sm.defaultCopy()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = sm.defaultCopy()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.MusicVolume = clampVolume(loaded.MusicVolume)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded (volume=%.2f, fullscreen=%v)", loaded.MusicVolume, loaded.Fullscreen)
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetMusicVolume 设置音乐音量
//
// 音量值会被限制在 0.0 ~ 1.0 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetMusicVolume(volume float64) {
	sm.settings.MusicVolume = clampVolume(volume)
}

// SetFullscreen 设置全屏模式
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// clampVolume 将音量值限制在 0.0 ~ 1.0 范围内
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
