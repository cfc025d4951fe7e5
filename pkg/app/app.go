// Package app 提供贺卡应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/game"
	"github.com/decker502/xmasgreeting/pkg/scenes"
	"github.com/decker502/xmasgreeting/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/quasilyte/gdata/v2"
)

// 应用名（gdata 存储目录）
const appName = "xmasgreeting"

// volumeStep 每次按 +/- 调整的音量
const volumeStep = 0.1

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 体验配置路径，为空则使用嵌入的 data/experience.yaml
	ConfigPath string
	// CardSet 覆盖贺卡文案集合名
	CardSet string
	// AudioSource 覆盖背景音乐来源
	AudioSource string
	// Fullscreen 启动时全屏
	Fullscreen bool
	// Seed 随机种子（0 表示按时间生成）
	Seed int64
	// PersistSettings 将音量与全屏设置保存到用户数据目录
	PersistSettings bool
}

// App 是贺卡应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	experience      *config.ExperienceConfig
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	audioManager    *game.AudioManager
}

// NewApp 创建并初始化贺卡应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	experience, err := loadExperience(cfg)
	if err != nil {
		return nil, err
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(48000)

	timeout := time.Duration(experience.Audio.TimeoutSeconds * float64(time.Second))
	resourceManager := game.NewResourceManager(audioContext, timeout)

	fonts, err := loadFonts(resourceManager, experience.Font)
	if err != nil {
		return nil, fmt.Errorf("字体加载失败: %w", err)
	}

	settingsManager := game.NewSettingsManager(openSettingsStore(cfg.PersistSettings), &game.GameSettings{
		MusicVolume: experience.Audio.Volume,
		Fullscreen:  cfg.Fullscreen,
	})
	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	audioManager := game.NewAudioManager(resourceManager, settingsManager, experience.Audio.Source, experience.Audio.Volume)
	log.Printf("[App] AudioManager initialized (source: %q)", experience.Audio.Source)

	controller := game.NewExperienceController(audioManager, experience.Card.AutoOpenSeconds)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	scene, err := scenes.NewGreetingScene(scenes.GreetingSceneOptions{
		Config:     experience,
		Controller: controller,
		Fonts:      fonts,
		Rand:       rand.New(rand.NewSource(seed)),
		Width:      config.DefaultWindowWidth,
		Height:     config.DefaultWindowHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scene)

	return &App{
		experience:      experience,
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
		audioManager:    audioManager,
	}, nil
}

// loadExperience 加载体验配置并应用命令行覆盖
func loadExperience(cfg Config) (*config.ExperienceConfig, error) {
	path := cfg.ConfigPath
	if path == "" {
		path = config.DefaultExperienceConfigPath
	}
	experience, err := config.LoadExperienceConfig(path)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}

	if cfg.CardSet != "" {
		if err := experience.SelectCardSet(cfg.CardSet); err != nil {
			return nil, fmt.Errorf("贺卡文案选择失败: %w", err)
		}
	}
	if cfg.AudioSource != "" {
		experience.Audio.Source = cfg.AudioSource
	}
	return experience, nil
}

// loadFonts 加载场景所需的全部字号（可被配置中的 TTF 覆盖）
func loadFonts(rm *game.ResourceManager, fc config.FontConfig) (scenes.SceneFonts, error) {
	var fonts scenes.SceneFonts
	specs := []struct {
		dst      **text.GoTextFace
		override string
		builtin  string
		size     float64
	}{
		{&fonts.Header, fc.Bold, game.FontBold, config.HeaderFontSize},
		{&fonts.Ticker, fc.Bold, game.FontBold, config.TickerFontSize},
		{&fonts.Prompt, fc.Regular, game.FontRegular, config.PromptFontSize},
		{&fonts.Label, fc.Bold, game.FontBold, config.WarningFontSize},
		{&fonts.Hint, fc.Regular, game.FontRegular, config.WarningHintSize},
		{&fonts.Card.Title, fc.Bold, game.FontBold, config.CardTitleFontSize},
		{&fonts.Card.Line, fc.Regular, game.FontRegular, config.CardLineFontSize},
		{&fonts.Card.Salutation, fc.Bold, game.FontBold, config.CardSalutationSize},
		{&fonts.Card.Hint, fc.Regular, game.FontRegular, config.CardHintFontSize},
	}
	for _, spec := range specs {
		face, err := rm.LoadFontOr(spec.override, spec.builtin, spec.size)
		if err != nil {
			return scenes.SceneFonts{}, err
		}
		*spec.dst = face
	}
	return fonts, nil
}

// openSettingsStore 打开 gdata 存储；失败时返回 nil（设置仅保存在内存中）
func openSettingsStore(persist bool) *gdata.Manager {
	if !persist {
		return nil
	}
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: settings storage unavailable: %v", err)
		return nil
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: failed to open settings storage: %v", err)
		return nil
	}
	return manager
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settingsManager.SetFullscreen(fullscreen)
		a.saveSettings()
	}

	// +/- 调整音量
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		a.changeVolume(volumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		a.changeVolume(-volumeStep)
	}

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// changeVolume 调整音量并保存
func (a *App) changeVolume(delta float64) {
	a.audioManager.SetVolume(a.audioManager.Volume() + delta)
	log.Printf("[App] Music volume: %.1f", a.audioManager.Volume())
	a.saveSettings()
}

func (a *App) saveSettings() {
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 画面与窗口同尺寸，这里只负责用线性滤波放大（高 DPI 屏幕）
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 逻辑尺寸跟随窗口大小，场景原地适配（雪花不重建）
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return config.DefaultWindowWidth, config.DefaultWindowHeight
	}
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close 释放场景与音乐（窗口关闭时调用）
func (a *App) Close() {
	a.sceneManager.Dispose()
	a.saveSettings()
	log.Printf("[App] Closed")
}

// Title 窗口标题（来自配置）
func (a *App) Title() string {
	if a.experience.Title == "" {
		return config.WindowTitle
	}
	return a.experience.Title
}
