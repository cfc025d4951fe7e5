package scenes

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/ecs"
	"github.com/decker502/xmasgreeting/pkg/entities"
	"github.com/decker502/xmasgreeting/pkg/game"
	"github.com/decker502/xmasgreeting/pkg/systems"
	"github.com/decker502/xmasgreeting/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// SceneFonts 场景使用的字体（任一项可为 nil，对应文字不绘制）
type SceneFonts struct {
	Header *text.GoTextFace // 标题
	Ticker *text.GoTextFace // 滚动祝福语
	Prompt *text.GoTextFace // 开始提示
	Label  *text.GoTextFace // 错误提示标题、按钮文字
	Hint   *text.GoTextFace // 错误提示说明
	Card   systems.CardFonts
}

// GreetingSceneOptions 创建场景所需的依赖
type GreetingSceneOptions struct {
	Config     *config.ExperienceConfig
	Controller *game.ExperienceController
	Fonts      SceneFonts
	Rand       *rand.Rand // nil 时使用固定种子
	Width      int
	Height     int
}

// GreetingScene 圣诞贺卡场景
//
// 组合雪花、圣诞树、打字机提示、祝福语滚动与贺卡五个系统，
// 会话状态全部来自 ExperienceController，场景只负责：
//   - 把点击和按键转换为控制器操作（命中顺序：贺卡 > 开始星星 > 右上角 > 打开贺卡按钮）
//   - 把会话状态同步到各系统（树可见性、滚动条、贺卡开关）
//   - 绘制
type GreetingScene struct {
	cfg        *config.ExperienceConfig
	controller *game.ExperienceController
	fonts      SceneFonts

	entityManager    *ecs.EntityManager
	snowSystem       *systems.SnowSystem
	treeSystem       *systems.TreeSystem
	typewriterSystem *systems.TypewriterSystem
	tickerSystem     *systems.GreetingTickerSystem
	cardSystem       *systems.MessageCardSystem

	prompt ecs.EntityID // 开始提示的打字机（开始后销毁）

	width, height float64
	clock         float64 // 场景时钟（浮动、弹跳动画）
	sinceStart    float64 // 开始后经过的时间

	disposed bool
}

// NewGreetingScene 创建贺卡场景
//
// 参数：
//   - opts: 配置、控制器、字体、随机源与初始尺寸
//
// 返回：
//   - *GreetingScene: 场景实例（雪花已生成，提示语开始打字）
//   - error: 配置或时序参数非法
func NewGreetingScene(opts GreetingSceneOptions) (*GreetingScene, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("greeting scene: config is required")
	}
	if opts.Controller == nil {
		return nil, fmt.Errorf("greeting scene: controller is required")
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = config.DefaultWindowWidth, config.DefaultWindowHeight
	}

	cfg := opts.Config
	em := ecs.NewEntityManager()
	s := &GreetingScene{
		cfg:              cfg,
		controller:       opts.Controller,
		fonts:            opts.Fonts,
		entityManager:    em,
		snowSystem:       systems.NewSnowSystem(em, rng, cfg.Snow.Count),
		typewriterSystem: systems.NewTypewriterSystem(em),
		tickerSystem:     systems.NewGreetingTickerSystem(em),
		cardSystem:       systems.NewMessageCardSystem(em, opts.Fonts.Card),
		width:            float64(width),
		height:           float64(height),
	}

	s.treeSystem = systems.NewTreeSystem(em, rng, systems.TreeSettings{
		Params: entities.OrnamentParams{
			Count:         cfg.Tree.Count,
			Turns:         cfg.Tree.Turns,
			BaseRadius:    cfg.Tree.BaseRadius,
			Height:        cfg.Tree.Height,
			VerticalShift: cfg.Tree.VerticalShift,
			Palette:       cfg.PaletteColors(),
		},
		SpinPeriod:    cfg.Tree.SpinPeriod,
		Perspective:   cfg.Tree.Perspective,
		FadeInSeconds: cfg.Tree.FadeInSeconds,
	})

	s.snowSystem.Spawn(s.width, s.height)

	prompt, err := s.typewriterSystem.Start(cfg.Prompt.Text, cfg.Prompt.CharDelay, cfg.Prompt.PauseAfter, s.retypePrompt)
	if err != nil {
		return nil, fmt.Errorf("greeting scene: %w", err)
	}
	s.prompt = prompt

	log.Printf("[GreetingScene] Created (%dx%d, %d snowflakes)", width, height, cfg.Snow.Count)
	return s, nil
}

// retypePrompt 提示语打完并停顿后从头再打
func (s *GreetingScene) retypePrompt() {
	if err := s.typewriterSystem.Reset(s.prompt, s.cfg.Prompt.Text, s.cfg.Prompt.CharDelay, s.cfg.Prompt.PauseAfter); err != nil {
		log.Printf("[GreetingScene] Warning: failed to restart prompt: %v", err)
	}
}

// Resize 实现 game.Resizable：原地适配新尺寸，不重建雪花
func (s *GreetingScene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = float64(width), float64(height)
	s.snowSystem.SetBounds(s.width, s.height)
}

// Size 当前逻辑尺寸
func (s *GreetingScene) Size() (float64, float64) {
	return s.width, s.height
}

// Update 每帧更新
func (s *GreetingScene) Update(deltaTime float64) {
	if s.disposed {
		return
	}

	s.handleKeyboard()
	if input := utils.GetInputState(); input.JustPressed {
		s.HandleClick(float64(input.X), float64(input.Y))
	}

	s.Step(deltaTime)
}

// Step 推进一帧的逻辑（不读取输入）
func (s *GreetingScene) Step(deltaTime float64) {
	if s.disposed {
		return
	}
	s.clock += deltaTime

	s.controller.Update(deltaTime)
	s.syncSession()

	if s.controller.Session().Started {
		s.sinceStart += deltaTime
	}

	s.snowSystem.Update()
	s.treeSystem.Update(deltaTime)
	s.typewriterSystem.Update(deltaTime)
	s.tickerSystem.Update(deltaTime)
	s.cardSystem.Update(deltaTime)

	s.entityManager.RemoveMarkedEntities()
}

// handleKeyboard 键盘快捷键
//   - Space / Enter：开始；贺卡打开时显示全部
//   - M：切换音乐
//   - R：重试加载音乐
//   - C：打开贺卡
//   - Escape：关闭贺卡
func (s *GreetingScene) handleKeyboard() {
	session := s.controller.Session()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch {
		case !session.Started:
			s.start()
		case s.cardSystem.IsOpen():
			s.cardSystem.Skip()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.controller.ToggleMusic()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.controller.RetryAudio()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		s.controller.OpenCard()
		s.syncSession()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.controller.CloseCard()
		s.syncSession()
	}
}

// HandleClick 处理一次点击/触摸
//
// 命中顺序：
//  1. 贺卡打开时贺卡是模态的：关闭按钮 > 正文（跳过），其他位置忽略
//  2. 未开始：星星或提示框
//  3. 已开始：音乐按钮 > 重试按钮 > 打开贺卡按钮
func (s *GreetingScene) HandleClick(x, y float64) {
	if s.disposed {
		return
	}

	if s.cardSystem.IsOpen() {
		switch s.cardSystem.HitTest(x, y, s.width, s.height) {
		case systems.CardActionClose:
			s.controller.CloseCard()
			s.syncSession()
		case systems.CardActionSkip:
			s.cardSystem.Skip()
		}
		return
	}

	session := s.controller.Session()
	if !session.Started {
		if hitStartStar(x, y, s.width, s.height, s.clock) {
			s.start()
		}
		return
	}

	if hitMusicButton(x, y, s.width) {
		s.controller.ToggleMusic()
		return
	}
	if session.AudioFailed && retryButtonRect(s.width).Contains(x, y) {
		s.controller.RetryAudio()
		return
	}
	if !session.CardVisible && hitOpenCardButton(x, y, s.width, s.height) {
		s.controller.OpenCard()
		s.syncSession()
	}
}

// start 开始体验
func (s *GreetingScene) start() {
	s.controller.Start()
	s.syncSession()
}

// syncSession 把会话状态同步到各系统
func (s *GreetingScene) syncSession() {
	session := s.controller.Session()

	if session.Started && !s.treeSystem.Visible() {
		s.treeSystem.SetVisible(true)
		s.typewriterSystem.Stop(s.prompt)
		s.prompt = ecs.InvalidEntity
		if _, err := s.tickerSystem.Start(s.cfg.GreetingTexts(), s.cfg.Ticker.DwellSeconds); err != nil {
			log.Printf("[GreetingScene] Warning: %v", err)
		}
	}

	switch {
	case session.CardVisible && !s.cardSystem.IsOpen():
		content := entities.CardContent{
			Title:      s.cfg.Card.Title,
			Lines:      s.cfg.CardLines(),
			Salutation: s.cfg.Card.Salutation,
			SkipHint:   s.cfg.Card.SkipHint,
		}
		timing := entities.CardTiming{
			CharDelay:   s.cfg.Card.CharDelay,
			LinePause:   s.cfg.Card.LinePause,
			CursorBlink: s.cfg.Card.CursorBlink,
		}
		if _, err := s.cardSystem.Open(content, timing); err != nil {
			log.Printf("[GreetingScene] Warning: failed to open card: %v", err)
			s.controller.CloseCard()
		}
	case !session.CardVisible && s.cardSystem.IsOpen():
		s.cardSystem.Close()
	}
}

// Dispose 实现 game.Disposable：停止控制器并销毁全部实体
func (s *GreetingScene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.controller.Dispose()
	s.cardSystem.Close()
	s.tickerSystem.Stop()
	s.treeSystem.Dispose()
	s.snowSystem.Dispose()
	if s.prompt != ecs.InvalidEntity {
		s.typewriterSystem.Stop(s.prompt)
	}
	s.entityManager.RemoveMarkedEntities()
	log.Printf("[GreetingScene] Disposed")
}
