package entities

import (
	"fmt"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/ecs"
	"github.com/decker502/xmasgreeting/pkg/utils"
)

// CursorBlinkInterval 光标闪烁半周期（秒）
const CursorBlinkInterval = 0.5

// CardContent 贺卡文案（配置注入）
type CardContent struct {
	Title      string
	Lines      []string
	Salutation string
	SkipHint   string
}

// CardTiming 贺卡时序（秒）
type CardTiming struct {
	CharDelay   float64
	LinePause   float64
	CursorBlink float64
}

// NewTypewriterComponent 创建处于初始状态的打字机组件
// 空文本直接进入停顿阶段（停顿结束后回调）
func NewTypewriterComponent(text string, speed, pauseAfter float64, onComplete func()) (*components.TypewriterComponent, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("typewriter speed must be positive, got %v", speed)
	}
	if pauseAfter < 0 {
		return nil, fmt.Errorf("typewriter pause must not be negative, got %v", pauseAfter)
	}

	tw := &components.TypewriterComponent{
		Text:          text,
		Speed:         speed,
		PauseAfter:    pauseAfter,
		Phase:         components.RevealTyping,
		CharTimer:     utils.NewTimer("typewriter_char", speed, true),
		PauseTimer:    utils.NewTimer("typewriter_pause", pauseAfter, false),
		BlinkTimer:    utils.NewTimer("typewriter_blink", CursorBlinkInterval, true),
		CursorVisible: true,
		OnComplete:    onComplete,
	}
	if text == "" {
		tw.Phase = components.RevealPausing
	}
	return tw, nil
}

// NewTypewriterEntity 创建打字机实体
func NewTypewriterEntity(em *ecs.EntityManager, text string, speed, pauseAfter float64, onComplete func()) (ecs.EntityID, error) {
	if em == nil {
		return ecs.InvalidEntity, fmt.Errorf("entity manager cannot be nil")
	}
	tw, err := NewTypewriterComponent(text, speed, pauseAfter, onComplete)
	if err != nil {
		return ecs.InvalidEntity, err
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, tw)
	return id, nil
}

// NewMessageCardEntity 创建贺卡实体
//
// 参数:
//   - em: 实体管理器
//   - content: 贺卡文案（行数可以为 0，此时直接进入终态）
//   - timing: 字符间隔、行间停顿、光标闪烁
//
// 返回:
//   - ecs.EntityID: 贺卡实体ID
//   - error: 时序参数非法
func NewMessageCardEntity(em *ecs.EntityManager, content CardContent, timing CardTiming) (ecs.EntityID, error) {
	if em == nil {
		return ecs.InvalidEntity, fmt.Errorf("entity manager cannot be nil")
	}
	if timing.CharDelay <= 0 {
		return ecs.InvalidEntity, fmt.Errorf("card char delay must be positive, got %v", timing.CharDelay)
	}
	if timing.LinePause < 0 {
		return ecs.InvalidEntity, fmt.Errorf("card line pause must not be negative, got %v", timing.LinePause)
	}
	blink := timing.CursorBlink
	if blink <= 0 {
		blink = CursorBlinkInterval
	}

	lines := append([]string(nil), content.Lines...)
	card := &components.MessageCardComponent{
		Lines:            lines,
		Title:            content.Title,
		Salutation:       content.Salutation,
		SkipHint:         content.SkipHint,
		RevealedPrefixes: make([]string, len(lines)),
		Phase:            components.RevealTyping,
		CharDelay:        timing.CharDelay,
		LinePause:        timing.LinePause,
		CharTimer:        utils.NewTimer("card_char", timing.CharDelay, true),
		PauseTimer:       utils.NewTimer("card_line_pause", timing.LinePause, false),
		BlinkTimer:       utils.NewTimer("card_blink", blink, true),
		CursorVisible:    true,
	}
	if len(lines) == 0 {
		card.Phase = components.RevealDone
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, card)
	return id, nil
}

// NewGreetingTickerEntity 创建祝福语滚动条实体
// 祝福语为空时依然创建实体，系统将其视为空操作
func NewGreetingTickerEntity(em *ecs.EntityManager, greetings []string, dwell float64) (ecs.EntityID, error) {
	if em == nil {
		return ecs.InvalidEntity, fmt.Errorf("entity manager cannot be nil")
	}
	if dwell <= 0 {
		return ecs.InvalidEntity, fmt.Errorf("ticker dwell must be positive, got %v", dwell)
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.GreetingTickerComponent{
		Greetings:  append([]string(nil), greetings...),
		DwellTimer: utils.NewTimer("ticker_dwell", dwell, false),
	})
	return id, nil
}
