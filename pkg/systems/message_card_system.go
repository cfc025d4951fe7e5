package systems

import (
	"fmt"
	"log"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/ecs"
	"github.com/decker502/xmasgreeting/pkg/entities"
	"github.com/decker502/xmasgreeting/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// CardAction 点击贺卡的结果
type CardAction int

const (
	// CardActionNone 未命中贺卡（或贺卡未打开）
	CardActionNone CardAction = iota
	// CardActionClose 命中关闭按钮
	CardActionClose
	// CardActionSkip 命中贺卡正文区域（显示全部）
	CardActionSkip
)

// String 返回 CardAction 的字符串表示
func (a CardAction) String() string {
	switch a {
	case CardActionNone:
		return "None"
	case CardActionClose:
		return "Close"
	case CardActionSkip:
		return "Skip"
	default:
		return "Unknown"
	}
}

// CardFonts 贺卡使用的字体（可为 nil，此时按字号估算宽度，仅用于测试）
type CardFonts struct {
	Title      *text.GoTextFace
	Line       *text.GoTextFace
	Salutation *text.GoTextFace
	Hint       *text.GoTextFace
}

// CardLayout 贺卡布局（屏幕坐标，未计入出现动画）
type CardLayout struct {
	Panel       utils.Rect
	Title       utils.Rect
	Text        utils.Rect
	Salutation  utils.Rect
	CloseX      float64
	CloseY      float64
	CloseRadius float64
	Paragraphs  [][]utils.WrappedLine // 按完整文本换行的结果
}

// MessageCardSystem 贺卡系统
//
// 职责：
//   - 多行顺序逐字显示：第 k 行显示完并停顿 LinePause 后才开始第 k+1 行
//   - 跳过：一次性显示全部文字（幂等）
//   - 关闭按钮优先于正文命中，点关闭不会触发跳过
//   - 终态后落款淡入
//
// 同一时刻最多打开一张贺卡；Close 销毁实体及其全部计时器。
type MessageCardSystem struct {
	entityManager *ecs.EntityManager
	fonts         CardFonts
	card          ecs.EntityID

	// 换行缓存（完整文本 + 宽度不变时复用）
	layoutCard  ecs.EntityID
	layoutW     float64
	layoutH     float64
	layoutCache CardLayout
}

// NewMessageCardSystem 创建贺卡系统
func NewMessageCardSystem(em *ecs.EntityManager, fonts CardFonts) *MessageCardSystem {
	return &MessageCardSystem{
		entityManager: em,
		fonts:         fonts,
	}
}

// Open 打开贺卡（已打开时返回原贺卡）
//
// 参数：
//   - content: 标题、各行文案、落款、跳过提示
//   - timing: 字符间隔、行间停顿、光标闪烁
//
// 返回：
//   - ecs.EntityID: 贺卡实体
//   - error: 时序参数非法
func (s *MessageCardSystem) Open(content entities.CardContent, timing entities.CardTiming) (ecs.EntityID, error) {
	if s.IsOpen() {
		return s.card, nil
	}

	id, err := entities.NewMessageCardEntity(s.entityManager, content, timing)
	if err != nil {
		return ecs.InvalidEntity, fmt.Errorf("failed to open message card: %w", err)
	}
	s.card = id
	log.Printf("[MessageCardSystem] Opened card with %d lines", len(content.Lines))
	return id, nil
}

// Close 关闭并销毁贺卡
func (s *MessageCardSystem) Close() {
	if s.card == ecs.InvalidEntity {
		return
	}
	s.entityManager.DestroyEntity(s.card)
	s.card = ecs.InvalidEntity
	s.layoutCard = ecs.InvalidEntity
	log.Printf("[MessageCardSystem] Closed card")
}

// IsOpen 贺卡是否打开
func (s *MessageCardSystem) IsOpen() bool {
	return s.card != ecs.InvalidEntity && s.entityManager.IsAlive(s.card)
}

// Card 返回当前贺卡组件
func (s *MessageCardSystem) Card() (*components.MessageCardComponent, bool) {
	if s.card == ecs.InvalidEntity {
		return nil, false
	}
	return ecs.GetComponent[*components.MessageCardComponent](s.entityManager, s.card)
}

// Skip 立即显示全部文字（已是终态时不做任何事）
func (s *MessageCardSystem) Skip() {
	card, ok := s.Card()
	if !ok {
		return
	}
	SkipReveal(card)
}

// SkipReveal 将显示状态一步折叠到终态
func SkipReveal(card *components.MessageCardComponent) {
	if card.Phase == components.RevealDone {
		return
	}
	copy(card.RevealedPrefixes, card.Lines)
	card.ActiveLineIndex = len(card.Lines)
	card.ActiveCharIndex = 0
	card.Phase = components.RevealDone
}

// Update 推进贺卡的逐字显示
func (s *MessageCardSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.MessageCardComponent](s.entityManager) {
		card, ok := ecs.GetComponent[*components.MessageCardComponent](s.entityManager, id)
		if !ok {
			continue
		}
		UpdateReveal(card, dt)
	}
}

// UpdateReveal 推进一张贺卡的显示状态
func UpdateReveal(card *components.MessageCardComponent, dt float64) {
	card.Age += dt

	for fired := utils.AdvanceTimer(&card.BlinkTimer, dt); fired; fired = utils.AdvanceTimer(&card.BlinkTimer, 0) {
		card.CursorVisible = !card.CursorVisible
	}

	switch card.Phase {
	case components.RevealTyping:
		line := card.Lines[card.ActiveLineIndex]
		total := utils.RuneCount(line)
		for fired := utils.AdvanceTimer(&card.CharTimer, dt); fired; fired = utils.AdvanceTimer(&card.CharTimer, 0) {
			if card.ActiveCharIndex < total {
				card.ActiveCharIndex++
				card.RevealedPrefixes[card.ActiveLineIndex] = utils.RunePrefix(line, card.ActiveCharIndex)
			}
			if card.ActiveCharIndex >= total {
				// 本行完成：下一行的字符计时要等停顿结束才开始
				card.Phase = components.RevealPausing
				utils.ResetTimer(&card.PauseTimer, card.LinePause)
				break
			}
		}

	case components.RevealPausing:
		if !utils.AdvanceTimer(&card.PauseTimer, dt) {
			return
		}
		card.ActiveLineIndex++
		card.ActiveCharIndex = 0
		if card.ActiveLineIndex >= len(card.Lines) {
			card.Phase = components.RevealDone
			return
		}
		card.Phase = components.RevealTyping
		utils.ResetTimer(&card.CharTimer, card.CharDelay)

	case components.RevealDone:
		card.SalutationElapsed += dt
	}
}

// HitTest 判断点击落在贺卡的哪个区域
// 关闭按钮先于正文判定
func (s *MessageCardSystem) HitTest(x, y, screenW, screenH float64) CardAction {
	if !s.IsOpen() {
		return CardActionNone
	}
	layout := s.Layout(screenW, screenH)

	closeRadius := layout.CloseRadius * utils.TouchTargetScale()
	if utils.PointInCircle(x, y, layout.CloseX, layout.CloseY, closeRadius) {
		return CardActionClose
	}
	if layout.Panel.Contains(x, y) {
		return CardActionSkip
	}
	return CardActionNone
}

// Layout 计算贺卡布局（按完整文本换行，逐字显示时尺寸不变）
func (s *MessageCardSystem) Layout(screenW, screenH float64) CardLayout {
	card, ok := s.Card()
	if !ok {
		return CardLayout{}
	}
	if s.layoutCard == s.card && s.layoutW == screenW && s.layoutH == screenH {
		return s.layoutCache
	}

	panelW := config.CardPanelWidth(screenW)
	innerW := panelW - 2*config.CardPadding
	paraInnerW := innerW - 2*cardParagraphPadding
	measure := measurer(s.fonts.Line, config.CardLineFontSize)

	paragraphs := make([][]utils.WrappedLine, len(card.Lines))
	textH := 0.0
	for i, line := range card.Lines {
		paragraphs[i] = utils.WrapTextWith(line, measure, paraInnerW)
		textH += paragraphHeight(len(paragraphs[i]))
		if i > 0 {
			textH += config.CardParagraphSpacing
		}
	}
	textH = min(max(textH, config.CardMinTextHeight), screenH*0.5)

	titleH := config.CardTitleFontSize*1.3 + cardTitleRuleGap
	salutationH := config.CardSalutationSize * 1.4
	panelH := config.CardPadding + titleH + cardSectionGap + textH + cardSectionGap + salutationH + config.CardPadding

	panel := utils.Rect{X: (screenW - panelW) / 2, Y: (screenH - panelH) / 2, W: panelW, H: panelH}
	titleRect := utils.Rect{X: panel.X + config.CardPadding, Y: panel.Y + config.CardPadding, W: innerW, H: titleH}
	textRect := utils.Rect{X: titleRect.X, Y: titleRect.Y + titleH + cardSectionGap, W: innerW, H: textH}
	salutationRect := utils.Rect{X: titleRect.X, Y: textRect.Y + textH + cardSectionGap, W: innerW, H: salutationH}

	s.layoutCache = CardLayout{
		Panel:       panel,
		Title:       titleRect,
		Text:        textRect,
		Salutation:  salutationRect,
		CloseX:      panel.X + panel.W - cardCloseInset,
		CloseY:      panel.Y + cardCloseInset,
		CloseRadius: config.CardCloseRadius,
		Paragraphs:  paragraphs,
	}
	s.layoutCard, s.layoutW, s.layoutH = s.card, screenW, screenH
	return s.layoutCache
}

// 贺卡内部间距
const (
	cardParagraphPadding = 8.0
	cardTitleRuleGap     = 10.0
	cardSectionGap       = 12.0
	cardCloseInset       = 2.0 // 关闭按钮中心相对右上角的内缩（按钮一半在卡片外）
)

// paragraphHeight 一个段落框的高度
func paragraphHeight(lines int) float64 {
	return float64(lines)*(config.CardLineFontSize+config.CardLineSpacing) + 2*cardParagraphPadding
}

// measurer 返回字体的测量函数；无字体时按字号估算
func measurer(face *text.GoTextFace, size float64) utils.TextMeasurer {
	if face == nil {
		return func(s string) float64 {
			return float64(utils.RuneCount(s)) * size * 0.55
		}
	}
	return func(s string) float64 {
		w, _ := text.Measure(s, face, 0)
		return w
	}
}
