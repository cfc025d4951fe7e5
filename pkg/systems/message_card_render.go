package systems

import (
	"image/color"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 贺卡配色
var (
	cardPaperColor      = color.RGBA{R: 255, G: 250, B: 255, A: 255}
	cardBorderColor     = color.RGBA{R: 248, G: 113, B: 113, A: 255}
	cardTitleColor      = color.RGBA{R: 220, G: 38, B: 38, A: 255}
	cardTextColor       = color.RGBA{R: 34, G: 34, B: 34, A: 255}
	cardParagraphColor  = color.RGBA{R: 254, G: 242, B: 242, A: 255}
	cardParagraphBorder = color.RGBA{R: 254, G: 202, B: 202, A: 255}
	cardHintColor       = color.RGBA{R: 156, G: 163, B: 175, A: 255}
	cardCloseGlyphColor = color.RGBA{R: 239, G: 68, B: 68, A: 255}
)

// Draw 绘制贺卡（遮罩、面板、标题、正文、落款、提示、关闭按钮）
func (s *MessageCardSystem) Draw(screen *ebiten.Image) {
	card, ok := s.Card()
	if !ok {
		return
	}
	screenW, screenH := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	layout := s.Layout(screenW, screenH)

	appear := utils.EaseOutCubic(utils.Clamp01(card.Age / config.CardAppearSeconds))
	vector.DrawFilledRect(screen, 0, 0, float32(screenW), float32(screenH),
		color.NRGBA{A: uint8(config.CardBackdropAlpha * appear * 255)}, false)

	// 出现动画：从下方 20px 滑入并淡入
	dy := (1 - appear) * 20
	panel := layout.Panel
	panel.Y += dy

	vector.DrawFilledRect(screen, float32(panel.X), float32(panel.Y), float32(panel.W), float32(panel.H),
		utils.WithAlpha(cardPaperColor, appear), true)
	vector.StrokeRect(screen, float32(panel.X), float32(panel.Y), float32(panel.W), float32(panel.H), 3,
		utils.WithAlpha(cardBorderColor, appear), true)

	s.drawTitle(screen, card, layout, dy, appear)
	s.drawParagraphs(screen, card, layout, dy, appear)
	s.drawSalutation(screen, card, layout, dy, appear)
	s.drawSkipHint(screen, card, panel, appear)
	drawCloseButton(screen, layout.CloseX, layout.CloseY+dy, layout.CloseRadius, appear)
}

func (s *MessageCardSystem) drawTitle(screen *ebiten.Image, card *components.MessageCardComponent, layout CardLayout, dy, alpha float64) {
	cx := layout.Title.X + layout.Title.W/2
	y := layout.Title.Y + dy

	if s.fonts.Title != nil && card.Title != "" {
		op := &text.DrawOptions{}
		op.GeoM.Translate(cx, y)
		op.PrimaryAlign = text.AlignCenter
		op.ColorScale.ScaleWithColor(cardTitleColor)
		op.ColorScale.ScaleAlpha(float32(alpha))
		text.Draw(screen, card.Title, s.fonts.Title, op)

		// 标题两侧的小星星
		titleW, _ := text.Measure(card.Title, s.fonts.Title, 0)
		starY := y + config.CardTitleFontSize*0.6
		starR := config.CardTitleFontSize * 0.35
		utils.DrawStar(screen, cx-titleW/2-starR*1.8, starY, starR, starR*0.45, 0, utils.WithAlpha(cardBorderColor, alpha))
		utils.DrawStar(screen, cx+titleW/2+starR*1.8, starY, starR, starR*0.45, 0, utils.WithAlpha(cardBorderColor, alpha))
	}

	ruleY := y + layout.Title.H - 4
	vector.DrawFilledRect(screen, float32(cx-24), float32(ruleY), 48, 4, utils.WithAlpha(cardBorderColor, alpha), true)
}

func (s *MessageCardSystem) drawParagraphs(screen *ebiten.Image, card *components.MessageCardComponent, layout CardLayout, dy, alpha float64) {
	face := s.fonts.Line
	lineH := config.CardLineFontSize + config.CardLineSpacing
	y := layout.Text.Y + dy
	bottom := layout.Text.Y + dy + layout.Text.H

	for i, wrapped := range layout.Paragraphs {
		// 尚未开始的行不显示段落框
		if i > card.ActiveLineIndex {
			break
		}
		h := paragraphHeight(len(wrapped))
		if y >= bottom {
			break
		}
		visibleH := min(h, bottom-y)

		vector.DrawFilledRect(screen, float32(layout.Text.X), float32(y), float32(layout.Text.W), float32(visibleH),
			utils.WithAlpha(cardParagraphColor, alpha*0.5), true)
		vector.DrawFilledRect(screen, float32(layout.Text.X), float32(y), 2, float32(visibleH),
			utils.WithAlpha(cardParagraphBorder, alpha), true)

		revealed := utils.RuneCount(card.RevealedPrefixes[i])
		parts := utils.RevealWrapped(wrapped, revealed)
		textX := layout.Text.X + cardParagraphPadding
		lastX, lastY := textX, y+cardParagraphPadding

		for j, part := range parts {
			lineY := y + cardParagraphPadding + float64(j)*lineH
			if lineY+lineH > bottom {
				break
			}
			if part == "" {
				continue
			}
			if face != nil {
				op := &text.DrawOptions{}
				op.GeoM.Translate(textX, lineY)
				op.ColorScale.ScaleWithColor(cardTextColor)
				op.ColorScale.ScaleAlpha(float32(alpha))
				text.Draw(screen, part, face, op)
			}
			lastX = textX + measurer(face, config.CardLineFontSize)(part)
			lastY = lineY
		}

		// 光标只出现在当前行末尾，且只在未完成时出现
		if i == card.ActiveLineIndex && card.Phase != components.RevealDone && card.CursorVisible {
			vector.DrawFilledRect(screen, float32(lastX+3), float32(lastY), 2, float32(config.CardLineFontSize*1.1),
				utils.WithAlpha(cardTitleColor, alpha), false)
		}

		y += h + config.CardParagraphSpacing
	}
}

func (s *MessageCardSystem) drawSalutation(screen *ebiten.Image, card *components.MessageCardComponent, layout CardLayout, dy, alpha float64) {
	if card.Phase != components.RevealDone || s.fonts.Salutation == nil || card.Salutation == "" {
		return
	}

	p := utils.EaseInOutCubic(utils.Clamp01(card.SalutationElapsed / config.CardSalutationSeconds))
	scale := utils.Lerp(1, config.CardSalutationScale, p)
	offset := (1 - p) * config.CardSalutationOffsetY

	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(layout.Salutation.X+layout.Salutation.W/2, layout.Salutation.Y+dy+offset)
	op.PrimaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(cardTitleColor)
	op.ColorScale.ScaleAlpha(float32(alpha * p))
	text.Draw(screen, card.Salutation, s.fonts.Salutation, op)
}

func (s *MessageCardSystem) drawSkipHint(screen *ebiten.Image, card *components.MessageCardComponent, panel utils.Rect, alpha float64) {
	if card.Phase == components.RevealDone || s.fonts.Hint == nil || card.SkipHint == "" {
		return
	}

	pulse := 0.6 + 0.4*utils.Oscillate(card.Age, 2)
	op := &text.DrawOptions{}
	op.GeoM.Translate(panel.X+panel.W-16, panel.Y+panel.H-8)
	op.PrimaryAlign = text.AlignEnd
	op.SecondaryAlign = text.AlignEnd
	op.ColorScale.ScaleWithColor(cardHintColor)
	op.ColorScale.ScaleAlpha(float32(alpha * pulse))
	text.Draw(screen, card.SkipHint, s.fonts.Hint, op)
}

// drawCloseButton 白底红边圆形按钮，中间一个 ×
func drawCloseButton(screen *ebiten.Image, cx, cy, radius, alpha float64) {
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(radius), utils.WithAlpha(color.RGBA{R: 255, G: 255, B: 255, A: 255}, alpha), true)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(radius), 2, utils.WithAlpha(cardBorderColor, alpha), true)

	arm := float32(radius * 0.4)
	x, y := float32(cx), float32(cy)
	glyph := utils.WithAlpha(cardCloseGlyphColor, alpha)
	vector.StrokeLine(screen, x-arm, y-arm, x+arm, y+arm, 2, glyph, true)
	vector.StrokeLine(screen, x-arm, y+arm, x+arm, y-arm, 2, glyph, true)
}
