package scenes

import (
	"image/color"
	"math"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/game"
	"github.com/decker502/xmasgreeting/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	backgroundInner = color.RGBA{R: config.BackgroundInner[0], G: config.BackgroundInner[1], B: config.BackgroundInner[2], A: 255}
	backgroundOuter = color.RGBA{R: config.BackgroundOuter[0], G: config.BackgroundOuter[1], B: config.BackgroundOuter[2], A: 255}

	headerColor    = color.RGBA{R: 250, G: 204, B: 21, A: 255}
	goldGlowColor  = color.RGBA{R: 255, G: 215, A: 255}
	startStarColor = color.RGBA{R: 253, G: 224, B: 71, A: 255}
	promptColor    = color.RGBA{R: 209, G: 213, B: 219, A: 255}
	promptBorder   = color.RGBA{R: 75, G: 85, B: 99, A: 255}
	warningRed     = color.RGBA{R: 248, G: 113, B: 113, A: 255}
	alertRed       = color.RGBA{R: 239, G: 68, B: 68, A: 255}
	hintGray       = color.RGBA{R: 156, G: 163, B: 175, A: 255}
	white          = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Draw 绘制场景
func (s *GreetingScene) Draw(screen *ebiten.Image) {
	utils.DrawRadialGradient(screen, backgroundInner, backgroundOuter)
	s.snowSystem.Draw(screen)

	tx, ty := treeCenter(s.width, s.height)
	s.treeSystem.Draw(screen, tx, ty)

	session := s.controller.Session()
	headerY, headerScale := headerCenterY(s.height, session.Started, s.sinceStart)
	s.drawHeader(screen, headerY, headerScale)

	if session.Started {
		s.tickerSystem.Draw(screen, s.fonts.Ticker, tickerCenterY(headerY, headerScale))
		s.drawMusicButton(screen, session)
		if session.AudioFailed {
			s.drawWarningPanel(screen)
		}
		if !session.CardVisible {
			s.drawOpenCardButton(screen)
		}
	} else {
		s.drawStartStar(screen)
	}

	s.cardSystem.Draw(screen)
}

// drawHeader 标题（金色辉光）
func (s *GreetingScene) drawHeader(screen *ebiten.Image, centerY, scale float64) {
	if s.fonts.Header == nil || s.cfg.Title == "" {
		return
	}
	cx := s.width / 2

	for _, offset := range [][2]float64{{-2, 0}, {2, 0}, {0, -2}, {0, 2}} {
		glow := &text.DrawOptions{}
		glow.GeoM.Scale(scale, scale)
		glow.GeoM.Translate(cx+offset[0], centerY+offset[1])
		glow.PrimaryAlign = text.AlignCenter
		glow.SecondaryAlign = text.AlignCenter
		glow.ColorScale.ScaleWithColor(utils.WithAlpha(goldGlowColor, 0.35))
		text.Draw(screen, s.cfg.Title, s.fonts.Header, glow)
	}

	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(cx, centerY)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(headerColor)
	text.Draw(screen, s.cfg.Title, s.fonts.Header, op)
}

// drawStartStar 开始前的浮动星星与打字提示
func (s *GreetingScene) drawStartStar(screen *ebiten.Image) {
	cx, cy := startStarCenter(s.width, s.height, s.clock)
	utils.DrawGlow(screen, cx, cy, config.StartStarRadius*2, 6, goldGlowColor, 0.9)
	utils.DrawStar(screen, cx, cy, config.StartStarRadius, config.StartStarRadius*0.45, 0, startStarColor)

	box := promptRect(s.width, s.height, s.clock)
	vector.DrawFilledRect(screen, float32(box.X), float32(box.Y), float32(box.W), float32(box.H),
		color.NRGBA{A: 102}, true)
	vector.StrokeRect(screen, float32(box.X), float32(box.Y), float32(box.W), float32(box.H), 1, promptBorder, true)

	tw, ok := s.typewriterSystem.Get(s.prompt)
	if !ok || s.fonts.Prompt == nil {
		return
	}
	s.drawPromptText(screen, tw, box)
}

// drawPromptText 提示语（已输出部分 + 闪烁光标）
func (s *GreetingScene) drawPromptText(screen *ebiten.Image, tw *components.TypewriterComponent, box utils.Rect) {
	bx, by := box.Center()
	full, _ := text.Measure(tw.Text, s.fonts.Prompt, 0)
	left := bx - full/2

	op := &text.DrawOptions{}
	op.GeoM.Translate(left, by)
	op.PrimaryAlign = text.AlignStart
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(promptColor)
	text.Draw(screen, tw.Displayed, s.fonts.Prompt, op)

	if tw.CursorVisible {
		typed, _ := text.Measure(tw.Displayed, s.fonts.Prompt, 0)
		h := s.fonts.Prompt.Size
		vector.DrawFilledRect(screen, float32(left+typed+2), float32(by-h/2), 2, float32(h), promptColor, false)
	}
}

// drawMusicButton 右上角音乐按钮（暂停时红色）
func (s *GreetingScene) drawMusicButton(screen *ebiten.Image, session game.Session) {
	cx, cy := config.MusicButtonCenter(s.width)
	r := config.MusicButtonRadius

	fill := color.NRGBA{R: 255, G: 255, B: 255, A: 26}
	border := color.NRGBA{R: 255, G: 255, B: 255, A: 77}
	if session.MusicMuted {
		fill = color.NRGBA{R: 239, G: 68, B: 68, A: 77}
		border = color.NRGBA{R: 239, G: 68, B: 68, A: 128}
	}
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(r), fill, true)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r), 1, border, true)

	drawSpeaker(screen, cx-4, cy, r*0.35, session.MusicMuted)
}

// drawSpeaker 扬声器图标；muted 时画叉，否则画声波
func drawSpeaker(screen *ebiten.Image, cx, cy, size float64, muted bool) {
	body := size * 0.45
	utils.FillConvexPolygon(screen, [][2]float64{
		{cx - size, cy - body},
		{cx - size*0.4, cy - body},
		{cx + size*0.3, cy - size},
		{cx + size*0.3, cy + size},
		{cx - size*0.4, cy + body},
		{cx - size, cy + body},
	}, white)

	wx := cx + size*0.7
	if muted {
		d := size * 0.45
		vector.StrokeLine(screen, float32(wx), float32(cy-d), float32(wx+2*d), float32(cy+d), 2, white, true)
		vector.StrokeLine(screen, float32(wx), float32(cy+d), float32(wx+2*d), float32(cy-d), 2, white, true)
		return
	}
	for i, radius := range []float64{size * 0.6, size * 1.1} {
		strokeArc(screen, cx+size*0.3, cy, radius, -math.Pi/4, math.Pi/4, 1.5+0.5*float64(i), white)
	}
}

// strokeArc 用折线近似绘制圆弧
func strokeArc(screen *ebiten.Image, cx, cy, radius, from, to, width float64, clr color.Color) {
	const segments = 8
	step := (to - from) / segments
	px, py := cx+radius*math.Cos(from), cy+radius*math.Sin(from)
	for i := 1; i <= segments; i++ {
		a := from + step*float64(i)
		x, y := cx+radius*math.Cos(a), cy+radius*math.Sin(a)
		vector.StrokeLine(screen, float32(px), float32(py), float32(x), float32(y), float32(width), clr, true)
		px, py = x, y
	}
}

// drawWarningPanel 音乐加载失败提示与重试按钮
func (s *GreetingScene) drawWarningPanel(screen *ebiten.Image) {
	panel := warningPanelRect(s.width)
	vector.DrawFilledRect(screen, float32(panel.X), float32(panel.Y), float32(panel.W), float32(panel.H),
		color.NRGBA{A: 204}, true)
	vector.StrokeRect(screen, float32(panel.X), float32(panel.Y), float32(panel.W), float32(panel.H), 1,
		color.NRGBA{R: 239, G: 68, B: 68, A: 102}, true)

	right := panel.X + panel.W - 8
	if s.fonts.Label != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(right, panel.Y+8)
		op.PrimaryAlign = text.AlignEnd
		op.ColorScale.ScaleWithColor(warningRed)
		text.Draw(screen, "! "+s.cfg.Audio.Warning, s.fonts.Label, op)
	}
	if s.fonts.Hint != nil {
		lines := utils.WrapText(s.cfg.Audio.Hint, s.fonts.Hint, panel.W-16)
		lineH := s.fonts.Hint.Size * 1.3
		for i, line := range lines {
			op := &text.DrawOptions{}
			op.GeoM.Translate(right, panel.Y+30+float64(i)*lineH)
			op.PrimaryAlign = text.AlignEnd
			op.ColorScale.ScaleWithColor(hintGray)
			text.Draw(screen, line.Text, s.fonts.Hint, op)
		}
	}

	btn := retryButtonRect(s.width)
	vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H),
		color.NRGBA{R: 239, G: 68, B: 68, A: 51}, true)
	vector.StrokeRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), 1,
		color.NRGBA{R: 239, G: 68, B: 68, A: 128}, true)
	if s.fonts.Label != nil {
		bx, by := btn.Center()
		op := &text.DrawOptions{}
		op.GeoM.Translate(bx, by)
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		op.ColorScale.ScaleWithColor(white)
		text.Draw(screen, s.cfg.Audio.RetryLabel, s.fonts.Label, op)
	}
}

// drawOpenCardButton 右下角弹跳的打开贺卡按钮与脉冲红点
func (s *GreetingScene) drawOpenCardButton(screen *ebiten.Image) {
	cx, cy := config.OpenCardButtonCenter(s.width, s.height)
	cy += openCardBounce(s.clock)
	r := config.OpenCardButtonRadius

	utils.DrawGlow(screen, cx, cy, r*1.6, 4, color.RGBA{R: 255, G: 100, B: 100, A: 255}, 0.4)
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(r), color.NRGBA{R: 255, G: 255, B: 255, A: 51}, true)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r), 1, color.NRGBA{R: 248, G: 113, B: 113, A: 153}, true)

	// 信封
	w, h := r*0.9, r*0.6
	x0, y0 := cx-w/2, cy-h/2
	vector.DrawFilledRect(screen, float32(x0), float32(y0), float32(w), float32(h), color.NRGBA{R: 254, G: 226, B: 226, A: 255}, true)
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(cx), float32(cy+h*0.1), 1.5, alertRed, true)
	vector.StrokeLine(screen, float32(x0+w), float32(y0), float32(cx), float32(cy+h*0.1), 1.5, alertRed, true)

	// 右上角红点
	bx, by := cx+r*0.72, cy-r*0.72
	pulse := utils.Lerp(0.5, 1, utils.PingPong(s.clock, config.OpenCardBadgePulsePeriod/2))
	vector.DrawFilledCircle(screen, float32(bx), float32(by), float32(config.OpenCardBadgeRadius), utils.WithAlpha(alertRed, pulse), true)
	vector.StrokeCircle(screen, float32(bx), float32(by), float32(config.OpenCardBadgeRadius), 1, utils.WithAlpha(white, pulse), true)
}
