package systems

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/ecs"
	"github.com/decker502/xmasgreeting/pkg/entities"
	"github.com/decker502/xmasgreeting/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

var (
	tickerTextColor = color.RGBA{R: 134, G: 239, B: 172, A: 255}
	tickerGlowColor = color.RGBA{G: 255, A: 255}
)

// GreetingTickerSystem 祝福语滚动条系统
//
// 状态机：displaying(i) --Dwell 秒--> displaying((i+1) mod N)，无终态。
// 每条祝福语在 Dwell 秒内从右向左匀速滚过滚动带；切换时 Generation 加一，
// 滚动从右侧重新开始。祝福语列表为空时不更新也不绘制。
type GreetingTickerSystem struct {
	entityManager *ecs.EntityManager
	ticker        ecs.EntityID
}

// NewGreetingTickerSystem 创建祝福语滚动系统
func NewGreetingTickerSystem(em *ecs.EntityManager) *GreetingTickerSystem {
	return &GreetingTickerSystem{entityManager: em}
}

// Start 创建滚动条并显示第 0 条（已创建时直接返回原实体）
func (s *GreetingTickerSystem) Start(greetings []string, dwell float64) (ecs.EntityID, error) {
	if s.ticker != ecs.InvalidEntity && s.entityManager.IsAlive(s.ticker) {
		return s.ticker, nil
	}

	id, err := entities.NewGreetingTickerEntity(s.entityManager, greetings, dwell)
	if err != nil {
		return ecs.InvalidEntity, fmt.Errorf("failed to start greeting ticker: %w", err)
	}
	s.ticker = id
	log.Printf("[GreetingTickerSystem] Started with %d greetings, dwell %.1fs", len(greetings), dwell)
	return id, nil
}

// Stop 销毁滚动条
func (s *GreetingTickerSystem) Stop() {
	if s.ticker != ecs.InvalidEntity {
		s.entityManager.DestroyEntity(s.ticker)
		s.ticker = ecs.InvalidEntity
	}
}

// Ticker 返回滚动条组件
func (s *GreetingTickerSystem) Ticker() (*components.GreetingTickerComponent, bool) {
	if s.ticker == ecs.InvalidEntity {
		return nil, false
	}
	return ecs.GetComponent[*components.GreetingTickerComponent](s.entityManager, s.ticker)
}

// Update 推进停留计时，到时切换到下一条
func (s *GreetingTickerSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.GreetingTickerComponent](s.entityManager) {
		ticker, ok := ecs.GetComponent[*components.GreetingTickerComponent](s.entityManager, id)
		if !ok || len(ticker.Greetings) == 0 {
			continue
		}

		if utils.AdvanceTimer(&ticker.DwellTimer, dt) {
			// 重新计时，上一条的滚动进度不带入下一条
			ticker.Index = (ticker.Index + 1) % len(ticker.Greetings)
			ticker.Generation++
			utils.ResetTimer(&ticker.DwellTimer, ticker.DwellTimer.TargetTime)
		}
	}
}

// TickerProgress 当前祝福语的滚动进度 [0, 1]
func TickerProgress(ticker *components.GreetingTickerComponent) float64 {
	return utils.TimerProgress(&ticker.DwellTimer)
}

// Draw 在以 centerY 为中心的滚动带内绘制当前祝福语
func (s *GreetingTickerSystem) Draw(screen *ebiten.Image, face *text.GoTextFace, centerY float64) {
	ticker, ok := s.Ticker()
	if !ok || len(ticker.Greetings) == 0 || face == nil {
		return
	}

	bounds := screen.Bounds()
	band := image.Rect(bounds.Min.X, int(centerY-config.TickerBandHeight/2), bounds.Max.X, int(centerY+config.TickerBandHeight/2))
	clip, ok := screen.SubImage(band).(*ebiten.Image)
	if !ok {
		return
	}

	msg := ticker.Greetings[ticker.Index]
	textW, _ := text.Measure(msg, face, 0)
	deco := face.Size * 0.45
	total := textW + deco*6

	// 从右侧屏幕外滚动到左侧屏幕外
	width := float64(bounds.Dx())
	left := utils.Lerp(width, -total, TickerProgress(ticker))

	utils.DrawStar(clip, left+deco, centerY, deco, deco*0.45, 0, tickerGlowColor)
	utils.DrawStar(clip, left+total-deco, centerY, deco, deco*0.45, 0, tickerGlowColor)

	textX := left + deco*3
	glow := &text.DrawOptions{}
	glow.GeoM.Translate(textX+1, centerY+1)
	glow.PrimaryAlign = text.AlignStart
	glow.SecondaryAlign = text.AlignCenter
	glow.ColorScale.ScaleWithColor(utils.WithAlpha(tickerGlowColor, 0.5))
	text.Draw(clip, msg, face, glow)

	op := &text.DrawOptions{}
	op.GeoM.Translate(textX, centerY)
	op.PrimaryAlign = text.AlignStart
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(tickerTextColor)
	text.Draw(clip, msg, face, op)
}
