package systems

import (
	"image/color"
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/ecs"
	"github.com/decker502/xmasgreeting/pkg/entities"
	"github.com/decker502/xmasgreeting/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// treeStarColor 树顶星星颜色
var treeStarColor = color.RGBA{R: 253, G: 224, B: 71, A: 255}

// TreeSettings 圣诞树渲染参数
type TreeSettings struct {
	Params        entities.OrnamentParams
	SpinPeriod    float64 // 旋转一圈的秒数
	Perspective   float64 // 透视距离（像素）
	FadeInSeconds float64 // 出现时的淡入时长
}

// ProjectedLight 投影到屏幕后的灯珠
type ProjectedLight struct {
	Light *components.OrnamentLightComponent
	X, Y  float64 // 相对树中心的屏幕偏移
	Z     float64 // 深度（正值朝向观察者）
	Scale float64 // 透视缩放
}

// TreeSystem 螺旋灯串圣诞树
//
// 可见性完全由外部布尔值控制：
//   - 不可见：不生成、不更新、不绘制
//   - 可见：按参数生成灯珠（记忆化，参数不变时不会重新随机）
//
// 整串灯绕竖直轴匀速旋转，每颗灯按 1+TwinkleDelay 秒的周期往返闪烁。
type TreeSystem struct {
	entityManager *ecs.EntityManager
	rng           *rand.Rand
	settings      TreeSettings

	visible     bool
	lights      []ecs.EntityID
	generatedAt entities.OrnamentParams
	generations int

	clock float64 // 可见后经过的时间（秒）
}

// NewTreeSystem 创建圣诞树系统（初始不可见）
func NewTreeSystem(em *ecs.EntityManager, rng *rand.Rand, settings TreeSettings) *TreeSystem {
	return &TreeSystem{
		entityManager: em,
		rng:           rng,
		settings:      settings,
	}
}

// SetVisible 设置可见性
func (s *TreeSystem) SetVisible(visible bool) {
	if visible == s.visible {
		if visible {
			s.ensureLights()
		}
		return
	}

	s.visible = visible
	if !visible {
		s.destroyLights()
		s.clock = 0
		return
	}
	s.ensureLights()
}

// SetParams 更新生成参数；可见且参数变化时重新生成
func (s *TreeSystem) SetParams(params entities.OrnamentParams) {
	s.settings.Params = params
	if s.visible {
		s.ensureLights()
	}
}

// Visible 当前是否可见
func (s *TreeSystem) Visible() bool {
	return s.visible
}

// Generations 返回灯串生成次数
func (s *TreeSystem) Generations() int {
	return s.generations
}

// ensureLights 灯珠缺失或参数变化时生成
func (s *TreeSystem) ensureLights() {
	if len(s.lights) > 0 && s.generatedAt.Equal(s.settings.Params) {
		return
	}
	s.destroyLights()

	lights := entities.GenerateOrnamentLights(s.settings.Params, s.rng)
	if lights == nil {
		log.Printf("[TreeSystem] Warning: invalid ornament params, nothing generated")
		return
	}
	s.lights = entities.NewOrnamentLightEntities(s.entityManager, lights)
	s.generatedAt = s.settings.Params
	s.generatedAt.Palette = append([]color.RGBA(nil), s.settings.Params.Palette...)
	s.generations++
	log.Printf("[TreeSystem] Generated %d ornament lights", len(lights))
}

func (s *TreeSystem) destroyLights() {
	for _, id := range s.lights {
		s.entityManager.DestroyEntity(id)
	}
	s.lights = nil
}

// Update 推进旋转与闪烁时钟
func (s *TreeSystem) Update(dt float64) {
	if !s.visible {
		return
	}
	s.clock += dt
}

// SpinAngle 当前整体旋转角度 [0, 2π)
func (s *TreeSystem) SpinAngle() float64 {
	if s.settings.SpinPeriod <= 0 {
		return 0
	}
	return math.Mod(s.clock/s.settings.SpinPeriod, 1) * 2 * math.Pi
}

// Opacity 整体淡入进度 [0, 1]
func (s *TreeSystem) Opacity() float64 {
	if s.settings.FadeInSeconds <= 0 {
		return 1
	}
	return utils.Clamp01(s.clock / s.settings.FadeInSeconds)
}

// TwinkleAlpha 灯珠当前亮度 [TreeTwinkleMinAlpha, 1]
func TwinkleAlpha(light *components.OrnamentLightComponent, clock float64) float64 {
	return utils.Lerp(config.TreeTwinkleMinAlpha, 1, utils.PingPong(clock, 1+light.TwinkleDelay))
}

// ProjectLight 计算灯珠的屏幕位置
//
// 先绕竖直轴旋转 Angle+spin，再沿径向推出 Radius：x = r·sin，z = r·cos；
// 垂直方向偏移 -VerticalOffset（屏幕 y 向下为正）；
// 最后按透视距离缩放：scale = perspective / (perspective - z)。
func ProjectLight(light *components.OrnamentLightComponent, spin, perspective float64) ProjectedLight {
	angle := light.Angle + spin
	x := light.Radius * math.Sin(angle)
	z := light.Radius * math.Cos(angle)
	y := -light.VerticalOffset

	scale := 1.0
	if perspective > 0 && perspective-z > 1 {
		scale = perspective / (perspective - z)
	}
	return ProjectedLight{
		Light: light,
		X:     x * scale,
		Y:     y * scale,
		Z:     z,
		Scale: scale,
	}
}

// Projected 返回按深度从后往前排序的投影结果
func (s *TreeSystem) Projected() []ProjectedLight {
	spin := s.SpinAngle()
	out := make([]ProjectedLight, 0, len(s.lights))
	for _, id := range s.lights {
		light, ok := ecs.GetComponent[*components.OrnamentLightComponent](s.entityManager, id)
		if !ok {
			continue
		}
		out = append(out, ProjectLight(light, spin, s.settings.Perspective))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// Draw 以 (cx, cy) 为树中心绘制灯串与树顶星星
func (s *TreeSystem) Draw(screen *ebiten.Image, cx, cy float64) {
	if !s.visible {
		return
	}
	fade := s.Opacity()

	for _, p := range s.Projected() {
		alpha := TwinkleAlpha(p.Light, s.clock) * fade
		x, y := cx+p.X, cy+p.Y
		size := config.TreeLightSize * p.Scale

		utils.DrawGlow(screen, x, y, size*3, 3, p.Light.Color, alpha)
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(size),
			utils.WithAlpha(p.Light.Color, alpha), true)
		// 左上高光
		vector.DrawFilledCircle(screen, float32(x-size*0.3), float32(y-size*0.3), float32(size*0.45),
			color.NRGBA{R: 255, G: 255, B: 255, A: uint8(alpha * 200)}, true)
	}

	starY := cy + config.TreeStarOffsetY + utils.Oscillate(s.clock, config.TreeStarFloatPeriod)*config.TreeStarFloatHeight
	utils.DrawGlow(screen, cx, starY, config.TreeStarRadius*1.8, 5, treeStarColor, 0.8*fade)
	utils.DrawStar(screen, cx, starY, config.TreeStarRadius, config.TreeStarRadius*0.45, 0,
		utils.WithAlpha(treeStarColor, fade))
}

// Dispose 销毁全部灯珠
func (s *TreeSystem) Dispose() {
	s.destroyLights()
	s.visible = false
}
