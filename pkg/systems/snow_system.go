package systems

import (
	"image/color"
	"log"
	"math/rand"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/ecs"
	"github.com/decker502/xmasgreeting/pkg/entities"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// SnowSystem 飘雪粒子系统
//
// 职责：
//   - Spawn 时一次性创建固定数量的雪花实体
//   - 每帧让雪花下落，落出底部后从顶部上方重新进入
//   - 跟踪视口尺寸（改变尺寸不会重置雪花）
//   - Dispose 后停止一切更新与绘制
//
// 下落速度以"像素/帧"计，与显示刷新同步，不依赖 deltaTime。
type SnowSystem struct {
	entityManager *ecs.EntityManager
	rng           *rand.Rand
	count         int

	width, height float64
	flakes        []ecs.EntityID
}

// NewSnowSystem 创建飘雪系统
// 参数：
//   - em: EntityManager 实例
//   - rng: 随机数源
//   - count: 雪花数量
func NewSnowSystem(em *ecs.EntityManager, rng *rand.Rand, count int) *SnowSystem {
	return &SnowSystem{
		entityManager: em,
		rng:           rng,
		count:         count,
	}
}

// Spawn 在给定视口内创建全部雪花（已创建时只更新视口）
func (s *SnowSystem) Spawn(width, height float64) {
	s.SetBounds(width, height)
	if len(s.flakes) > 0 {
		return
	}

	s.flakes = make([]ecs.EntityID, 0, s.count)
	for i := 0; i < s.count; i++ {
		s.flakes = append(s.flakes, entities.NewSnowflakeEntity(s.entityManager, s.rng, width, height))
	}
	log.Printf("[SnowSystem] Spawned %d snowflakes in %.0fx%.0f", s.count, width, height)
}

// SetBounds 更新视口尺寸
func (s *SnowSystem) SetBounds(width, height float64) {
	s.width, s.height = width, height
}

// Active 是否有雪花在运行
func (s *SnowSystem) Active() bool {
	return len(s.flakes) > 0
}

// Update 推进一帧
func (s *SnowSystem) Update() {
	for _, id := range s.flakes {
		flake, ok := ecs.GetComponent[*components.SnowflakeComponent](s.entityManager, id)
		if !ok {
			continue
		}

		flake.Y += flake.Speed
		if flake.Y > s.height {
			flake.Y = config.SnowRespawnY
			flake.X = s.rng.Float64() * s.width
		}
	}
}

// Draw 绘制所有雪花（白色实心圆，各自透明度）
func (s *SnowSystem) Draw(screen *ebiten.Image) {
	for _, id := range s.flakes {
		flake, ok := ecs.GetComponent[*components.SnowflakeComponent](s.entityManager, id)
		if !ok {
			continue
		}
		clr := color.NRGBA{R: 255, G: 255, B: 255, A: uint8(flake.Opacity * 255)}
		vector.DrawFilledCircle(screen, float32(flake.X), float32(flake.Y), float32(flake.Radius), clr, true)
	}
}

// Dispose 销毁全部雪花实体
func (s *SnowSystem) Dispose() {
	for _, id := range s.flakes {
		s.entityManager.DestroyEntity(id)
	}
	s.flakes = nil
}
