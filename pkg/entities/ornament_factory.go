package entities

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"slices"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/ecs"
)

// OrnamentParams 灯串生成参数
// 相同参数在可见期间只生成一次（TreeSystem 以此做记忆化）
type OrnamentParams struct {
	Count         int          // 灯珠数量
	Turns         int          // 螺旋圈数
	BaseRadius    float64      // 底部半径（像素）
	Height        float64      // 树高（像素）
	VerticalShift float64      // 整体垂直偏移（像素）
	Palette       []color.RGBA // 颜色池（均匀随机选取）
}

// Equal 判断两组参数是否相同
func (p OrnamentParams) Equal(o OrnamentParams) bool {
	return p.Count == o.Count &&
		p.Turns == o.Turns &&
		p.BaseRadius == o.BaseRadius &&
		p.Height == o.Height &&
		p.VerticalShift == o.VerticalShift &&
		slices.Equal(p.Palette, o.Palette)
}

// Validate 校验参数
func (p OrnamentParams) Validate() error {
	if p.Count <= 0 {
		return fmt.Errorf("ornament count must be positive, got %d", p.Count)
	}
	if len(p.Palette) == 0 {
		return fmt.Errorf("ornament palette must not be empty")
	}
	return nil
}

// GenerateOrnamentLights 生成螺旋灯串布局
//
// 对第 i 颗灯珠，p = i/count：
//
//	VerticalOffset = height*p - height/2 + verticalShift
//	Radius         = baseRadius * (1 - p)
//	Angle          = p * turns * 2π
//
// 几何量只由索引和参数决定；颜色和闪烁延迟 [0, 2) 来自 rng。
//
// 参数:
//   - params: 生成参数
//   - rng: 随机数源（测试时注入固定种子）
//
// 返回:
//   - []components.OrnamentLightComponent: 按索引排列的灯珠，参数非法时返回 nil
func GenerateOrnamentLights(params OrnamentParams, rng *rand.Rand) []components.OrnamentLightComponent {
	if params.Validate() != nil || rng == nil {
		return nil
	}

	lights := make([]components.OrnamentLightComponent, params.Count)
	for i := range lights {
		p := float64(i) / float64(params.Count)
		lights[i] = components.OrnamentLightComponent{
			Index:          i,
			VerticalOffset: params.Height*p - params.Height/2 + params.VerticalShift,
			Radius:         params.BaseRadius * (1 - p),
			Angle:          p * float64(params.Turns) * 2 * math.Pi,
			Color:          params.Palette[rng.Intn(len(params.Palette))],
			TwinkleDelay:   rng.Float64() * 2,
		}
	}
	return lights
}

// NewOrnamentLightEntities 为每颗灯珠创建实体
//
// 返回:
//   - []ecs.EntityID: 与 lights 顺序一致的实体ID
func NewOrnamentLightEntities(em *ecs.EntityManager, lights []components.OrnamentLightComponent) []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(lights))
	for i := range lights {
		light := lights[i]
		id := em.CreateEntity()
		ecs.AddComponent(em, id, &light)
		ids = append(ids, id)
	}
	return ids
}
