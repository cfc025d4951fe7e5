package entities

import (
	"math/rand"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/ecs"
)

// RandomSnowflake 生成一片随机雪花
//
// 位置在 [0, width) x [0, height) 内均匀分布；
// 半径 [1, 4)、速度 [0.5, 2.5)、透明度 [0, 1)。
func RandomSnowflake(rng *rand.Rand, width, height float64) components.SnowflakeComponent {
	return components.SnowflakeComponent{
		X:       rng.Float64() * width,
		Y:       rng.Float64() * height,
		Radius:  config.SnowMinRadius + rng.Float64()*config.SnowRadiusRange,
		Speed:   config.SnowMinSpeed + rng.Float64()*config.SnowSpeedRange,
		Opacity: rng.Float64(),
	}
}

// NewSnowflakeEntity 创建雪花实体
func NewSnowflakeEntity(em *ecs.EntityManager, rng *rand.Rand, width, height float64) ecs.EntityID {
	flake := RandomSnowflake(rng, width, height)
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &flake)
	return id
}
