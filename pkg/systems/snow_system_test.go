package systems

import (
	"math/rand"
	"testing"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/ecs"
)

func snowflakes(em *ecs.EntityManager) []*components.SnowflakeComponent {
	var out []*components.SnowflakeComponent
	for _, id := range ecs.GetEntitiesWith1[*components.SnowflakeComponent](em) {
		flake, _ := ecs.GetComponent[*components.SnowflakeComponent](em, id)
		out = append(out, flake)
	}
	return out
}

// TestSnowSystem_WrapInvariant 任意帧数后 y ∈ [-10, height]
func TestSnowSystem_WrapInvariant(t *testing.T) {
	for _, count := range []int{1, 10, 150} {
		em := ecs.NewEntityManager()
		sys := NewSnowSystem(em, rand.New(rand.NewSource(int64(count))), count)
		sys.Spawn(800, 600)

		flakes := snowflakes(em)
		if len(flakes) != count {
			t.Fatalf("expected %d flakes, got %d", count, len(flakes))
		}

		for tick := 0; tick < 2000; tick++ {
			sys.Update()
			for _, f := range flakes {
				if f.Y < -10 || f.Y > 600 {
					t.Fatalf("count=%d tick=%d: y=%v out of [-10, 600]", count, tick, f.Y)
				}
				if f.X < 0 || f.X >= 800 {
					t.Fatalf("count=%d tick=%d: x=%v out of [0, 800)", count, tick, f.X)
				}
			}
		}
	}
}

// TestSnowSystem_RespawnKeepsAttributes 重生只重置位置
func TestSnowSystem_RespawnKeepsAttributes(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewSnowSystem(em, rand.New(rand.NewSource(1)), 1)
	sys.Spawn(100, 100)

	flake := snowflakes(em)[0]
	flake.Y = 99.9
	radius, speed, opacity := flake.Radius, flake.Speed, flake.Opacity

	sys.Update()

	if flake.Y != -10 {
		t.Errorf("expected respawn at y=-10, got %v", flake.Y)
	}
	if flake.Radius != radius || flake.Speed != speed || flake.Opacity != opacity {
		t.Error("respawn must keep radius, speed and opacity")
	}
}

// TestSnowSystem_ResizeKeepsState 改变视口不重置雪花
func TestSnowSystem_ResizeKeepsState(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewSnowSystem(em, rand.New(rand.NewSource(2)), 20)
	sys.Spawn(800, 600)

	before := make(map[*components.SnowflakeComponent]components.SnowflakeComponent)
	for _, f := range snowflakes(em) {
		before[f] = *f
	}

	sys.SetBounds(1920, 1080)
	sys.Spawn(1920, 1080) // 再次 Spawn 不会新建

	after := snowflakes(em)
	if len(after) != 20 {
		t.Fatalf("resize changed flake count to %d", len(after))
	}
	for _, f := range after {
		if old, ok := before[f]; !ok || old != *f {
			t.Error("resize must not modify existing flakes")
		}
	}
}

// TestSnowSystem_Dispose 销毁后不再更新
func TestSnowSystem_Dispose(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewSnowSystem(em, rand.New(rand.NewSource(3)), 5)
	sys.Spawn(100, 100)

	sys.Dispose()
	sys.Update()

	if sys.Active() {
		t.Error("system should be inactive after Dispose")
	}
	if n := len(ecs.GetEntitiesWith1[*components.SnowflakeComponent](em)); n != 0 {
		t.Errorf("expected no live snowflakes, got %d", n)
	}
}
