package systems

import (
	"fmt"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/ecs"
	"github.com/decker502/xmasgreeting/pkg/entities"
	"github.com/decker502/xmasgreeting/pkg/utils"
)

// TypewriterSystem 打字机效果系统
//
// 每个打字机是一个实体：
//   - 每 Speed 秒输出一个字符
//   - 全部输出后停顿 PauseAfter 秒，回调 OnComplete 恰好一次
//   - 光标按固定周期闪烁，与打字进度无关
//
// 所有计时器都嵌在组件里，Stop 销毁实体后不可能再有回调。
type TypewriterSystem struct {
	entityManager *ecs.EntityManager
}

// NewTypewriterSystem 创建打字机系统
func NewTypewriterSystem(em *ecs.EntityManager) *TypewriterSystem {
	return &TypewriterSystem{entityManager: em}
}

// Start 创建一个打字机并开始输出
//
// 参数：
//   - text: 完整文本
//   - speed: 每个字符的间隔（秒）
//   - pauseAfter: 完成后的停顿（秒）
//   - onComplete: 停顿结束后的回调（可为 nil）
//
// 返回：
//   - ecs.EntityID: 打字机实体
//   - error: 参数非法
func (s *TypewriterSystem) Start(text string, speed, pauseAfter float64, onComplete func()) (ecs.EntityID, error) {
	return entities.NewTypewriterEntity(s.entityManager, text, speed, pauseAfter, onComplete)
}

// Reset 以新的文本与时序从头开始（保留回调）
// 进行中的字符、停顿计时全部作废，不会混入旧文本
func (s *TypewriterSystem) Reset(id ecs.EntityID, text string, speed, pauseAfter float64) error {
	tw, ok := ecs.GetComponent[*components.TypewriterComponent](s.entityManager, id)
	if !ok {
		return fmt.Errorf("typewriter %d not found", id)
	}

	fresh, err := entities.NewTypewriterComponent(text, speed, pauseAfter, tw.OnComplete)
	if err != nil {
		return err
	}
	*tw = *fresh
	return nil
}

// Stop 销毁打字机
func (s *TypewriterSystem) Stop(id ecs.EntityID) {
	s.entityManager.DestroyEntity(id)
}

// Get 返回打字机组件（渲染用，只读）
func (s *TypewriterSystem) Get(id ecs.EntityID) (*components.TypewriterComponent, bool) {
	return ecs.GetComponent[*components.TypewriterComponent](s.entityManager, id)
}

// Update 推进所有打字机
func (s *TypewriterSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.TypewriterComponent](s.entityManager) {
		tw, ok := ecs.GetComponent[*components.TypewriterComponent](s.entityManager, id)
		if !ok {
			// 被前一个实体的回调销毁
			continue
		}
		s.updateTypewriter(tw, dt)
	}
}

func (s *TypewriterSystem) updateTypewriter(tw *components.TypewriterComponent, dt float64) {
	for fired := utils.AdvanceTimer(&tw.BlinkTimer, dt); fired; fired = utils.AdvanceTimer(&tw.BlinkTimer, 0) {
		tw.CursorVisible = !tw.CursorVisible
	}

	switch tw.Phase {
	case components.RevealTyping:
		total := utils.RuneCount(tw.Text)
		for fired := utils.AdvanceTimer(&tw.CharTimer, dt); fired; fired = utils.AdvanceTimer(&tw.CharTimer, 0) {
			tw.RuneIndex++
			tw.Displayed = utils.RunePrefix(tw.Text, tw.RuneIndex)
			if tw.RuneIndex >= total {
				// 停顿从最后一个字符出现时开始计时
				tw.Phase = components.RevealPausing
				utils.ResetTimer(&tw.PauseTimer, tw.PauseAfter)
				break
			}
		}

	case components.RevealPausing:
		if utils.AdvanceTimer(&tw.PauseTimer, dt) {
			tw.Phase = components.RevealDone
			if tw.OnComplete != nil {
				// 回调可能 Reset 或 Stop 本实体，之后不再访问 tw
				tw.OnComplete()
			}
		}
	}
}
