package utils

import "github.com/decker502/xmasgreeting/pkg/components"

// timerEpsilon 浮点累加误差容忍
// 0.05 秒累加 6 次可能得到 0.29999999999999993，不能因此晚一帧触发
const timerEpsilon = 1e-9

// AdvanceTimer 推进计时器
//
// 参数:
//   - t: 计时器（nil 时直接返回 false）
//   - dt: 本帧经过的时间（秒）
//
// 返回:
//   - bool: 本次调用是否到时
//
// 单次计时器到时后 IsReady 置位，之后不再触发；
// 循环计时器到时后扣除一个周期，保留余量，因此一帧内跨越多个周期时
// 可以用 AdvanceTimer(t, 0) 继续取出剩余的到时次数。
func AdvanceTimer(t *components.TimerComponent, dt float64) bool {
	if t == nil || (t.IsReady && !t.Repeat) {
		return false
	}

	t.CurrentTime += dt
	if t.CurrentTime+timerEpsilon < t.TargetTime {
		return false
	}

	if t.Repeat {
		t.CurrentTime -= t.TargetTime
		if t.CurrentTime < 0 {
			t.CurrentTime = 0
		}
		return true
	}

	t.IsReady = true
	return true
}

// ResetTimer 重新开始计时
func ResetTimer(t *components.TimerComponent, target float64) {
	t.TargetTime = target
	t.CurrentTime = 0
	t.IsReady = false
}

// NewTimer 创建计时器
func NewTimer(name string, target float64, repeat bool) components.TimerComponent {
	return components.TimerComponent{
		Name:       name,
		TargetTime: target,
		Repeat:     repeat,
	}
}

// TimerProgress 返回计时进度 [0, 1]
func TimerProgress(t *components.TimerComponent) float64 {
	if t == nil || t.TargetTime <= 0 || t.IsReady {
		return 1
	}
	return Clamp01(t.CurrentTime / t.TargetTime)
}
