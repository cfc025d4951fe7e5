package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 调用方负责先用 Clamp01 限制输入。
//
// 参考：https://easings.net/

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢（标题上移、贺卡出现）
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
// 特点：开始慢，中间快，结束慢
// 公式：
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseInOutSine 正弦缓入缓出（上下浮动、呼吸效果）
// 公式：f(t) = -(cos(πt) - 1) / 2
func EaseInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 将值限制在 [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// PingPong 往返进度
//
// 参数:
//   - elapsed: 已过时间（秒）
//   - period: 单程时长（秒）
//
// 返回:
//   - float64: 0 -> 1 -> 0 -> 1 ... 每个单程 period 秒（交替方向的循环动画）
func PingPong(elapsed, period float64) float64 {
	if period <= 0 {
		return 1
	}
	phase := math.Mod(elapsed, 2*period)
	if phase < 0 {
		phase += 2 * period
	}
	if phase <= period {
		return phase / period
	}
	return 2 - phase/period
}

// Oscillate 以 period 为周期在 [-1, 1] 间正弦振荡（浮动、弹跳）
func Oscillate(elapsed, period float64) float64 {
	if period <= 0 {
		return 0
	}
	return math.Sin(2 * math.Pi * elapsed / period)
}
