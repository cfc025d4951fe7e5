package utils

import (
	"math"
	"testing"
)

// TestEaseOutCubic 测试三次方缓出函数
func TestEaseOutCubic(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"起点", 0.0, 0.0},
		{"终点", 1.0, 1.0},
		{"中点", 0.5, 0.875}, // 1 - (1-0.5)^3 = 1 - 0.125 = 0.875
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EaseOutCubic(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("EaseOutCubic(%v) = %v, 期望 %v", tt.input, result, tt.expected)
			}
		})
	}

	t.Run("开始快于线性", func(t *testing.T) {
		for p := 0.1; p < 0.5; p += 0.1 {
			if EaseOutCubic(p) <= EaseLinear(p) {
				t.Errorf("EaseOutCubic(%v) 应该大于线性值（开始快）", p)
			}
		}
	})
}

// TestEaseInOutCurves 测试缓入缓出曲线的端点与对称性
func TestEaseInOutCurves(t *testing.T) {
	curves := map[string]func(float64) float64{
		"EaseInOutCubic": EaseInOutCubic,
		"EaseInOutSine":  EaseInOutSine,
	}

	for name, fn := range curves {
		t.Run(name, func(t *testing.T) {
			if math.Abs(fn(0)) > 1e-9 || math.Abs(fn(1)-1) > 1e-9 {
				t.Errorf("%s 端点错误: f(0)=%v f(1)=%v", name, fn(0), fn(1))
			}
			if math.Abs(fn(0.5)-0.5) > 1e-9 {
				t.Errorf("%s(0.5) = %v, 期望 0.5", name, fn(0.5))
			}
			if math.Abs(fn(0.25)+fn(0.75)-1) > 1e-9 {
				t.Errorf("%s 不对称: f(0.25)+f(0.75) = %v", name, fn(0.25)+fn(0.75))
			}
		})
	}
}

// TestLerp 测试线性插值
func TestLerp(t *testing.T) {
	tests := []struct {
		name     string
		a, b, t  float64
		expected float64
	}{
		{"t=0返回起点", 10, 20, 0, 10},
		{"t=1返回终点", 10, 20, 1, 20},
		{"t=0.5返回中点", 10, 20, 0.5, 15},
		{"负数插值", -10, 10, 0.5, 0},
		{"缩放 1.0 -> 0.75", 1.0, 0.75, 0.5, 0.875},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Lerp(tt.a, tt.b, tt.t)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Lerp(%v, %v, %v) = %v, 期望 %v", tt.a, tt.b, tt.t, result, tt.expected)
			}
		})
	}
}

// TestClamp01 测试进度限制
func TestClamp01(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{-0.5, 0}, {0, 0}, {0.3, 0.3}, {1, 1}, {7, 1},
	} {
		if got := Clamp01(tc.in); got != tc.want {
			t.Errorf("Clamp01(%v) = %v, 期望 %v", tc.in, got, tc.want)
		}
	}
}

// TestPingPong 测试往返进度（闪烁动画）
func TestPingPong(t *testing.T) {
	tests := []struct {
		name    string
		elapsed float64
		period  float64
		want    float64
	}{
		{"起点", 0, 1, 0},
		{"去程一半", 0.5, 1, 0.5},
		{"去程结束", 1, 1, 1},
		{"回程一半", 1.5, 1, 0.5},
		{"回程结束", 2, 1, 0},
		{"第二个循环", 2.25, 1, 0.25},
		{"周期 1.5 秒", 2.25, 1.5, 0.5},
		{"非法周期", 3, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PingPong(tt.elapsed, tt.period)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PingPong(%v, %v) = %v, 期望 %v", tt.elapsed, tt.period, got, tt.want)
			}
		})
	}
}

// TestOscillate 测试正弦振荡
func TestOscillate(t *testing.T) {
	if got := Oscillate(0.25, 1); math.Abs(got-1) > 1e-9 {
		t.Errorf("Oscillate(0.25, 1) = %v, 期望 1", got)
	}
	if got := Oscillate(0.75, 1); math.Abs(got+1) > 1e-9 {
		t.Errorf("Oscillate(0.75, 1) = %v, 期望 -1", got)
	}
	if got := Oscillate(1, 0); got != 0 {
		t.Errorf("Oscillate with zero period = %v, 期望 0", got)
	}
}
