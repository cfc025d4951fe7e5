package utils

import "testing"

func TestPointInCircle(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		want   bool
	}{
		{"圆心", 100, 100, true},
		{"边界", 124, 100, true},
		{"圆外", 125, 100, false},
		{"对角线外", 118, 118, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInCircle(tt.px, tt.py, 100, 100, 24); got != tt.want {
				t.Errorf("PointInCircle(%v, %v) = %v, want %v", tt.px, tt.py, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}

	if !r.Contains(10, 20) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(110, 20) {
		t.Error("right edge should be outside")
	}
	if r.Contains(50, 70) {
		t.Error("bottom edge should be outside")
	}
	if cx, cy := r.Center(); cx != 60 || cy != 45 {
		t.Errorf("Center() = (%v, %v), want (60, 45)", cx, cy)
	}
}
