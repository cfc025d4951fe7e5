// Package utils 提供通用工具函数
package utils

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState 存储当前帧的输入状态
// 用于统一处理鼠标和触摸输入
type InputState struct {
	// 是否有点击/触摸事件刚刚发生
	JustPressed bool
	// 点击/触摸位置（悬停检测也使用此位置）
	X, Y int
	// 是否有活动的触摸
	IsTouching bool
}

// GetInputState 获取当前帧的输入状态
// 同时支持鼠标点击和触摸输入，优先检测触摸
func GetInputState() InputState {
	state := InputState{}

	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		state.JustPressed = true
		state.X, state.Y = ebiten.TouchPosition(touchIDs[0])
		state.IsTouching = true
		return state
	}

	allTouchIDs := ebiten.AppendTouchIDs(nil)
	if len(allTouchIDs) > 0 {
		state.X, state.Y = ebiten.TouchPosition(allTouchIDs[0])
		state.IsTouching = true
		return state
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		state.JustPressed = true
	}
	state.X, state.Y = ebiten.CursorPosition()
	return state
}

// PointInCircle 判断点是否在圆内（含边界）
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return math.Hypot(px-cx, py-cy) <= radius
}

// Rect 轴对齐矩形（屏幕坐标）
type Rect struct {
	X, Y, W, H float64
}

// Contains 判断点是否在矩形内（左上闭、右下开）
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

// Center 返回矩形中心
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// mobileTouchScale 移动模式下按钮点击半径的放大倍数
const mobileTouchScale = 1.5
