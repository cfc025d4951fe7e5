package scenes

import (
	"math"

	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/utils"
)

// 贺卡场景的布局计算
// 全部是纯函数：输入屏幕尺寸与动画时钟，输出屏幕坐标，绘制与点击检测共用

// headerPlacement 标题相对屏幕中心的偏移与缩放
//
// 参数：
//   - started: 是否已开始
//   - sinceStart: 开始后经过的时间（秒）
func headerPlacement(started bool, sinceStart float64) (offsetY, scale float64) {
	if !started {
		return config.HeaderIdleOffsetY, 1
	}
	t := utils.EaseInOutCubic(utils.Clamp01(sinceStart / config.HeaderTransitionSeconds))
	return utils.Lerp(config.HeaderIdleOffsetY, config.HeaderActiveOffsetY, t),
		utils.Lerp(1, config.HeaderActiveScale, t)
}

// headerCenterY 标题中心；窗口较矮时不超出顶部
func headerCenterY(screenH float64, started bool, sinceStart float64) (float64, float64) {
	offset, scale := headerPlacement(started, sinceStart)
	y := screenH/2 + offset
	minY := config.HeaderFontSize * scale
	return max(y, minY), scale
}

// tickerCenterY 祝福语滚动带中心（跟随标题）
func tickerCenterY(headerY, headerScale float64) float64 {
	return headerY + config.TickerOffsetY*headerScale
}

// startStarCenter 开始星星中心（含上下浮动）
func startStarCenter(screenW, screenH, clock float64) (float64, float64) {
	bob := utils.Oscillate(clock, config.StartStarBobPeriod) * config.StartStarBobHeight
	return screenW / 2, screenH/2 + bob
}

// promptRect 星星下方提示框
func promptRect(screenW, screenH, clock float64) utils.Rect {
	cx, cy := startStarCenter(screenW, screenH, clock)
	const w, h = 300.0, 40.0
	return utils.Rect{X: cx - w/2, Y: cy + config.PromptOffsetY - h/2, W: w, H: h}
}

// hitStartStar 点击是否命中星星或提示框
func hitStartStar(x, y, screenW, screenH, clock float64) bool {
	cx, cy := startStarCenter(screenW, screenH, clock)
	if utils.PointInCircle(x, y, cx, cy, config.StartStarRadius*utils.TouchTargetScale()) {
		return true
	}
	return promptRect(screenW, screenH, clock).Contains(x, y)
}

// treeCenter 圣诞树中心
func treeCenter(screenW, screenH float64) (float64, float64) {
	return screenW / 2, screenH/2 + config.TreeCenterOffsetY
}

// hitMusicButton 点击是否命中右上角音乐按钮
func hitMusicButton(x, y, screenW float64) bool {
	cx, cy := config.MusicButtonCenter(screenW)
	return utils.PointInCircle(x, y, cx, cy, config.MusicButtonRadius*utils.TouchTargetScale())
}

// warningPanelRect 音乐加载失败提示框（音乐按钮下方，右对齐）
func warningPanelRect(screenW float64) utils.Rect {
	width := min(config.WarningPanelWidth, screenW-2*config.MusicButtonMargin)
	return utils.Rect{
		X: screenW - config.MusicButtonMargin - width,
		Y: config.MusicButtonMargin + 2*config.MusicButtonRadius + 12,
		W: width,
		H: config.WarningPanelHeight,
	}
}

// retryButtonRect 提示框内的重试按钮（右下角）
func retryButtonRect(screenW float64) utils.Rect {
	panel := warningPanelRect(screenW)
	const inset = 8.0
	return utils.Rect{
		X: panel.X + panel.W - inset - config.RetryButtonWidth,
		Y: panel.Y + panel.H - inset - config.RetryButtonHeight,
		W: config.RetryButtonWidth,
		H: config.RetryButtonHeight,
	}
}

// openCardBounce 打开贺卡按钮的弹跳偏移（<= 0，向上）
func openCardBounce(clock float64) float64 {
	return -math.Abs(math.Sin(math.Pi*clock/config.OpenCardBouncePeriod)) * config.OpenCardBounceHeight
}

// hitOpenCardButton 点击是否命中打开贺卡按钮
// 判定半径覆盖整个弹跳范围，按钮在动时也能点中
func hitOpenCardButton(x, y, screenW, screenH float64) bool {
	cx, cy := config.OpenCardButtonCenter(screenW, screenH)
	cy -= config.OpenCardBounceHeight / 2
	radius := (config.OpenCardButtonRadius + config.OpenCardBounceHeight/2) * utils.TouchTargetScale()
	return utils.PointInCircle(x, y, cx, cy, radius)
}
