package config

// 布局与视觉常量
//
// 逻辑坐标与窗口尺寸一致（App.Layout 返回外部尺寸），
// 这里的数值都是相对于屏幕中心或边缘的偏移。

// 窗口
const (
	// DefaultWindowWidth 默认窗口宽度
	DefaultWindowWidth = 960
	// DefaultWindowHeight 默认窗口高度
	DefaultWindowHeight = 720
	// WindowTitle 窗口标题
	WindowTitle = "Merry Christmas"
)

// 背景渐变（中心 #1b2735 -> 边缘 #090a0f）
var (
	BackgroundInner = [3]uint8{0x1b, 0x27, 0x35}
	BackgroundOuter = [3]uint8{0x09, 0x0a, 0x0f}
)

// 雪花
const (
	// SnowRespawnY 雪花落出底部后重生的 Y 坐标（略高于顶部）
	SnowRespawnY    = -10.0
	SnowMinRadius   = 1.0
	SnowRadiusRange = 3.0 // [1, 4)
	SnowMinSpeed    = 0.5
	SnowSpeedRange  = 2.0 // [0.5, 2.5)
)

// 标题与祝福语
const (
	// HeaderFontSize 标题字号
	HeaderFontSize = 52.0
	// HeaderIdleOffsetY 开始前标题相对屏幕中心的偏移
	HeaderIdleOffsetY = -200.0
	// HeaderActiveOffsetY 开始后标题上移到的位置（相对中心）
	HeaderActiveOffsetY = -300.0
	// HeaderActiveScale 开始后标题缩放
	HeaderActiveScale = 0.75
	// HeaderTransitionSeconds 标题移动动画时长
	HeaderTransitionSeconds = 1.0

	// TickerOffsetY 祝福语滚动带中心相对标题中心的偏移（开始后）
	TickerOffsetY = 56.0
	// TickerFontSize 祝福语字号
	TickerFontSize = 30.0
	// TickerBandHeight 祝福语滚动带高度
	TickerBandHeight = 48.0
	// TickerDecoration 祝福语两侧装饰
	TickerDecoration = "*"
)

// 开始星星
const (
	StartStarRadius    = 54.0
	StartStarBobPeriod = 3.0 // 上下浮动周期（秒）
	StartStarBobHeight = 10.0
	PromptFontSize     = 20.0
	PromptOffsetY      = 90.0 // 提示语相对星星中心的偏移
)

// 圣诞树
const (
	TreeCenterOffsetY   = 60.0   // 树中心相对屏幕中心的偏移
	TreeStarOffsetY     = -250.0 // 顶部星星相对树中心的偏移
	TreeStarRadius      = 34.0
	TreeStarFloatPeriod = 2.0
	TreeStarFloatHeight = 8.0
	TreeLightSize       = 5.0 // 灯珠半径
	TreeTwinkleMinAlpha = 0.3
)

// 右上角音乐按钮与错误提示
const (
	MusicButtonRadius  = 24.0
	MusicButtonMargin  = 16.0
	WarningPanelWidth  = 240.0
	WarningPanelHeight = 92.0
	WarningFontSize    = 13.0
	WarningHintSize    = 11.0
	RetryButtonWidth   = 90.0
	RetryButtonHeight  = 24.0
)

// 右下角"打开贺卡"按钮
const (
	OpenCardButtonRadius     = 24.0
	OpenCardButtonMarginX    = 40.0
	OpenCardButtonMarginY    = 128.0
	OpenCardBouncePeriod     = 1.0
	OpenCardBounceHeight     = 12.0
	OpenCardBadgeRadius      = 6.0
	OpenCardBadgePulsePeriod = 2.0
)

// 贺卡
const (
	CardWidth            = 400.0
	CardMaxWidthRatio    = 0.9
	CardPadding          = 22.0
	CardTitleFontSize    = 28.0
	CardLineFontSize     = 18.0
	CardLineSpacing      = 6.0
	CardParagraphSpacing = 12.0
	CardMinTextHeight    = 140.0
	CardSalutationSize   = 22.0
	CardHintFontSize     = 10.0
	CardCloseRadius      = 14.0
	CardBackdropAlpha    = 0.7
	// CardSalutationSeconds 落款淡入/缩放时长
	CardSalutationSeconds = 1.0
	// CardSalutationOffsetY 落款出现前的下移量
	CardSalutationOffsetY = 8.0
	// CardSalutationScale 落款最终缩放
	CardSalutationScale = 1.05
	// CardAppearSeconds 贺卡出现动画时长
	CardAppearSeconds = 0.5
)

// CardPanelWidth 贺卡面板宽度：窄屏上不超过屏幕宽度的 90%
func CardPanelWidth(screenWidth float64) float64 {
	return min(CardWidth, screenWidth*CardMaxWidthRatio)
}

// MusicButtonCenter 右上角音乐按钮中心
func MusicButtonCenter(screenWidth float64) (float64, float64) {
	return screenWidth - MusicButtonMargin - MusicButtonRadius, MusicButtonMargin + MusicButtonRadius
}

// OpenCardButtonCenter 右下角"打开贺卡"按钮中心（未计入弹跳）
func OpenCardButtonCenter(screenWidth, screenHeight float64) (float64, float64) {
	return screenWidth - OpenCardButtonMarginX - OpenCardButtonRadius, screenHeight - OpenCardButtonMarginY - OpenCardButtonRadius
}
