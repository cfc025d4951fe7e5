package components

// MessageCardComponent 贺卡组件（多行顺序逐字显示）
//
// 状态不变量（RevealState）:
//   - i < ActiveLineIndex: RevealedPrefixes[i] == Lines[i]（已完整显示）
//   - i == ActiveLineIndex: RevealedPrefixes[i] 为 Lines[i] 的前 ActiveCharIndex 个字符
//   - i > ActiveLineIndex: RevealedPrefixes[i] == ""
//   - 终态: ActiveLineIndex == len(Lines)
//
// 时序:
//
//	第 k 行全部显示 -> 停顿 LinePause 秒 -> 第 k+1 行开始
//	第 k+1 行的字符计时器只在停顿结束后才开始计时
type MessageCardComponent struct {
	// ==========================================================================
	// 文案 (Content)
	// ==========================================================================

	Lines      []string // 要显示的行（配置注入）
	Title      string   // 贺卡标题
	Salutation string   // 终态后淡入的落款
	SkipHint   string   // 未完成时的"点击显示全部"提示

	// ==========================================================================
	// 显示状态 (Reveal State)
	// ==========================================================================

	ActiveLineIndex  int
	ActiveCharIndex  int
	RevealedPrefixes []string
	Phase            RevealPhase

	// ==========================================================================
	// 计时器 (Timers)
	// ==========================================================================

	CharDelay  float64 // 每个字符的间隔（秒）
	LinePause  float64 // 行间停顿（秒）
	CharTimer  TimerComponent
	PauseTimer TimerComponent
	BlinkTimer TimerComponent // 整张贺卡共用的光标闪烁

	CursorVisible bool

	// ==========================================================================
	// 动画 (Animation)
	// ==========================================================================

	// Age 贺卡出现后的时间（秒），用于出现动画
	Age float64
	// SalutationElapsed 进入终态后的时间（秒），用于落款淡入/缩放
	SalutationElapsed float64
}
