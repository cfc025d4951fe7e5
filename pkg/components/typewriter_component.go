package components

// RevealPhase 逐字显示的阶段
type RevealPhase int

const (
	// RevealTyping 正在逐字输出
	RevealTyping RevealPhase = iota
	// RevealPausing 一段文字已完整显示，正在停顿
	RevealPausing
	// RevealDone 已结束（终态）
	RevealDone
)

// String 返回 RevealPhase 的字符串表示
func (p RevealPhase) String() string {
	switch p {
	case RevealTyping:
		return "Typing"
	case RevealPausing:
		return "Pausing"
	case RevealDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// TypewriterComponent 打字机效果组件（单段文字）
//
// 生命周期:
//  1. TypewriterSystem.Start 创建实体并添加此组件
//  2. 每 Speed 秒输出一个字符（按 Unicode 码点计）
//  3. 全部输出后停顿 PauseAfter 秒，调用 OnComplete 恰好一次
//  4. TypewriterSystem.Reset 可在任意时刻重新开始（新文本/速度/停顿）
//  5. TypewriterSystem.Stop 销毁实体，之后不会再有任何回调
//
// 光标闪烁与打字进度无关，由独立的循环计时器驱动。
type TypewriterComponent struct {
	Text       string  // 完整文本
	Speed      float64 // 每个字符的间隔（秒）
	PauseAfter float64 // 完成后到回调之间的停顿（秒）

	Displayed string // 已输出的前缀
	RuneIndex int    // 已输出的字符数
	Phase     RevealPhase

	CharTimer  TimerComponent
	PauseTimer TimerComponent
	BlinkTimer TimerComponent

	CursorVisible bool

	// OnComplete 停顿结束后的回调（可为 nil）
	OnComplete func()
}
