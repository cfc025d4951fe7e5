package components

// GreetingTickerComponent 祝福语滚动条组件
//
// 状态机：displaying(i) --停留 Dwell 秒--> displaying((i+1) mod N)，无终态。
// 每次切换 Generation 加一，渲染以此为"键"从头开始滚动，
// 上一条祝福语的动画进度不会带入下一条。
type GreetingTickerComponent struct {
	Greetings  []string // 祝福语文本（为空时不显示）
	Index      int      // 当前显示的祝福语索引
	Generation int      // 切换计数

	// DwellTimer 当前祝福语的停留计时（单次，每次切换时重置）
	DwellTimer TimerComponent
}
