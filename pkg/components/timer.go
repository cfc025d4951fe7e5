package components

// TimerComponent 通用计时器组件
// 用于处理需要时间延迟的行为（如逐字显示间隔、行间停顿、光标闪烁、自动打开贺卡）
//
// 计时器只保存数据，由 utils.AdvanceTimer 推进。
// 计时器嵌入在所属组件中：所属实体被销毁，计时器随之消失，不会再触发。
type TimerComponent struct {
	Name        string  // 计时器名称，如 "card_char"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒）
	IsReady     bool    // 单次计时器是否已完成
	Repeat      bool    // 循环计时器：到时后保留余量重新计时，IsReady 不会被置位
}
