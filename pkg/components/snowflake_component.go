package components

// SnowflakeComponent 单片雪花（纯数据组件）
//
// 由 SnowSystem 在激活时一次性创建固定数量，每帧下落；
// 落出屏幕底部后只重置位置（Y 回到顶部上方，X 重新随机），
// 半径、速度、透明度保持不变。雪花不会被单独销毁。
type SnowflakeComponent struct {
	X, Y    float64 // 屏幕坐标（像素）
	Radius  float64 // 半径 [1, 4)
	Speed   float64 // 每帧下落像素 [0.5, 2.5)
	Opacity float64 // 透明度 [0, 1)
}
