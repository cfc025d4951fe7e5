package components

import "image/color"

// OrnamentLightComponent 圣诞树上的一颗彩灯（纯数据组件）
//
// 由 entities.GenerateOrnamentLights 按索引生成，生成后不再修改：
//   - 半径随索引严格递减（圆锥形），形成树的轮廓
//   - 角度沿螺旋线分布
//   - 颜色与闪烁延迟在生成时随机确定
type OrnamentLightComponent struct {
	Index          int        // 灯珠索引 [0, count)
	VerticalOffset float64    // 垂直偏移（像素，向上为正）
	Radius         float64    // 到中轴的距离（像素）
	Angle          float64    // 绕竖直轴的角度（弧度）
	Color          color.RGBA // 灯珠颜色
	TwinkleDelay   float64    // 闪烁延迟 [0, 2)，闪烁周期为 1+TwinkleDelay 秒
}
