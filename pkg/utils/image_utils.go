package utils

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 纯白纹理，DrawTriangles 以顶点颜色着色
var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// StarPoints 计算五角星的 10 个顶点（外点与内点交替）
//
// 参数:
//   - cx, cy: 中心
//   - outer, inner: 外接圆与内接圆半径
//   - rotation: 旋转（弧度），0 时第一个尖角朝上
func StarPoints(cx, cy, outer, inner, rotation float64) [10][2]float64 {
	var pts [10][2]float64
	for i := range pts {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		angle := rotation - math.Pi/2 + float64(i)*math.Pi/5
		pts[i] = [2]float64{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return pts
}

// DrawStar 绘制实心五角星
func DrawStar(dst *ebiten.Image, cx, cy, outer, inner, rotation float64, clr color.Color) {
	pts := StarPoints(cx, cy, outer, inner, rotation)
	r, g, b, a := straightRGBA(clr)

	vertices := make([]ebiten.Vertex, 0, len(pts)+1)
	vertices = append(vertices, ebiten.Vertex{
		DstX: float32(cx), DstY: float32(cy), SrcX: 1, SrcY: 1,
		ColorR: r, ColorG: g, ColorB: b, ColorA: a,
	})
	for _, p := range pts {
		vertices = append(vertices, ebiten.Vertex{
			DstX: float32(p[0]), DstY: float32(p[1]), SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}

	indices := make([]uint16, 0, len(pts)*3)
	for i := 1; i <= len(pts); i++ {
		next := i%len(pts) + 1
		indices = append(indices, 0, uint16(i), uint16(next))
	}

	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(vertices, indices, whiteSubImage, op)
}

// DrawRadialGradient 以中心颜色向四周过渡到边缘颜色，填充整个目标图像
// 中心与四角、四边中点组成 8 个三角形，近似椭圆径向渐变
func DrawRadialGradient(dst *ebiten.Image, inner, outer color.Color) {
	w, h := float32(dst.Bounds().Dx()), float32(dst.Bounds().Dy())
	ir, ig, ib, ia := straightRGBA(inner)
	or, og, ob, oa := straightRGBA(outer)

	vertices := []ebiten.Vertex{
		{DstX: w / 2, DstY: h / 2, SrcX: 1, SrcY: 1, ColorR: ir, ColorG: ig, ColorB: ib, ColorA: ia},
	}
	rim := [][2]float32{
		{0, 0}, {w / 2, 0}, {w, 0}, {w, h / 2},
		{w, h}, {w / 2, h}, {0, h}, {0, h / 2},
	}
	for _, p := range rim {
		vertices = append(vertices, ebiten.Vertex{
			DstX: p[0], DstY: p[1], SrcX: 1, SrcY: 1,
			ColorR: or, ColorG: og, ColorB: ob, ColorA: oa,
		})
	}

	indices := make([]uint16, 0, len(rim)*3)
	for i := 1; i <= len(rim); i++ {
		next := i%len(rim) + 1
		indices = append(indices, 0, uint16(i), uint16(next))
	}
	dst.DrawTriangles(vertices, indices, whiteSubImage, nil)
}

// DrawGlow 以多层半透明圆模拟发光
//
// 参数:
//   - radius: 最外层半径
//   - layers: 层数（越多越平滑）
//   - alpha: 最内层不透明度 [0, 1]
func DrawGlow(dst *ebiten.Image, cx, cy, radius float64, layers int, clr color.RGBA, alpha float64) {
	if layers <= 0 || alpha <= 0 {
		return
	}
	for i := layers; i >= 1; i-- {
		f := float64(i) / float64(layers)
		c := WithAlpha(clr, alpha*(1-f)*0.6)
		vector.DrawFilledCircle(dst, float32(cx), float32(cy), float32(radius*f), c, true)
	}
}

// WithAlpha 返回指定不透明度的颜色
func WithAlpha(clr color.RGBA, alpha float64) color.NRGBA {
	return color.NRGBA{R: clr.R, G: clr.G, B: clr.B, A: uint8(Clamp01(alpha) * 255)}
}

// straightRGBA 转换为非预乘的 [0, 1] 分量（DrawTriangles 默认的颜色模式）
func straightRGBA(clr color.Color) (r, g, b, a float32) {
	n := color.NRGBAModel.Convert(clr).(color.NRGBA)
	return float32(n.R) / 255, float32(n.G) / 255, float32(n.B) / 255, float32(n.A) / 255
}

// FillConvexPolygon 填充凸多边形（按顶点顺序扇形三角化）
func FillConvexPolygon(dst *ebiten.Image, pts [][2]float64, clr color.Color) {
	if len(pts) < 3 {
		return
	}
	r, g, b, a := straightRGBA(clr)

	vertices := make([]ebiten.Vertex, len(pts))
	for i, p := range pts {
		vertices[i] = ebiten.Vertex{
			DstX: float32(p[0]), DstY: float32(p[1]), SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		}
	}
	indices := make([]uint16, 0, (len(pts)-2)*3)
	for i := 1; i < len(pts)-1; i++ {
		indices = append(indices, 0, uint16(i), uint16(i+1))
	}

	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(vertices, indices, whiteSubImage, op)
}
