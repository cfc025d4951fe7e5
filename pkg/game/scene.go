package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a screen of the greeting (currently there is only one).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，用于接收逻辑屏幕尺寸变化
//
// App.Layout 直接返回窗口外部尺寸，因此窗口缩放、旋转屏幕、全屏切换
// 都会改变尺寸。场景应当在原地适配，不能重建粒子等状态。
type Resizable interface {
	Resize(width, height int)
}

// Disposable 是一个可选接口，用于在场景被替换或程序退出时释放资源
//
// 实现此接口的场景会在以下时机被调用 Dispose()：
//   - SceneManager.SwitchTo 切换到其他场景
//   - 游戏窗口关闭
type Disposable interface {
	Dispose()
}
