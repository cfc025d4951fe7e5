// Package main 圣诞贺卡桌面端入口
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--verbose            Enable verbose logging
//	--config <path>      Experience config (default: embedded data/experience.yaml)
//	--card <name>        Card message set to show
//	--audio <source>     Override the music source (URL, data/... or file path)
//	--fullscreen         Start in fullscreen
//	--seed <n>           Random seed for snow and lights (0 = time based)
//	--persist-settings   Save volume and fullscreen to the user data directory
//
// Controls:
//
//	Space/Enter  - Start / show the whole card
//	M            - Toggle music
//	R            - Retry loading music
//	C / Esc      - Open / close the card
//	+ / -        - Music volume
//	F11          - Toggle fullscreen
package main

import (
	"flag"
	"log"

	"github.com/decker502/xmasgreeting/pkg/app"
	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verboseFlag    = flag.Bool("verbose", false, "Enable verbose logging")
	configFlag     = flag.String("config", "", "Experience config path (default: embedded data/experience.yaml)")
	cardFlag       = flag.String("card", "", "Card message set to show")
	audioFlag      = flag.String("audio", "", "Override the music source")
	fullscreenFlag = flag.Bool("fullscreen", false, "Start in fullscreen")
	seedFlag       = flag.Int64("seed", 0, "Random seed (0 = time based)")
	persistFlag    = flag.Bool("persist-settings", false, "Save volume and fullscreen settings")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:         *verboseFlag,
		ConfigPath:      *configFlag,
		CardSet:         *cardFlag,
		AudioSource:     *audioFlag,
		Fullscreen:      *fullscreenFlag,
		Seed:            *seedFlag,
		PersistSettings: *persistFlag,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(config.DefaultWindowWidth, config.DefaultWindowHeight)
	ebiten.SetWindowTitle(gameApp.Title())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
