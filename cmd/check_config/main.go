// Package main validates an experience config file and optionally probes its
// music source, without opening a window.
//
// Usage:
//
//	go run ./cmd/check_config [flags]
//
// Flags:
//
//	--config <path>   Experience config to check (default: data/experience.yaml)
//	--probe-audio     Download and decode the configured music source
//	--verbose         Enable verbose logging
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/decker502/xmasgreeting/pkg/config"
	"github.com/decker502/xmasgreeting/pkg/game"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

var (
	configFlag  = flag.String("config", config.DefaultExperienceConfigPath, "Experience config path")
	probeFlag   = flag.Bool("probe-audio", false, "Download and decode the music source")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadExperienceConfig(*configFlag)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Config:     %s\n", *configFlag)
	fmt.Printf("Title:      %s\n", cfg.Title)
	fmt.Printf("Greetings:  %d\n", len(cfg.Greetings))
	fmt.Printf("Music:      %s\n", cfg.Audio.Source)

	names := make([]string, 0, len(cfg.Card.Sets))
	for name := range cfg.Card.Sets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		marker := " "
		if name == cfg.Card.ActiveSet {
			marker = "*"
		}
		fmt.Printf("Card set %s %-12s %d lines\n", marker, name, len(cfg.Card.Sets[name]))
	}

	if !*probeFlag {
		return
	}

	timeout := time.Duration(cfg.Audio.TimeoutSeconds * float64(time.Second))
	rm := game.NewResourceManager(audio.NewContext(48000), timeout)

	start := time.Now()
	player, err := rm.LoadMusic(context.Background(), cfg.Audio.Source)
	if err != nil {
		fmt.Printf("Music probe failed after %v: %v\n", time.Since(start).Round(time.Millisecond), err)
		os.Exit(1)
	}
	defer player.Close()
	fmt.Printf("Music probe OK (%v)\n", time.Since(start).Round(time.Millisecond))
}
