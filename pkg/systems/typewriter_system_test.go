package systems

import (
	"testing"

	"github.com/decker502/xmasgreeting/pkg/components"
	"github.com/decker502/xmasgreeting/pkg/ecs"
)

// TestTypewriter_ABC "ABC"，50ms/字，停顿 300ms
func TestTypewriter_ABC(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewTypewriterSystem(em)

	calls := 0
	id, err := sys.Start("ABC", 0.05, 0.3, func() { calls++ })
	if err != nil {
		t.Fatal(err)
	}

	tw, _ := sys.Get(id)
	if tw.Displayed != "" {
		t.Fatalf("expected empty prefix before any tick, got %q", tw.Displayed)
	}

	want := []string{"A", "AB", "ABC"}
	for i, w := range want {
		sys.Update(0.05)
		if tw.Displayed != w {
			t.Errorf("after tick %d: displayed %q, want %q", i+1, tw.Displayed, w)
		}
	}

	// 第 3 个字符出现后 290ms：还不能回调
	for i := 0; i < 29; i++ {
		sys.Update(0.01)
	}
	if calls != 0 {
		t.Fatalf("callback fired %d times before the 300ms pause elapsed", calls)
	}

	sys.Update(0.01)
	if calls != 1 {
		t.Fatalf("expected exactly one callback at 300ms, got %d", calls)
	}

	// 之后再也不会回调
	for i := 0; i < 200; i++ {
		sys.Update(0.05)
	}
	if calls != 1 {
		t.Errorf("callback fired %d times, want exactly 1", calls)
	}
	if tw.Phase != components.RevealDone {
		t.Errorf("phase = %v, want Done", tw.Phase)
	}
}

// TestTypewriter_LargeDelta 一帧跨越多个字符
func TestTypewriter_LargeDelta(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewTypewriterSystem(em)

	id, _ := sys.Start("Hello", 0.1, 1, nil)
	sys.Update(0.35)

	tw, _ := sys.Get(id)
	if tw.Displayed != "Hel" {
		t.Errorf("displayed %q after 0.35s, want %q", tw.Displayed, "Hel")
	}
}

// TestTypewriter_Unicode 按码点输出
func TestTypewriter_Unicode(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewTypewriterSystem(em)

	id, _ := sys.Start("Chạm", 0.1, 0, nil)
	tw, _ := sys.Get(id)

	sys.Update(0.1)
	sys.Update(0.1)
	sys.Update(0.1)
	if tw.Displayed != "Chạ" {
		t.Errorf("displayed %q, want %q", tw.Displayed, "Chạ")
	}
}

// TestTypewriter_ResetMidTyping 中途重置从头开始，旧文本的回调不会触发
func TestTypewriter_ResetMidTyping(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewTypewriterSystem(em)

	calls := 0
	id, _ := sys.Start("ABCDEF", 0.05, 0.3, func() { calls++ })
	sys.Update(0.05)
	sys.Update(0.05)

	if err := sys.Reset(id, "XY", 0.1, 0.2); err != nil {
		t.Fatal(err)
	}
	tw, _ := sys.Get(id)
	if tw.Displayed != "" || tw.RuneIndex != 0 {
		t.Fatalf("reset should clear the prefix, got %q", tw.Displayed)
	}

	sys.Update(0.1)
	if tw.Displayed != "X" {
		t.Errorf("displayed %q after reset, want %q", tw.Displayed, "X")
	}
	sys.Update(0.1)
	sys.Update(0.2)
	if calls != 1 {
		t.Errorf("expected one callback for the new text, got %d", calls)
	}

	if err := sys.Reset(id, "Z", 0, 0); err == nil {
		t.Error("expected error for zero speed")
	}
}

// TestTypewriter_StopCancelsCallback 销毁后不再回调
func TestTypewriter_StopCancelsCallback(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewTypewriterSystem(em)

	calls := 0
	id, _ := sys.Start("AB", 0.05, 0.3, func() { calls++ })
	sys.Update(0.05)
	sys.Update(0.05)

	sys.Stop(id)
	for i := 0; i < 100; i++ {
		sys.Update(0.05)
	}

	if calls != 0 {
		t.Errorf("stopped typewriter fired %d callbacks", calls)
	}
	if err := sys.Reset(id, "x", 0.1, 0); err == nil {
		t.Error("reset of a stopped typewriter should fail")
	}
}

// TestTypewriter_RestartFromCallback 回调里重置自身（循环提示语）
func TestTypewriter_RestartFromCallback(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewTypewriterSystem(em)

	var id ecs.EntityID
	loops := 0
	id, _ = sys.Start("Hi", 0.1, 0.5, func() {
		loops++
		if err := sys.Reset(id, "Hi", 0.1, 0.5); err != nil {
			t.Errorf("reset from callback: %v", err)
		}
	})

	// 每轮 0.2s 打字 + 0.5s 停顿
	for i := 0; i < 21; i++ {
		sys.Update(0.1)
	}
	if loops != 3 {
		t.Errorf("expected 3 loops in 2.1s, got %d", loops)
	}
}

// TestTypewriter_CursorBlink 光标每 0.5s 切换
func TestTypewriter_CursorBlink(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewTypewriterSystem(em)

	id, _ := sys.Start("", 1, 100, nil)
	tw, _ := sys.Get(id)

	if !tw.CursorVisible {
		t.Fatal("cursor should start visible")
	}
	sys.Update(0.25)
	if !tw.CursorVisible {
		t.Error("cursor should still be visible at 0.25s")
	}
	sys.Update(0.25)
	if tw.CursorVisible {
		t.Error("cursor should be hidden at 0.5s")
	}
	sys.Update(0.5)
	if !tw.CursorVisible {
		t.Error("cursor should be visible again at 1.0s")
	}
}
