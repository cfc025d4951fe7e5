package game

import (
	"errors"
	"testing"
)

// fakeMusic 同步的音乐服务：播放结果由测试预先设定，在下一次 Update 时送达
type fakeMusic struct {
	paused    bool
	failNext  bool // 下一次播放尝试失败
	pending   []AudioEvent
	events    []AudioEvent
	plays     int
	reloads   int
	pauses    int
	updates   int
	closed    bool
	autoPause bool // 下一次 Update 时模拟播放器自行停止
}

func newFakeMusic() *fakeMusic {
	return &fakeMusic{paused: true}
}

func (m *fakeMusic) PlayMusic() {
	m.plays++
	m.attempt()
}

func (m *fakeMusic) ReloadMusic() {
	m.reloads++
	m.attempt()
}

func (m *fakeMusic) attempt() {
	if m.failNext {
		m.paused = true
		m.pending = append(m.pending, AudioEvent{Type: AudioEventError, Err: errors.New("load failed")})
		return
	}
	m.paused = false
	m.pending = append(m.pending, AudioEvent{Type: AudioEventPlay})
}

func (m *fakeMusic) PauseMusic() {
	m.pauses++
	m.paused = true
	m.events = append(m.events, AudioEvent{Type: AudioEventPause})
}

func (m *fakeMusic) Paused() bool { return m.paused }

func (m *fakeMusic) Update() {
	m.updates++
	m.events = append(m.events, m.pending...)
	m.pending = nil
	if m.autoPause {
		m.autoPause = false
		m.paused = true
		m.events = append(m.events, AudioEvent{Type: AudioEventPause})
	}
}

func (m *fakeMusic) DrainEvents() []AudioEvent {
	ev := m.events
	m.events = nil
	return ev
}

func (m *fakeMusic) Close() { m.closed = true }

const frame = 1.0 / 60.0

// TestControllerInitialSession 初始状态
func TestControllerInitialSession(t *testing.T) {
	c := NewExperienceController(newFakeMusic(), 0)
	if c.Session() != (Session{}) {
		t.Errorf("initial session: got %+v, want zero value", c.Session())
	}
	if c.AutoCardRemaining() != 0 {
		t.Error("auto card timer should not run before Start")
	}
}

// TestControllerActionsBeforeStart 开始前的操作都是空操作
func TestControllerActionsBeforeStart(t *testing.T) {
	music := newFakeMusic()
	c := NewExperienceController(music, 0)

	c.ToggleMusic()
	c.OpenCard()
	c.RetryAudio()
	c.Update(20)

	if c.Session() != (Session{}) {
		t.Errorf("session changed before start: %+v", c.Session())
	}
	if music.plays != 0 || music.pauses != 0 || music.reloads != 0 {
		t.Errorf("music touched before start: plays=%d pauses=%d reloads=%d", music.plays, music.pauses, music.reloads)
	}
}

// TestControllerStartSuccess 开始后播放成功
func TestControllerStartSuccess(t *testing.T) {
	music := newFakeMusic()
	c := NewExperienceController(music, 0)

	c.Start()
	c.Start() // 重复调用无效
	if music.plays != 1 {
		t.Errorf("PlayMusic calls: got %d, want 1", music.plays)
	}

	c.Update(frame)
	s := c.Session()
	if !s.Started || s.AudioFailed || s.MusicMuted || s.CardVisible {
		t.Errorf("session after successful start: %+v", s)
	}
	if got := c.AutoCardRemaining(); got <= 9.9 || got > 10 {
		t.Errorf("AutoCardRemaining: got %v, want just under 10", got)
	}
}

// TestControllerStartFailure 播放失败：started 仍为 true，计时照常
func TestControllerStartFailure(t *testing.T) {
	music := newFakeMusic()
	music.failNext = true
	c := NewExperienceController(music, 0)

	c.Start()
	c.Update(frame)

	s := c.Session()
	if !s.Started || !s.AudioFailed {
		t.Errorf("session after failed start: %+v", s)
	}
	if s.MusicMuted {
		t.Error("a failed attempt must not change MusicMuted")
	}
	if c.AutoCardRemaining() == 0 {
		t.Error("auto card timer should be armed even when audio fails")
	}
}

// TestControllerRetryAudio 重试成功清除失败标志且不影响贺卡
func TestControllerRetryAudio(t *testing.T) {
	music := newFakeMusic()
	music.failNext = true
	c := NewExperienceController(music, 0)
	c.Start()
	c.Update(frame)
	c.OpenCard()

	music.failNext = false
	c.RetryAudio()
	c.Update(frame)

	s := c.Session()
	if s.AudioFailed {
		t.Error("AudioFailed should be cleared after a successful retry")
	}
	if !s.CardVisible {
		t.Error("retry must not change CardVisible")
	}
	if music.reloads != 1 {
		t.Errorf("ReloadMusic calls: got %d, want 1", music.reloads)
	}

	// 没有失败时重试是空操作
	c.RetryAudio()
	if music.reloads != 1 {
		t.Errorf("retry without failure should be ignored, reloads=%d", music.reloads)
	}
}

// TestControllerRetryFailsAgain 重试再次失败保持失败状态
func TestControllerRetryFailsAgain(t *testing.T) {
	music := newFakeMusic()
	music.failNext = true
	c := NewExperienceController(music, 0)
	c.Start()
	c.Update(frame)

	c.RetryAudio()
	c.Update(frame)
	if !c.Session().AudioFailed {
		t.Error("AudioFailed should stay true when the retry fails")
	}
}

// TestControllerToggleMusic 切换音乐
func TestControllerToggleMusic(t *testing.T) {
	music := newFakeMusic()
	c := NewExperienceController(music, 0)
	c.Start()
	c.Update(frame)

	c.ToggleMusic()
	if !c.Session().MusicMuted {
		t.Error("toggle while playing should mute immediately")
	}
	c.Update(frame)
	if !c.Session().MusicMuted {
		t.Error("pause event should keep MusicMuted")
	}

	c.ToggleMusic()
	c.Update(frame)
	if c.Session().MusicMuted {
		t.Error("toggle while paused should resume")
	}
	if music.plays != 2 {
		t.Errorf("PlayMusic calls: got %d, want 2", music.plays)
	}
}

// TestControllerToggleWhileFailed 失败状态下切换并成功播放，两个标志都被清除
func TestControllerToggleWhileFailed(t *testing.T) {
	music := newFakeMusic()
	music.failNext = true
	c := NewExperienceController(music, 0)
	c.Start()
	c.Update(frame)

	// 先让 MusicMuted 为 true
	c.session.MusicMuted = true

	music.failNext = false
	c.ToggleMusic()
	c.Update(frame)

	s := c.Session()
	if s.AudioFailed || s.MusicMuted {
		t.Errorf("toggle success should clear both flags: %+v", s)
	}
}

// TestControllerExternalPause 播放器自行暂停也会反映到会话
func TestControllerExternalPause(t *testing.T) {
	music := newFakeMusic()
	c := NewExperienceController(music, 0)
	c.Start()
	c.Update(frame)

	music.autoPause = true
	c.Update(frame)
	if !c.Session().MusicMuted {
		t.Error("external pause should set MusicMuted")
	}
}

// TestControllerAutoCard 自动开卡只触发一次
func TestControllerAutoCard(t *testing.T) {
	tests := []struct {
		name        string
		elapsed     float64
		wantVisible bool
	}{
		{name: "9.9 秒未打开", elapsed: 9.9, wantVisible: false},
		{name: "10 秒打开", elapsed: 10, wantVisible: true},
		{name: "30 秒仍为打开", elapsed: 30, wantVisible: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewExperienceController(newFakeMusic(), 10)
			c.Start()
			steps := int(tt.elapsed * 60)
			for i := 0; i < steps; i++ {
				c.Update(frame)
			}
			if got := c.Session().CardVisible; got != tt.wantVisible {
				t.Errorf("CardVisible after %v s: got %v, want %v", tt.elapsed, got, tt.wantVisible)
			}
		})
	}
}

// TestControllerAutoCardFiresOnce 用户关闭后不会被再次自动打开
func TestControllerAutoCardFiresOnce(t *testing.T) {
	c := NewExperienceController(newFakeMusic(), 10)
	c.Start()
	c.Update(10)
	if !c.Session().CardVisible {
		t.Fatal("card should open at 10 s")
	}

	c.CloseCard()
	for i := 0; i < 3; i++ {
		c.Update(10)
	}
	if c.Session().CardVisible {
		t.Error("auto timer fired twice")
	}
	if c.AutoCardRemaining() != 0 {
		t.Error("auto timer should be disarmed after firing")
	}
}

// TestControllerManualOpenKeepsAutoCard 手动打开再关闭不影响自动计时，10 秒时仍会打开
func TestControllerManualOpenKeepsAutoCard(t *testing.T) {
	c := NewExperienceController(newFakeMusic(), 10)
	c.Start()
	c.Update(2)

	c.OpenCard()
	c.OpenCard() // 已打开时无效
	if !c.Session().CardVisible {
		t.Fatal("OpenCard should show the card")
	}
	if got := c.AutoCardRemaining(); got != 8 {
		t.Errorf("auto timer remaining after manual open = %v, want 8", got)
	}

	c.Update(3)
	c.CloseCard()
	if c.Session().CardVisible {
		t.Fatal("CloseCard should hide the card")
	}

	c.Update(4.9)
	if c.Session().CardVisible {
		t.Fatal("card re-opened before 10 s")
	}
	c.Update(0.1)
	if !c.Session().CardVisible {
		t.Fatal("auto timer should open the card at 10 s")
	}

	// 计时只触发一次，之后手动开关照常
	c.CloseCard()
	c.Update(20)
	if c.Session().CardVisible {
		t.Error("auto timer fired twice")
	}
	c.OpenCard()
	if !c.Session().CardVisible {
		t.Error("manual open after close should work")
	}
}

// TestControllerAutoCardWhileOpen 计时到点时贺卡已打开：保持打开，计时结束
func TestControllerAutoCardWhileOpen(t *testing.T) {
	c := NewExperienceController(newFakeMusic(), 10)
	c.Start()
	c.Update(2)
	c.OpenCard()

	c.Update(8)
	if !c.Session().CardVisible {
		t.Error("card should stay open")
	}
	if c.AutoCardRemaining() != 0 {
		t.Error("auto timer should be spent at 10 s")
	}

	c.CloseCard()
	c.Update(20)
	if c.Session().CardVisible {
		t.Error("spent auto timer re-opened the card")
	}
}

// TestControllerNilMusic 没有音乐服务时播放视为失败，其他功能正常
func TestControllerNilMusic(t *testing.T) {
	c := NewExperienceController(nil, 1)
	c.Start()
	if !c.Session().AudioFailed {
		t.Error("nil music service should mark audio as failed")
	}
	c.Update(1)
	if !c.Session().CardVisible {
		t.Error("card should still open automatically")
	}
	c.RetryAudio()
	c.ToggleMusic()
	c.Dispose()
}

// TestControllerDispose 释放后关闭音乐、停止计时
func TestControllerDispose(t *testing.T) {
	music := newFakeMusic()
	c := NewExperienceController(music, 10)
	c.Start()

	c.Dispose()
	c.Dispose()
	if !music.closed {
		t.Error("Dispose should close the music service")
	}

	updates := music.updates
	c.Update(20)
	if c.Session().CardVisible {
		t.Error("auto timer fired after Dispose")
	}
	if music.updates != updates {
		t.Error("music updated after Dispose")
	}
}
