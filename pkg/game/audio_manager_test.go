package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakePlayer 记录调用的播放器（Close 可能在加载协程中调用，需要加锁）
type fakePlayer struct {
	mu      sync.Mutex
	playing bool
	closed  bool
	volume  float64
	plays   int
}

func (p *fakePlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
	p.plays++
}

func (p *fakePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

func (p *fakePlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *fakePlayer) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.playing = false
	return nil
}

func (p *fakePlayer) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// fakeLoader 第 n 次调用可以被 gate 阻塞，或返回预设错误
type fakeLoader struct {
	mu      sync.Mutex
	calls   int
	gates   map[int]chan struct{}
	errs    map[int]error
	players map[int]*fakePlayer
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		gates:   make(map[int]chan struct{}),
		errs:    make(map[int]error),
		players: make(map[int]*fakePlayer),
	}
}

// hold 让第 n 次加载阻塞，返回放行函数
func (l *fakeLoader) hold(n int) func() {
	gate := make(chan struct{})
	l.mu.Lock()
	l.gates[n] = gate
	l.mu.Unlock()
	return func() { close(gate) }
}

func (l *fakeLoader) failOn(n int, err error) {
	l.mu.Lock()
	l.errs[n] = err
	l.mu.Unlock()
}

func (l *fakeLoader) player(n int) *fakePlayer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.players[n]
}

func (l *fakeLoader) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *fakeLoader) LoadMusic(ctx context.Context, source string) (MusicPlayer, error) {
	l.mu.Lock()
	l.calls++
	n := l.calls
	gate := l.gates[n]
	err := l.errs[n]
	p := &fakePlayer{}
	l.players[n] = p
	l.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// pumpUntil 反复调用 Update 直到条件满足，收集期间的事件
func pumpUntil(t *testing.T, am *AudioManager, cond func() bool) []AudioEvent {
	t.Helper()
	var events []AudioEvent
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		am.Update()
		events = append(events, am.DrainEvents()...)
		if cond() {
			return events
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
	return nil
}

// waitCalls 等待加载器被调用 n 次，保证调用编号与加载顺序一致
func waitCalls(t *testing.T, l *fakeLoader, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for l.callCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("loader called %d times, want %d", l.callCount(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func eventTypes(events []AudioEvent) []AudioEventType {
	types := make([]AudioEventType, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}

// TestAudioManagerPlaySuccess 加载成功后开始播放
func TestAudioManagerPlaySuccess(t *testing.T) {
	loader := newFakeLoader()
	am := NewAudioManager(loader, nil, "music.mp3", 0.5)
	defer am.Close()

	if !am.Paused() {
		t.Error("new manager should be paused")
	}
	am.PlayMusic()
	if am.Paused() {
		t.Error("Paused should be false right after PlayMusic")
	}
	if !am.IsLoading() {
		t.Error("IsLoading should be true while the load is in flight")
	}

	events := pumpUntil(t, am, am.IsPlaying)
	if got := eventTypes(events); len(got) != 1 || got[0] != AudioEventPlay {
		t.Errorf("events: got %v, want [play]", got)
	}
	if am.IsLoading() {
		t.Error("IsLoading should be false after the load completed")
	}
	if v := loader.player(1).volume; v != 0.5 {
		t.Errorf("player volume: got %v, want 0.5", v)
	}
}

// TestAudioManagerLoadFailure 加载失败产生 Error 事件并回到暂停
func TestAudioManagerLoadFailure(t *testing.T) {
	loader := newFakeLoader()
	loader.failOn(1, errors.New("404"))
	am := NewAudioManager(loader, nil, "music.mp3", 0.5)
	defer am.Close()

	am.PlayMusic()
	events := pumpUntil(t, am, func() bool { return !am.IsLoading() })
	if got := eventTypes(events); len(got) != 1 || got[0] != AudioEventError {
		t.Fatalf("events: got %v, want [error]", got)
	}
	if events[0].Err == nil {
		t.Error("error event should carry the error")
	}
	if !am.Paused() {
		t.Error("a failed attempt should leave the manager paused")
	}
}

// TestAudioManagerNoSource 没有来源时立即失败，不启动协程
func TestAudioManagerNoSource(t *testing.T) {
	loader := newFakeLoader()
	am := NewAudioManager(loader, nil, "", 0.5)
	defer am.Close()

	am.PlayMusic()
	events := am.DrainEvents()
	if len(events) != 1 || !errors.Is(events[0].Err, ErrNoMusicSource) {
		t.Errorf("events: got %+v, want ErrNoMusicSource", events)
	}
	if loader.callCount() != 0 {
		t.Error("loader should not be called without a source")
	}
}

// TestAudioManagerPauseDuringLoad 加载过程中的暂停优先
func TestAudioManagerPauseDuringLoad(t *testing.T) {
	loader := newFakeLoader()
	release := loader.hold(1)
	am := NewAudioManager(loader, nil, "music.mp3", 0.5)
	defer am.Close()

	am.PlayMusic()
	am.PauseMusic()
	release()

	events := pumpUntil(t, am, func() bool { return !am.IsLoading() })
	for _, ev := range events {
		if ev.Type == AudioEventPlay {
			t.Error("a load finishing after a pause must not emit play")
		}
	}
	if am.IsPlaying() {
		t.Error("player should stay paused")
	}
	if loader.player(1).isClosed() {
		t.Error("the loaded player should be kept for a later resume")
	}

	// 之后恢复播放不需要再次加载
	am.PlayMusic()
	if !am.IsPlaying() {
		t.Error("resume should play the already loaded player")
	}
	if loader.callCount() != 1 {
		t.Errorf("loader calls: got %d, want 1", loader.callCount())
	}
}

// TestAudioManagerStaleResultDiscarded 过期的加载结果被丢弃并关闭
func TestAudioManagerStaleResultDiscarded(t *testing.T) {
	loader := newFakeLoader()
	releaseFirst := loader.hold(1)
	releaseSecond := loader.hold(2)
	am := NewAudioManager(loader, nil, "music.mp3", 0.5)
	defer am.Close()

	am.PlayMusic()
	waitCalls(t, loader, 1)
	am.ReloadMusic()
	waitCalls(t, loader, 2)

	releaseFirst()
	events := pumpUntil(t, am, func() bool { return loader.player(1).isClosed() })
	if len(events) != 0 {
		t.Errorf("stale result produced events: %v", eventTypes(events))
	}
	if !am.IsLoading() {
		t.Error("the current load should still be in flight")
	}

	releaseSecond()
	pumpUntil(t, am, am.IsPlaying)
	if loader.player(2).isClosed() {
		t.Error("current player should not be closed")
	}
}

// TestAudioManagerPlayWhileLoadingDoesNotReload 加载中再次播放不会重复加载
func TestAudioManagerPlayWhileLoadingDoesNotReload(t *testing.T) {
	loader := newFakeLoader()
	release := loader.hold(1)
	am := NewAudioManager(loader, nil, "music.mp3", 0.5)
	defer am.Close()

	am.PlayMusic()
	am.PlayMusic()
	release()
	pumpUntil(t, am, am.IsPlaying)

	if loader.callCount() != 1 {
		t.Errorf("loader calls: got %d, want 1", loader.callCount())
	}
}

// TestAudioManagerPlayerStopsOnItsOwn 播放器自行停止时产生 Pause 事件
func TestAudioManagerPlayerStopsOnItsOwn(t *testing.T) {
	loader := newFakeLoader()
	am := NewAudioManager(loader, nil, "music.mp3", 0.5)
	defer am.Close()

	am.PlayMusic()
	pumpUntil(t, am, am.IsPlaying)
	am.Update()
	am.DrainEvents()

	loader.player(1).Pause()
	am.Update()
	events := am.DrainEvents()
	if got := eventTypes(events); len(got) != 1 || got[0] != AudioEventPause {
		t.Errorf("events: got %v, want [pause]", got)
	}
	if !am.Paused() {
		t.Error("manager should report paused")
	}
}

// TestAudioManagerVolume 音量来自设置并写回设置
func TestAudioManagerVolume(t *testing.T) {
	sm := NewSettingsManager(nil, &GameSettings{MusicVolume: 0.25})
	loader := newFakeLoader()
	am := NewAudioManager(loader, sm, "music.mp3", 0.9)
	defer am.Close()

	if am.Volume() != 0.25 {
		t.Errorf("Volume: got %v, want settings value 0.25", am.Volume())
	}

	am.PlayMusic()
	pumpUntil(t, am, am.IsPlaying)

	am.SetVolume(1.7)
	if am.Volume() != 1.0 {
		t.Errorf("Volume: got %v, want clamped 1.0", am.Volume())
	}
	if v := loader.player(1).volume; v != 1.0 {
		t.Errorf("player volume: got %v, want 1.0", v)
	}
	if v := sm.GetSettings().MusicVolume; v != 1.0 {
		t.Errorf("settings volume: got %v, want 1.0", v)
	}
}

// TestAudioManagerClose 关闭后取消加载，所有调用为空操作
func TestAudioManagerClose(t *testing.T) {
	loader := newFakeLoader()
	loader.hold(1)
	am := NewAudioManager(loader, nil, "music.mp3", 0.5)

	am.PlayMusic()
	am.Close()
	am.Close()

	am.PlayMusic()
	am.Update()
	if events := am.DrainEvents(); len(events) != 0 {
		t.Errorf("closed manager produced events: %v", eventTypes(events))
	}
	if am.IsLoading() {
		t.Error("closed manager should not be loading")
	}
	if loader.callCount() > 1 {
		t.Error("closed manager started a new load")
	}
}

// TestControllerWithAudioManager 控制器与真实 AudioManager 组合
func TestControllerWithAudioManager(t *testing.T) {
	loader := newFakeLoader()
	loader.failOn(1, errors.New("network down"))
	am := NewAudioManager(loader, nil, "music.mp3", 0.5)
	c := NewExperienceController(am, 10)
	defer c.Dispose()

	c.Start()
	waitSession(t, c, func(s Session) bool { return s.AudioFailed })
	if !c.Session().Started {
		t.Error("Started should be true after a failed load")
	}

	c.RetryAudio()
	waitSession(t, c, func(s Session) bool { return !s.AudioFailed })
	if c.Session().MusicMuted {
		t.Error("music should be playing after a successful retry")
	}

	c.ToggleMusic()
	c.Update(0)
	if !c.Session().MusicMuted || am.IsPlaying() {
		t.Error("toggle should pause the music")
	}
}

func waitSession(t *testing.T, c *ExperienceController, cond func(Session) bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.Update(0)
		if cond(c.Session()) {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("session condition not reached: %+v", c.Session())
}
