package game

import (
	"context"
	"errors"
	"log"
)

// AudioEventType 音频事件类型
type AudioEventType int

const (
	// AudioEventPlay 音乐开始播放
	AudioEventPlay AudioEventType = iota
	// AudioEventPause 音乐暂停（主动暂停或播放器自行停止）
	AudioEventPause
	// AudioEventError 加载或播放失败
	AudioEventError
)

// String 返回事件类型名称（用于日志）
func (t AudioEventType) String() string {
	switch t {
	case AudioEventPlay:
		return "play"
	case AudioEventPause:
		return "pause"
	case AudioEventError:
		return "error"
	default:
		return "unknown"
	}
}

// AudioEvent 一次音频状态变化
type AudioEvent struct {
	Type AudioEventType
	Err  error // 仅 AudioEventError 时非 nil
}

// ErrNoMusicSource 没有配置音乐来源
var ErrNoMusicSource = errors.New("no music source configured")

// MusicPlayer 背景音乐播放器
// *audio.Player 满足该接口；测试中使用假实现
type MusicPlayer interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(volume float64)
	Close() error
}

// MusicLoader 加载音乐来源并返回播放器（阻塞调用，在加载协程中执行）
type MusicLoader interface {
	LoadMusic(ctx context.Context, source string) (MusicPlayer, error)
}

// loadResult 加载协程的结果
type loadResult struct {
	attempt int
	player  MusicPlayer
	err     error
}

// AudioManager 背景音乐管理器
// 职责：
//   - 在后台协程中下载并解码音乐，结果在游戏线程的 Update 中生效
//   - 维护"期望播放"状态（等价于播放器的 paused 标志）
//   - 把播放、暂停、失败转换为 AudioEvent，供控制器镜像到会话状态
//   - 音量从 SettingsManager 读取
//
// 并发模型：
//   - 除加载协程外，所有方法只在游戏线程调用
//   - 每次加载带有 attempt 编号，过期结果直接丢弃（其播放器被关闭）
//   - 加载过程中请求的暂停优先：加载完成后播放器保持暂停
type AudioManager struct {
	loader          MusicLoader
	settingsManager *SettingsManager // 可为 nil
	source          string
	volume          float64

	ctx    context.Context
	cancel context.CancelFunc

	results chan loadResult
	attempt int  // 当前有效的加载编号
	loading bool // 是否有当前编号的加载在进行

	player      MusicPlayer
	wantPlaying bool // 用户最后一次的意图（false 等价于 paused）
	wasPlaying  bool // 上一帧播放器是否在播放（用于发现播放器自行停止）

	events []AudioEvent
	closed bool
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - loader: 音乐加载器（通常是 *ResourceManager）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
//   - source: 音乐来源（URL、嵌入路径或文件路径）
//   - volume: sm 为 nil 时使用的音量
//
// 返回：
//   - *AudioManager: 音频管理器实例（尚未开始加载）
func NewAudioManager(loader MusicLoader, sm *SettingsManager, source string, volume float64) *AudioManager {
	ctx, cancel := context.WithCancel(context.Background())
	am := &AudioManager{
		loader:          loader,
		settingsManager: sm,
		source:          source,
		volume:          clampVolume(volume),
		ctx:             ctx,
		cancel:          cancel,
		results:         make(chan loadResult, 4),
	}
	if sm != nil {
		am.volume = sm.GetSettings().MusicVolume
	}
	return am
}

// PlayMusic 请求播放背景音乐
// 播放器已就绪时立即播放；否则开始（或等待正在进行的）加载，加载完成后播放
func (am *AudioManager) PlayMusic() {
	if am.closed {
		return
	}
	am.wantPlaying = true

	if am.player != nil {
		am.player.SetVolume(am.volume)
		am.player.Play()
		am.wasPlaying = am.player.IsPlaying()
		am.emit(AudioEvent{Type: AudioEventPlay})
		log.Printf("[AudioManager] Playing music (volume: %.2f)", am.volume)
		return
	}

	if am.loading {
		// 正在加载，完成后会按 wantPlaying 播放
		return
	}
	am.startLoad()
}

// ReloadMusic 丢弃当前播放器并重新加载
// 用于加载失败后的重试；正在进行的加载会被视为过期
func (am *AudioManager) ReloadMusic() {
	if am.closed {
		return
	}
	am.releasePlayer()
	am.wantPlaying = true
	am.startLoad()
}

// PauseMusic 暂停背景音乐
// 加载过程中调用时，加载完成后播放器保持暂停
func (am *AudioManager) PauseMusic() {
	if am.closed {
		return
	}
	am.wantPlaying = false
	if am.player != nil {
		am.player.Pause()
	}
	am.wasPlaying = false
	am.emit(AudioEvent{Type: AudioEventPause})
	log.Printf("[AudioManager] Music paused")
}

// Paused 是否处于暂停状态（没有播放意图）
func (am *AudioManager) Paused() bool {
	return !am.wantPlaying
}

// IsPlaying 播放器是否正在发声
func (am *AudioManager) IsPlaying() bool {
	return am.player != nil && am.player.IsPlaying()
}

// IsLoading 是否有加载在进行
func (am *AudioManager) IsLoading() bool {
	return am.loading
}

// Volume 当前音量
func (am *AudioManager) Volume() float64 {
	return am.volume
}

// SetVolume 设置音量并写入设置（持久化由调用方决定）
func (am *AudioManager) SetVolume(volume float64) {
	am.volume = clampVolume(volume)
	if am.player != nil {
		am.player.SetVolume(am.volume)
	}
	if am.settingsManager != nil {
		am.settingsManager.SetMusicVolume(am.volume)
	}
}

// startLoad 以新的编号启动加载协程
func (am *AudioManager) startLoad() {
	am.attempt++
	attempt := am.attempt

	if am.loader == nil || am.source == "" {
		am.loading = false
		am.fail(ErrNoMusicSource)
		return
	}

	am.loading = true
	log.Printf("[AudioManager] Loading music (attempt %d): %s", attempt, am.source)

	ctx := am.ctx
	loader := am.loader
	source := am.source
	results := am.results
	go func() {
		player, err := loader.LoadMusic(ctx, source)
		select {
		case results <- loadResult{attempt: attempt, player: player, err: err}:
		case <-ctx.Done():
			if player != nil {
				_ = player.Close()
			}
		}
	}()
}

// Update 在游戏线程应用加载结果并检测播放器状态变化
// 每帧调用一次
func (am *AudioManager) Update() {
	if am.closed {
		return
	}

	for drained := false; !drained; {
		select {
		case r := <-am.results:
			am.applyResult(r)
		default:
			drained = true
		}
	}

	// 播放器自行停止（例如设备被拔出）也要通知控制器
	if am.player != nil && am.wantPlaying && am.wasPlaying && !am.player.IsPlaying() {
		am.wantPlaying = false
		am.emit(AudioEvent{Type: AudioEventPause})
		log.Printf("[AudioManager] Music stopped by the player")
	}
	am.wasPlaying = am.player != nil && am.player.IsPlaying()
}

// applyResult 处理一次加载结果
func (am *AudioManager) applyResult(r loadResult) {
	if r.attempt != am.attempt {
		log.Printf("[AudioManager] Discarding stale load result (attempt %d, current %d)", r.attempt, am.attempt)
		if r.player != nil {
			_ = r.player.Close()
		}
		return
	}

	am.loading = false
	if r.err != nil {
		am.fail(r.err)
		return
	}
	if r.player == nil {
		am.fail(errors.New("music loader returned no player"))
		return
	}

	am.player = r.player
	am.player.SetVolume(am.volume)
	if !am.wantPlaying {
		log.Printf("[AudioManager] Music loaded, staying paused")
		return
	}
	am.player.Play()
	am.wasPlaying = am.player.IsPlaying()
	am.emit(AudioEvent{Type: AudioEventPlay})
	log.Printf("[AudioManager] Music loaded and playing (volume: %.2f)", am.volume)
}

// fail 记录失败：播放意图被撤销（与浏览器 play() 被拒绝后保持 paused 一致）
func (am *AudioManager) fail(err error) {
	am.wantPlaying = false
	am.emit(AudioEvent{Type: AudioEventError, Err: err})
	log.Printf("[AudioManager] Warning: Music unavailable: %v", err)
}

// emit 追加一个待取走的事件
func (am *AudioManager) emit(ev AudioEvent) {
	am.events = append(am.events, ev)
}

// DrainEvents 取走并清空待处理事件
func (am *AudioManager) DrainEvents() []AudioEvent {
	if len(am.events) == 0 {
		return nil
	}
	events := am.events
	am.events = nil
	return events
}

// releasePlayer 关闭当前播放器
func (am *AudioManager) releasePlayer() {
	if am.player == nil {
		return
	}
	am.player.Pause()
	if err := am.player.Close(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to close player: %v", err)
	}
	am.player = nil
	am.wasPlaying = false
}

// Close 取消进行中的加载并释放播放器
// 之后的所有调用都是空操作
func (am *AudioManager) Close() {
	if am.closed {
		return
	}
	am.closed = true
	am.attempt++
	am.loading = false
	am.wantPlaying = false
	am.cancel()
	am.releasePlayer()
	am.events = nil

	// 已送达但未处理的结果
	for drained := false; !drained; {
		select {
		case r := <-am.results:
			if r.player != nil {
				_ = r.player.Close()
			}
		default:
			drained = true
		}
	}
	log.Printf("[AudioManager] Closed")
}
